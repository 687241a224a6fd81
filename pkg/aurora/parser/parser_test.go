package parser

import (
	"testing"

	"github.com/aurorascript/aurora/pkg/aurora/ast"
	"github.com/aurorascript/aurora/pkg/aurora/lexer"
)

func parseSource(t *testing.T, src string) (*ast.Program, []error) {
	t.Helper()
	toks, err := lexer.Tokenize(src, "<test>")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	p := New(toks, "<test>")
	return p.ParseProgram()
}

func mustParseExpr(t *testing.T, src string) ast.Expression {
	t.Helper()
	program, errs := parseSource(t, src+";")
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(program.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Body))
	}
	stmt, ok := program.Body[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", program.Body[0])
	}
	return stmt.Expression
}

func TestArithmeticPrecedence(t *testing.T) {
	expr := mustParseExpr(t, "1 + 2 * 3")
	if got, want := expr.String(), "(1 + (2 * 3))"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPowerIsRightAssociative(t *testing.T) {
	expr := mustParseExpr(t, "2 ** 3 ** 2")
	if got, want := expr.String(), "(2 ** (3 ** 2))"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestUnaryBindsTighterThanPower(t *testing.T) {
	expr := mustParseExpr(t, "-2 ** 2")
	if got, want := expr.String(), "((-2) ** 2)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	expr := mustParseExpr(t, "a = b = 1")
	assign, ok := expr.(*ast.Assign)
	if !ok {
		t.Fatalf("expected *ast.Assign, got %T", expr)
	}
	if _, ok := assign.Value.(*ast.Assign); !ok {
		t.Errorf("expected nested assignment on the right, got %T", assign.Value)
	}
}

func TestAssignmentRejectsInvalidTarget(t *testing.T) {
	_, errs := parseSource(t, "1 + 1 = 2;")
	if len(errs) == 0 {
		t.Fatal("expected an error assigning to a non-lvalue")
	}
}

func TestLogicalOperatorsAreDistinctFromBinary(t *testing.T) {
	expr := mustParseExpr(t, "a && b || c")
	logical, ok := expr.(*ast.Logical)
	if !ok {
		t.Fatalf("expected *ast.Logical, got %T", expr)
	}
	if logical.Op != "||" {
		t.Errorf("expected outermost op ||, got %q", logical.Op)
	}
}

func TestNewWithoutArgs(t *testing.T) {
	expr := mustParseExpr(t, "new Foo")
	n, ok := expr.(*ast.New)
	if !ok {
		t.Fatalf("expected *ast.New, got %T", expr)
	}
	if len(n.Args) != 0 {
		t.Errorf("expected no args, got %d", len(n.Args))
	}
}

func TestNewWithArgsAndTrailingCall(t *testing.T) {
	expr := mustParseExpr(t, "new Foo(1, 2).bar()")
	call, ok := expr.(*ast.Call)
	if !ok {
		t.Fatalf("expected trailing *ast.Call, got %T", expr)
	}
	prop, ok := call.Callee.(*ast.Property)
	if !ok {
		t.Fatalf("expected call on a property, got %T", call.Callee)
	}
	if prop.Name != "bar" {
		t.Errorf("expected property bar, got %q", prop.Name)
	}
	n, ok := prop.Object.(*ast.New)
	if !ok {
		t.Fatalf("expected property object to be *ast.New, got %T", prop.Object)
	}
	if len(n.Args) != 2 {
		t.Errorf("expected 2 constructor args, got %d", len(n.Args))
	}
}

func TestNewWithIndexedCalleePath(t *testing.T) {
	expr := mustParseExpr(t, "new mod.Foo()")
	n, ok := expr.(*ast.New)
	if !ok {
		t.Fatalf("expected *ast.New, got %T", expr)
	}
	if _, ok := n.Callee.(*ast.Property); !ok {
		t.Errorf("expected callee path to be a property, got %T", n.Callee)
	}
}

func TestImportPlain(t *testing.T) {
	program, errs := parseSource(t, `import "./util.aur";`)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if _, ok := program.Body[0].(*ast.Import); !ok {
		t.Fatalf("expected *ast.Import, got %T", program.Body[0])
	}
}

func TestImportNamed(t *testing.T) {
	program, errs := parseSource(t, `import util from "./util.aur";`)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	imp, ok := program.Body[0].(*ast.ImportNamed)
	if !ok {
		t.Fatalf("expected *ast.ImportNamed, got %T", program.Body[0])
	}
	if imp.Local != "util" {
		t.Errorf("expected bound name util, got %q", imp.Local)
	}
}

func TestClassDeclaration(t *testing.T) {
	program, errs := parseSource(t, `
class Animal {
  speak() {
    return "...";
  }
}`)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	class, ok := program.Body[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", program.Body[0])
	}
	if len(class.Methods) != 1 || class.Methods[0].Name != "speak" {
		t.Errorf("expected a single speak method, got %+v", class.Methods)
	}
}

func TestTryCatch(t *testing.T) {
	program, errs := parseSource(t, `
try {
  throw "boom";
} catch (e) {
  print(e);
}`)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if _, ok := program.Body[0].(*ast.TryCatch); !ok {
		t.Fatalf("expected *ast.TryCatch, got %T", program.Body[0])
	}
}

func TestUnexpectedTokenReportsFirstErrorOnly(t *testing.T) {
	_, errs := parseSource(t, "let x = ;")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one reported error, got %d: %v", len(errs), errs)
	}
}
