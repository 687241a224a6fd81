// Package ast defines the AuroraLang abstract syntax tree produced by the
// parser and walked by the evaluator.
package ast

import (
	"bytes"
	"strings"

	"github.com/aurorascript/aurora/pkg/aurora/lexer"
)

// Node is implemented by every AST node.
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement is a declaration or statement node.
type Statement interface {
	Node
	statementNode()
}

// Expression is an expression node.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root of every parsed source file.
type Program struct {
	Body []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Body) > 0 {
		return p.Body[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Body {
		out.WriteString(s.String())
	}
	return out.String()
}

// BlockStatement is a brace-delimited sequence of declarations.
type BlockStatement struct {
	Token lexer.Token // the '{' token
	Body  []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Lexeme }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range bs.Body {
		out.WriteString(s.String())
	}
	out.WriteString(" }")
	return out.String()
}

// VarDecl is a `let` or `const` binding declaration.
type VarDecl struct {
	Token lexer.Token // the LET or CONST token
	Const bool
	Name  string
	Init  Expression // may be nil
}

func (vd *VarDecl) statementNode()       {}
func (vd *VarDecl) TokenLiteral() string { return vd.Token.Lexeme }
func (vd *VarDecl) String() string {
	var out bytes.Buffer
	out.WriteString(vd.Token.Lexeme)
	out.WriteString(" ")
	out.WriteString(vd.Name)
	if vd.Init != nil {
		out.WriteString(" = ")
		out.WriteString(vd.Init.String())
	}
	out.WriteString(";")
	return out.String()
}

// FunctionDecl is a named function declaration, bound as a const in the
// enclosing scope.
type FunctionDecl struct {
	Token  lexer.Token // the 'fun' token
	Name   string
	Params []string
	Body   *BlockStatement
}

func (fd *FunctionDecl) statementNode()       {}
func (fd *FunctionDecl) TokenLiteral() string { return fd.Token.Lexeme }
func (fd *FunctionDecl) String() string {
	var out bytes.Buffer
	out.WriteString("fun ")
	out.WriteString(fd.Name)
	out.WriteString("(")
	out.WriteString(strings.Join(fd.Params, ", "))
	out.WriteString(") ")
	out.WriteString(fd.Body.String())
	return out.String()
}

// FunctionExpr is an anonymous (or expression-position) function literal.
type FunctionExpr struct {
	Token  lexer.Token // the 'fun' token
	Name   string       // optional, for stack traces
	Params []string
	Body   *BlockStatement
}

func (fe *FunctionExpr) expressionNode()      {}
func (fe *FunctionExpr) TokenLiteral() string { return fe.Token.Lexeme }
func (fe *FunctionExpr) String() string {
	var out bytes.Buffer
	out.WriteString("fun ")
	if fe.Name != "" {
		out.WriteString(fe.Name)
	}
	out.WriteString("(")
	out.WriteString(strings.Join(fe.Params, ", "))
	out.WriteString(") ")
	out.WriteString(fe.Body.String())
	return out.String()
}

// MethodDef is one method inside a ClassDecl body.
type MethodDef struct {
	Name   string
	Params []string
	Body   *BlockStatement
}

// ClassDecl declares a class with an ordered list of methods, one of which
// may be named "constructor".
type ClassDecl struct {
	Token   lexer.Token // the 'class' token
	Name    string
	Methods []*MethodDef
}

func (cd *ClassDecl) statementNode()       {}
func (cd *ClassDecl) TokenLiteral() string { return cd.Token.Lexeme }
func (cd *ClassDecl) String() string {
	var out bytes.Buffer
	out.WriteString("class ")
	out.WriteString(cd.Name)
	out.WriteString(" { ")
	for _, m := range cd.Methods {
		out.WriteString(m.Name)
		out.WriteString("(")
		out.WriteString(strings.Join(m.Params, ", "))
		out.WriteString(") ")
		out.WriteString(m.Body.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// Import is the bare `import "path";` form, evaluated for side effects only.
type Import struct {
	Token lexer.Token // the 'import' token
	Path  string
}

func (im *Import) statementNode()       {}
func (im *Import) TokenLiteral() string { return im.Token.Lexeme }
func (im *Import) String() string       { return "import \"" + im.Path + "\";" }

// ImportNamed is `import X from "path";`, binding X as a const.
type ImportNamed struct {
	Token lexer.Token // the 'import' token
	Local string
	Path  string
}

func (im *ImportNamed) statementNode()       {}
func (im *ImportNamed) TokenLiteral() string { return im.Token.Lexeme }
func (im *ImportNamed) String() string {
	return "import " + im.Local + " from \"" + im.Path + "\";"
}

// If is an if/else statement. Consequent and Alternate are statements so
// that both bare and block forms are representable.
type If struct {
	Token       lexer.Token // the 'if' token
	Test        Expression
	Consequent  Statement
	Alternate   Statement // may be nil
}

func (i *If) statementNode()       {}
func (i *If) TokenLiteral() string { return i.Token.Lexeme }
func (i *If) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(i.Test.String())
	out.WriteString(") ")
	out.WriteString(i.Consequent.String())
	if i.Alternate != nil {
		out.WriteString(" else ")
		out.WriteString(i.Alternate.String())
	}
	return out.String()
}

// While is a while loop.
type While struct {
	Token lexer.Token // the 'while' token
	Test  Expression
	Body  Statement
}

func (w *While) statementNode()       {}
func (w *While) TokenLiteral() string { return w.Token.Lexeme }
func (w *While) String() string {
	return "while (" + w.Test.String() + ") " + w.Body.String()
}

// For is a C-style for loop. Init may be a *VarDecl or an expression
// statement; Test and Update may be nil.
type For struct {
	Token  lexer.Token // the 'for' token
	Init   Statement
	Test   Expression
	Update Expression
	Body   Statement
}

func (f *For) statementNode()       {}
func (f *For) TokenLiteral() string { return f.Token.Lexeme }
func (f *For) String() string {
	var out bytes.Buffer
	out.WriteString("for (")
	if f.Init != nil {
		out.WriteString(f.Init.String())
	}
	out.WriteString(";")
	if f.Test != nil {
		out.WriteString(f.Test.String())
	}
	out.WriteString(";")
	if f.Update != nil {
		out.WriteString(f.Update.String())
	}
	out.WriteString(") ")
	out.WriteString(f.Body.String())
	return out.String()
}

// Return returns from the nearest enclosing function frame.
type Return struct {
	Token    lexer.Token // the 'return' token
	Argument Expression  // may be nil
}

func (r *Return) statementNode()       {}
func (r *Return) TokenLiteral() string { return r.Token.Lexeme }
func (r *Return) String() string {
	if r.Argument != nil {
		return "return " + r.Argument.String() + ";"
	}
	return "return;"
}

// Break exits the nearest enclosing loop.
type Break struct {
	Token lexer.Token
}

func (b *Break) statementNode()       {}
func (b *Break) TokenLiteral() string { return b.Token.Lexeme }
func (b *Break) String() string       { return "break;" }

// Continue skips to the next iteration of the nearest enclosing loop.
type Continue struct {
	Token lexer.Token
}

func (c *Continue) statementNode()       {}
func (c *Continue) TokenLiteral() string { return c.Token.Lexeme }
func (c *Continue) String() string       { return "continue;" }

// TryCatch runs Block and, if a Throw signal escapes it, binds the thrown
// value to CatchParam (when non-empty) and runs CatchBlock.
type TryCatch struct {
	Token      lexer.Token // the 'try' token
	Block      *BlockStatement
	CatchParam string // empty if catch has no parameter, e.g. "catch () { ... }"
	HasCatch   bool
	CatchBlock *BlockStatement
}

func (tc *TryCatch) statementNode()       {}
func (tc *TryCatch) TokenLiteral() string { return tc.Token.Lexeme }
func (tc *TryCatch) String() string {
	var out bytes.Buffer
	out.WriteString("try ")
	out.WriteString(tc.Block.String())
	if tc.HasCatch {
		out.WriteString(" catch (")
		out.WriteString(tc.CatchParam)
		out.WriteString(") ")
		out.WriteString(tc.CatchBlock.String())
	}
	return out.String()
}

// Throw raises its expression as a Throw signal.
type Throw struct {
	Token    lexer.Token // the 'throw' token
	Argument Expression
}

func (t *Throw) statementNode()       {}
func (t *Throw) TokenLiteral() string { return t.Token.Lexeme }
func (t *Throw) String() string       { return "throw " + t.Argument.String() + ";" }

// ExprStmt wraps an expression evaluated for its value and/or side effects.
type ExprStmt struct {
	Token      lexer.Token
	Expression Expression
}

func (es *ExprStmt) statementNode()       {}
func (es *ExprStmt) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExprStmt) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

// Assign is `target = value`, where target is an Identifier, Property, or
// Index expression.
type Assign struct {
	Token  lexer.Token // the '=' token
	Target Expression
	Value  Expression
}

func (a *Assign) expressionNode()      {}
func (a *Assign) TokenLiteral() string { return a.Token.Lexeme }
func (a *Assign) String() string {
	return a.Target.String() + " = " + a.Value.String()
}

// Logical is `&&` or `||`, which short-circuit and so are kept distinct
// from Binary.
type Logical struct {
	Token lexer.Token
	Op    string
	Left  Expression
	Right Expression
}

func (l *Logical) expressionNode()      {}
func (l *Logical) TokenLiteral() string { return l.Token.Lexeme }
func (l *Logical) String() string {
	return "(" + l.Left.String() + " " + l.Op + " " + l.Right.String() + ")"
}

// Binary is an arithmetic, comparison, or equality expression.
type Binary struct {
	Token lexer.Token
	Op    string
	Left  Expression
	Right Expression
}

func (b *Binary) expressionNode()      {}
func (b *Binary) TokenLiteral() string { return b.Token.Lexeme }
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op + " " + b.Right.String() + ")"
}

// Unary is `!x` or `-x`.
type Unary struct {
	Token   lexer.Token
	Op      string
	Operand Expression
}

func (u *Unary) expressionNode()      {}
func (u *Unary) TokenLiteral() string { return u.Token.Lexeme }
func (u *Unary) String() string {
	return "(" + u.Op + u.Operand.String() + ")"
}

// LiteralKind distinguishes the scalar kinds a Literal node can carry.
type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	StringLiteral
	BoolLiteral
	NullLiteral
)

// Literal is a scalar literal: number, string, boolean, or null.
type Literal struct {
	Token  lexer.Token
	Kind   LiteralKind
	Number float64
	Str    string
	Bool   bool
}

func (l *Literal) expressionNode()      {}
func (l *Literal) TokenLiteral() string { return l.Token.Lexeme }
func (l *Literal) String() string       { return l.Token.Lexeme }

// Identifier is a bare name reference.
type Identifier struct {
	Token lexer.Token
	Name  string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) String() string       { return i.Name }

// This is the `this` keyword, resolved via environment lookup at eval time.
type This struct {
	Token lexer.Token
}

func (t *This) expressionNode()      {}
func (t *This) TokenLiteral() string { return t.Token.Lexeme }
func (t *This) String() string       { return "this" }

// Array is an array literal.
type Array struct {
	Token    lexer.Token // the '[' token
	Elements []Expression
}

func (a *Array) expressionNode()      {}
func (a *Array) TokenLiteral() string { return a.Token.Lexeme }
func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ObjectProp is one key/value entry of an Object literal, in source order.
type ObjectProp struct {
	Key   string
	Value Expression
}

// Object is a record (`{}`) literal.
type Object struct {
	Token lexer.Token // the '{' token
	Props []ObjectProp
}

func (o *Object) expressionNode()      {}
func (o *Object) TokenLiteral() string { return o.Token.Lexeme }
func (o *Object) String() string {
	parts := make([]string, len(o.Props))
	for i, p := range o.Props {
		parts[i] = p.Key + ": " + p.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Property is `object.name`.
type Property struct {
	Token  lexer.Token // the '.' token
	Object Expression
	Name   string
}

func (p *Property) expressionNode()      {}
func (p *Property) TokenLiteral() string { return p.Token.Lexeme }
func (p *Property) String() string       { return p.Object.String() + "." + p.Name }

// Index is `object[index]`.
type Index struct {
	Token  lexer.Token // the '[' token
	Object Expression
	Index  Expression
}

func (ix *Index) expressionNode()      {}
func (ix *Index) TokenLiteral() string { return ix.Token.Lexeme }
func (ix *Index) String() string {
	return ix.Object.String() + "[" + ix.Index.String() + "]"
}

// Call invokes Callee with Args, evaluated left to right.
type Call struct {
	Token  lexer.Token // the '(' token
	Callee Expression
	Args   []Expression
}

func (c *Call) expressionNode()      {}
func (c *Call) TokenLiteral() string { return c.Token.Lexeme }
func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}

// New is `new Callee(args)`, where Callee is a property/index path that
// typically names a class and Args is the parenthesised argument list after
// it (empty when the parentheses are omitted).
type New struct {
	Token  lexer.Token // the 'new' token
	Callee Expression
	Args   []Expression
}

func (n *New) expressionNode()      {}
func (n *New) TokenLiteral() string { return n.Token.Lexeme }
func (n *New) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return "new " + n.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}
