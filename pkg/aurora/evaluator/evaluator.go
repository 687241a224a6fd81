// Package evaluator implements AuroraLang's value model, environment,
// tree-walking evaluator, module cache, and builtin registry.
package evaluator

import (
	"fmt"
	"io"
	"os"

	"github.com/aurorascript/aurora/pkg/aurora/ast"
	aerrors "github.com/aurorascript/aurora/pkg/aurora/errors"
)

// Interpreter holds everything evaluation of a program needs: the root
// environment, the module cache, and the stdout writer `print` and other
// output-producing builtins write to.
type Interpreter struct {
	Root         *Environment
	Stdout       io.Writer
	Logger       Logger
	HostResolver HostModuleResolver
	// ModuleRoot, if set, is the base directory bare (non-relative) require
	// specifiers resolve against as file modules, tried before HostResolver.
	ModuleRoot string
	modules    *moduleCache
	frames     []aerrors.Frame // call stack, innermost last
}

// New creates an interpreter with the builtin registry installed into a
// fresh root environment.
func New(stdout io.Writer, logger Logger) *Interpreter {
	if stdout == nil {
		stdout = os.Stdout
	}
	if logger == nil {
		logger = NullLogger()
	}
	root := NewEnvironment()
	root.Logger = logger
	i := &Interpreter{
		Root:    root,
		Stdout:  stdout,
		Logger:  logger,
		modules: newModuleCache(),
	}
	registerBuiltins(i, root)
	return i
}

// errorRecord builds the AuroraLang record a catch clause observes for a
// runtime error: {message, code, class, file, line, column}.
func (i *Interpreter) errorRecord(code string, file string, line, column int, data map[string]any) Object {
	err := aerrors.NewAt(code, file, line, column, data)
	rec := NewRecord()
	rec.Set("message", &String{Value: err.Message})
	rec.Set("code", &String{Value: err.Code})
	rec.Set("class", &String{Value: string(err.Class)})
	rec.Set("file", &String{Value: err.File})
	rec.Set("line", &Number{Value: float64(err.Line)})
	rec.Set("column", &Number{Value: float64(err.Column)})
	return rec
}

// pushFrame/popFrame track the call stack for back-trace reporting on
// uncaught errors.
func (i *Interpreter) pushFrame(function, file string, line int) {
	i.frames = append(i.frames, aerrors.Frame{Function: function, File: file, Line: line})
}

func (i *Interpreter) popFrame() {
	if len(i.frames) > 0 {
		i.frames = i.frames[:len(i.frames)-1]
	}
}

// Frames returns the current back-trace, innermost first.
func (i *Interpreter) Frames() []aerrors.Frame {
	out := make([]aerrors.Frame, len(i.frames))
	for idx := range i.frames {
		out[idx] = i.frames[len(i.frames)-1-idx]
	}
	return out
}

// Run evaluates a top-level program (the body of a file or a REPL chunk) in
// env, which must be env-chain-rooted at i.Root.
func (i *Interpreter) Run(program *ast.Program, env *Environment) Object {
	var result Object = NullValue
	for _, stmt := range program.Body {
		result = i.Eval(stmt, env)
		if isSignal(result) {
			break
		}
	}
	// return/break/continue escaping to program top level are misuse, per
	// spec section 8's boundary behaviours; a throw propagates untouched so
	// require()/try-catch callers can still observe it.
	switch result.(type) {
	case *returnSignal, *breakSignal, *continueSignal:
		return i.topLevelGuard(result, env.Filename)
	default:
		return result
	}
}

// Eval dispatches on the concrete AST node type. Every node produces a
// value; statements evaluate to the value of their last sub-expression
// where that is meaningful, null otherwise.
func (i *Interpreter) Eval(node ast.Node, env *Environment) Object {
	switch n := node.(type) {

	// Statements
	case *ast.Program:
		return i.Run(n, env)
	case *ast.BlockStatement:
		return i.evalBlock(n, env)
	case *ast.VarDecl:
		return i.evalVarDecl(n, env)
	case *ast.FunctionDecl:
		return i.evalFunctionDecl(n, env)
	case *ast.ClassDecl:
		return i.evalClassDecl(n, env)
	case *ast.Import:
		return i.evalImport(n, env)
	case *ast.ImportNamed:
		return i.evalImportNamed(n, env)
	case *ast.If:
		return i.evalIf(n, env)
	case *ast.While:
		return i.evalWhile(n, env)
	case *ast.For:
		return i.evalFor(n, env)
	case *ast.Return:
		return i.evalReturn(n, env)
	case *ast.Break:
		return &breakSignal{}
	case *ast.Continue:
		return &continueSignal{}
	case *ast.TryCatch:
		return i.evalTryCatch(n, env)
	case *ast.Throw:
		return i.evalThrow(n, env)
	case *ast.ExprStmt:
		if n.Expression == nil {
			return NullValue
		}
		return i.Eval(n.Expression, env)

	// Expressions
	case *ast.Assign:
		return i.evalAssign(n, env)
	case *ast.Logical:
		return i.evalLogical(n, env)
	case *ast.Binary:
		return i.evalBinary(n, env)
	case *ast.Unary:
		return i.evalUnary(n, env)
	case *ast.Literal:
		return i.evalLiteral(n)
	case *ast.Identifier:
		return i.evalIdentifier(n, env)
	case *ast.This:
		return i.evalThis(n, env)
	case *ast.Array:
		return i.evalArray(n, env)
	case *ast.Object:
		return i.evalObject(n, env)
	case *ast.Property:
		return i.evalProperty(n, env)
	case *ast.Index:
		return i.evalIndex(n, env)
	case *ast.Call:
		return i.evalCall(n, env)
	case *ast.New:
		return i.evalNew(n, env)
	case *ast.FunctionExpr:
		return &Function{Name: n.Name, Params: n.Params, Body: n.Body, Env: env}

	default:
		return i.throwMessage(string(aerrors.ClassRuntime), fmt.Sprintf("unhandled node %T", node), env.Filename, 0, 0)
	}
}
