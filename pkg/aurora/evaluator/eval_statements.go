package evaluator

import (
	"github.com/aurorascript/aurora/pkg/aurora/ast"
)

func (i *Interpreter) evalBlock(block *ast.BlockStatement, env *Environment) Object {
	child := NewEnclosedEnvironment(env)
	var result Object = NullValue
	for _, stmt := range block.Body {
		result = i.Eval(stmt, child)
		if isSignal(result) {
			return result
		}
	}
	return result
}

func (i *Interpreter) evalVarDecl(decl *ast.VarDecl, env *Environment) Object {
	var val Object = NullValue
	if decl.Init != nil {
		val = i.Eval(decl.Init, env)
		if isSignal(val) {
			return val
		}
	}
	if !env.Define(decl.Name, val, decl.Const) {
		return i.throwRuntime("RUNTIME-ALREADY-DEFINED", env.Filename, decl.Token.Line, decl.Token.Column,
			map[string]any{"Name": decl.Name})
	}
	return NullValue
}

func (i *Interpreter) evalFunctionDecl(decl *ast.FunctionDecl, env *Environment) Object {
	fn := &Function{Name: decl.Name, Params: decl.Params, Body: decl.Body, Env: env}
	if !env.Define(decl.Name, fn, true) {
		return i.throwRuntime("RUNTIME-ALREADY-DEFINED", env.Filename, decl.Token.Line, decl.Token.Column,
			map[string]any{"Name": decl.Name})
	}
	return NullValue
}

func (i *Interpreter) evalClassDecl(decl *ast.ClassDecl, env *Environment) Object {
	methods := make(map[string]*ast.MethodDef, len(decl.Methods))
	order := make([]string, 0, len(decl.Methods))
	for _, m := range decl.Methods {
		methods[m.Name] = m
		order = append(order, m.Name)
	}
	class := &Class{Name: decl.Name, Methods: methods, Order: order, Env: env}
	if !env.Define(decl.Name, class, true) {
		return i.throwRuntime("RUNTIME-ALREADY-DEFINED", env.Filename, decl.Token.Line, decl.Token.Column,
			map[string]any{"Name": decl.Name})
	}
	return NullValue
}

func (i *Interpreter) evalIf(n *ast.If, env *Environment) Object {
	test := i.Eval(n.Test, env)
	if isSignal(test) {
		return test
	}
	if IsTruthy(test) {
		return i.Eval(n.Consequent, env)
	}
	if n.Alternate != nil {
		return i.Eval(n.Alternate, env)
	}
	return NullValue
}

func (i *Interpreter) evalWhile(n *ast.While, env *Environment) Object {
	var result Object = NullValue
	for {
		test := i.Eval(n.Test, env)
		if isSignal(test) {
			return test
		}
		if !IsTruthy(test) {
			return result
		}
		body := i.Eval(n.Body, env)
		switch body.(type) {
		case *breakSignal:
			return result
		case *continueSignal:
			continue
		}
		if isSignal(body) {
			return body
		}
		result = body
	}
}

func (i *Interpreter) evalFor(n *ast.For, env *Environment) Object {
	loopEnv := NewEnclosedEnvironment(env)
	if n.Init != nil {
		init := i.Eval(n.Init, loopEnv)
		if isSignal(init) {
			return init
		}
	}
	var result Object = NullValue
	for {
		if n.Test != nil {
			test := i.Eval(n.Test, loopEnv)
			if isSignal(test) {
				return test
			}
			if !IsTruthy(test) {
				return result
			}
		}
		body := i.Eval(n.Body, loopEnv)
		switch body.(type) {
		case *breakSignal:
			return result
		case *continueSignal:
			// fall through to update
		default:
			if isSignal(body) {
				return body
			}
			result = body
		}
		if n.Update != nil {
			upd := i.Eval(n.Update, loopEnv)
			if isSignal(upd) {
				return upd
			}
		}
	}
}

func (i *Interpreter) evalReturn(n *ast.Return, env *Environment) Object {
	var val Object = NullValue
	if n.Argument != nil {
		val = i.Eval(n.Argument, env)
		if isSignal(val) {
			return val
		}
	}
	return &returnSignal{Value: val}
}

func (i *Interpreter) evalTryCatch(n *ast.TryCatch, env *Environment) Object {
	result := i.Eval(n.Block, env)
	thrown, ok := result.(*throwSignal)
	if !ok {
		return result
	}
	if !n.HasCatch {
		return result
	}
	catchEnv := NewEnclosedEnvironment(env)
	if n.CatchParam != "" {
		catchEnv.Define(n.CatchParam, thrown.Value, false)
	}
	return i.Eval(n.CatchBlock, catchEnv)
}

func (i *Interpreter) evalThrow(n *ast.Throw, env *Environment) Object {
	val := i.Eval(n.Argument, env)
	if isSignal(val) {
		return val
	}
	return &throwSignal{Value: val}
}

// topLevelGuard turns stray Return/Break/Continue signals reaching the top
// of a program into runtime errors, per spec section 8's boundary
// behaviours ("return at module top level", "break/continue outside a
// loop"). Call/loop evaluation never lets these escape in well-formed
// control flow; this only fires for misuse.
func (i *Interpreter) topLevelGuard(result Object, file string) Object {
	switch result.(type) {
	case *returnSignal:
		return i.throwRuntime("RUNTIME-RETURN-OUTSIDE-FUNCTION", file, 0, 0, nil)
	case *breakSignal:
		return i.throwRuntime("RUNTIME-BREAK-OUTSIDE-LOOP", file, 0, 0, nil)
	case *continueSignal:
		return i.throwRuntime("RUNTIME-CONTINUE-OUTSIDE-LOOP", file, 0, 0, nil)
	default:
		return result
	}
}
