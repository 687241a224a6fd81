package evaluator

import (
	"github.com/aurorascript/aurora/pkg/aurora/ast"
	aerrors "github.com/aurorascript/aurora/pkg/aurora/errors"
)

func (i *Interpreter) evalLiteral(n *ast.Literal) Object {
	switch n.Kind {
	case ast.NumberLiteral:
		return &Number{Value: n.Number}
	case ast.StringLiteral:
		return &String{Value: n.Str}
	case ast.BoolLiteral:
		return NativeBool(n.Bool)
	default:
		return NullValue
	}
}

func (i *Interpreter) evalIdentifier(n *ast.Identifier, env *Environment) Object {
	if v, ok := env.Get(n.Name); ok {
		return v
	}
	return i.undefinedVariable(n.Name, env, n.Token.Line, n.Token.Column)
}

// undefinedVariable builds an undefined-variable throw with a "did you mean"
// hint drawn from the names visible in env.
func (i *Interpreter) undefinedVariable(name string, env *Environment, line, column int) Object {
	err := aerrors.NewUndefinedVariable(name, env.Filename, line, column, env.Names())
	rec := NewRecord()
	rec.Set("message", &String{Value: err.Message})
	rec.Set("code", &String{Value: err.Code})
	rec.Set("class", &String{Value: string(err.Class)})
	rec.Set("file", &String{Value: err.File})
	rec.Set("line", &Number{Value: float64(err.Line)})
	rec.Set("column", &Number{Value: float64(err.Column)})
	return &throwSignal{Value: rec}
}

func (i *Interpreter) evalThis(n *ast.This, env *Environment) Object {
	if v, ok := env.Get("this"); ok {
		return v
	}
	return i.undefinedVariable("this", env, n.Token.Line, n.Token.Column)
}

func (i *Interpreter) evalArray(n *ast.Array, env *Environment) Object {
	elems := make([]Object, 0, len(n.Elements))
	for _, e := range n.Elements {
		v := i.Eval(e, env)
		if isSignal(v) {
			return v
		}
		elems = append(elems, v)
	}
	return &Array{Elements: elems}
}

func (i *Interpreter) evalObject(n *ast.Object, env *Environment) Object {
	rec := NewRecord()
	for _, p := range n.Props {
		v := i.Eval(p.Value, env)
		if isSignal(v) {
			return v
		}
		rec.Set(p.Key, v)
	}
	return rec
}

func (i *Interpreter) evalProperty(n *ast.Property, env *Environment) Object {
	obj := i.Eval(n.Object, env)
	if isSignal(obj) {
		return obj
	}
	return i.getProperty(obj, n.Name, env.Filename, n.Token.Line, n.Token.Column)
}

func (i *Interpreter) getProperty(obj Object, name string, file string, line, column int) Object {
	switch v := obj.(type) {
	case *Record:
		if val, ok := v.Get(name); ok {
			return val
		}
		return NullValue
	case *Instance:
		if val, ok := v.Get(name); ok {
			return val
		}
		return NullValue
	case *Array:
		if name == "length" {
			return &Number{Value: float64(len(v.Elements))}
		}
		return NullValue
	case *String:
		if name == "length" {
			return &Number{Value: float64(len([]rune(v.Value)))}
		}
		return NullValue
	case *HostObject:
		if name == "kind" {
			return &String{Value: v.Kind}
		}
		if inner, ok := v.Value.(Object); ok {
			return i.getProperty(inner, name, file, line, column)
		}
		return NullValue
	default:
		return i.throwRuntime("RUNTIME-NOT-INDEXABLE", file, line, column,
			map[string]any{"Type": string(obj.Type())})
	}
}

func (i *Interpreter) evalIndex(n *ast.Index, env *Environment) Object {
	obj := i.Eval(n.Object, env)
	if isSignal(obj) {
		return obj
	}
	idx := i.Eval(n.Index, env)
	if isSignal(idx) {
		return idx
	}
	return i.indexGet(obj, idx, env.Filename, n.Token.Line, n.Token.Column)
}

func (i *Interpreter) indexGet(obj, idx Object, file string, line, column int) Object {
	switch v := obj.(type) {
	case *Array:
		num, ok := idx.(*Number)
		if !ok {
			return i.throwRuntime("RUNTIME-NOT-INDEXABLE", file, line, column,
				map[string]any{"Type": string(obj.Type())})
		}
		at := int(num.Value)
		if at < 0 || at >= len(v.Elements) {
			return NullValue
		}
		return v.Elements[at]
	case *Record:
		key := indexKey(idx)
		if val, ok := v.Get(key); ok {
			return val
		}
		return NullValue
	case *Instance:
		key := indexKey(idx)
		if val, ok := v.Get(key); ok {
			return val
		}
		return NullValue
	case *String:
		num, ok := idx.(*Number)
		if !ok {
			return i.throwRuntime("RUNTIME-NOT-INDEXABLE", file, line, column,
				map[string]any{"Type": string(obj.Type())})
		}
		runes := []rune(v.Value)
		at := int(num.Value)
		if at < 0 || at >= len(runes) {
			return NullValue
		}
		return &String{Value: string(runes[at])}
	case *HostObject:
		if inner, ok := v.Value.(Object); ok {
			return i.indexGet(inner, idx, file, line, column)
		}
		return NullValue
	default:
		return i.throwRuntime("RUNTIME-NOT-INDEXABLE", file, line, column,
			map[string]any{"Type": string(obj.Type())})
	}
}

func indexKey(idx Object) string {
	if s, ok := idx.(*String); ok {
		return s.Value
	}
	return idx.Inspect()
}

func (i *Interpreter) evalAssign(n *ast.Assign, env *Environment) Object {
	val := i.Eval(n.Value, env)
	if isSignal(val) {
		return val
	}
	switch target := n.Target.(type) {
	case *ast.Identifier:
		ok, wasConst := env.Assign(target.Name, val)
		if wasConst {
			return i.throwRuntime("RUNTIME-CONST-REASSIGNMENT", env.Filename, n.Token.Line, n.Token.Column,
				map[string]any{"Name": target.Name})
		}
		if !ok {
			return i.undefinedVariable(target.Name, env, target.Token.Line, target.Token.Column)
		}
		return val
	case *ast.Property:
		obj := i.Eval(target.Object, env)
		if isSignal(obj) {
			return obj
		}
		if thrown := i.setProperty(obj, target.Name, val, env.Filename, n.Token.Line, n.Token.Column); thrown != nil {
			return thrown
		}
		return val
	case *ast.Index:
		obj := i.Eval(target.Object, env)
		if isSignal(obj) {
			return obj
		}
		idx := i.Eval(target.Index, env)
		if isSignal(idx) {
			return idx
		}
		if thrown := i.setIndex(obj, idx, val, env.Filename, n.Token.Line, n.Token.Column); thrown != nil {
			return thrown
		}
		return val
	default:
		return i.throwRuntime("PARSE-INVALID-ASSIGN", env.Filename, n.Token.Line, n.Token.Column, nil)
	}
}

// setProperty and setIndex return nil on success, or a *throwSignal on
// failure — distinct from the rest of Eval's "always an Object" contract
// because the caller (evalAssign) needs the written value, not this one.
func (i *Interpreter) setProperty(obj Object, name string, val Object, file string, line, column int) Object {
	switch v := obj.(type) {
	case *Record:
		v.Set(name, val)
		return nil
	case *Instance:
		v.Set(name, val)
		return nil
	default:
		return i.throwRuntime("RUNTIME-NOT-INDEXABLE", file, line, column, map[string]any{"Type": string(obj.Type())})
	}
}

func (i *Interpreter) setIndex(obj, idx, val Object, file string, line, column int) Object {
	switch v := obj.(type) {
	case *Array:
		num, ok := idx.(*Number)
		if !ok {
			return i.throwRuntime("RUNTIME-NOT-INDEXABLE", file, line, column, map[string]any{"Type": string(obj.Type())})
		}
		at := int(num.Value)
		if at < 0 {
			return i.throwRuntime("RUNTIME-BUILTIN-ARGUMENT", file, line, column,
				map[string]any{"Builtin": "index assignment", "Reason": "negative index"})
		}
		switch {
		case at < len(v.Elements):
			v.Elements[at] = val
		case at == len(v.Elements):
			v.Elements = append(v.Elements, val)
		default:
			for len(v.Elements) < at {
				v.Elements = append(v.Elements, NullValue)
			}
			v.Elements = append(v.Elements, val)
		}
		return nil
	case *Record:
		v.Set(indexKey(idx), val)
		return nil
	case *Instance:
		v.Set(indexKey(idx), val)
		return nil
	default:
		return i.throwRuntime("RUNTIME-NOT-INDEXABLE", file, line, column, map[string]any{"Type": string(obj.Type())})
	}
}

func (i *Interpreter) evalCall(n *ast.Call, env *Environment) Object {
	var this Object
	var callee Object

	if prop, ok := n.Callee.(*ast.Property); ok {
		obj := i.Eval(prop.Object, env)
		if isSignal(obj) {
			return obj
		}
		this = obj
		callee = i.getProperty(obj, prop.Name, env.Filename, prop.Token.Line, prop.Token.Column)
		if isSignal(callee) {
			return callee
		}
	} else {
		callee = i.Eval(n.Callee, env)
		if isSignal(callee) {
			return callee
		}
	}

	args := make([]Object, 0, len(n.Args))
	for _, a := range n.Args {
		v := i.Eval(a, env)
		if isSignal(v) {
			return v
		}
		args = append(args, v)
	}

	return i.call(callee, this, args, env.Filename, n.Token.Line, n.Token.Column)
}

// call invokes callee with the given args and optional bound this (non-nil
// for Property-shaped call sites and for the constructor call evalNew makes).
func (i *Interpreter) call(callee Object, this Object, args []Object, file string, line, column int) Object {
	switch fn := callee.(type) {
	case *Builtin:
		return fn.Fn(i, args)
	case *Function:
		if len(args) != len(fn.Params) {
			return i.throwRuntime("RUNTIME-WRONG-ARITY", file, line, column,
				map[string]any{"Expected": len(fn.Params), "Got": len(args)})
		}
		callEnv := NewEnclosedEnvironment(fn.Env)
		boundThis := fn.This
		if boundThis == nil {
			boundThis = this
		}
		if boundThis != nil {
			callEnv.Define("this", boundThis, true)
		}
		for idx, p := range fn.Params {
			callEnv.Define(p, args[idx], false)
		}
		name := fn.Name
		if name == "" {
			name = "<anonymous>"
		}
		i.pushFrame(name, file, line)
		result := i.Eval(fn.Body, callEnv)
		i.popFrame()
		switch v := result.(type) {
		case *returnSignal:
			return v.Value
		case *breakSignal:
			return i.throwRuntime("RUNTIME-BREAK-OUTSIDE-LOOP", file, line, column, nil)
		case *continueSignal:
			return i.throwRuntime("RUNTIME-CONTINUE-OUTSIDE-LOOP", file, line, column, nil)
		default:
			return result
		}
	default:
		return i.throwRuntime("RUNTIME-NOT-CALLABLE", file, line, column, map[string]any{"Type": string(callee.Type())})
	}
}

func (i *Interpreter) evalNew(n *ast.New, env *Environment) Object {
	calleeVal := i.Eval(n.Callee, env)
	if isSignal(calleeVal) {
		return calleeVal
	}
	class, ok := calleeVal.(*Class)
	if !ok {
		return i.throwRuntime("RUNTIME-NOT-A-CLASS", env.Filename, n.Token.Line, n.Token.Column,
			map[string]any{"Type": string(calleeVal.Type())})
	}
	args := make([]Object, 0, len(n.Args))
	for _, a := range n.Args {
		v := i.Eval(a, env)
		if isSignal(v) {
			return v
		}
		args = append(args, v)
	}

	instance := &Instance{Class: class, Record: NewRecord()}
	for _, name := range class.Order {
		method := class.Methods[name]
		fn := &Function{Name: method.Name, Params: method.Params, Body: method.Body, Env: class.Env, This: instance}
		instance.Set(name, fn)
	}
	if ctor, ok := instance.Get("constructor"); ok {
		result := i.call(ctor, instance, args, env.Filename, n.Token.Line, n.Token.Column)
		if isSignal(result) {
			return result
		}
	}
	return instance
}
