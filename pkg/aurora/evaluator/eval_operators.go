package evaluator

import (
	"math"

	"github.com/aurorascript/aurora/pkg/aurora/ast"
)

func (i *Interpreter) evalLogical(n *ast.Logical, env *Environment) Object {
	left := i.Eval(n.Left, env)
	if isSignal(left) {
		return left
	}
	switch n.Op {
	case "||":
		if IsTruthy(left) {
			return left
		}
		return i.Eval(n.Right, env)
	case "&&":
		if !IsTruthy(left) {
			return left
		}
		return i.Eval(n.Right, env)
	default:
		return i.throwRuntime("RUNTIME-UNKNOWN-OPERATOR", env.Filename, n.Token.Line, n.Token.Column,
			map[string]any{"Op": n.Op, "Type": string(left.Type())})
	}
}

func (i *Interpreter) evalBinary(n *ast.Binary, env *Environment) Object {
	left := i.Eval(n.Left, env)
	if isSignal(left) {
		return left
	}
	right := i.Eval(n.Right, env)
	if isSignal(right) {
		return right
	}

	if n.Op == "==" {
		return NativeBool(StructuralEqual(left, right))
	}
	if n.Op == "!=" {
		return NativeBool(!StructuralEqual(left, right))
	}

	if n.Op == "+" {
		if ls, ok := left.(*String); ok {
			return &String{Value: ls.Value + displayRepr(right)}
		}
		if rs, ok := right.(*String); ok {
			return &String{Value: displayRepr(left) + rs.Value}
		}
	}

	ln, lok := left.(*Number)
	rn, rok := right.(*Number)
	if !lok || !rok {
		return i.throwRuntime("RUNTIME-TYPE-MISMATCH", env.Filename, n.Token.Line, n.Token.Column,
			map[string]any{"Op": n.Op, "LeftType": string(left.Type()), "RightType": string(right.Type())})
	}

	switch n.Op {
	case "+":
		return &Number{Value: ln.Value + rn.Value}
	case "-":
		return &Number{Value: ln.Value - rn.Value}
	case "*":
		return &Number{Value: ln.Value * rn.Value}
	case "/":
		return &Number{Value: ln.Value / rn.Value}
	case "%":
		return &Number{Value: math.Mod(ln.Value, rn.Value)}
	case "**":
		return &Number{Value: math.Pow(ln.Value, rn.Value)}
	case "<":
		return NativeBool(ln.Value < rn.Value)
	case "<=":
		return NativeBool(ln.Value <= rn.Value)
	case ">":
		return NativeBool(ln.Value > rn.Value)
	case ">=":
		return NativeBool(ln.Value >= rn.Value)
	default:
		return i.throwRuntime("RUNTIME-UNKNOWN-OPERATOR", env.Filename, n.Token.Line, n.Token.Column,
			map[string]any{"Op": n.Op, "Type": string(left.Type())})
	}
}

func (i *Interpreter) evalUnary(n *ast.Unary, env *Environment) Object {
	operand := i.Eval(n.Operand, env)
	if isSignal(operand) {
		return operand
	}
	switch n.Op {
	case "!":
		return NativeBool(!IsTruthy(operand))
	case "-":
		num, ok := operand.(*Number)
		if !ok {
			return i.throwRuntime("RUNTIME-TYPE-MISMATCH", env.Filename, n.Token.Line, n.Token.Column,
				map[string]any{"Op": "-", "LeftType": string(operand.Type()), "RightType": ""})
		}
		return &Number{Value: -num.Value}
	default:
		return i.throwRuntime("RUNTIME-UNKNOWN-OPERATOR", env.Filename, n.Token.Line, n.Token.Column,
			map[string]any{"Op": n.Op, "Type": string(operand.Type())})
	}
}

// displayRepr is the repr used when a string is concatenated with a
// non-string via `+`.
func displayRepr(o Object) string {
	if s, ok := o.(*String); ok {
		return s.Value
	}
	return o.Inspect()
}
