package evaluator

// Signals are non-value outcomes of evaluating a node, propagated outward
// through the ordinary Object-returning Eval until a matching construct
// catches them. Each wraps the plain Object interface so existing
// "is this an error" checks compose with "is this a signal" check.

// returnSignal carries a `return` value up to the nearest function frame.
type returnSignal struct{ Value Object }

func (r *returnSignal) Type() ObjectType { return "RETURN_SIGNAL" }
func (r *returnSignal) Inspect() string  { return r.Value.Inspect() }

// breakSignal unwinds to the nearest enclosing loop.
type breakSignal struct{}

func (b *breakSignal) Type() ObjectType { return "BREAK_SIGNAL" }
func (b *breakSignal) Inspect() string  { return "break" }

// continueSignal skips to the next iteration of the nearest enclosing loop.
type continueSignal struct{}

func (c *continueSignal) Type() ObjectType { return "CONTINUE_SIGNAL" }
func (c *continueSignal) Inspect() string  { return "continue" }

// throwSignal carries a thrown value (user throw or runtime error record)
// up to the nearest try/catch, or to the top level.
type throwSignal struct{ Value Object }

func (t *throwSignal) Type() ObjectType { return "THROW_SIGNAL" }
func (t *throwSignal) Inspect() string  { return t.Value.Inspect() }

func isSignal(o Object) bool {
	switch o.(type) {
	case *returnSignal, *breakSignal, *continueSignal, *throwSignal:
		return true
	default:
		return false
	}
}

func isThrow(o Object) bool {
	_, ok := o.(*throwSignal)
	return ok
}

// AsThrow reports whether result is an uncaught throw signal, unwrapping the
// value it carries. Embedding hosts use this to distinguish a program's
// final value from an uncaught throw without reaching into unexported types.
func AsThrow(result Object) (Object, bool) {
	t, ok := result.(*throwSignal)
	if !ok {
		return nil, false
	}
	return t.Value, true
}

// throwRuntime wraps an *errors.AuroraError as a record value and raises it
// as a throw signal.
func (i *Interpreter) throwRuntime(code string, file string, line, column int, data map[string]any) Object {
	return &throwSignal{Value: i.errorRecord(code, file, line, column, data)}
}

func (i *Interpreter) throwMessage(class, message, file string, line, column int) Object {
	rec := NewRecord()
	rec.Set("message", &String{Value: message})
	rec.Set("class", &String{Value: class})
	rec.Set("file", &String{Value: file})
	rec.Set("line", &Number{Value: float64(line)})
	rec.Set("column", &Number{Value: float64(column)})
	return &throwSignal{Value: rec}
}
