package evaluator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/aurorascript/aurora/pkg/aurora/ast"
)

// ObjectType tags the concrete kind of an Object for tag()/inspect and for
// error messages naming the offending type.
type ObjectType string

const (
	NULL_OBJ     ObjectType = "null"
	BOOLEAN_OBJ  ObjectType = "boolean"
	NUMBER_OBJ   ObjectType = "number"
	STRING_OBJ   ObjectType = "string"
	ARRAY_OBJ    ObjectType = "array"
	RECORD_OBJ   ObjectType = "record"
	FUNCTION_OBJ ObjectType = "function"
	CLASS_OBJ    ObjectType = "class"
	INSTANCE_OBJ ObjectType = "instance"
	BUILTIN_OBJ  ObjectType = "builtin"
	HOST_OBJ     ObjectType = "host-object"
)

// Object is every runtime value AuroraLang can produce, per the value model.
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Null is AuroraLang's singleton null value.
type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

// NullValue is the single shared null instance; null carries no state so one
// instance suffices for the whole interpreter.
var NullValue = &Null{}

// Boolean is true/false.
type Boolean struct{ Value bool }

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

var (
	TrueValue  = &Boolean{Value: true}
	FalseValue = &Boolean{Value: false}
)

// NativeBool returns the shared Boolean singleton for a Go bool.
func NativeBool(b bool) *Boolean {
	if b {
		return TrueValue
	}
	return FalseValue
}

// Number is AuroraLang's sole numeric type: IEEE-754 double precision.
type Number struct{ Value float64 }

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return formatNumber(n.Value) }

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// String is an immutable sequence of Unicode scalar values.
type String struct{ Value string }

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Array is a mutable, reference-shared, ordered sequence of values.
type Array struct{ Elements []Object }

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = inspectNested(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Record is a mutable, reference-shared, insertion-ordered string-keyed map.
type Record struct {
	keys   []string
	values map[string]Object
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]Object)}
}

func (r *Record) Type() ObjectType { return RECORD_OBJ }

// Get returns the value at key and whether it was present.
func (r *Record) Get(key string) (Object, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Set inserts or updates key, appending to the key order on first insert.
func (r *Record) Set(key string, val Object) {
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = val
}

// Keys returns the insertion-ordered key list. Callers must not mutate it.
func (r *Record) Keys() []string { return r.keys }

func (r *Record) Inspect() string {
	parts := make([]string, len(r.keys))
	for i, k := range r.keys {
		parts[i] = k + ": " + inspectNested(r.values[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func inspectNested(o Object) string {
	if o == nil {
		return "null"
	}
	if s, ok := o.(*String); ok {
		return strconv.Quote(s.Value)
	}
	return o.Inspect()
}

// Function is a closure: its parameter list, body, the environment active at
// its construction, and an optional bound `this` for method-call dispatch.
type Function struct {
	Name   string
	Params []string
	Body   *ast.BlockStatement
	Env    *Environment
	This   Object // non-nil when bound as an instance method
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	name := f.Name
	if name == "" {
		name = "anonymous"
	}
	return fmt.Sprintf("fun %s(%s)", name, strings.Join(f.Params, ", "))
}

// bind returns a copy of f with This set.
func (f *Function) bind(this Object) *Function {
	bound := *f
	bound.This = this
	return &bound
}

// Class is a class value: its ordered methods and the environment active at
// its declaration (methods close over it, same as any function).
type Class struct {
	Name    string
	Methods map[string]*ast.MethodDef
	Order   []string // method names in declaration order, for Inspect
	Env     *Environment
}

func (c *Class) Type() ObjectType { return CLASS_OBJ }
func (c *Class) Inspect() string  { return fmt.Sprintf("class %s", c.Name) }

// Instance is a record whose slots include method closures bound to itself.
type Instance struct {
	Class *Class
	*Record
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (i *Instance) Inspect() string {
	return fmt.Sprintf("%s instance", i.Class.Name)
}

// BuiltinFunction is the uniform invocation shape every builtin obeys.
type BuiltinFunction func(i *Interpreter, args []Object) Object

// Builtin is a host-provided callable value.
type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return fmt.Sprintf("builtin %s", b.Name) }

// HostObject is an opaque value produced by a host builtin, passed through
// AuroraLang programs by reference only. It carries a stable identity (a
// uuid) so `tag()`/Inspect never leak a raw Go pointer.
type HostObject struct {
	Kind  string
	ID    uuid.UUID
	Value any
}

func NewHostObject(kind string, value any) *HostObject {
	return &HostObject{Kind: kind, ID: uuid.New(), Value: value}
}

func (h *HostObject) Type() ObjectType { return HOST_OBJ }
func (h *HostObject) Inspect() string {
	return fmt.Sprintf("<%s %s>", h.Kind, h.ID)
}

// IsTruthy implements AuroraLang truthiness: null and false are falsy,
// everything else — including 0, "", [], {} — is truthy.
func IsTruthy(o Object) bool {
	switch v := o.(type) {
	case *Null:
		return false
	case *Boolean:
		return v.Value
	case nil:
		return false
	default:
		return true
	}
}

// StructuralEqual implements AuroraLang's `==`: scalars by value, arrays
// element-wise of equal length, records by equal key-sets and element-wise
// value equality, functions/classes/builtins/instances by identity.
func StructuralEqual(a, b Object) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *Boolean:
		bv, ok := b.(*Boolean)
		return ok && av.Value == bv.Value
	case *Number:
		bv, ok := b.(*Number)
		return ok && av.Value == bv.Value
	case *String:
		bv, ok := b.(*String)
		return ok && av.Value == bv.Value
	case *Array:
		bv, ok := b.(*Array)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !StructuralEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Record:
		bv, ok := b.(*Record)
		if !ok || len(av.keys) != len(bv.keys) {
			return false
		}
		for _, k := range av.keys {
			bval, present := bv.Get(k)
			if !present || !StructuralEqual(av.values[k], bval) {
				return false
			}
		}
		return true
	case *Instance:
		bv, ok := b.(*Instance)
		return ok && av == bv
	case *Function:
		bv, ok := b.(*Function)
		return ok && av == bv
	case *Class:
		bv, ok := b.(*Class)
		return ok && av == bv
	case *Builtin:
		bv, ok := b.(*Builtin)
		return ok && av == bv
	case *HostObject:
		bv, ok := b.(*HostObject)
		return ok && av == bv
	default:
		return a == b
	}
}

// sortedKeys returns a copy of a record's keys in sorted order, distinct from
// the record's own insertion order.
func sortedKeys(r *Record) []string {
	ks := append([]string(nil), r.keys...)
	sort.Strings(ks)
	return ks
}
