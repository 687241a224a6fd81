package evaluator

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"os/user"
	"strings"
	"time"
)

// registerBuiltins installs the fixed builtin set into root, per spec
// section 4.6's required semantics list. Each name is a const binding so
// scripts can shadow it in a nested scope but never redefine it at the top
// level without first entering a new block.
func registerBuiltins(i *Interpreter, root *Environment) {
	def := func(name string, fn BuiltinFunction) {
		root.Define(name, &Builtin{Name: name, Fn: fn}, true)
	}

	def("print", builtinPrint)
	def("len", builtinLen)
	def("tag", builtinTag)
	def("clock", builtinClock)
	def("range", builtinRange)
	def("keys", builtinKeys)
	def("values", builtinValues)
	def("push", builtinPush)
	def("pop", builtinPop)
	def("join", builtinJoin)
	def("readFile", builtinReadFile)
	def("writeFile", builtinWriteFile)
	def("exists", builtinExists)
	def("cwd", builtinCwd)
	def("homeDir", builtinHomeDir)
	def("env", builtinEnv)
	def("httpGet", builtinHTTPGet)
	def("exec", builtinExec)
	def("require", builtinRequire)

	registerStringBuiltins(def)
}

func argError(builtin, reason string) *throwSignal {
	err := NewRecord()
	err.Set("message", &String{Value: fmt.Sprintf("%s: %s", builtin, reason)})
	err.Set("code", &String{Value: "RUNTIME-BUILTIN-ARGUMENT"})
	err.Set("class", &String{Value: "runtime"})
	return &throwSignal{Value: err}
}

func wrongArgCount(builtin string, want string, got int) *throwSignal {
	return argError(builtin, fmt.Sprintf("expected %s arguments, got %d", want, got))
}

// builtinPrint writes the space-joined display repr of its arguments,
// followed by a newline, to the interpreter's configured stdout.
func builtinPrint(i *Interpreter, args []Object) Object {
	parts := make([]string, len(args))
	for idx, a := range args {
		parts[idx] = displayRepr(a)
	}
	fmt.Fprintln(i.Stdout, strings.Join(parts, " "))
	return NullValue
}

func builtinLen(i *Interpreter, args []Object) Object {
	if len(args) != 1 {
		return wrongArgCount("len", "1", len(args))
	}
	switch v := args[0].(type) {
	case *String:
		return &Number{Value: float64(len([]rune(v.Value)))}
	case *Array:
		return &Number{Value: float64(len(v.Elements))}
	case *Record:
		return &Number{Value: float64(len(v.keys))}
	default:
		return argError("len", fmt.Sprintf("cannot measure %s", v.Type()))
	}
}

func builtinTag(i *Interpreter, args []Object) Object {
	if len(args) != 1 {
		return wrongArgCount("tag", "1", len(args))
	}
	return &String{Value: string(args[0].Type())}
}

func builtinClock(i *Interpreter, args []Object) Object {
	return &Number{Value: float64(time.Now().UnixNano()) / 1e9}
}

// builtinRange produces an array per 1, 2, or 3-arg numeric range semantics:
// range(stop), range(start, stop), range(start, stop, step).
func builtinRange(i *Interpreter, args []Object) Object {
	nums := make([]float64, len(args))
	for idx, a := range args {
		n, ok := a.(*Number)
		if !ok {
			return argError("range", "arguments must be numbers")
		}
		nums[idx] = n.Value
	}
	var start, stop, step float64
	switch len(nums) {
	case 1:
		start, stop, step = 0, nums[0], 1
	case 2:
		start, stop, step = nums[0], nums[1], 1
	case 3:
		start, stop, step = nums[0], nums[1], nums[2]
	default:
		return wrongArgCount("range", "1, 2, or 3", len(args))
	}
	if step == 0 {
		return argError("range", "step must not be zero")
	}
	var elems []Object
	if step > 0 {
		for v := start; v < stop; v += step {
			elems = append(elems, &Number{Value: v})
		}
	} else {
		for v := start; v > stop; v += step {
			elems = append(elems, &Number{Value: v})
		}
	}
	return &Array{Elements: elems}
}

func builtinKeys(i *Interpreter, args []Object) Object {
	if len(args) != 1 {
		return wrongArgCount("keys", "1", len(args))
	}
	rec, ok := args[0].(*Record)
	if !ok {
		return argError("keys", "argument must be a record")
	}
	elems := make([]Object, len(rec.keys))
	for idx, k := range rec.keys {
		elems[idx] = &String{Value: k}
	}
	return &Array{Elements: elems}
}

func builtinValues(i *Interpreter, args []Object) Object {
	if len(args) != 1 {
		return wrongArgCount("values", "1", len(args))
	}
	rec, ok := args[0].(*Record)
	if !ok {
		return argError("values", "argument must be a record")
	}
	elems := make([]Object, len(rec.keys))
	for idx, k := range rec.keys {
		elems[idx], _ = rec.Get(k)
	}
	return &Array{Elements: elems}
}

func builtinPush(i *Interpreter, args []Object) Object {
	if len(args) != 2 {
		return wrongArgCount("push", "2", len(args))
	}
	arr, ok := args[0].(*Array)
	if !ok {
		return argError("push", "first argument must be an array")
	}
	arr.Elements = append(arr.Elements, args[1])
	return arr
}

func builtinPop(i *Interpreter, args []Object) Object {
	if len(args) != 1 {
		return wrongArgCount("pop", "1", len(args))
	}
	arr, ok := args[0].(*Array)
	if !ok {
		return argError("pop", "argument must be an array")
	}
	if len(arr.Elements) == 0 {
		return NullValue
	}
	last := arr.Elements[len(arr.Elements)-1]
	arr.Elements = arr.Elements[:len(arr.Elements)-1]
	return last
}

func builtinJoin(i *Interpreter, args []Object) Object {
	if len(args) != 2 {
		return wrongArgCount("join", "2", len(args))
	}
	arr, ok := args[0].(*Array)
	if !ok {
		return argError("join", "first argument must be an array")
	}
	sep, ok := args[1].(*String)
	if !ok {
		return argError("join", "second argument must be a string")
	}
	parts := make([]string, len(arr.Elements))
	for idx, e := range arr.Elements {
		parts[idx] = displayRepr(e)
	}
	return &String{Value: strings.Join(parts, sep.Value)}
}

func builtinReadFile(i *Interpreter, args []Object) Object {
	if len(args) != 1 {
		return wrongArgCount("readFile", "1", len(args))
	}
	path, ok := args[0].(*String)
	if !ok {
		return argError("readFile", "argument must be a string")
	}
	data, err := os.ReadFile(path.Value)
	if err != nil {
		return argError("readFile", err.Error())
	}
	return &String{Value: string(data)}
}

func builtinWriteFile(i *Interpreter, args []Object) Object {
	if len(args) != 2 {
		return wrongArgCount("writeFile", "2", len(args))
	}
	path, ok := args[0].(*String)
	if !ok {
		return argError("writeFile", "first argument must be a string")
	}
	content, ok := args[1].(*String)
	if !ok {
		return argError("writeFile", "second argument must be a string")
	}
	if err := os.WriteFile(path.Value, []byte(content.Value), 0o644); err != nil {
		return argError("writeFile", err.Error())
	}
	return NullValue
}

func builtinExists(i *Interpreter, args []Object) Object {
	if len(args) != 1 {
		return wrongArgCount("exists", "1", len(args))
	}
	path, ok := args[0].(*String)
	if !ok {
		return argError("exists", "argument must be a string")
	}
	_, err := os.Stat(path.Value)
	return NativeBool(err == nil)
}

func builtinCwd(i *Interpreter, args []Object) Object {
	dir, err := os.Getwd()
	if err != nil {
		return argError("cwd", err.Error())
	}
	return &String{Value: dir}
}

func builtinHomeDir(i *Interpreter, args []Object) Object {
	if u, err := user.Current(); err == nil && u.HomeDir != "" {
		return &String{Value: u.HomeDir}
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return argError("homeDir", err.Error())
	}
	return &String{Value: dir}
}

func builtinEnv(i *Interpreter, args []Object) Object {
	rec := NewRecord()
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			rec.Set(parts[0], &String{Value: parts[1]})
		}
	}
	return rec
}

// builtinHTTPGet performs a synchronous GET and returns the response body as
// a string, or throws on any failure — there is no degraded fallback path.
func builtinHTTPGet(i *Interpreter, args []Object) Object {
	if len(args) != 1 {
		return wrongArgCount("httpGet", "1", len(args))
	}
	url, ok := args[0].(*String)
	if !ok {
		return argError("httpGet", "argument must be a string")
	}
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url.Value)
	if err != nil {
		return argError("httpGet", err.Error())
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return argError("httpGet", err.Error())
	}
	return &String{Value: string(body)}
}

func builtinExec(i *Interpreter, args []Object) Object {
	if len(args) < 1 {
		return wrongArgCount("exec", "at least 1", len(args))
	}
	name, ok := args[0].(*String)
	if !ok {
		return argError("exec", "first argument must be a string")
	}
	argv := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		s, ok := a.(*String)
		if !ok {
			return argError("exec", "arguments must be strings")
		}
		argv = append(argv, s.Value)
	}
	out, err := exec.Command(name.Value, argv...).Output()
	if err != nil {
		return argError("exec", err.Error())
	}
	return &String{Value: string(out)}
}

func builtinRequire(i *Interpreter, args []Object) Object {
	if len(args) != 1 {
		return wrongArgCount("require", "1", len(args))
	}
	spec, ok := args[0].(*String)
	if !ok {
		return argError("require", "argument must be a string")
	}
	return i.Require(spec.Value, i.Root.Filename, i.Root.Filename, 0, 0)
}
