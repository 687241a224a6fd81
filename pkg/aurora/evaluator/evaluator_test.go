package evaluator

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aurorascript/aurora/pkg/aurora/lexer"
	"github.com/aurorascript/aurora/pkg/aurora/parser"
)

func evalSource(t *testing.T, src string) (Object, *Interpreter) {
	t.Helper()
	toks, err := lexer.Tokenize(src, "<test>")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	p := parser.New(toks, "<test>")
	program, errs := p.ParseProgram()
	if len(errs) > 0 {
		t.Fatalf("parse error: %v", errs)
	}
	i := New(&bytes.Buffer{}, NullLogger())
	return i.Run(program, i.Root), i
}

func TestClosureCapturesEnclosingScope(t *testing.T) {
	result, _ := evalSource(t, `
const makeCounter = fun() {
  let count = 0;
  return fun() {
    count = count + 1;
    return count;
  };
};
const counter = makeCounter();
counter();
counter();
counter();
`)
	n, ok := result.(*Number)
	if !ok {
		t.Fatalf("expected *Number, got %T (%s)", result, result.Inspect())
	}
	if n.Value != 3 {
		t.Errorf("expected counter to reach 3, got %v", n.Value)
	}
}

func TestConstReassignmentThrows(t *testing.T) {
	result, _ := evalSource(t, `
const x = 1;
x = 2;
`)
	if _, ok := result.(*throwSignal); !ok {
		t.Fatalf("expected a throw signal reassigning a const, got %T (%s)", result, result.Inspect())
	}
}

func TestClassMethodDispatchAndThis(t *testing.T) {
	result, _ := evalSource(t, `
class Counter {
  constructor(start) {
    this.value = start;
  }
  increment() {
    this.value = this.value + 1;
    return this.value;
  }
}
const c = new Counter(10);
c.increment();
c.increment();
`)
	n, ok := result.(*Number)
	if !ok {
		t.Fatalf("expected *Number, got %T (%s)", result, result.Inspect())
	}
	if n.Value != 12 {
		t.Errorf("expected 12, got %v", n.Value)
	}
}

func TestTryCatchHandlesThrow(t *testing.T) {
	result, _ := evalSource(t, `
let caught = null;
try {
  throw "boom";
} catch (e) {
  caught = e;
}
caught;
`)
	s, ok := result.(*String)
	if !ok {
		t.Fatalf("expected *String, got %T (%s)", result, result.Inspect())
	}
	if s.Value != "boom" {
		t.Errorf("expected caught value boom, got %q", s.Value)
	}
}

func TestUncaughtThrowPropagatesToTopLevel(t *testing.T) {
	result, _ := evalSource(t, `throw "unhandled";`)
	thrown, ok := AsThrow(result)
	if !ok {
		t.Fatalf("expected an uncaught throw signal, got %T", result)
	}
	s, ok := thrown.(*String)
	if !ok || s.Value != "unhandled" {
		t.Errorf("expected thrown string %q, got %v", "unhandled", thrown)
	}
}

func TestStructuralEqualityOfArraysAndRecords(t *testing.T) {
	result, _ := evalSource(t, `[1, 2, {a: 1}] == [1, 2, {a: 1}];`)
	b, ok := result.(*Boolean)
	if !ok {
		t.Fatalf("expected *Boolean, got %T (%s)", result, result.Inspect())
	}
	if !b.Value {
		t.Error("expected structurally equal array/record literals to compare equal")
	}
}

func TestStructuralEqualityDistinguishesDifferentShapes(t *testing.T) {
	result, _ := evalSource(t, `({a: 1, b: 2} == {a: 1});`)
	b, ok := result.(*Boolean)
	if !ok {
		t.Fatalf("expected *Boolean, got %T (%s)", result, result.Inspect())
	}
	if b.Value {
		t.Error("expected records of different shape to compare unequal")
	}
}

func TestBreakAndContinueInLoop(t *testing.T) {
	result, _ := evalSource(t, `
let total = 0;
for (let i = 0; i < 10; i = i + 1) {
  if (i == 5) {
    break;
  }
  if (i % 2 == 0) {
    continue;
  }
  total = total + i;
}
total;
`)
	n, ok := result.(*Number)
	if !ok {
		t.Fatalf("expected *Number, got %T (%s)", result, result.Inspect())
	}
	if n.Value != 4 {
		t.Errorf("expected total 4 (1+3), got %v", n.Value)
	}
}

func TestReturnOutsideFunctionStopsTopLevelEvaluation(t *testing.T) {
	result, _ := evalSource(t, `
let x = 1;
return 99;
`)
	thrown, ok := AsThrow(result)
	if !ok {
		t.Fatalf("expected a top-level return to raise a runtime error, got %T (%s)", result, result.Inspect())
	}
	rec, ok := thrown.(*Record)
	if !ok {
		t.Fatalf("expected an error record, got %T (%s)", thrown, thrown.Inspect())
	}
	if code, _ := rec.Get("code"); code == nil || code.Inspect() != "RUNTIME-RETURN-OUTSIDE-FUNCTION" {
		t.Errorf("expected code RUNTIME-RETURN-OUTSIDE-FUNCTION, got %v", code)
	}
}

func TestModuleRequireIsCachedAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	modPath := filepath.Join(dir, "mod.aur")
	if err := os.WriteFile(modPath, []byte(`
if (module.exports.calls == null) {
  module.exports.calls = 0;
}
module.exports.calls = module.exports.calls + 1;
`), 0o644); err != nil {
		t.Fatal(err)
	}

	toks, err := lexer.Tokenize(`
const a = require("./mod.aur");
const b = require("./mod.aur");
a.calls;
`, filepath.Join(dir, "main.aur"))
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	p := parser.New(toks, filepath.Join(dir, "main.aur"))
	program, errs := p.ParseProgram()
	if len(errs) > 0 {
		t.Fatalf("parse error: %v", errs)
	}

	i := New(&bytes.Buffer{}, NullLogger())
	i.Root.Filename = filepath.Join(dir, "main.aur")
	result := i.Run(program, i.Root)

	n, ok := result.(*Number)
	if !ok {
		t.Fatalf("expected *Number, got %T (%s)", result, result.Inspect())
	}
	if n.Value != 1 {
		t.Errorf("expected module body to run exactly once across two requires, got %v", n.Value)
	}
}

func TestHostRequireWrapsResolverResultAndForwardsPropertyAccess(t *testing.T) {
	mainFile := "/virtual/main.aur"
	toks, err := lexer.Tokenize(`
const lib = require("host:greeter");
tag(lib) + ":" + lib.greeting;
`, mainFile)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	p := parser.New(toks, mainFile)
	program, errs := p.ParseProgram()
	if len(errs) > 0 {
		t.Fatalf("parse error: %v", errs)
	}

	i := New(&bytes.Buffer{}, NullLogger())
	i.Root.Filename = mainFile
	i.HostResolver = func(spec string) (Object, error) {
		rec := NewRecord()
		rec.Set("greeting", &String{Value: "hello from " + spec})
		return rec, nil
	}
	result := i.Run(program, i.Root)

	s, ok := result.(*String)
	if !ok {
		t.Fatalf("expected *String, got %T (%s)", result, result.Inspect())
	}
	if s.Value != "host-object:hello from host:greeter" {
		t.Errorf("expected tag to report host-object and property access to forward through, got %q", s.Value)
	}
}

func TestModuleRootResolvesBareSpecifiersAsFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "util.aur"), []byte(`
module.exports.double = fun(n) { return n * 2; };
`), 0o644); err != nil {
		t.Fatal(err)
	}

	mainFile := filepath.Join(dir, "main.aur")
	toks, err := lexer.Tokenize(`
const util = require("util.aur");
util.double(21);
`, mainFile)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	p := parser.New(toks, mainFile)
	program, errs := p.ParseProgram()
	if len(errs) > 0 {
		t.Fatalf("parse error: %v", errs)
	}

	i := New(&bytes.Buffer{}, NullLogger())
	i.Root.Filename = mainFile
	i.ModuleRoot = dir
	result := i.Run(program, i.Root)

	n, ok := result.(*Number)
	if !ok {
		t.Fatalf("expected *Number, got %T (%s)", result, result.Inspect())
	}
	if n.Value != 42 {
		t.Errorf("expected 42, got %v", n.Value)
	}
}

func TestSelfRequiringModuleObservesPlaceholderInsteadOfDeadlocking(t *testing.T) {
	dir := t.TempDir()
	modPath := filepath.Join(dir, "cycle.aur")
	if err := os.WriteFile(modPath, []byte(`
const self = require("./cycle.aur");
module.exports.ready = true;
`), 0o644); err != nil {
		t.Fatal(err)
	}

	mainFile := filepath.Join(dir, "main.aur")
	toks, err := lexer.Tokenize(`
const mod = require("./cycle.aur");
mod.ready;
`, mainFile)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	p := parser.New(toks, mainFile)
	program, errs := p.ParseProgram()
	if len(errs) > 0 {
		t.Fatalf("parse error: %v", errs)
	}

	i := New(&bytes.Buffer{}, NullLogger())
	i.Root.Filename = mainFile
	result := i.Run(program, i.Root)

	b, ok := result.(*Boolean)
	if !ok {
		t.Fatalf("expected *Boolean, got %T (%s)", result, result.Inspect())
	}
	if !b.Value {
		t.Error("expected the cyclic require to resolve once the module finished evaluating")
	}
}
