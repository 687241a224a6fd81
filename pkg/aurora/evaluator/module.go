package evaluator

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/aurorascript/aurora/pkg/aurora/ast"
	"github.com/aurorascript/aurora/pkg/aurora/lexer"
	"github.com/aurorascript/aurora/pkg/aurora/parser"
)

// HostModuleResolver resolves a bare (non-relative) module specifier to a
// host-object, the escape hatch named in spec section 4.5. Unconfigured by
// default; embedding hosts set Interpreter.HostResolver to support it. When
// Interpreter.ModuleRoot is set it takes precedence: a bare specifier that
// names an existing file under that root loads as a file module, and only
// otherwise falls back to host-provided modules.
type HostModuleResolver func(specifier string) (Object, error)

// moduleCache maps absolute, canonicalised paths to the export value
// produced by evaluating that path once. A path's entry is inserted with a
// placeholder *before* that module finishes evaluating, so a module that
// requires itself (directly or transitively) observes the exports record
// populated so far rather than re-entering evaluation or deadlocking:
// cyclic requires are not detected as an error condition.
type moduleCache struct {
	mu    sync.Mutex
	cache map[string]Object
	group singleflight.Group
}

func newModuleCache() *moduleCache {
	return &moduleCache{cache: make(map[string]Object)}
}

func (c *moduleCache) get(path string) (Object, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.cache[path]
	return v, ok
}

func (c *moduleCache) set(path string, v Object) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[path] = v
}

func isFileSpecifier(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") || strings.HasPrefix(spec, "/")
}

func resolveModulePath(spec, fromFile string) string {
	if strings.HasPrefix(spec, "/") {
		return filepath.Clean(spec)
	}
	dir := "."
	if fromFile != "" {
		dir = filepath.Dir(fromFile)
	}
	abs, err := filepath.Abs(filepath.Join(dir, spec))
	if err != nil {
		return filepath.Join(dir, spec)
	}
	return abs
}

// Require resolves a module specifier per spec section 4.5: file-shaped
// specifiers are lexed, parsed, and evaluated once per absolute path with
// caching; bare specifiers defer to ModuleRoot (if configured) and then the
// configured HostResolver.
func (i *Interpreter) Require(spec string, fromFile string, file string, line, column int) Object {
	if !isFileSpecifier(spec) {
		if i.ModuleRoot != "" {
			joined := filepath.Join(i.ModuleRoot, spec)
			abs, err := filepath.Abs(joined)
			if err != nil {
				abs = joined
			}
			if _, statErr := os.Stat(abs); statErr == nil || i.HostResolver == nil {
				return i.requireFile(abs)
			}
		}
		return i.requireHostModule(spec, file, line, column)
	}
	return i.requireFile(resolveModulePath(spec, fromFile))
}

// requireFile evaluates the file at path once per absolute path, caching the
// resulting exports across repeated requires of the same module.
func (i *Interpreter) requireFile(path string) Object {
	if cached, ok := i.modules.get(path); ok {
		i.Logger.LogLine("module cache hit:", path)
		return cached
	}

	result, _, _ := i.modules.group.Do(path, func() (any, error) {
		if cached, ok := i.modules.get(path); ok {
			return cached, nil
		}
		i.Logger.LogLine("module load:", path)
		placeholder := NewRecord()
		i.modules.set(path, placeholder)

		exportsVal := i.evalModuleFile(path, placeholder)
		i.modules.set(path, exportsVal)
		return exportsVal, nil
	})
	return result.(Object)
}

// evalModuleFile reads, lexes, parses, and evaluates the aurora source at
// path in a fresh child of the root environment, pre-defining `exports`
// (aliased to the placeholder so cyclic requires observe it live) and
// `module` whose `exports` slot references the same record. Returns the
// final value of module.exports — which may differ from placeholder if the
// module reassigned module.exports wholesale — or a throw signal on
// read/lex/parse/eval failure.
func (i *Interpreter) evalModuleFile(path string, placeholder *Record) Object {
	src, err := os.ReadFile(path)
	if err != nil {
		return i.throwRuntime("RUNTIME-MODULE-LOAD-FAILURE", path, 0, 0,
			map[string]any{"Path": path, "Reason": err.Error()})
	}

	toks, lexErr := lexer.Tokenize(string(src), path)
	if lexErr != nil {
		return i.throwRuntime("RUNTIME-MODULE-LOAD-FAILURE", path, 0, 0,
			map[string]any{"Path": path, "Reason": lexErr.Error()})
	}
	p := parser.New(toks, path)
	program, parseErrs := p.ParseProgram()
	if len(parseErrs) > 0 {
		return i.throwRuntime("RUNTIME-MODULE-LOAD-FAILURE", path, 0, 0,
			map[string]any{"Path": path, "Reason": parseErrs[0].Error()})
	}

	moduleEnv := NewEnclosedEnvironment(i.Root)
	moduleEnv.Filename = path

	moduleRecord := NewRecord()
	moduleRecord.Set("exports", placeholder)
	moduleEnv.Define("exports", placeholder, false)
	moduleEnv.Define("module", moduleRecord, false)

	result := i.Run(program, moduleEnv)
	if _, ok := result.(*throwSignal); ok {
		return result
	}

	exportsVal, _ := moduleRecord.Get("exports")
	return exportsVal
}

// requireHostModule defers to the host's module resolver for bare
// specifiers (anything not file-shaped). The resolved value is wrapped in a
// HostObject so every host-provided module carries a stable identity distinct
// from the value it wraps — property and method access still reach through
// to the wrapped value transparently (see getProperty).
func (i *Interpreter) requireHostModule(spec string, file string, line, column int) Object {
	if i.HostResolver == nil {
		return i.throwRuntime("RUNTIME-MODULE-LOAD-FAILURE", file, line, column,
			map[string]any{"Path": spec, "Reason": "no host module resolver configured"})
	}
	obj, err := i.HostResolver(spec)
	if err != nil {
		return i.throwRuntime("RUNTIME-MODULE-LOAD-FAILURE", file, line, column,
			map[string]any{"Path": spec, "Reason": err.Error()})
	}
	if isSignal(obj) {
		return obj
	}
	return NewHostObject("module:"+spec, obj)
}

func (i *Interpreter) evalImport(n *ast.Import, env *Environment) Object {
	return i.Require(n.Path, env.Filename, env.Filename, n.Token.Line, n.Token.Column)
}

func (i *Interpreter) evalImportNamed(n *ast.ImportNamed, env *Environment) Object {
	val := i.Require(n.Path, env.Filename, env.Filename, n.Token.Line, n.Token.Column)
	if isSignal(val) {
		return val
	}
	if !env.Define(n.Local, val, true) {
		return i.throwRuntime("RUNTIME-ALREADY-DEFINED", env.Filename, n.Token.Line, n.Token.Column,
			map[string]any{"Name": n.Local})
	}
	return NullValue
}
