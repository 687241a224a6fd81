// Package aurora is the public embedding API for the AuroraLang interpreter:
// construct one, then run a file or a string of source through it.
package aurora

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	aerrors "github.com/aurorascript/aurora/pkg/aurora/errors"
	"github.com/aurorascript/aurora/pkg/aurora/evaluator"
	"github.com/aurorascript/aurora/pkg/aurora/lexer"
	"github.com/aurorascript/aurora/pkg/aurora/parser"
)

// Logger is an alias for evaluator.Logger, re-exported for embedders that
// don't want to import the evaluator package directly.
type Logger = evaluator.Logger

// StdoutLogger returns a logger that writes to os.Stdout.
func StdoutLogger() Logger { return evaluator.WriterLogger(os.Stdout) }

// WriterLogger returns a logger that writes to w.
func WriterLogger(w io.Writer) Logger { return evaluator.WriterLogger(w) }

// NullLogger discards all interpreter diagnostics.
func NullLogger() Logger { return evaluator.NullLogger() }

// HostModuleResolver resolves a bare (non-relative) require/import specifier
// to a host-provided value.
type HostModuleResolver func(specifier string) (evaluator.Object, error)

// Interpreter wraps the evaluator with a stable, dependency-free surface for
// embedding hosts and the cmd/aurora CLI.
type Interpreter struct {
	eval *evaluator.Interpreter
}

// Option configures an Interpreter at construction.
type Option func(*evaluator.Interpreter)

// WithStdout redirects the `print` builtin's output.
func WithStdout(w io.Writer) Option {
	return func(i *evaluator.Interpreter) { i.Stdout = w }
}

// WithLogger installs a custom diagnostics logger.
func WithLogger(l Logger) Option {
	return func(i *evaluator.Interpreter) { i.Logger = l; i.Root.Logger = l }
}

// WithHostResolver installs the resolver used for bare (non-file) module
// specifiers once ModuleRoot (if any) fails to explain them.
func WithHostResolver(resolve HostModuleResolver) Option {
	return func(i *evaluator.Interpreter) {
		i.HostResolver = func(spec string) (evaluator.Object, error) { return resolve(spec) }
	}
}

// WithModuleRoot sets the base directory bare (non-relative) require
// specifiers resolve against as file modules, tried before HostResolver.
func WithModuleRoot(root string) Option {
	return func(i *evaluator.Interpreter) { i.ModuleRoot = root }
}

// New creates an interpreter with the builtin registry installed.
func New(opts ...Option) *Interpreter {
	eval := evaluator.New(os.Stdout, evaluator.NullLogger())
	for _, opt := range opts {
		opt(eval)
	}
	return &Interpreter{eval: eval}
}

// RunResult is the outcome of evaluating a program: its final value's
// display form, and an error if an uncaught throw reached the top level.
type RunResult struct {
	Value string
	Err   error
}

// RunFile reads, lexes, parses, and evaluates the source at path.
func (it *Interpreter) RunFile(path string) RunResult {
	src, err := os.ReadFile(path)
	if err != nil {
		return RunResult{Err: err}
	}
	return it.run(string(src), path)
}

// RunString evaluates source directly, tagging positions with file for
// error reporting (REPL callers typically pass "<repl>").
func (it *Interpreter) RunString(src, file string) RunResult {
	return it.run(src, file)
}

func (it *Interpreter) run(src, file string) RunResult {
	toks, lexErr := lexer.Tokenize(src, file)
	if lexErr != nil {
		return RunResult{Err: lexErr}
	}
	p := parser.New(toks, file)
	program, parseErrs := p.ParseProgram()
	if len(parseErrs) > 0 {
		return RunResult{Err: parseErrs[0]}
	}

	env := it.eval.Root
	env.Filename = file
	result := it.eval.Run(program, env)

	if thrown, ok := evaluator.AsThrow(result); ok {
		err := aerrors.NewUser(thrown.Inspect())
		err.Frames = it.eval.Frames()
		return RunResult{Err: err}
	}
	return RunResult{Value: result.Inspect()}
}

// EnvironmentSummary lists every top-level binding and its value's display
// repr, one per line, for the REPL's `.env` command.
func (it *Interpreter) EnvironmentSummary() string {
	names := it.eval.Root.Names()
	if len(names) == 0 {
		return "(no bindings)"
	}
	sort.Strings(names)
	var sb strings.Builder
	for _, name := range names {
		val, ok := it.eval.Root.Get(name)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s = %s\n", name, val.Type(), val.Inspect())
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Error formats a RunResult's error, if any, in the CLI's reporting form.
func (r RunResult) Error() string {
	if r.Err == nil {
		return ""
	}
	if ae, ok := r.Err.(*aerrors.AuroraError); ok {
		return ae.PrettyString()
	}
	return r.Err.Error()
}
