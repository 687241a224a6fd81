package evaluator

import (
	"fmt"
	"io"
	"strings"
)

// Logger receives interpreter diagnostics (module loads, builtin warnings)
// distinct from the `print` builtin, which always writes directly to the
// interpreter's configured stdout writer since it is a language feature.
type Logger interface {
	Log(values ...any)
	LogLine(values ...any)
}

type stdoutLogger struct{ w io.Writer }

func (l *stdoutLogger) Log(values ...any)     { fmt.Fprint(l.w, formatLogValues(values...)) }
func (l *stdoutLogger) LogLine(values ...any) { fmt.Fprintln(l.w, formatLogValues(values...)) }

func formatLogValues(values ...any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}

// WriterLogger returns a Logger that writes to w.
func WriterLogger(w io.Writer) Logger { return &stdoutLogger{w: w} }

type nullLogger struct{}

func (l *nullLogger) Log(values ...any)     {}
func (l *nullLogger) LogLine(values ...any) {}

// NullLogger discards all diagnostics, for embedding hosts that don't want
// interpreter chatter.
func NullLogger() Logger { return &nullLogger{} }

// DefaultLogger is used by NewEnvironment when no logger is configured.
var DefaultLogger Logger = &nullLogger{}
