// Package errors provides structured error types for AuroraLang.
//
// AuroraError unifies lex, parse, runtime, and user-thrown failures behind
// one type with enough metadata to print, catch, and compare.
package errors

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// Class categorizes an error for catchability and display.
type Class string

const (
	ClassLex     Class = "lex"     // unterminated string, unknown character
	ClassParse   Class = "parse"   // unexpected token, malformed construct
	ClassRuntime Class = "runtime" // undefined name, wrong arity, bad operand, ...
	ClassUser    Class = "user"    // whatever `throw expr;` evaluated to
)

// IsCatchable reports whether a try/catch clause may observe errors of this
// class. Lex and parse errors abort compilation before evaluation begins, so
// no catch clause is ever active to see them.
func (c Class) IsCatchable() bool {
	switch c {
	case ClassRuntime, ClassUser:
		return true
	default:
		return false
	}
}

// Frame is one entry of a runtime back-trace, innermost first.
type Frame struct {
	Function string
	File     string
	Line     int
}

// AuroraError is the error type produced by every stage of the pipeline.
type AuroraError struct {
	Class   Class
	Code    string
	Message string
	Hints   []string
	File    string
	Line    int
	Column  int
	Frames  []Frame
	Data    map[string]any
}

func (e *AuroraError) Error() string { return e.String() }

// String renders the "<message> at <file>:<line>:<col>" form used for
// lex/parse errors, falling back to a bare message when position is unknown.
func (e *AuroraError) String() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.File != "" || e.Line > 0 {
		sb.WriteString(" at ")
		if e.File != "" {
			sb.WriteString(e.File)
			sb.WriteString(":")
		}
		sb.WriteString(fmt.Sprintf("%d:%d", e.Line, e.Column))
	}
	for _, h := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(h)
	}
	return sb.String()
}

// PrettyString renders a multi-line form including a back-trace when present.
func (e *AuroraError) PrettyString() string {
	var sb strings.Builder
	switch e.Class {
	case ClassLex:
		sb.WriteString("Lex error")
	case ClassParse:
		sb.WriteString("Parse error")
	default:
		sb.WriteString("Runtime error")
	}
	if e.File != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.File)
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(" at %d:%d", e.Line, e.Column))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	for _, h := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(h)
	}
	for _, f := range e.Frames {
		sb.WriteString(fmt.Sprintf("\n  at %s (%s:%d)", f.Function, f.File, f.Line))
	}
	return sb.String()
}

// WithPosition returns a copy of the error with file/line/column set.
func (e *AuroraError) WithPosition(file string, line, column int) *AuroraError {
	cp := *e
	cp.File = file
	cp.Line = line
	cp.Column = column
	return &cp
}

// WithFrames returns a copy of the error carrying the given back-trace.
func (e *AuroraError) WithFrames(frames []Frame) *AuroraError {
	cp := *e
	cp.Frames = frames
	return &cp
}

// ErrorDef defines one catalog entry: its class and message template.
type ErrorDef struct {
	Class    Class
	Template string
	Hints    []string
}

// Catalog maps error codes to their definitions. Codes group by the
// runtime-error kinds named in spec section 7.
var Catalog = map[string]ErrorDef{
	"LEX-UNTERMINATED-STRING": {Class: ClassLex, Template: "unterminated string"},
	"LEX-ILLEGAL-CHARACTER":   {Class: ClassLex, Template: "unexpected character {{.Char}}"},

	"PARSE-UNEXPECTED-TOKEN":    {Class: ClassParse, Template: "expected {{.Expected}}, got {{.Got}}"},
	"PARSE-INVALID-ASSIGN":      {Class: ClassParse, Template: "invalid assignment target"},
	"PARSE-MALFORMED-CONSTRUCT": {Class: ClassParse, Template: "{{.Message}}"},

	"RUNTIME-UNDEFINED-VARIABLE":  {Class: ClassRuntime, Template: "undefined variable {{.Name}}"},
	"RUNTIME-CONST-REASSIGNMENT":  {Class: ClassRuntime, Template: "cannot assign to const {{.Name}}"},
	"RUNTIME-ALREADY-DEFINED":     {Class: ClassRuntime, Template: "{{.Name}} already defined in this scope"},
	"RUNTIME-WRONG-ARITY":         {Class: ClassRuntime, Template: "expected {{.Expected}} arguments, got {{.Got}}"},
	"RUNTIME-NOT-CALLABLE":        {Class: ClassRuntime, Template: "{{.Type}} is not callable"},
	"RUNTIME-NOT-INDEXABLE":       {Class: ClassRuntime, Template: "{{.Type}} is not indexable"},
	"RUNTIME-NOT-A-CLASS":         {Class: ClassRuntime, Template: "{{.Type}} is not a class"},
	"RUNTIME-UNKNOWN-OPERATOR":    {Class: ClassRuntime, Template: "unknown operator: {{.Op}} for {{.Type}}"},
	"RUNTIME-TYPE-MISMATCH":       {Class: ClassRuntime, Template: "type mismatch: {{.LeftType}} {{.Op}} {{.RightType}}"},
	"RUNTIME-MODULE-LOAD-FAILURE": {Class: ClassRuntime, Template: "failed to load module {{.Path}}: {{.Reason}}"},
	"RUNTIME-BUILTIN-ARGUMENT":    {Class: ClassRuntime, Template: "{{.Builtin}}: {{.Reason}}"},
	"RUNTIME-RETURN-OUTSIDE-FUNCTION":   {Class: ClassRuntime, Template: "return outside function"},
	"RUNTIME-BREAK-OUTSIDE-LOOP":        {Class: ClassRuntime, Template: "break outside loop"},
	"RUNTIME-CONTINUE-OUTSIDE-LOOP":     {Class: ClassRuntime, Template: "continue outside loop"},
}

// New creates an AuroraError from a catalog code and template data.
func New(code string, data map[string]any) *AuroraError {
	def, ok := Catalog[code]
	if !ok {
		return &AuroraError{Class: ClassRuntime, Code: code, Message: code, Data: data}
	}
	return &AuroraError{
		Class:   def.Class,
		Code:    code,
		Message: renderTemplate(def.Template, data),
		Hints:   renderHints(def.Hints, data),
		Data:    data,
	}
}

// NewAt is New plus a source position.
func NewAt(code string, file string, line, column int, data map[string]any) *AuroraError {
	return New(code, data).WithPosition(file, line, column)
}

// NewUser wraps a thrown AuroraLang value as a user-thrown error, where
// inspect is the value's display repr (used for top-level / CLI reporting;
// the raw thrown value itself is what a catch clause actually receives).
func NewUser(inspect string) *AuroraError {
	return &AuroraError{Class: ClassUser, Message: inspect}
}

func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}
	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}
	return buf.String()
}

func renderHints(hints []string, data map[string]any) []string {
	if len(hints) == 0 {
		return nil
	}
	out := make([]string, len(hints))
	for i, h := range hints {
		out[i] = renderTemplate(h, data)
	}
	return out
}

// levenshteinDistance computes edit distance, used for "did you mean" hints
// on undefined-variable errors.
func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

// FindClosestMatch returns the candidate closest to input by edit distance,
// within a length-scaled threshold, or "" if nothing is close enough.
func FindClosestMatch(input string, candidates []string) string {
	if input == "" || len(candidates) == 0 {
		return ""
	}
	lower := strings.ToLower(input)
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshteinDistance(lower, strings.ToLower(c))
		if bestDist == -1 || d < bestDist {
			bestDist, best = d, c
		}
	}
	threshold := 1
	switch {
	case len(input) >= 7:
		threshold = 3
	case len(input) >= 4:
		threshold = 2
	}
	if bestDist <= 0 || bestDist > threshold {
		return ""
	}
	return best
}

// NewUndefinedVariable creates an undefined-variable error, adding a
// "did you mean" hint when a near-miss name is found in scope.
func NewUndefinedVariable(name string, file string, line, column int, known []string) *AuroraError {
	err := NewAt("RUNTIME-UNDEFINED-VARIABLE", file, line, column, map[string]any{"Name": name})
	sort.Strings(known)
	if m := FindClosestMatch(name, known); m != "" {
		err.Hints = append(err.Hints, fmt.Sprintf("did you mean %q?", m))
	}
	return err
}

// Keywords lists AuroraLang's reserved words, for fuzzy-matching typos.
var Keywords = []string{
	"let", "const", "fun", "return", "if", "else", "while", "for", "true",
	"false", "null", "break", "continue", "class", "new", "try", "catch",
	"throw", "import", "export", "this",
}
