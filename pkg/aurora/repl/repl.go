// Package repl implements AuroraLang's line-oriented interactive shell.
package repl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/peterh/liner"
	"github.com/yuin/goldmark"

	"github.com/aurorascript/aurora/internal/config"
	"github.com/aurorascript/aurora/pkg/aurora/aurora"
)

const defaultPrompt = "aur> "
const continuationPrompt = "...> "

// flushSentinel is the line that, on its own, flushes the accumulated
// multi-line buffer and evaluates it — per the external-interfaces spec.
const flushSentinel = ";;"

const helpText = `
# AuroraLang REPL

- **.exit** — quit, persisting history
- **.help** — show this message
- **.load <path>** — evaluate a file in the active interpreter
- **.env** — list variables and their values in the current top-level scope
- A line containing exactly ` + "`;;`" + ` flushes a multi-line buffer early

Anything else is AuroraLang source, accumulated until a statement-ending
brace/paren/bracket balance is reached or ` + "`;;`" + ` is typed.
`

// Run starts the REPL with default settings (no .auroracfg.yaml overrides).
// See RunWithConfig for the customizable form the CLI actually calls.
func Run(out io.Writer, version string) error {
	return RunWithConfig(out, version, config.Defaults())
}

// RunWithConfig starts the REPL, reading lines from a liner session and
// writing results and diagnostics to out. version is printed once at
// startup; cfg supplies the prompt, history file path, and module
// resolution root, falling back to the built-in defaults for any field
// left unset. Dot-commands log through the same Logger the evaluator uses
// for module loads, so all interpreter diagnostics share one sink.
func RunWithConfig(out io.Writer, version string, cfg *config.Config) error {
	if cfg == nil {
		cfg = config.Defaults()
	}
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := cfg.HistoryFile
	if historyPath == "" {
		historyPath = historyFilePath()
	}
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(out, "aurora %s\n", version)
	fmt.Fprintln(out, "type .help for commands")

	logger := aurora.WriterLogger(out)
	opts := []aurora.Option{aurora.WithStdout(out), aurora.WithLogger(logger)}
	if cfg.ModuleRoot != "" {
		opts = append(opts, aurora.WithModuleRoot(cfg.ModuleRoot))
	}
	it := aurora.New(opts...)

	var buf strings.Builder
	for {
		p := prompt
		if buf.Len() > 0 {
			p = continuationPrompt
		}
		input, err := line.Prompt(p)
		if err != nil {
			if err == liner.ErrPromptAborted {
				buf.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		trimmed := strings.TrimSpace(input)

		if buf.Len() == 0 && strings.HasPrefix(trimmed, ".") {
			line.AppendHistory(input)
			if done := runCommand(trimmed, out, it, logger); done {
				return nil
			}
			continue
		}

		if trimmed == flushSentinel {
			line.AppendHistory(input)
			evaluate(buf.String(), out, it)
			buf.Reset()
			continue
		}

		if buf.Len() == 0 && trimmed == "" {
			continue
		}

		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(input)

		if needsMoreInput(buf.String()) {
			continue
		}

		line.AppendHistory(buf.String())
		evaluate(buf.String(), out, it)
		buf.Reset()
	}
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aurora_history"
	}
	return filepath.Join(home, ".aurora_history")
}

func evaluate(src string, out io.Writer, it *aurora.Interpreter) {
	result := it.RunString(src, "<repl>")
	if result.Err != nil {
		fmt.Fprintln(out, result.Error())
		return
	}
	if result.Value != "" {
		fmt.Fprintln(out, result.Value)
	}
}

// runCommand handles a dot-command. Returns true if the REPL should exit.
func runCommand(cmd string, out io.Writer, it *aurora.Interpreter, logger aurora.Logger) bool {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case ".exit":
		return true
	case ".help":
		fmt.Fprint(out, renderHelp())
		return false
	case ".load":
		if len(fields) < 2 {
			fmt.Fprintln(out, ".load requires a path")
			return false
		}
		logger.LogLine(".load", fields[1])
		result := it.RunFile(fields[1])
		if result.Err != nil {
			fmt.Fprintln(out, result.Error())
		} else if result.Value != "" {
			fmt.Fprintln(out, result.Value)
		}
		return false
	case ".env":
		logger.LogLine(".env")
		fmt.Fprintln(out, it.EnvironmentSummary())
		return false
	default:
		fmt.Fprintf(out, "unknown command %s (try .help)\n", fields[0])
		return false
	}
}

// renderHelp converts helpText from markdown to terminal-plain text via
// goldmark, the same library the interpreter's host material uses for
// markdown elsewhere in the pack.
func renderHelp() string {
	var html bytes.Buffer
	if err := goldmark.Convert([]byte(helpText), &html); err != nil {
		return helpText
	}
	return stripTags(html.String())
}

var (
	blockTag  = regexp.MustCompile(`(?i)</?(p|h[1-6]|li|ul|ol)[^>]*>`)
	otherTags = regexp.MustCompile(`<[^>]+>`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

func stripTags(html string) string {
	text := blockTag.ReplaceAllString(html, "\n")
	text = strings.ReplaceAll(text, "<strong>", "")
	text = strings.ReplaceAll(text, "</strong>", "")
	text = strings.ReplaceAll(text, "<code>", "`")
	text = strings.ReplaceAll(text, "</code>", "`")
	text = otherTags.ReplaceAllString(text, "")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text) + "\n"
}

// needsMoreInput reports whether input has unbalanced braces, brackets, or
// parentheses outside of string literals, meaning the REPL should keep
// buffering lines rather than evaluate yet.
func needsMoreInput(input string) bool {
	depth := 0
	inString := false
	var quote byte
	escaped := false
	for i := 0; i < len(input); i++ {
		ch := input[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch ch {
			case '\\':
				escaped = true
			case quote:
				inString = false
			}
			continue
		}
		switch ch {
		case '"', '\'':
			inString = true
			quote = ch
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		}
	}
	return depth > 0
}
