package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunFileEvaluatesSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.aur")
	if err := os.WriteFile(path, []byte(`print("hello");`), 0o644); err != nil {
		t.Fatal(err)
	}

	root := newRootCommand()
	stdout := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{path})

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "hello") {
		t.Errorf("expected output to contain %q, got %q", "hello", stdout.String())
	}
}

func TestRunFileReportsParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.aur")
	if err := os.WriteFile(path, []byte(`let = ;`), 0o644); err != nil {
		t.Fatal(err)
	}

	root := newRootCommand()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs([]string{path})

	if err := root.Execute(); err == nil {
		t.Error("expected an error for malformed source")
	}
	if stderr.Len() == 0 {
		t.Error("expected a diagnostic on stderr")
	}
}

func TestRunFileMissingPath(t *testing.T) {
	root := newRootCommand()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs([]string{filepath.Join(t.TempDir(), "missing.aur")})

	if err := root.Execute(); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCommand()
	stdout := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(stdout.String()) != version {
		t.Errorf("expected version output %q, got %q", version, stdout.String())
	}
}

func TestTooManyArgsRejected(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"one.aur", "two.aur"})

	if err := root.Execute(); err == nil {
		t.Error("expected an error for more than one file argument")
	}
}
