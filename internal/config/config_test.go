package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Prompt != "aur> " {
		t.Errorf("expected default prompt %q, got %q", "aur> ", cfg.Prompt)
	}
	if cfg.HistoryFile != "" || cfg.ModuleRoot != "" {
		t.Errorf("expected no override fields set by default, got %+v", cfg)
	}
}

func TestLoadFallsBackToDefaultsWhenNoFileExists(t *testing.T) {
	dir := t.TempDir()
	restore := chdir(t, dir)
	defer restore()

	cfg, err := Load(func(string) string { return filepath.Join(dir, "nonexistent-home") })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Prompt != "aur> " {
		t.Errorf("expected default prompt when no config file exists, got %q", cfg.Prompt)
	}
}

func TestLoadReadsWorkingDirectoryConfig(t *testing.T) {
	dir := t.TempDir()
	restore := chdir(t, dir)
	defer restore()

	yamlData := "prompt: \"> \"\nhistory_file: custom_history\nmodule_root: /opt/modules\n"
	if err := os.WriteFile(filepath.Join(dir, configFilename), []byte(yamlData), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(func(string) string { return "" })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Prompt != "> " {
		t.Errorf("expected overridden prompt %q, got %q", "> ", cfg.Prompt)
	}
	if cfg.HistoryFile != "custom_history" {
		t.Errorf("expected history_file override, got %q", cfg.HistoryFile)
	}
	if cfg.ModuleRoot != "/opt/modules" {
		t.Errorf("expected module_root override, got %q", cfg.ModuleRoot)
	}
}

func TestLoadFallsBackToHomeConfig(t *testing.T) {
	workDir := t.TempDir()
	restore := chdir(t, workDir)
	defer restore()

	home := t.TempDir()
	yamlData := "prompt: \"home> \"\n"
	if err := os.WriteFile(filepath.Join(home, configFilename), []byte(yamlData), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(func(key string) string {
		if key == "HOME" {
			return home
		}
		return ""
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Prompt != "home> " {
		t.Errorf("expected prompt from home config, got %q", cfg.Prompt)
	}
}

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	original, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	return func() { os.Chdir(original) }
}
