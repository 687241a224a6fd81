// Package config loads the optional .auroracfg.yaml file that tunes the
// REPL and CLI. It has no bearing on language semantics: a script can
// neither read nor alter it.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the ambient tooling overrides an .auroracfg.yaml may set.
type Config struct {
	// HistoryFile overrides the REPL's default ~/.aurora_history path.
	HistoryFile string `yaml:"history_file"`
	// ModuleRoot, if set, is the base directory bare (non-relative) require
	// specifiers resolve against as file modules, before the host resolver.
	ModuleRoot string `yaml:"module_root"`
	// Prompt overrides the REPL's default "aur> " prompt.
	Prompt string `yaml:"prompt"`
}

// Defaults returns a Config with the CLI's built-in behavior, used when no
// config file is found.
func Defaults() *Config {
	return &Config{
		Prompt: "aur> ",
	}
}

// Load searches the working directory and $HOME for .auroracfg.yaml and
// merges any fields it sets over Defaults(). A missing file is not an
// error — the CLI runs with defaults.
func Load(getenv func(string) string) (*Config, error) {
	path, ok := findConfigFile(getenv)
	if !ok {
		return Defaults(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

const configFilename = ".auroracfg.yaml"

func findConfigFile(getenv func(string) string) (string, bool) {
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, configFilename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}

	home := getenv("HOME")
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = h
		}
	}
	if home != "" {
		candidate := filepath.Join(home, configFilename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}

	return "", false
}
