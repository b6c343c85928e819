// Package config loads the kernel's small set of runtime-tunable knobs
// from a YAML document, the same way the teacher's internal/eval_harness
// loads benchmark specs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables the CLI and REPL read at startup.
type Config struct {
	Eval Eval `yaml:"eval"`
	REPL REPL `yaml:"repl"`
}

// Eval controls the evaluator's defensive limits.
type Eval struct {
	// MaxDepth bounds Eval's recursion depth; 0 disables the guard. See
	// eval.Evaluator.SetMaxDepth.
	MaxDepth int `yaml:"max_depth"`
}

// REPL controls the REPL's startup behavior.
type REPL struct {
	// HistoryFile is the path liner reads/writes its line history to. An
	// empty value disables history persistence.
	HistoryFile string `yaml:"history_file"`
	// Prelude lists s-expr source files the REPL checks and evaluates
	// before the first prompt is shown; their results are not kept.
	Prelude []string `yaml:"prelude"`
}

// Default returns the config used when no file is given.
func Default() *Config {
	return &Config{
		Eval: Eval{MaxDepth: 100_000},
		REPL: REPL{HistoryFile: defaultHistoryFile()},
	}
}

// Load reads and parses a YAML config file, filling in defaults for any
// field the file omits.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

func defaultHistoryFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".zokernel_history"
	}
	return filepath.Join(dir, "zokernel_history")
}
