// Package config loads the Argus workspace configuration from
// .argus/config.yaml, merged over defaults, with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all Argus configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Workspace state (floating-panel snapshots etc.)
	Workspace WorkspaceConfig `yaml:"workspace"`

	// Suggestion bar behavior
	Suggestions SuggestionsConfig `yaml:"suggestions"`

	// Transcript ingestion
	Stream StreamConfig `yaml:"stream"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// WorkspaceConfig configures workspace persistence.
type WorkspaceConfig struct {
	// StateDir holds persisted snapshots, relative to the workspace
	// root when not absolute.
	StateDir string `yaml:"state_dir"`

	// PersistFloating controls whether floating-panel geometry survives
	// restarts. When false the positioner runs on an in-memory store.
	PersistFloating bool `yaml:"persist_floating"`
}

// SuggestionsConfig configures the suggestion bar.
type SuggestionsConfig struct {
	// Max caps the combined custom+canned suggestion list. Zero means
	// no cap.
	Max int `yaml:"max"`
}

// StreamConfig configures transcript ingestion.
type StreamConfig struct {
	// TranscriptPath is the JSON-lines conversation file to tail,
	// relative to the workspace root when not absolute.
	TranscriptPath string `yaml:"transcript_path"`
}

// LoggingConfig configures categorized debug logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
	JSONFormat bool            `yaml:"json_format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Name:    "argus",
		Version: "0.4.0",
		Workspace: WorkspaceConfig{
			StateDir:        filepath.Join(".argus", "state"),
			PersistFloating: true,
		},
		Suggestions: SuggestionsConfig{Max: 4},
		Stream: StreamConfig{
			TranscriptPath: filepath.Join(".argus", "transcript.jsonl"),
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load reads .argus/config.yaml from the workspace root, merged over
// defaults. A missing file yields the defaults; a malformed file is an
// error. Environment overrides are applied last.
func Load(workspace string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(workspace, ".argus", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes the configuration to .argus/config.yaml.
func (c *Config) Save(workspace string) error {
	dir := filepath.Join(workspace, ".argus")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0644)
}

// StateDirPath resolves the state directory against the workspace root.
func (c *Config) StateDirPath(workspace string) string {
	if filepath.IsAbs(c.Workspace.StateDir) {
		return c.Workspace.StateDir
	}
	return filepath.Join(workspace, c.Workspace.StateDir)
}

// TranscriptPath resolves the transcript file against the workspace root.
func (c *Config) TranscriptPath(workspace string) string {
	if filepath.IsAbs(c.Stream.TranscriptPath) {
		return c.Stream.TranscriptPath
	}
	return filepath.Join(workspace, c.Stream.TranscriptPath)
}

// applyEnv applies ARGUS_* environment overrides on top of file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("ARGUS_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = b
		}
	}
	if v := os.Getenv("ARGUS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ARGUS_TRANSCRIPT"); v != "" {
		c.Stream.TranscriptPath = v
	}
	if v := os.Getenv("ARGUS_MAX_SUGGESTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Suggestions.Max = n
		}
	}
}
