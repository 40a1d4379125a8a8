package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Name, cfg.Name)
	assert.Equal(t, def.Workspace.StateDir, cfg.Workspace.StateDir)
	assert.True(t, cfg.Workspace.PersistFloating)
	assert.Equal(t, 4, cfg.Suggestions.Max)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
suggestions:
  max: 8
logging:
  debug_mode: true
  categories:
    workspace: true
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	// Overridden values take effect.
	assert.Equal(t, 8, cfg.Suggestions.Max)
	assert.True(t, cfg.Logging.DebugMode)
	assert.True(t, cfg.Logging.Categories["workspace"])

	// Untouched values keep their defaults.
	assert.Equal(t, filepath.Join(".argus", "transcript.jsonl"), cfg.Stream.TranscriptPath)
	assert.True(t, cfg.Workspace.PersistFloating)
}

func TestLoadMalformedFileFails(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "{not yaml: [")

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.Suggestions.Max = 2
	cfg.Stream.TranscriptPath = "custom.jsonl"
	require.NoError(t, cfg.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Suggestions.Max)
	assert.Equal(t, "custom.jsonl", loaded.Stream.TranscriptPath)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "logging:\n  level: warn\n")

	t.Setenv("ARGUS_DEBUG", "true")
	t.Setenv("ARGUS_LOG_LEVEL", "debug")
	t.Setenv("ARGUS_TRANSCRIPT", "/tmp/t.jsonl")
	t.Setenv("ARGUS_MAX_SUGGESTIONS", "1")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, cfg.Logging.DebugMode)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/t.jsonl", cfg.Stream.TranscriptPath)
	assert.Equal(t, 1, cfg.Suggestions.Max)
}

func TestPathResolution(t *testing.T) {
	cfg := Default()
	ws := filepath.Join(string(os.PathSeparator), "work", "proj")

	assert.Equal(t, filepath.Join(ws, ".argus", "state"), cfg.StateDirPath(ws))
	assert.Equal(t, filepath.Join(ws, ".argus", "transcript.jsonl"), cfg.TranscriptPath(ws))

	cfg.Stream.TranscriptPath = filepath.Join(string(os.PathSeparator), "abs.jsonl")
	assert.Equal(t, cfg.Stream.TranscriptPath, cfg.TranscriptPath(ws))
}

func writeConfig(t *testing.T, workspace, content string) {
	t.Helper()
	dir := filepath.Join(workspace, ".argus")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))
}
