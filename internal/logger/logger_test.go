package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/awakening/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&config.Config{Environment: "production", LogLevel: slog.LevelInfo}, &buf)

	WithSession(log, "abc").Info("Story advanced", "to", 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Story advanced", entry["msg"])
	assert.Equal(t, "abc", entry["session_id"])
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&config.Config{Environment: "development", LogLevel: slog.LevelWarn}, &buf)

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetup_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "awakening.log")
	log, closer, err := Setup(&config.Config{LogFile: path, LogLevel: slog.LevelInfo})
	require.NoError(t, err)

	log.Info("Dialogue started", "character", "Lyra")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "character=Lyra")
}

func TestSetup_BadLogFile(t *testing.T) {
	_, _, err := Setup(&config.Config{LogFile: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}
