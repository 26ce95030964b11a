package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/audionorm/internal/config"
)

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	defer l.Close()
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = filepath.Join(dir, "logs", "audionorm.log")
	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	l.Info("to file")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[INFO] to file")
}

func TestWriterLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, false)

	l.Info("info %d", 1)
	l.Success("done")
	l.Warn("careful")
	l.Error("broken")
	l.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "[INFO] info 1")
	assert.Contains(t, out, "[SUCCESS] done")
	assert.Contains(t, out, "[WARN] careful")
	assert.Contains(t, out, "[ERROR] broken")
	assert.NotContains(t, out, "hidden")
}

func TestWriterLogger_DebugWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, true)
	assert.True(t, l.Verbose())

	l.Debug("channel stats")
	assert.Contains(t, buf.String(), "[DEBUG] channel stats")
}
