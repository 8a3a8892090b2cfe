package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestScopedLoggerName(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewFromCore(core)

	logger.WithScope("SAMPLER").WithScope("WARMUP").Info("call %d done", 1)
	logger.Info("root message")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "SAMPLER.WARMUP", entries[0].LoggerName)
	assert.Equal(t, "call 1 done", entries[0].Message)
	assert.Equal(t, "", entries[1].LoggerName)
}

func TestSeparator(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	NewFromCore(core).Separator()

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, SeparatorLine, logs.All()[0].Message)
}

func TestFilesSplitByLevel(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "bench.log")
	errPath := filepath.Join(dir, "bench.err")
	var console bytes.Buffer

	logger, err := New(Options{LogPath: logPath, ErrorPath: errPath, Console: &console})
	require.NoError(t, err)

	logger.Info("starting %s", "run")
	logger.Error("call failed: %s", "boom")
	logger.Close()

	logData, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logData), "starting run")
	assert.Contains(t, string(logData), "call failed: boom")

	errData, err := os.ReadFile(errPath)
	require.NoError(t, err)
	assert.NotContains(t, string(errData), "starting run")
	assert.Contains(t, string(errData), "call failed: boom")

	assert.Contains(t, console.String(), "starting run")
}

func TestLevelFiltering(t *testing.T) {
	var console bytes.Buffer
	logger, err := New(Options{Level: "error", Console: &console})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Error("shown")
	logger.Sync()

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shown")
}

func TestInvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}
