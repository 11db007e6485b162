package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)

	logger.Debugw("body added", "handle", 3)
	logger.Infow("step", "tick", 1)

	assert.Equal(t, 2, logs.Len())
	entries := logs.FilterMessage("body added").All()
	assert.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, int64(3), entries[0].ContextMap()["handle"])
}

func TestLoggerLevels(t *testing.T) {
	assert.False(t, NewLogger("info").Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, NewDebugLogger("debug").Desugar().Core().Enabled(zapcore.DebugLevel))
}

func TestReplaceGlobal(t *testing.T) {
	prev := Global()
	defer ReplaceGlobal(prev)

	logger := NewTestLogger(t)
	ReplaceGlobal(logger)
	assert.Same(t, logger, Global())
}

func TestLoggerConfig(t *testing.T) {
	cfg := NewLoggerConfig()
	assert.Equal(t, "console", cfg.Encoding)
	assert.True(t, cfg.DisableStacktrace)
	assert.Equal(t, zapcore.InfoLevel, cfg.Level.Level())
}
