package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, Field{Key: "k", Value: "v"}, String("k", "v"))
	assert.Equal(t, Field{Key: "n", Value: 7}, Int("n", 7))
	assert.Equal(t, Field{Key: "b", Value: true}, Bool("b", true))
	assert.Equal(t, Field{Key: "d", Value: time.Second}, Duration("d", time.Second))
}

func TestErr_NilError(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestErr_NonNilError(t *testing.T) {
	f := Err(errors.New("boom"))
	assert.Equal(t, "boom", f.Value)
}

func TestZapLogger_EmitsFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core)

	log.Info("classified batch", Int("unique", 3), Int("duplicates", 1))

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "classified batch", entries[0].Message)
	assert.Equal(t, int64(3), entries[0].ContextMap()["unique"])
}

func TestZapLogger_WithAttachesFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core).With(String("component", "dedup"))

	log.Warn("pool empty")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "dedup", entries[0].ContextMap()["component"])
}

func TestNewLogger_Defaults(t *testing.T) {
	log, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNopLogger_DoesNotPanic(t *testing.T) {
	log := NewNopLogger()
	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	log.Error("e")
	assert.NotNil(t, log.With(String("a", "b")))
	assert.NotNil(t, log.Named("x"))
}

func TestDefault_SetAndGet(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	log := NewNopLogger()
	SetDefault(log)
	assert.Equal(t, log, Default())

	// nil is ignored
	SetDefault(nil)
	assert.Equal(t, log, Default())
}
