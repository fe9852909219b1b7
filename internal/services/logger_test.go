package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewProductionLoggerWithWriter("chat", &buf)

	logger.Info("submission settled", "chat_id", "c1", "latency_ms", 42, "error", errors.New("boom"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "chat", entry["service"])
	assert.Equal(t, "submission settled", entry["message"])
	assert.Equal(t, "c1", entry["chat_id"])
	assert.Equal(t, float64(42), entry["latency_ms"])
	assert.Equal(t, "boom", entry["error"])
}

func TestProductionLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewProductionLoggerWithWriter("chat", &buf)
	logger.SetLevel(LogLevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestProductionLoggerConsoleMode(t *testing.T) {
	var buf bytes.Buffer
	logger := NewProductionLoggerWithWriter("chat", &buf)
	logger.SetStructured(false)

	logger.Error("answer failed", "chat_id", "c1")
	out := buf.String()
	assert.Contains(t, out, "answer failed")
	assert.Contains(t, out, "chat_id=c1")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("WARN"))
	assert.Equal(t, LogLevelError, ParseLogLevel(" error "))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("verbose"))
}

func TestNewLoggerForTestEnvIsNoOp(t *testing.T) {
	assert.IsType(t, &NoOpLogger{}, NewLoggerFor("x", "test", "debug"))
	assert.IsType(t, &ProductionLogger{}, NewLoggerFor("x", "production", ""))
}
