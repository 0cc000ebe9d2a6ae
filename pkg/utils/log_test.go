package utils

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogHandler(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		logger := slog.New(newLogHandler(&out, HandlerTypeJSON, LogLevelInfo))
		logger.Debug("Hidden.")
		logger.Info("Shown.", "key", "value")

		var record map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &record))
		assert.Equal(t, "Shown.", record["msg"])
		assert.Equal(t, "value", record["key"])
		assert.Equal(t, "INFO", record["level"])
	})

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		logger := slog.New(newLogHandler(&out, HandlerTypeText, LogLevelWarn))
		logger.Info("Hidden.")
		logger.Warn("Shown.")
		assert.Equal(t, 1, strings.Count(out.String(), "\n"))
		assert.Contains(t, out.String(), "msg=Shown.")
	})
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel(LogLevelDebug))
	assert.Equal(t, slog.LevelInfo, parseLogLevel(LogLevelInfo))
	assert.Equal(t, slog.LevelWarn, parseLogLevel(LogLevelWarn))
	assert.Equal(t, slog.LevelError, parseLogLevel(LogLevelError))
}

func TestParseLogLevel_Unsupported(t *testing.T) {
	if IsTestMode {
		t.Skip("Invariants panic in test mode.")
	}
	invariantsMetric.Reset()
	assert.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
	assert.Equal(t, 1, GetMetricValue("log" /*module*/, "unsupported_log_level" /*invariantType*/))
}
