package telemetry

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/joeycumines/beamrt"
	"github.com/stretchr/testify/require"
)

func TestNewSlogLogger_WritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := NewSlogLogger(handler)

	logger.Log(beamrt.LevelInfo, "process scheduled", beamrt.F("pid", uint64(42)), beamrt.F("core", 3))

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(&buf).Decode(&decoded))
	require.Equal(t, "process scheduled", decoded["msg"])
	require.EqualValues(t, 42, decoded["pid"])
	require.EqualValues(t, 3, decoded["core"])
}

func TestNewSlogLogger_RespectsHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError})
	logger := NewSlogLogger(handler)

	logger.Log(beamrt.LevelInfo, "below threshold")
	require.Empty(t, buf.String())

	logger.Log(beamrt.LevelError, "at threshold")
	require.Contains(t, buf.String(), "at threshold")
}

func TestNewSlogLogger_PanicsOnNilHandler(t *testing.T) {
	require.Panics(t, func() { NewSlogLogger(nil) })
}

func TestNewSlogLogger_EnabledReflectsLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.NewTextHandler(&buf, nil))
	require.True(t, logger.Enabled(beamrt.LevelDebug))
}
