package beamrt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoOpLogger_DiscardsEverything(t *testing.T) {
	l := NewNoOpLogger()
	require.False(t, l.Enabled(LevelError))
	l.Log(LevelError, "should not panic") // must be safe to call regardless
}

type recordingLogger struct {
	calls []Field
}

func (r *recordingLogger) Enabled(Level) bool { return true }
func (r *recordingLogger) Log(level Level, msg string, fields ...Field) {
	r.calls = append(r.calls, fields...)
}

func TestSetDefaultLogger_OverridesGlobal(t *testing.T) {
	defer SetDefaultLogger(nil)

	rec := &recordingLogger{}
	SetDefaultLogger(rec)
	require.Same(t, Logger(rec), getDefaultLogger())
}

func TestGetDefaultLogger_FallsBackToNoOp(t *testing.T) {
	SetDefaultLogger(nil)
	l := getDefaultLogger()
	require.False(t, l.Enabled(LevelDebug))
}

func TestLevel_String(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "INFO", LevelInfo.String())
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "ERROR", LevelError.String())
}
