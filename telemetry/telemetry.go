// Package telemetry binds beamrt.Logger to a real
// github.com/joeycumines/logiface pipeline, backed by log/slog via
// github.com/joeycumines/logiface-slog - the same logiface+slog pairing the
// teacher repo ships as its own module, wired here into the scheduler's
// structured-logging surface.
//
// beamrt itself never imports logiface or logiface-slog - see logging.go's
// package doc - so the scheduler core carries zero required logging
// dependency; telemetry is the concrete adapter an application wires in.
package telemetry

import (
	"log/slog"

	"github.com/joeycumines/beamrt"
	"github.com/joeycumines/logiface"
	logifaceslog "github.com/joeycumines/logiface-slog"
)

// bridgeLogger implements beamrt.Logger by driving a
// logiface.Logger[*logifaceslog.Event] built on top of logiface-slog.
type bridgeLogger struct {
	inner *logiface.Logger[*logifaceslog.Event]
}

// NewSlogLogger returns a beamrt.Logger that writes structured events
// through logiface-slog to handler. A nil handler panics, matching
// logifaceslog.NewLogger's own contract.
func NewSlogLogger(handler slog.Handler) beamrt.Logger {
	return &bridgeLogger{
		inner: logiface.New[*logifaceslog.Event](
			logifaceslog.NewLogger(handler, logifaceslog.WithLevel(logiface.LevelTrace)),
		),
	}
}

func (b *bridgeLogger) Enabled(level beamrt.Level) bool {
	return b.inner.Level() != logiface.LevelDisabled
}

func (b *bridgeLogger) Log(level beamrt.Level, msg string, fields ...beamrt.Field) {
	builder := b.inner.Build(toLogifaceLevel(level))
	if builder == nil {
		return
	}
	for _, f := range fields {
		builder = builder.Interface(f.Key, f.Value)
	}
	builder.Log(msg)
}

func toLogifaceLevel(l beamrt.Level) logiface.Level {
	switch l {
	case beamrt.LevelDebug:
		return logiface.LevelDebug
	case beamrt.LevelInfo:
		return logiface.LevelInformational
	case beamrt.LevelWarn:
		return logiface.LevelWarning
	case beamrt.LevelError:
		return logiface.LevelError
	default:
		return logiface.LevelInformational
	}
}
