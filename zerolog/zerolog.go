// Package profilerzerolog adapts github.com/rs/zerolog as a profiler.Logger,
// so diagnostics from the profiling engine (pool exhaustion warnings,
// finalize consistency errors, and so on) flow through an application's
// existing structured logger instead of a bespoke one.
package profilerzerolog

import (
	"github.com/rs/zerolog"

	"github.com/qqzhong/foundation-lib"
)

// Logger wraps a zerolog.Logger as a profiler.Logger.
type Logger struct {
	log zerolog.Logger
}

// New returns a profiler.Logger backed by log.
func New(log zerolog.Logger) *Logger {
	return &Logger{log: log}
}

func (l *Logger) IsEnabled(level profiler.LogLevel) bool {
	return l.log.GetLevel() <= toZerologLevel(level)
}

func (l *Logger) Log(entry profiler.LogEntry) {
	ev := l.log.WithLevel(toZerologLevel(entry.Level))
	if entry.Identifier != "" {
		ev = ev.Str("identifier", entry.Identifier)
	}
	if entry.Err != nil {
		ev = ev.Err(entry.Err)
	}
	ev.Msg(entry.Message)
}

func toZerologLevel(level profiler.LogLevel) zerolog.Level {
	switch level {
	case profiler.LevelDebug:
		return zerolog.DebugLevel
	case profiler.LevelInfo:
		return zerolog.InfoLevel
	case profiler.LevelWarn:
		return zerolog.WarnLevel
	case profiler.LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
