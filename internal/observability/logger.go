// Package observability holds the logging, metrics and tracing hooks shared by
// the eaccore services, plus their zerolog and Prometheus backends.
package observability

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the structured logging surface used by services. Args are
// alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NoopLogger discards every entry.
type NoopLogger struct{}

func (NoopLogger) Debug(string, ...any) {}
func (NoopLogger) Info(string, ...any)  {}
func (NoopLogger) Warn(string, ...any)  {}
func (NoopLogger) Error(string, ...any) {}

// ZerologLogger adapts a zerolog.Logger to Logger.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger writes JSON lines at or above level to w. A nil writer
// logs to stderr; an unknown level falls back to info.
func NewZerologLogger(w io.Writer, level string) *ZerologLogger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return &ZerologLogger{log: zerolog.New(w).Level(lvl).With().Timestamp().Logger()}
}

// FromZerolog wraps an existing zerolog logger.
func FromZerolog(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{log: l}
}

func (l *ZerologLogger) Debug(msg string, args ...any) { emit(l.log.Debug(), msg, args) }
func (l *ZerologLogger) Info(msg string, args ...any)  { emit(l.log.Info(), msg, args) }
func (l *ZerologLogger) Warn(msg string, args ...any)  { emit(l.log.Warn(), msg, args) }
func (l *ZerologLogger) Error(msg string, args ...any) { emit(l.log.Error(), msg, args) }

func emit(ev *zerolog.Event, msg string, args []any) {
	if ev == nil {
		return
	}
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		if i+1 >= len(args) {
			ev = ev.Str("!BADKEY", key)
			break
		}
		switch v := args[i+1].(type) {
		case error:
			ev = ev.Str(key, v.Error())
		case string:
			ev = ev.Str(key, v)
		case fmt.Stringer:
			ev = ev.Str(key, v.String())
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}
