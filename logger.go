package contentstack

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the structured logging interface the pipeline calls. Keys and
// values alternate in keysAndValues.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// nopLogger is the silent sink used when logging is disabled.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger { return nopLogger{} }

// zerologLogger adapts zerolog to the Logger interface.
type zerologLogger struct {
	log zerolog.Logger
}

// NewStructuredLogger returns a zerolog-backed Logger writing JSON lines to w.
// It is the sink the client selects when logging is enabled and no custom
// Logger was supplied.
func NewStructuredLogger(w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	return &zerologLogger{
		log: zerolog.New(w).With().Timestamp().Str("client", productName).Logger(),
	}
}

func (l *zerologLogger) Debug(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *zerologLogger) Info(msg string, keysAndValues ...any) {
	l.log.Info().Fields(keysAndValues).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, keysAndValues ...any) {
	l.log.Warn().Fields(keysAndValues).Msg(msg)
}

func (l *zerologLogger) Error(msg string, keysAndValues ...any) {
	l.log.Error().Fields(keysAndValues).Msg(msg)
}
