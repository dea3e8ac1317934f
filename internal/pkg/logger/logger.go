package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger routes application logs through zerolog. It stays silent unless verbose.
type ZeroLogger struct {
	log zerolog.Logger
}

// New creates a logger writing human-readable lines to stderr.
func New(verbose bool) *ZeroLogger {
	return NewWithWriter(os.Stderr, verbose)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, verbose bool) *ZeroLogger {
	level := zerolog.Disabled
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	return &ZeroLogger{log: zerolog.New(out).Level(level).With().Timestamp().Logger()}
}

// Nop returns a logger that discards everything.
func Nop() *ZeroLogger {
	return &ZeroLogger{log: zerolog.Nop()}
}

func (l *ZeroLogger) Debug(msg string, fields map[string]interface{}) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Info(msg string, fields map[string]interface{}) {
	l.log.Info().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Warn(msg string, fields map[string]interface{}) {
	l.log.Warn().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.log.Error().Err(err).Fields(fields).Msg(msg)
}
