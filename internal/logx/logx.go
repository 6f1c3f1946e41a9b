// Package logx is a thin wrapper around logrus, preconfigured with
// logrus-easy-formatter for human-readable trace output. It backs the
// interpreter and CLI's --trace diagnostics and never substitutes for
// error propagation.
package logx

import (
	"io"

	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"
)

// Logger wraps *logrus.Logger so callers don't need to import logrus
// directly just to log a trace line.
type Logger struct {
	*logrus.Logger
}

// New builds a Logger writing to w at the given level. Pass
// logrus.InfoLevel (or higher) to silence trace output entirely.
func New(w io.Writer, level logrus.Level) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.SetFormatter(&easy.Formatter{
		TimestampFormat: "15:04:05",
		LogFormat:       "[%lvl%] %time% %msg%\n",
	})
	return &Logger{Logger: l}
}

// NoOp returns a Logger that discards everything, for callers that
// never opt into tracing.
func NoOp() *Logger {
	return New(io.Discard, logrus.PanicLevel)
}
