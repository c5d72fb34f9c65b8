package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger is the panel's printf-style logging surface over slog. All methods
// are safe on a nil receiver, so optional loggers need no guards.
type Logger struct {
	slog *slog.Logger
}

func NewLogger() *Logger {
	return NewLoggerTo(os.Stdout, slog.LevelInfo)
}

// NewLoggerTo writes text records to w at the given level.
func NewLoggerTo(w io.Writer, level slog.Level) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{slog: slog.New(handler)}
}

func (l *Logger) Printf(format string, v ...any) {
	if l == nil || l.slog == nil {
		return
	}
	l.slog.Info(fmt.Sprintf(format, v...))
}

func (l *Logger) Debugf(format string, v ...any) {
	if l == nil || l.slog == nil {
		return
	}
	l.slog.Debug(fmt.Sprintf(format, v...))
}

func (l *Logger) Errorf(format string, v ...any) {
	if l == nil || l.slog == nil {
		return
	}
	l.slog.Error(fmt.Sprintf(format, v...))
}

func (l *Logger) Fatalf(format string, v ...any) {
	if l != nil && l.slog != nil {
		l.slog.Error(fmt.Sprintf("FATAL: "+format, v...))
	}
	os.Exit(1)
}
