// Package logger provides logging implementations for songbook
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/memtensor/songbook/pkg/interfaces"
)

// SlogLogger adapts log/slog to interfaces.Logger
type SlogLogger struct {
	handler slog.Handler
	level   *slog.LevelVar
	attrs   []slog.Attr
}

// ParseLevel maps a config level string onto a slog level. Unknown values
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLoggerWithWriter creates a logger writing to w. format is "json" or "text".
func NewLoggerWithWriter(w io.Writer, level, format string) *SlogLogger {
	lv := new(slog.LevelVar)
	lv.Set(ParseLevel(level))
	opts := &slog.HandlerOptions{Level: lv}

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return &SlogLogger{handler: h, level: lv}
}

// SetLevel changes the level of this logger and all loggers derived from it
func (l *SlogLogger) SetLevel(level string) {
	l.level.Set(ParseLevel(level))
}

// Level returns the current level
func (l *SlogLogger) Level() slog.Level {
	return l.level.Level()
}

// Debug logs debug level messages
func (l *SlogLogger) Debug(msg string, fields ...map[string]interface{}) {
	l.log(slog.LevelDebug, msg, nil, fields...)
}

// Info logs info level messages
func (l *SlogLogger) Info(msg string, fields ...map[string]interface{}) {
	l.log(slog.LevelInfo, msg, nil, fields...)
}

// Warn logs warning level messages
func (l *SlogLogger) Warn(msg string, fields ...map[string]interface{}) {
	l.log(slog.LevelWarn, msg, nil, fields...)
}

// Error logs error level messages
func (l *SlogLogger) Error(msg string, err error, fields ...map[string]interface{}) {
	l.log(slog.LevelError, msg, err, fields...)
}

// Fatal logs fatal level messages and exits
func (l *SlogLogger) Fatal(msg string, err error, fields ...map[string]interface{}) {
	l.Error(msg, err, fields...)
	os.Exit(1)
}

// WithFields returns a logger with additional fields
func (l *SlogLogger) WithFields(fields map[string]interface{}) interfaces.Logger {
	attrs := make([]slog.Attr, 0, len(l.attrs)+len(fields))
	attrs = append(attrs, l.attrs...)
	attrs = append(attrs, toAttrs(fields)...)
	return &SlogLogger{handler: l.handler, level: l.level, attrs: attrs}
}

func (l *SlogLogger) log(level slog.Level, msg string, err error, fields ...map[string]interface{}) {
	ctx := context.Background()
	if !l.handler.Enabled(ctx, level) {
		return
	}
	attrs := make([]slog.Attr, 0, len(l.attrs)+4)
	attrs = append(attrs, l.attrs...)
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	for _, f := range fields {
		attrs = append(attrs, toAttrs(f)...)
	}
	slog.New(l.handler).LogAttrs(ctx, level, msg, attrs...)
}

func toAttrs(fields map[string]interface{}) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(fields))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

// NewConsoleLogger creates a new console logger
func NewConsoleLogger(level string) interfaces.Logger {
	return NewLoggerWithWriter(os.Stderr, level, "text")
}

// NewTestLogger creates a logger for testing
func NewTestLogger() interfaces.Logger {
	return NewLoggerWithWriter(io.Discard, "debug", "text")
}

// NewLogger creates a new logger with default settings
func NewLogger() interfaces.Logger {
	return NewLoggerWithWriter(os.Stderr, "info", "text")
}

// NewNopLogger creates a logger that discards everything
func NewNopLogger() interfaces.Logger {
	return NewLoggerWithWriter(io.Discard, "error", "text")
}
