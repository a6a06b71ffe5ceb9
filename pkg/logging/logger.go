// Package logging provides the structured logger shared by the dedup engine
// and its collaborators. Built on log/slog; callers get component-scoped
// child loggers so batch, index, and scorer activity can be filtered apart.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// LogLevel represents different logging levels.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  LogLevel `json:"level"`
	Format string   `json:"format"` // "json" or "text"
	Output string   `json:"output"` // "stdout", "stderr", or file path
}

// DefaultLogConfig returns sensible defaults for library use: info-level
// JSON to stderr, nothing written to disk.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  LevelInfo,
		Format: "json",
		Output: "stderr",
	}
}

// Logger wraps slog with the engine's field conventions.
type Logger struct {
	config  LogConfig
	slogger *slog.Logger
	file    *os.File
}

// NewLogger creates a structured logger per config.
func NewLogger(config LogConfig) (*Logger, error) {
	l := &Logger{config: config}

	var writer io.Writer
	switch config.Output {
	case "stdout":
		writer = os.Stdout
	case "stderr", "":
		writer = os.Stderr
	default:
		if err := os.MkdirAll(filepath.Dir(config.Output), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = file
		writer = file
	}

	opts := &slog.HandlerOptions{Level: slogLevel(config.Level)}
	var handler slog.Handler
	if config.Format == "text" {
		handler = slog.NewTextHandler(writer, opts)
	} else {
		handler = slog.NewJSONHandler(writer, opts)
	}
	l.slogger = slog.New(handler)
	return l, nil
}

// Discard returns a logger that drops everything. Used as the default when a
// caller does not wire logging; the engine never requires a logger to work.
func Discard() *Logger {
	return &Logger{
		config:  LogConfig{Level: LevelError + 1},
		slogger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// WithComponent returns a child logger tagging every entry with the component
// name ("engine", "index", "scorer", ...).
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		config:  l.config,
		slogger: l.slogger.With(slog.String("component", component)),
		file:    l.file,
	}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, nil, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, nil, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, nil, fields) }

func (l *Logger) Error(msg string, err error, fields ...Field) {
	l.log(LevelError, msg, err, fields)
}

func (l *Logger) log(level LogLevel, msg string, err error, fields []Field) {
	if level < l.config.Level {
		return
	}
	attrs := make([]slog.Attr, 0, len(fields)+1)
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	l.slogger.LogAttrs(context.Background(), slogLevel(level), msg, attrs...)
}

// Field is a structured log field.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field             { return Field{Key: key, Value: value} }
func Int(key string, value int) Field            { return Field{Key: key, Value: value} }
func Int64(key string, value int64) Field        { return Field{Key: key, Value: value} }
func Float64(key string, value float64) Field    { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field          { return Field{Key: key, Value: value} }
func Duration(key string, v time.Duration) Field { return Field{Key: key, Value: v} }
func Any(key string, value any) Field            { return Field{Key: key, Value: value} }

func slogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
