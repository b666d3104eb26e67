// Package logging configures structured slog loggers and carries them through contexts.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Type aliases for slog types.
type (
	Logger = slog.Logger
	Attr   = slog.Attr
	Level  = slog.Level
)

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Options holds configuration for the logger.
type Options struct {
	Level      Level
	AddSource  bool
	IsJSON     bool
	SetDefault bool
	Writer     io.Writer
}

// Option configures Options.
type Option func(*Options)

// NewLogger creates a text or JSON logger. Defaults: info level, text output
// on stderr, installed as the slog default.
func NewLogger(opts ...Option) *Logger {
	config := &Options{
		Level:      LevelInfo,
		SetDefault: true,
		Writer:     os.Stderr,
	}
	for _, opt := range opts {
		opt(config)
	}

	handlerOptions := &slog.HandlerOptions{
		AddSource: config.AddSource,
		Level:     config.Level,
	}

	var handler slog.Handler = slog.NewTextHandler(config.Writer, handlerOptions)
	if config.IsJSON {
		handler = slog.NewJSONHandler(config.Writer, handlerOptions)
	}

	logger := slog.New(handler)
	if config.SetDefault {
		slog.SetDefault(logger)
	}
	return logger
}

// WithLevel sets the level from its name ("debug", "info", "warn", "error").
// Unknown names fall back to info and are reported on the current default logger.
func WithLevel(level string) Option {
	return func(o *Options) {
		parsed, err := ParseLevel(level)
		if err != nil {
			slog.Default().Error("failed to parse log level",
				slog.String("input", level),
				slog.String("default", "info"),
				ErrAttr(err),
			)
		}
		o.Level = parsed
	}
}

// WithIsJSON switches the output format to JSON.
func WithIsJSON(isJSON bool) Option {
	return func(o *Options) {
		o.IsJSON = isJSON
	}
}

// WithAddSource enables source file logging.
func WithAddSource(addSource bool) Option {
	return func(o *Options) {
		o.AddSource = addSource
	}
}

// WithSetDefault controls whether the logger becomes the slog default.
func WithSetDefault(setDefault bool) Option {
	return func(o *Options) {
		o.SetDefault = setDefault
	}
}

// WithWriter redirects output.
func WithWriter(writer io.Writer) Option {
	return func(o *Options) {
		o.Writer = writer
	}
}

// ParseLevel maps a level name to a Level. Unknown names return info and an error.
func ParseLevel(level string) (Level, error) {
	var parsed Level
	if err := parsed.UnmarshalText([]byte(level)); err != nil {
		return LevelInfo, err
	}
	return parsed, nil
}

// ErrAttr creates an error attribute. Handles nil errors.
func ErrAttr(err error) Attr {
	if err == nil {
		return slog.String("error", "error is nil")
	}
	return slog.String("error", err.Error())
}

// TimeAttr formats a wall-clock instant to second resolution.
func TimeAttr(key string, value time.Time) Attr {
	return slog.String(key, value.Format(time.DateTime))
}

type ctxLogger struct{}

// ContextWithLogger stores logger in ctx.
func ContextWithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, ctxLogger{}, logger)
}

// L retrieves the logger from ctx or returns the default.
func L(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(ctxLogger{}).(*Logger); ok {
		return logger
	}
	return slog.Default()
}
