package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global = &Logger{l: zap.NewNop()}

// Logger is a thin context-aware facade over zap.
type Logger struct {
	l *zap.Logger
}

// Init builds the global logger. Must be called once at startup, before any
// component logs through the package-level functions.
func Init(level string, asJSON bool) error {
	const op = "logger.Init"

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("%s: parse level %q: %w", op, level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	if asJSON {
		cfg.Encoding = "json"
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("%s: build: %w", op, err)
	}

	global = &Logger{l: l}
	return nil
}

// L returns the global logger for injection into collaborators.
func L() *Logger { return global }

// With returns a logger carrying the given fields on every entry.
func With(fields ...Field) *Logger {
	return &Logger{l: global.l.With(fields...)}
}

func (lg *Logger) With(fields ...Field) *Logger {
	return &Logger{l: lg.l.With(fields...)}
}

func (lg *Logger) Debug(_ context.Context, msg string, fields ...Field) {
	lg.l.Debug(msg, fields...)
}

func (lg *Logger) Info(_ context.Context, msg string, fields ...Field) {
	lg.l.Info(msg, fields...)
}

func (lg *Logger) Warn(_ context.Context, msg string, fields ...Field) {
	lg.l.Warn(msg, fields...)
}

func (lg *Logger) Error(_ context.Context, msg string, fields ...Field) {
	lg.l.Error(msg, fields...)
}

func (lg *Logger) Sync() error { return lg.l.Sync() }

func Debug(ctx context.Context, msg string, fields ...Field) {
	global.Debug(ctx, msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...Field) {
	global.Info(ctx, msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...Field) {
	global.Warn(ctx, msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...Field) {
	global.Error(ctx, msg, fields...)
}
