// Package debug carries a *slog.Logger through a context and provides the
// leveled helpers the rest of the server logs with.
package debug

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Level int

const (
	_ Level = iota
	Error
	Warning
	Info
	Debug
	Trace
)

type loggerCtx int

const (
	loggerCtxKey = loggerCtx(iota)
)

// WithLogger returns a context that logs to logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// Logger returns the logger carried by ctx, or slog.Default.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

func convertLevel(level Level) slog.Level {
	switch level {
	case Error:
		return slog.LevelError
	case Warning:
		return slog.LevelWarn
	case Info:
		return slog.LevelInfo
	case Debug, Trace:
		return slog.LevelDebug
	default:
		return slog.LevelDebug
	}
}

func (l Level) Log(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Log(ctx, convertLevel(l), msg, args...)
}

func LogError(ctx context.Context, msg string, err error) {
	Logger(ctx).Log(ctx, slog.LevelError, msg, slog.Any("error", err))
}

func With(ctx context.Context, args ...any) (context.Context, *slog.Logger) {
	logger := Logger(ctx).With(args...)
	return WithLogger(ctx, logger), logger
}

// Start logs the beginning of an operation and returns a func that logs its
// end along with the elapsed time. Durations under a second are reported as 0
// to keep logs diffable.
func Start(ctx context.Context, name string, args ...any) (context.Context, func()) {
	logger := Logger(ctx).WithGroup(name)
	ctx = WithLogger(ctx, logger)
	logger.Log(ctx, slog.LevelDebug, fmt.Sprintf("%s Starting...", name), args...)
	start := time.Now()

	return ctx, func() {
		elapsed := time.Since(start)
		if elapsed < time.Second {
			elapsed = 0
		}
		args = append(args, slog.Duration("elapsed", elapsed))
		logger.Log(ctx, slog.LevelDebug, fmt.Sprintf("%s Done", name), args...)
	}
}
