package logger

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type spanProcessor struct {
	log *slog.Logger
}

// NewSpanProcessor logs every finished span at debug level, errored spans at
// warning level.
func NewSpanProcessor(log *slog.Logger) sdktrace.SpanProcessor {
	return spanProcessor{log: log}
}

func (spanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p spanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	level := slog.LevelDebug
	args := []any{slog.Duration("elapsed", s.EndTime().Sub(s.StartTime()))}
	for _, kv := range s.Attributes() {
		args = append(args, slog.String(string(kv.Key), kv.Value.Emit()))
	}
	if st := s.Status(); st.Code == codes.Error {
		level = slog.LevelWarn
		args = append(args, slog.String("error", st.Description))
	}
	p.log.Log(context.Background(), level, "span "+s.Name(), args...)
}

func (spanProcessor) Shutdown(context.Context) error   { return nil }
func (spanProcessor) ForceFlush(context.Context) error { return nil }
