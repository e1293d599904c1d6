package logger

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/corymhall/lintlsp/lsp"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type logClient struct {
	lsp.Client

	mu   sync.Mutex
	msgs []lsp.LogMessageParams
}

func (c *logClient) LogMessage(_ context.Context, params *lsp.LogMessageParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, *params)
	return nil
}

func (c *logClient) messages() []lsp.LogMessageParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]lsp.LogMessageParams(nil), c.msgs...)
}

func TestClientHandlerForwards(t *testing.T) {
	client := &logClient{}
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	log := slog.New(NewClientHandler(client, level)).With("uri", "file:///a").WithGroup("lint")

	log.Debug("dropped")
	log.Warn("request failed", "status", 500)

	require.Eventually(t, func() bool { return len(client.messages()) == 1 }, time.Second, time.Millisecond)
	got := client.messages()[0]
	require.Equal(t, lsp.MessageTypeWarning, got.Type)
	require.Equal(t, "request failed uri=file:///a lint.status=500", got.Message)
}

func TestClientHandlerKeepsOrder(t *testing.T) {
	client := &logClient{}
	log := slog.New(NewClientHandler(client, slog.LevelDebug))
	for _, msg := range []string{"one", "two", "three"} {
		log.Error(msg)
	}
	require.Eventually(t, func() bool { return len(client.messages()) == 3 }, time.Second, time.Millisecond)
	msgs := client.messages()
	require.Equal(t, "one", msgs[0].Message)
	require.Equal(t, "three", msgs[2].Message)
	require.Equal(t, lsp.MessageTypeError, msgs[0].Type)
}

func TestTee(t *testing.T) {
	var debugBuf, errBuf bytes.Buffer
	log := slog.New(Tee(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	))

	log.Debug("detail")
	require.Contains(t, debugBuf.String(), "detail")
	require.Empty(t, errBuf.String())

	log.With("k", "v").Error("bad")
	require.Contains(t, debugBuf.String(), "k=v")
	require.Contains(t, errBuf.String(), "msg=bad k=v")
}

func TestSpanProcessor(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(NewSpanProcessor(log)))

	_, span := tp.Tracer("test").Start(context.Background(), "lintclient.JSON")
	span.SetAttributes(attribute.String("url", "http://localhost"))
	span.SetStatus(codes.Error, "unreachable")
	span.End()

	out := buf.String()
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, `msg="span lintclient.JSON"`)
	require.Contains(t, out, "url=http://localhost")
	require.Contains(t, out, "error=unreachable")
}
