// Package logger routes server logs to the editor's output panel.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/corymhall/lintlsp/debug"
	"github.com/corymhall/lintlsp/lsp"
)

// ProgramLevel is the minimum level logged by every handler the CLI builds.
var ProgramLevel = new(slog.LevelVar)

var discard = slog.New(slog.DiscardHandler)

// queue sends log messages to the client one at a time, in order, without
// blocking the goroutine that logged.
type queue struct {
	once sync.Once
	ch   chan func()
}

func newQueue() *queue {
	return &queue{ch: make(chan func(), 100)} // big enough for a large transient burst
}

func (q *queue) push(fn func()) {
	q.once.Do(func() {
		go func() {
			for fn := range q.ch {
				fn()
			}
		}()
	})
	select {
	case q.ch <- fn:
	default:
		// the client is not keeping up; drop rather than stall the server
	}
}

// ClientHandler is a slog.Handler that forwards records to the client as
// window/logMessage notifications.
type ClientHandler struct {
	client lsp.Client
	level  slog.Leveler
	q      *queue

	prefix string // pre-rendered attrs from WithAttrs
	group  string // dotted group prefix from WithGroup
}

// NewClientHandler returns a handler that logs records at or above level to
// client.
func NewClientHandler(client lsp.Client, level slog.Leveler) *ClientHandler {
	if level == nil {
		level = ProgramLevel
	}
	return &ClientHandler{client: client, level: level, q: newQueue()}
}

func (h *ClientHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ClientHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	b.WriteString(h.prefix)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.group, a)
		return true
	})
	params := &lsp.LogMessageParams{
		Type:    convertLevel(r.Level),
		Message: b.String(),
	}
	// the transport logs its own sends; keep those out of the client queue
	ctx := debug.WithLogger(context.Background(), discard)
	client := h.client
	h.q.push(func() { _ = client.LogMessage(ctx, params) })
	return nil
}

func (h *ClientHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	var b strings.Builder
	b.WriteString(h.prefix)
	for _, a := range attrs {
		writeAttr(&b, h.group, a)
	}
	h2.prefix = b.String()
	return &h2
}

func (h *ClientHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.group = h.group + name + "."
	return &h2
}

func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		g := group
		if a.Key != "" {
			g += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(b, g, ga)
		}
		return
	}
	fmt.Fprintf(b, " %s%s=%v", group, a.Key, a.Value.Any())
}

func convertLevel(level slog.Level) lsp.MessageType {
	switch {
	case level >= slog.LevelError:
		return lsp.MessageTypeError
	case level >= slog.LevelWarn:
		return lsp.MessageTypeWarning
	case level >= slog.LevelInfo:
		return lsp.MessageTypeInfo
	default:
		return lsp.MessageTypeLog
	}
}
