package server

import (
	"context"

	"github.com/corymhall/lintlsp/debug"
	"github.com/corymhall/lintlsp/lsp"
)

// DidChangeConfiguration drops every cached setting. Clients that pull
// diagnostics are asked to pull them again so the new settings apply.
func (s *server) DidChangeConfiguration(ctx context.Context, params *lsp.DidChangeConfigurationParams) error {
	s.settings.Clear()
	if !s.diagnosticRefresh.Load() {
		return nil
	}
	logger := debug.Logger(ctx)
	s.goBackground(func(bg context.Context) {
		bg = debug.WithLogger(bg, logger)
		if err := s.client.DiagnosticRefresh(bg); err != nil {
			debug.LogError(bg, "refreshing diagnostics", err)
		}
	})
	return nil
}
