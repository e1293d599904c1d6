package server

import (
	"context"
	"slices"

	"github.com/corymhall/lintlsp/debug"
	"github.com/corymhall/lintlsp/lint"
	"github.com/corymhall/lintlsp/lsp"
)

// CodeAction offers the autofix of the diagnostic under the requested range.
// It never fails: anything that goes wrong just means no action is offered.
func (s *server) CodeAction(ctx context.Context, params *lsp.CodeActionParams) ([]lsp.CodeAction, error) {
	ctx, done := debug.Start(ctx, "textDocument.codeAction", "uri", params.TextDocument.URI)
	defer done()
	none := []lsp.CodeAction{}

	// automatic requests arrive on every cursor move
	if params.Context.TriggerKind == lsp.TriggerKindAuto {
		return none, nil
	}
	doc, ok := s.files.Get(params.TextDocument.URI)
	if !ok {
		return none, nil
	}
	cfg, err := s.settings.Get(ctx, doc.URI())
	if err != nil {
		debug.LogError(ctx, "resolving settings", err)
		return none, nil
	}
	fixable := slices.ContainsFunc(params.Context.Diagnostics, func(d lsp.Diagnostic) bool {
		return cfg.Fixable(d.Source)
	})
	if !fixable {
		return none, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	work := s.progress.Start(ctx, "Lint", "Looking for fixes...", nil, cancel)
	diags := lint.Acquire(ctx, s.lint, doc, s.settings.Get)
	actions := lint.CodeActions(params.Range, doc, diags)
	work.End(ctx, "Done.")
	debug.Debug.Log(ctx, "code actions", "count", len(actions))
	return actions, nil
}
