package server

import (
	"context"

	"github.com/corymhall/lintlsp/debug"
	"github.com/corymhall/lintlsp/lint"
	"github.com/corymhall/lintlsp/lsp"
)

// Diagnostic lints the document on every request. Nothing is cached between
// requests, so the report always reflects the current text.
func (s *server) Diagnostic(ctx context.Context, params *lsp.DocumentDiagnosticParams) (*lsp.FullDocumentDiagnosticReport, error) {
	ctx, done := debug.Start(ctx, "textDocument.diagnostic", "uri", params.TextDocument.URI)
	defer done()

	doc, ok := s.files.Get(params.TextDocument.URI)
	if !ok {
		debug.Debug.Log(ctx, "diagnostics requested for a document that is not open")
		return lsp.NewFullDocumentDiagnosticReport(nil), nil
	}
	diags := lint.Acquire(ctx, s.lint, doc, s.settings.Get)
	return lsp.NewFullDocumentDiagnosticReport(lint.ToLSP(diags)), nil
}
