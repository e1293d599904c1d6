package lint

import (
	"context"
	"fmt"

	"github.com/corymhall/lintlsp/debug"
	"github.com/corymhall/lintlsp/lintclient"
	"github.com/corymhall/lintlsp/lsp"
	"github.com/corymhall/lintlsp/settings"
)

// FallbackSource tags the diagnostic reported in place of a failed lint run.
const FallbackSource = "lintlsp"

// Document is the view of an open document a lint run needs.
type Document interface {
	URI() lsp.DocumentURI
	Version() int32
	Text() string
	PositionAt(offset int) lsp.Position
}

// Acquire lints doc with the server its settings point at. It never fails:
// any error along the way is reported as a single warning diagnostic at the
// top of the document.
func Acquire(ctx context.Context, c *lintclient.Client, doc Document, resolve settings.Resolver) []Diagnostic {
	ctx, done := debug.Start(ctx, "lint.Acquire", "uri", doc.URI(), "version", doc.Version())
	defer done()

	diags, err := fetch(ctx, c, doc, resolve)
	if err != nil {
		debug.LogError(ctx, "linting failed", err)
		return []Diagnostic{Fallback(doc, err)}
	}
	return diags
}

func fetch(ctx context.Context, c *lintclient.Client, doc Document, resolve settings.Resolver) ([]Diagnostic, error) {
	s, err := resolve(ctx, doc.URI())
	if err != nil {
		return nil, err
	}
	endpoint, err := s.Endpoint()
	if err != nil {
		return nil, err
	}
	diags, err := lintclient.JSON(ctx, c, endpoint, Schema, lintclient.WithBody(doc.Text()))
	if err != nil {
		return nil, err
	}
	// related locations always point into the linted document
	for i := range diags {
		for j := range diags[i].RelatedInformation {
			diags[i].RelatedInformation[j].Location.URI = doc.URI()
		}
	}
	return diags, nil
}

// Fallback returns the diagnostic reported when linting doc failed with err.
func Fallback(doc Document, err error) Diagnostic {
	source := FallbackSource
	return Diagnostic{
		Range: lsp.Range{
			Start: doc.PositionAt(0),
			End:   doc.PositionAt(3),
		},
		Severity: lsp.SeverityWarning,
		Message:  fmt.Sprintf("%s This file will not be linted.", err),
		Source:   &source,
	}
}
