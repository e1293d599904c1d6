package lint

import (
	"github.com/corymhall/lintlsp/lsp"
)

// key packs a position into one comparable value. Characters past 65535
// spill into the line bits.
func key(p lsp.Position) int64 {
	return int64(p.Line)<<16 + int64(p.Character)
}

func between(subject, low, high int64) bool {
	return subject >= low && subject <= high
}

// Subsumes reports whether both ends of r lie within outer, bounds included.
func Subsumes(outer, r lsp.Range) bool {
	lo, hi := key(outer.Start), key(outer.End)
	return between(key(r.Start), lo, hi) && between(key(r.End), lo, hi)
}

// FindAutofix returns the first diagnostic in diags that carries a fix and
// whose range subsumes r.
func FindAutofix(r lsp.Range, diags []Diagnostic) (Diagnostic, bool) {
	for _, d := range diags {
		if len(d.Autofix) > 0 && Subsumes(d.Range, r) {
			return d, true
		}
	}
	return Diagnostic{}, false
}

// AutofixAction packages the fix of d as a quick fix against the current
// version of doc.
func AutofixAction(doc Document, d Diagnostic) lsp.CodeAction {
	edits := make([]lsp.TextEdit, 0, len(d.Autofix))
	for _, fix := range d.Autofix {
		edits = append(edits, lsp.TextEdit{Range: fix.Range, NewText: fix.ReplaceWith})
	}
	return lsp.CodeAction{
		Title: "Fix: " + d.Message,
		Kind:  lsp.CodeActionKindQuickFix,
		Edit: &lsp.WorkspaceEdit{
			DocumentChanges: []lsp.TextDocumentEdit{{
				TextDocument: lsp.VersionedTextDocumentIdentifier{
					TextDocumentIdentifier: lsp.TextDocumentIdentifier{URI: doc.URI()},
					Version:                doc.Version(),
				},
				Edits: edits,
			}},
		},
		Diagnostics: []lsp.Diagnostic{d.LSP()},
		IsPreferred: true,
	}
}

// CodeActions returns the quick fix diags offer for r, or an empty list.
func CodeActions(r lsp.Range, doc Document, diags []Diagnostic) []lsp.CodeAction {
	d, ok := FindAutofix(r, diags)
	if !ok {
		return []lsp.CodeAction{}
	}
	return []lsp.CodeAction{AutofixAction(doc, d)}
}
