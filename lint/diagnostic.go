// Package lint fetches diagnostics for a document from a remote lint server
// and turns the fixes they carry into code actions.
package lint

import (
	"math"

	"github.com/corymhall/lintlsp/lsp"
	"github.com/corymhall/lintlsp/typ"
	json "github.com/goccy/go-json"
)

// Diagnostic is one finding reported by the lint server.
type Diagnostic struct {
	Range              lsp.Range              `json:"range"`
	Severity           lsp.DiagnosticSeverity `json:"severity"`
	Message            string                 `json:"message"`
	RelatedInformation []RelatedInformation   `json:"relatedInformation,omitempty"`
	Autofix            []AutofixEdit          `json:"autofix,omitempty"`
	Source             *string                `json:"source,omitempty"`
}

type RelatedInformation struct {
	Location Location `json:"location"`
	Message  string   `json:"message"`
}

type Location struct {
	Range lsp.Range       `json:"range"`
	URI   lsp.DocumentURI `json:"uri"`
}

// AutofixEdit replaces the text in Range with ReplaceWith.
type AutofixEdit struct {
	Range       lsp.Range `json:"range"`
	ReplaceWith string    `json:"replaceWith"`
}

// HasSource reports whether the diagnostic is tagged with source.
func (d Diagnostic) HasSource(source string) bool {
	return d.Source != nil && *d.Source == source
}

// LSP converts d to the protocol form. Autofixes are not part of the
// protocol diagnostic and are dropped.
func (d Diagnostic) LSP() lsp.Diagnostic {
	out := lsp.Diagnostic{
		Range:    d.Range,
		Severity: d.Severity,
		Message:  d.Message,
	}
	if d.Source != nil {
		out.Source = *d.Source
	}
	for _, rel := range d.RelatedInformation {
		out.RelatedInformation = append(out.RelatedInformation, lsp.DiagnosticRelatedInformation{
			Location: lsp.Location{URI: rel.Location.URI, Range: rel.Location.Range},
			Message:  rel.Message,
		})
	}
	return out
}

// ToLSP converts every diagnostic in diags.
func ToLSP(diags []Diagnostic) []lsp.Diagnostic {
	out := make([]lsp.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.LSP())
	}
	return out
}

// offsetAssert admits exactly the values an lsp.Position field can hold.
var offsetAssert = typ.Integer(0, math.MaxInt32)

var positionAssert = typ.Object(
	typ.Key("line", offsetAssert, func(p *lsp.Position, v int64) { p.Line = int32(v) }),
	typ.Key("character", offsetAssert, func(p *lsp.Position, v int64) { p.Character = int32(v) }),
)

var rangeAssert = typ.Object(
	typ.Key("start", positionAssert, func(r *lsp.Range, v lsp.Position) { r.Start = v }),
	typ.Key("end", positionAssert, func(r *lsp.Range, v lsp.Position) { r.End = v }),
)

var severityAssert = typ.AnyOf(
	float64(lsp.SeverityError),
	float64(lsp.SeverityWarning),
	float64(lsp.SeverityInformation),
	float64(lsp.SeverityHint),
)

var locationAssert = typ.Object(
	typ.Key("range", rangeAssert, func(l *Location, v lsp.Range) { l.Range = v }),
	typ.Key("uri", typ.String(), func(l *Location, v string) { l.URI = lsp.DocumentURI(v) }),
)

var relatedAssert = typ.Object(
	typ.Key("location", locationAssert, func(r *RelatedInformation, v Location) { r.Location = v }),
	typ.Key("message", typ.String(), func(r *RelatedInformation, v string) { r.Message = v }),
)

var autofixAssert = typ.Object(
	typ.Key("range", rangeAssert, func(a *AutofixEdit, v lsp.Range) { a.Range = v }),
	typ.Key("replaceWith", typ.String(), func(a *AutofixEdit, v string) { a.ReplaceWith = v }),
)

var diagnosticAssert = typ.Object(
	typ.Key("range", rangeAssert, func(d *Diagnostic, v lsp.Range) { d.Range = v }),
	typ.Key("severity", severityAssert, func(d *Diagnostic, v float64) { d.Severity = lsp.DiagnosticSeverity(v) }),
	typ.Key("message", typ.String(), func(d *Diagnostic, v string) { d.Message = v }),
	typ.Key("relatedInformation", typ.Optional(typ.Array(relatedAssert)), func(d *Diagnostic, v *[]RelatedInformation) {
		if v != nil {
			d.RelatedInformation = *v
		}
	}),
	typ.Key("autofix", typ.Optional(typ.Array(autofixAssert)), func(d *Diagnostic, v *[]AutofixEdit) {
		if v != nil {
			d.Autofix = *v
		}
	}),
	typ.Key("source", typ.Optional(typ.String()), func(d *Diagnostic, v *string) { d.Source = v }),
)

// Schema validates a lint server response body.
var Schema = typ.Array(diagnosticAssert)

// Decode parses and validates a lint server response body.
func Decode(data []byte) ([]Diagnostic, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return Schema(raw)
}
