package lsp

// The diagnostic's severity.
type DiagnosticSeverity uint32

const (
	SeverityError       DiagnosticSeverity = 1
	SeverityWarning     DiagnosticSeverity = 2
	SeverityInformation DiagnosticSeverity = 3
	SeverityHint        DiagnosticSeverity = 4
)

type Diagnostic struct {
	Range              Range                          `json:"range"`
	Severity           DiagnosticSeverity             `json:"severity"`
	Source             string                         `json:"source,omitempty"`
	Message            string                         `json:"message"`
	RelatedInformation []DiagnosticRelatedInformation `json:"relatedInformation,omitempty"`
}

// DiagnosticRelatedInformation points at another location relevant to a
// diagnostic, e.g. the first declaration of a duplicated symbol.
type DiagnosticRelatedInformation struct {
	Location Location `json:"location"`
	Message  string   `json:"message"`
}

type DocumentDiagnosticParams struct {
	WorkDoneProgressOptions
	TextDocument     TextDocumentIdentifier `json:"textDocument"`
	Identifier       *string                `json:"identifier,omitempty"`
	PreviousResultID *string                `json:"previousResultId,omitempty"`
}

type DocumentDiagnosticReportKind string

const (
	DocumentDiagnosticReportKind_Unchanged DocumentDiagnosticReportKind = "unchanged"
	DocumentDiagnosticReportKind_Full      DocumentDiagnosticReportKind = "full"
)

type FullDocumentDiagnosticReport struct {
	Kind DocumentDiagnosticReportKind `json:"kind"`
	// An optional result ID. If provided it will be sent on the next
	// diagnostic request for the same document.
	ResultID *string      `json:"resultId,omitempty"`
	Items    []Diagnostic `json:"items"`
}

// NewFullDocumentDiagnosticReport returns a full report holding items. A nil
// slice is reported as an empty list, never as null.
func NewFullDocumentDiagnosticReport(items []Diagnostic) *FullDocumentDiagnosticReport {
	if items == nil {
		items = []Diagnostic{}
	}
	return &FullDocumentDiagnosticReport{
		Kind:  DocumentDiagnosticReportKind_Full,
		Items: items,
	}
}
