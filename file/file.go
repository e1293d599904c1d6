// Package file tracks the editor's view of open documents.
package file

import (
	"github.com/corymhall/lintlsp/lsp"
)

// Handle is a snapshot of one open document.
type Handle interface {
	URI() lsp.DocumentURI
	Version() int32
	Text() string
	// PositionAt converts a UTF-16 offset into a position. Offsets outside
	// the document are clamped to its bounds.
	PositionAt(offset int) lsp.Position
}

// Modification represents a modification to a file.
type Modification struct {
	URI    lsp.DocumentURI
	Action Action

	// Version will be -1 and Text will be nil when they are not supplied,
	// specifically on textDocument/didClose.
	Version int32
	Text    []byte

	// LanguageID is only sent from the language client on textDocument/didOpen.
	LanguageID lsp.LanguageKind
}

// An Action is a type of file state change.
type Action int

const (
	UnknownAction = Action(iota)
	Open
	Change
	Close
)

func (a Action) String() string {
	switch a {
	case Open:
		return "Open"
	case Change:
		return "Change"
	case Close:
		return "Close"
	default:
		return "Unknown"
	}
}
