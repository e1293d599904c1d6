package file

import (
	"fmt"
	"sort"
	"sync"
	"unicode/utf16"

	"github.com/corymhall/lintlsp/lsp"
)

// An Overlay is the in-memory content of an open document. It is immutable;
// a change produces a new Overlay.
type Overlay struct {
	uri        lsp.DocumentURI
	version    int32
	text       string
	languageID lsp.LanguageKind

	// lineOffsets holds the UTF-16 offset of the first unit of every line.
	lineOffsets []int
	length      int
}

// NewOverlay returns the overlay for text at version.
func NewOverlay(uri lsp.DocumentURI, version int32, text string) *Overlay {
	units := utf16.Encode([]rune(text))
	offsets := []int{0}
	for i := 0; i < len(units); i++ {
		ch := units[i]
		if ch != '\r' && ch != '\n' {
			continue
		}
		if ch == '\r' && i+1 < len(units) && units[i+1] == '\n' {
			i++
		}
		offsets = append(offsets, i+1)
	}
	return &Overlay{
		uri:         uri,
		version:     version,
		text:        text,
		lineOffsets: offsets,
		length:      len(units),
	}
}

func (o *Overlay) URI() lsp.DocumentURI         { return o.uri }
func (o *Overlay) Version() int32               { return o.version }
func (o *Overlay) Text() string                 { return o.text }
func (o *Overlay) LanguageID() lsp.LanguageKind { return o.languageID }

func (o *Overlay) PositionAt(offset int) lsp.Position {
	offset = max(0, min(offset, o.length))
	line := sort.Search(len(o.lineOffsets), func(i int) bool {
		return o.lineOffsets[i] > offset
	}) - 1
	return lsp.Position{
		Line:      int32(line),
		Character: int32(offset - o.lineOffsets[line]),
	}
}

// Store holds the overlays of every open document.
type Store struct {
	mu       sync.RWMutex
	overlays map[lsp.DocumentURI]*Overlay
}

func NewStore() *Store {
	return &Store{overlays: make(map[lsp.DocumentURI]*Overlay)}
}

// Apply records mod. Open and Change replace the document content, Close
// forgets the document.
func (s *Store) Apply(mod Modification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch mod.Action {
	case Open, Change:
		o := NewOverlay(mod.URI, mod.Version, string(mod.Text))
		o.languageID = mod.LanguageID
		if prev, ok := s.overlays[mod.URI]; ok && o.languageID == "" {
			o.languageID = prev.languageID
		}
		s.overlays[mod.URI] = o
	case Close:
		delete(s.overlays, mod.URI)
	default:
		return fmt.Errorf("unsupported modification %v for %s", mod.Action, mod.URI)
	}
	return nil
}

// Get returns the overlay for uri, if the document is open.
func (s *Store) Get(uri lsp.DocumentURI) (*Overlay, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.overlays[uri]
	return o, ok
}
