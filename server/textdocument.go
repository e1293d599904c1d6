package server

import (
	"context"

	"github.com/corymhall/lintlsp/debug"
	"github.com/corymhall/lintlsp/file"
	"github.com/corymhall/lintlsp/lsp"
)

func (s *server) DidOpen(ctx context.Context, params *lsp.DidOpenTextDocumentParams) error {
	return s.didModifyFiles(ctx, []file.Modification{{
		URI:        params.TextDocument.URI,
		Action:     file.Open,
		Version:    params.TextDocument.Version,
		Text:       []byte(params.TextDocument.Text),
		LanguageID: params.TextDocument.LanguageID,
	}})
}

func (s *server) DidChange(ctx context.Context, params *lsp.DidChangeTextDocumentParams) error {
	// full sync: the last change holds the whole document
	if len(params.ContentChanges) == 0 {
		return nil
	}
	last := params.ContentChanges[len(params.ContentChanges)-1]
	return s.didModifyFiles(ctx, []file.Modification{{
		URI:     params.TextDocument.URI,
		Action:  file.Change,
		Version: params.TextDocument.Version,
		Text:    []byte(last.Text),
	}})
}

func (s *server) DidClose(ctx context.Context, params *lsp.DidCloseTextDocumentParams) error {
	s.settings.Delete(params.TextDocument.URI)
	return s.didModifyFiles(ctx, []file.Modification{{
		URI:     params.TextDocument.URI,
		Action:  file.Close,
		Version: -1,
	}})
}

func (s *server) didModifyFiles(ctx context.Context, modifications []file.Modification) error {
	ctx, done := debug.Start(ctx, "textdocument.didModifyFiles")
	defer done()
	for _, mod := range modifications {
		debug.Debug.Log(ctx, "applying modification", "uri", mod.URI, "action", mod.Action, "version", mod.Version)
		if err := s.files.Apply(mod); err != nil {
			return err
		}
	}
	return nil
}
