package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/corymhall/lintlsp/rpc"
	"github.com/stretchr/testify/require"
)

type stubServer struct {
	Server
	opened *DidOpenTextDocumentParams
}

func (s *stubServer) DidOpen(_ context.Context, p *DidOpenTextDocumentParams) error {
	s.opened = p
	return nil
}

func notification(t *testing.T, method string, params string) rpc.Request {
	t.Helper()
	var raw any
	if params != "" {
		raw = json.RawMessage(params)
	}
	n, err := rpc.NewNotification(method, raw)
	require.NoError(t, err)
	return n
}

func TestServerHandlerDispatches(t *testing.T) {
	srv := &stubServer{}
	h := ServerHandler(srv, rpc.MethodNotFound)

	var replyErr error
	reply := func(_ context.Context, _ any, err error) error {
		replyErr = err
		return nil
	}
	err := h(context.Background(), reply, notification(t, "textDocument/didOpen",
		`{"textDocument":{"uri":"file:///a.hack","languageId":"hack","version":2,"text":"<?hh"}}`))
	require.NoError(t, err)
	require.NoError(t, replyErr)
	require.Equal(t, DocumentURI("file:///a.hack"), srv.opened.TextDocument.URI)
	require.Equal(t, int32(2), srv.opened.TextDocument.Version)
}

func TestServerHandlerParseError(t *testing.T) {
	h := ServerHandler(&stubServer{}, rpc.MethodNotFound)
	var replyErr error
	reply := func(_ context.Context, _ any, err error) error {
		replyErr = err
		return nil
	}
	require.NoError(t, h(context.Background(), reply, notification(t, "textDocument/didOpen", `{"textDocument":5}`)))
	require.True(t, errors.Is(replyErr, rpc.ErrParse))
}

func TestServerHandlerUnknownMethod(t *testing.T) {
	h := ServerHandler(&stubServer{}, rpc.MethodNotFound)
	var replyErr error
	reply := func(_ context.Context, _ any, err error) error {
		replyErr = err
		return nil
	}
	require.NoError(t, h(context.Background(), reply, notification(t, "textDocument/hover", "")))
	var rerr *rpc.Error
	require.True(t, errors.As(replyErr, &rerr))
	require.Equal(t, rpc.ErrMethodNotFound.Code, rerr.Code)
}
