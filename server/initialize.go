package server

import (
	"context"
	"fmt"

	"github.com/corymhall/lintlsp/debug"
	"github.com/corymhall/lintlsp/lsp"
	"github.com/corymhall/lintlsp/rpc"
)

// Version is reported to the client in serverInfo.
var Version = "0.0.1"

func (s *server) Initialize(ctx context.Context, params *lsp.InitializeRequestParams) (*lsp.InitializeResult, error) {
	s.stateMu.Lock()
	if s.state >= serverInitializing {
		defer s.stateMu.Unlock()
		return nil, fmt.Errorf("%w: initialize called while server in %v state", rpc.ErrInvalidRequest, s.state)
	}
	s.progress.SetSupportsWorkDoneProgress(params.Capabilities.Window.WorkDoneProgress)
	ws := params.Capabilities.Workspace
	s.clientConfiguration.Store(ws.Configuration)
	s.dynamicConfiguration.Store(ws.DidChangeConfiguration != nil && ws.DidChangeConfiguration.DynamicRegistration)
	s.diagnosticRefresh.Store(ws.Diagnostics != nil && ws.Diagnostics.RefreshSupport)
	s.state = serverInitializing
	s.stateMu.Unlock()

	if params.ClientInfo != nil {
		debug.Info.Log(ctx, "initializing", "client", params.ClientInfo.Name, "clientVersion", params.ClientInfo.Version)
	}
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: lsp.TextDocumentSyncKindFull,
			CodeActionProvider: lsp.CodeActionProviderOptions{
				CodeActionKinds: []lsp.CodeActionKind{
					lsp.CodeActionKindQuickFix,
				},
			},
			DiagnosticProvider: lsp.DiagnosticOptions{
				InterFileDependencies: false,
				WorkspaceDiagnostics:  false,
			},
			Workspace: &lsp.WorkspaceCapabilities{
				WorkspaceFolders: lsp.WorkspaceFoldersCapabilities{Supported: true},
			},
		},
		ServerInfo: lsp.ServerInfo{
			Name:    "lintlsp",
			Version: Version,
		},
	}, nil
}

func (s *server) Initialized(ctx context.Context, params *lsp.InitializedParams) error {
	s.stateMu.Lock()
	if s.state >= serverInitialized {
		defer s.stateMu.Unlock()
		return fmt.Errorf("%w: initialized called while server in %v state", rpc.ErrInvalidRequest, s.state)
	}
	s.state = serverInitialized
	s.stateMu.Unlock()

	if !s.dynamicConfiguration.Load() {
		return nil
	}
	logger := debug.Logger(ctx)
	s.goBackground(func(bg context.Context) {
		bg = debug.WithLogger(bg, logger)
		err := s.client.RegisterCapability(bg, &lsp.RegistrationParams{
			Registrations: []lsp.Registration{{
				ID:     "lintlsp/didChangeConfiguration",
				Method: "workspace/didChangeConfiguration",
			}},
		})
		if err != nil {
			debug.LogError(bg, "registering for configuration changes", err)
		}
	})
	return nil
}
