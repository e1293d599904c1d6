package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/corymhall/lintlsp/lint"
	"github.com/corymhall/lintlsp/lsp"
	"github.com/corymhall/lintlsp/settings"
	"github.com/hexops/autogold/v2"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu            sync.Mutex
	config        []lsp.LSPAny
	configCalls   int
	registrations []lsp.Registration
	refreshes     int
	progress      []string
	tokens        []lsp.ProgressToken
}

func (c *fakeClient) WorkDoneProgressCreate(_ context.Context, p *lsp.WorkDoneProgressCreateParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = append(c.tokens, p.Token)
	return nil
}

func (c *fakeClient) ProgressBegin(_ context.Context, p *lsp.WorkDoneProgressBeginParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress = append(c.progress, string(p.Value.Kind)+": "+p.Value.Message)
	return nil
}

func (c *fakeClient) ProgressEnd(_ context.Context, p *lsp.WorkDoneProgressEndParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress = append(c.progress, string(p.Value.Kind)+": "+p.Value.Message)
	return nil
}

func (c *fakeClient) ShowMessage(context.Context, *lsp.ShowMessageParams) error { return nil }

func (c *fakeClient) LogMessage(context.Context, *lsp.LogMessageParams) error { return nil }

func (c *fakeClient) Configuration(context.Context, *lsp.ParamConfiguration) ([]lsp.LSPAny, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configCalls++
	return c.config, nil
}

func (c *fakeClient) RegisterCapability(_ context.Context, p *lsp.RegistrationParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registrations = append(c.registrations, p.Registrations...)
	return nil
}

func (c *fakeClient) DiagnosticRefresh(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshes++
	return nil
}

type lintServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newLintServer(t *testing.T, body string) *lintServer {
	t.Helper()
	ls := &lintServer{}
	ls.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ls.hits.Add(1)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ls.Close)
	return ls
}

const fixableResponse = `[
	{
		"range": {"start": {"line": 0, "character": 0}, "end": {"line": 0, "character": 4}},
		"severity": 2,
		"message": "no fix here",
		"source": "hhast"
	},
	{
		"range": {"start": {"line": 1, "character": 0}, "end": {"line": 1, "character": 8}},
		"severity": 2,
		"message": "prefer vec",
		"source": "hhast",
		"autofix": [{
			"range": {"start": {"line": 1, "character": 0}, "end": {"line": 1, "character": 5}},
			"replaceWith": "vec"
		}]
	}
]`

const docURI = lsp.DocumentURI("file:///src/main.hack")

func strPtr(s string) *string { return &s }

func setup(t *testing.T, client *fakeClient, caps lsp.ClientCapabilities, endpoint string) lsp.Server {
	t.Helper()
	ctx := context.Background()
	srv := New(client, Config{
		HTTPClient: http.DefaultClient,
		Defaults: settings.Settings{
			LintFileURI:   strPtr(endpoint),
			FixableSource: strPtr("hhast"),
		},
		exit: func(int) {},
	})
	_, err := srv.Initialize(ctx, &lsp.InitializeRequestParams{Capabilities: caps})
	require.NoError(t, err)
	require.NoError(t, srv.Initialized(ctx, &lsp.InitializedParams{}))
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func open(t *testing.T, srv lsp.Server, text string) {
	t.Helper()
	require.NoError(t, srv.DidOpen(context.Background(), &lsp.DidOpenTextDocumentParams{
		TextDocument: lsp.TextDocumentItem{URI: docURI, Version: 3, Text: text},
	}))
}

func TestInitialize(t *testing.T) {
	srv := New(&fakeClient{}, Config{exit: func(int) {}})
	res, err := srv.Initialize(context.Background(), &lsp.InitializeRequestParams{})
	require.NoError(t, err)
	require.Equal(t, lsp.TextDocumentSyncKindFull, res.Capabilities.TextDocumentSync)
	require.Equal(t, []lsp.CodeActionKind{lsp.CodeActionKindQuickFix}, res.Capabilities.CodeActionProvider.CodeActionKinds)
	require.False(t, res.Capabilities.DiagnosticProvider.InterFileDependencies)
	require.True(t, res.Capabilities.Workspace.WorkspaceFolders.Supported)

	_, err = srv.Initialize(context.Background(), &lsp.InitializeRequestParams{})
	require.ErrorContains(t, err, "initialize called while server in initializing state")
}

func TestInitializedRegistersConfigurationChanges(t *testing.T) {
	client := &fakeClient{}
	setup(t, client, lsp.ClientCapabilities{
		Workspace: lsp.ClientWorkspaceCapabilities{
			DidChangeConfiguration: &lsp.DynamicRegistrationCapabilities{DynamicRegistration: true},
		},
	}, "http://localhost")

	require.Eventually(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return len(client.registrations) == 1
	}, time.Second, time.Millisecond)
	require.Equal(t, "workspace/didChangeConfiguration", client.registrations[0].Method)
}

func TestDiagnosticUnknownDocument(t *testing.T) {
	ls := newLintServer(t, fixableResponse)
	srv := setup(t, &fakeClient{}, lsp.ClientCapabilities{}, ls.URL)

	report, err := srv.Diagnostic(context.Background(), &lsp.DocumentDiagnosticParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: "file:///missing.hack"},
	})
	require.NoError(t, err)
	require.Equal(t, lsp.DocumentDiagnosticReportKind_Full, report.Kind)
	require.NotNil(t, report.Items)
	require.Empty(t, report.Items)
	require.Zero(t, ls.hits.Load())
}

func TestDiagnostic(t *testing.T) {
	ls := newLintServer(t, fixableResponse)
	srv := setup(t, &fakeClient{}, lsp.ClientCapabilities{}, ls.URL)
	open(t, srv, "<?hh\ndict[]\n")

	report, err := srv.Diagnostic(context.Background(), &lsp.DocumentDiagnosticParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: docURI},
	})
	require.NoError(t, err)
	require.Len(t, report.Items, 2)
	autogold.Expect([]string{"no fix here", "prefer vec"}).Equal(t, []string{report.Items[0].Message, report.Items[1].Message})
}

func TestDiagnosticFallback(t *testing.T) {
	srv := setup(t, &fakeClient{}, lsp.ClientCapabilities{}, "")
	open(t, srv, "<?hh")

	report, err := srv.Diagnostic(context.Background(), &lsp.DocumentDiagnosticParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: docURI},
	})
	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	require.Equal(t, lsp.SeverityWarning, report.Items[0].Severity)
	require.Equal(t, lint.FallbackSource, report.Items[0].Source)
}

func TestDiagnosticUsesClientConfiguration(t *testing.T) {
	ls := newLintServer(t, `[]`)
	client := &fakeClient{config: []lsp.LSPAny{map[string]any{"uri": ls.URL}}}
	srv := setup(t, client, lsp.ClientCapabilities{
		Workspace: lsp.ClientWorkspaceCapabilities{Configuration: true},
	}, "")
	open(t, srv, "<?hh")

	for range 2 {
		report, err := srv.Diagnostic(context.Background(), &lsp.DocumentDiagnosticParams{
			TextDocument: lsp.TextDocumentIdentifier{URI: docURI},
		})
		require.NoError(t, err)
		require.Empty(t, report.Items)
	}
	require.Equal(t, int32(2), ls.hits.Load())
	// settings are cached per document
	require.Equal(t, 1, client.configCalls)
}

func TestCodeActionAutomaticTriggerSkipsNetwork(t *testing.T) {
	ls := newLintServer(t, fixableResponse)
	srv := setup(t, &fakeClient{}, lsp.ClientCapabilities{}, ls.URL)
	open(t, srv, "<?hh\ndict[]\n")

	actions, err := srv.CodeAction(context.Background(), &lsp.CodeActionParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: docURI},
		Range:        lsp.Range{Start: lsp.Position{Line: 1, Character: 1}, End: lsp.Position{Line: 1, Character: 1}},
		Context: lsp.CodeActionContext{
			TriggerKind: lsp.TriggerKindAuto,
			Diagnostics: []lsp.Diagnostic{{Source: "hhast"}},
		},
	})
	require.NoError(t, err)
	require.Empty(t, actions)
	require.Zero(t, ls.hits.Load())
}

func TestCodeActionWithoutFixableDiagnosticSkipsNetwork(t *testing.T) {
	ls := newLintServer(t, fixableResponse)
	srv := setup(t, &fakeClient{}, lsp.ClientCapabilities{}, ls.URL)
	open(t, srv, "<?hh\ndict[]\n")

	actions, err := srv.CodeAction(context.Background(), &lsp.CodeActionParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: docURI},
		Context: lsp.CodeActionContext{
			TriggerKind: lsp.TriggerKindInvoked,
			Diagnostics: []lsp.Diagnostic{{Source: "typechecker"}},
		},
	})
	require.NoError(t, err)
	require.Empty(t, actions)
	require.Zero(t, ls.hits.Load())
}

func TestCodeActionReturnsQuickFix(t *testing.T) {
	ls := newLintServer(t, fixableResponse)
	client := &fakeClient{}
	srv := setup(t, client, lsp.ClientCapabilities{
		Window: lsp.ClientWindowCapabilities{WorkDoneProgress: true},
	}, ls.URL)
	open(t, srv, "<?hh\ndict[]\n")

	actions, err := srv.CodeAction(context.Background(), &lsp.CodeActionParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: docURI},
		Range:        lsp.Range{Start: lsp.Position{Line: 1, Character: 2}, End: lsp.Position{Line: 1, Character: 3}},
		Context: lsp.CodeActionContext{
			TriggerKind: lsp.TriggerKindInvoked,
			Diagnostics: []lsp.Diagnostic{{Source: "hhast"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, actions, 1)
	require.Equal(t, int32(1), ls.hits.Load())

	changes := actions[0].Edit.DocumentChanges
	require.Len(t, changes, 1)
	require.Equal(t, int32(3), changes[0].TextDocument.Version)
	autogold.Expect([]lsp.TextEdit{{
		Range: lsp.Range{
			Start: lsp.Position{Line: 1},
			End:   lsp.Position{Line: 1, Character: 5},
		},
		NewText: "vec",
	}}).Equal(t, changes[0].Edits)
	autogold.Expect([]string{"begin: Looking for fixes...", "end: Done."}).Equal(t, client.progress)
}

func TestDidChangeReplacesContent(t *testing.T) {
	var bodies []string
	var mu sync.Mutex
	ls := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(buf))
		mu.Unlock()
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(ls.Close)
	srv := setup(t, &fakeClient{}, lsp.ClientCapabilities{}, ls.URL)
	open(t, srv, "one")

	require.NoError(t, srv.DidChange(context.Background(), &lsp.DidChangeTextDocumentParams{
		TextDocument:   lsp.VersionedTextDocumentIdentifier{TextDocumentIdentifier: lsp.TextDocumentIdentifier{URI: docURI}, Version: 4},
		ContentChanges: []lsp.TextDocumentContentChangeEvent{{Text: "two"}},
	}))
	_, err := srv.Diagnostic(context.Background(), &lsp.DocumentDiagnosticParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: docURI},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"two"}, bodies)

	require.NoError(t, srv.DidClose(context.Background(), &lsp.DidCloseTextDocumentParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: docURI},
	}))
	report, err := srv.Diagnostic(context.Background(), &lsp.DocumentDiagnosticParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: docURI},
	})
	require.NoError(t, err)
	require.Empty(t, report.Items)
	require.Len(t, bodies, 1)
}

func TestDidChangeConfigurationRefreshes(t *testing.T) {
	ls := newLintServer(t, `[]`)
	client := &fakeClient{config: []lsp.LSPAny{map[string]any{"uri": ls.URL}}}
	srv := setup(t, client, lsp.ClientCapabilities{
		Workspace: lsp.ClientWorkspaceCapabilities{
			Configuration: true,
			Diagnostics:   &lsp.DiagnosticWorkspaceCapabilities{RefreshSupport: true},
		},
	}, "")
	open(t, srv, "<?hh")
	diagnose := func() {
		_, err := srv.Diagnostic(context.Background(), &lsp.DocumentDiagnosticParams{
			TextDocument: lsp.TextDocumentIdentifier{URI: docURI},
		})
		require.NoError(t, err)
	}

	diagnose()
	require.NoError(t, srv.DidChangeConfiguration(context.Background(), &lsp.DidChangeConfigurationParams{}))
	diagnose()

	client.mu.Lock()
	require.Equal(t, 2, client.configCalls)
	client.mu.Unlock()
	require.Eventually(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return client.refreshes == 1
	}, time.Second, time.Millisecond)
}

func TestExit(t *testing.T) {
	var code atomic.Int32
	code.Store(-1)
	srv := New(&fakeClient{}, Config{exit: func(c int) { code.Store(int32(c)) }})
	require.NoError(t, srv.Exit(context.Background()))
	require.Equal(t, int32(1), code.Load())

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.Exit(context.Background()))
	require.Equal(t, int32(0), code.Load())
}

func TestProgressCancel(t *testing.T) {
	client := &fakeClient{}
	tracker := NewTracker(client)
	tracker.SetSupportsWorkDoneProgress(true)

	var cancelled atomic.Bool
	work := tracker.Start(context.Background(), "Lint", "working", nil, func() { cancelled.Store(true) })
	require.Len(t, client.tokens, 1)

	require.NoError(t, tracker.Cancel(client.tokens[0]))
	require.True(t, cancelled.Load())

	work.End(context.Background(), "Done.")
	require.ErrorContains(t, tracker.Cancel(client.tokens[0]), "not found in progress")
}

func TestProgressWithoutClientSupport(t *testing.T) {
	client := &fakeClient{}
	tracker := NewTracker(client)

	work := tracker.Start(context.Background(), "Lint", "working", nil, nil)
	work.End(context.Background(), "Done.")
	require.Empty(t, client.tokens)
	require.Empty(t, client.progress)
}
