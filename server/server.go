// Package server implements the language server: it keeps the editor's open
// documents, lints them on request and offers the fixes the lint server
// returns as quick fixes.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"

	"github.com/corymhall/lintlsp/file"
	"github.com/corymhall/lintlsp/lintclient"
	"github.com/corymhall/lintlsp/lsp"
	"github.com/corymhall/lintlsp/settings"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"
	"go.opentelemetry.io/otel/trace"
)

// Config holds the process level knobs of a server.
type Config struct {
	// HTTPClient sends lint requests. Nil disables networking, every document
	// then gets the fallback diagnostic.
	HTTPClient *http.Client
	// TracerProvider records lint request spans. Nil uses the global provider.
	TracerProvider trace.TracerProvider
	// Defaults fill in whatever the editor configuration leaves unset, and are
	// all there is when the editor cannot be asked.
	Defaults settings.Settings
	// Section is the configuration section to ask the editor for.
	Section string

	// exit is os.Exit outside of tests.
	exit func(code int)
}

// New creates an LSP server that talks back to the editor through client.
func New(client lsp.Client, cfg Config) lsp.Server {
	contract.Assertf(client != nil, "server needs a client to talk to")
	var opts []lintclient.Option
	if cfg.TracerProvider != nil {
		opts = append(opts, lintclient.WithTracerProvider(cfg.TracerProvider))
	}
	if cfg.exit == nil {
		cfg.exit = os.Exit
	}
	bgCtx, bgCancel := context.WithCancel(context.Background())
	s := &server{
		client:   client,
		cfg:      cfg,
		files:    file.NewStore(),
		lint:     lintclient.NewClient(cfg.HTTPClient, opts...),
		progress: NewTracker(client),
		bgCtx:    bgCtx,
		bgCancel: bgCancel,
	}
	s.settings = settings.NewCache(s.resolveSettings)
	return s
}

type serverState int

const (
	serverCreated      = serverState(iota)
	serverInitializing // set once the server has received "initialize" request
	serverInitialized  // set once the server has received "initialized" request
	serverShutDown
)

func (s serverState) String() string {
	switch s {
	case serverCreated:
		return "created"
	case serverInitializing:
		return "initializing"
	case serverInitialized:
		return "initialized"
	case serverShutDown:
		return "shutDown"
	}
	return fmt.Sprintf("(unknown state: %d)", int(s))
}

type server struct {
	client lsp.Client
	cfg    Config

	stateMu sync.Mutex
	state   serverState

	// capabilities the client announced in initialize
	clientConfiguration  atomic.Bool
	dynamicConfiguration atomic.Bool
	diagnosticRefresh    atomic.Bool

	// files holds the content of every open document.
	files *file.Store

	// settings memoizes the per document configuration.
	settings *settings.Cache

	lint *lintclient.Client

	// progress is the progress tracker used to report progress
	// to the client.
	progress *Tracker

	// background work started from notifications, cancelled on shutdown
	bgCtx    context.Context
	bgCancel context.CancelFunc
	bgWG     sync.WaitGroup
}

func (s *server) resolveSettings(ctx context.Context, uri lsp.DocumentURI) (settings.Settings, error) {
	if s.clientConfiguration.Load() {
		return settings.ClientResolver(s.client, s.cfg.Section, s.cfg.Defaults)(ctx, uri)
	}
	return settings.StaticResolver(s.cfg.Defaults)(ctx, uri)
}

// goBackground runs fn outside of the message loop. Notification handlers
// must not wait on the client themselves, since the reply is read by the
// same loop that is running them.
func (s *server) goBackground(fn func(ctx context.Context)) {
	s.bgWG.Add(1)
	go func() {
		defer s.bgWG.Done()
		fn(s.bgCtx)
	}()
}

// Shutdown implements the 'shutdown' LSP handler. It cancels background
// work and waits for it to complete.
func (s *server) Shutdown(ctx context.Context) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.state != serverShutDown {
		s.state = serverShutDown
		s.bgCancel()
		s.bgWG.Wait()
		s.settings.Clear()
	}
	return nil
}

func (s *server) Exit(ctx context.Context) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.state != serverShutDown {
		s.cfg.exit(1)
		return nil
	}
	s.cfg.exit(0)
	return nil
}
