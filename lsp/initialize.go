package lsp

type InitializeRequestParams struct {
	WorkDoneProgressCreateParams
	ClientInfo   *ClientInfo        `json:"clientInfo"`
	RootURI      DocumentURI        `json:"rootUri"`
	Capabilities ClientCapabilities `json:"capabilities"`
	// ... there's tons more that goes here
}

type InitializedParams struct{}

type ClientCapabilities struct {
	Window    ClientWindowCapabilities    `json:"window"`
	Workspace ClientWorkspaceCapabilities `json:"workspace"`
}

type ClientWindowCapabilities struct {
	WorkDoneProgress bool `json:"workDoneProgress"`
}

type ClientWorkspaceCapabilities struct {
	// The client supports `workspace/configuration` requests.
	Configuration          bool                            `json:"configuration"`
	DidChangeConfiguration *DynamicRegistrationCapabilities `json:"didChangeConfiguration,omitempty"`
	Diagnostics            *DiagnosticWorkspaceCapabilities `json:"diagnostics,omitempty"`
}

type DynamicRegistrationCapabilities struct {
	DynamicRegistration bool `json:"dynamicRegistration"`
}

type DiagnosticWorkspaceCapabilities struct {
	// Whether the client supports `workspace/diagnostic/refresh`.
	RefreshSupport bool `json:"refreshSupport"`
}

type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

type WorkDoneProgressOptions struct {
	WorkDoneProgress bool `json:"workDoneProgress,omitempty"`
}

type DiagnosticOptions struct {
	WorkDoneProgressOptions
	Identifier            *string `json:"identifier,omitempty"`
	InterFileDependencies bool    `json:"interFileDependencies"`
	WorkspaceDiagnostics  bool    `json:"workspaceDiagnostics"`
}

type CodeActionProviderOptions struct {
	CodeActionKinds []CodeActionKind `json:"codeActionKinds"`
	ResolveProvider bool             `json:"resolveProvider"`
}

type TextDocumentSyncKind int

const (
	TextDocumentSyncKindNone        TextDocumentSyncKind = 0
	TextDocumentSyncKindFull        TextDocumentSyncKind = 1
	TextDocumentSyncKindIncremental TextDocumentSyncKind = 2
)

type ServerCapabilities struct {
	TextDocumentSync   TextDocumentSyncKind      `json:"textDocumentSync"`
	CodeActionProvider CodeActionProviderOptions `json:"codeActionProvider"`
	DiagnosticProvider DiagnosticOptions         `json:"diagnosticProvider"`
	Workspace          *WorkspaceCapabilities    `json:"workspace,omitempty"`
}

type WorkspaceCapabilities struct {
	WorkspaceFolders WorkspaceFoldersCapabilities `json:"workspaceFolders"`
}

type WorkspaceFoldersCapabilities struct {
	Supported bool `json:"supported"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
