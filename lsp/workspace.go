package lsp

type LSPAny = any

type ParamConfiguration struct {
	Items []ConfigurationItem `json:"items"`
}

type ConfigurationItem struct {
	ScopeURI *DocumentURI `json:"scopeUri,omitempty"`
	Section  *string      `json:"section,omitempty"`
}

type DidChangeConfigurationParams struct {
	// The actual changed settings. Clients that support pull configuration
	// usually send null here.
	Settings LSPAny `json:"settings"`
}

type RegistrationParams struct {
	Registrations []Registration `json:"registrations"`
}

type Registration struct {
	// The id used to register the request. The id can be used to deregister
	// the request again.
	ID              string `json:"id"`
	Method          string `json:"method"`
	RegisterOptions LSPAny `json:"registerOptions,omitempty"`
}
