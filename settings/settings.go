// Package settings resolves and caches the per-document lint server
// configuration.
package settings

import (
	"context"
	"errors"

	"github.com/corymhall/lintlsp/lsp"
	"github.com/corymhall/lintlsp/typ"
)

// Section is the configuration section the editor stores our settings under.
const Section = "lintServer"

// ErrNoEndpoint is returned when neither lintFileUri nor the legacy uri is
// set.
var ErrNoEndpoint = errors.New("No lint server URI is configured (set lintServer.lintFileUri).")

// Settings is the configuration that applies to one document.
type Settings struct {
	// URI is the legacy name of the lint endpoint setting.
	URI string `json:"uri"`
	// LintFileURI is the lint endpoint. It wins over URI when set.
	LintFileURI *string `json:"lintFileUri,omitempty"`
	// FixableSource is the diagnostic source whose diagnostics carry autofixes.
	FixableSource *string `json:"fixableSource,omitempty"`
}

// Schema validates the raw configuration object the editor sends.
var Schema = typ.Object(
	typ.Key("uri", typ.Optional(typ.String()), func(s *Settings, v *string) {
		if v != nil {
			s.URI = *v
		}
	}),
	typ.Key("lintFileUri", typ.Optional(typ.String()), func(s *Settings, v *string) { s.LintFileURI = v }),
	typ.Key("fixableSource", typ.Optional(typ.String()), func(s *Settings, v *string) { s.FixableSource = v }),
)

// Endpoint returns the lint server address, preferring LintFileURI.
func (s Settings) Endpoint() (string, error) {
	if s.LintFileURI != nil && *s.LintFileURI != "" {
		return *s.LintFileURI, nil
	}
	if s.URI != "" {
		return s.URI, nil
	}
	return "", ErrNoEndpoint
}

// Fixable reports whether diagnostics from source may carry autofixes.
func (s Settings) Fixable(source string) bool {
	return s.FixableSource != nil && *s.FixableSource != "" && *s.FixableSource == source
}

// WithDefaults fills every unset field of s from d.
func (s Settings) WithDefaults(d Settings) Settings {
	if s.URI == "" {
		s.URI = d.URI
	}
	if s.LintFileURI == nil {
		s.LintFileURI = d.LintFileURI
	}
	if s.FixableSource == nil {
		s.FixableSource = d.FixableSource
	}
	return s
}

// A Resolver looks up the settings for one document.
type Resolver func(ctx context.Context, uri lsp.DocumentURI) (Settings, error)

// ClientResolver asks the editor for the configuration under section, scoped
// to the document. An empty section means Section. Values the editor leaves
// unset come from defaults.
func ClientResolver(client lsp.Client, section string, defaults Settings) Resolver {
	if section == "" {
		section = Section
	}
	return func(ctx context.Context, uri lsp.DocumentURI) (Settings, error) {
		res, err := client.Configuration(ctx, &lsp.ParamConfiguration{
			Items: []lsp.ConfigurationItem{{ScopeURI: &uri, Section: &section}},
		})
		if err != nil {
			return Settings{}, err
		}
		if len(res) == 0 || res[0] == nil {
			return StaticResolver(defaults)(ctx, uri)
		}
		s, err := Schema(res[0])
		if err != nil {
			return Settings{}, err
		}
		return s.WithDefaults(defaults), nil
	}
}

var trusted = typ.Trust[Settings]()

// StaticResolver serves the same in-process settings for every document. It
// is used when the editor does not support workspace/configuration.
func StaticResolver(s Settings) Resolver {
	return func(context.Context, lsp.DocumentURI) (Settings, error) {
		return trusted(s)
	}
}
