package projenrc

import (
	"fmt"

	"github.com/corymhall/lintlsp/settings"
	"github.com/projen/projen-go/projen"
	"github.com/projen/projen-go/projen/javascript"
	"github.com/projen/projen-go/projen/typescript"
)

type Contributes struct {
	Configuration Configuration `json:"configuration"`
}

// Configuration is the settings page the extension adds to VS Code.
type Configuration struct {
	Title      string              `json:"title"`
	Properties map[string]Property `json:"properties"`
}

// Property represents a property in the configuration.
type Property struct {
	Type                []string `json:"type"`
	Default             *string  `json:"default"`
	Scope               string   `json:"scope,omitempty"`
	MarkdownDescription string   `json:"markdownDescription"`
}

// LintServerProperties lists the settings the server reads from the editor,
// keyed by their full name.
func LintServerProperties() map[string]Property {
	key := func(name string) string { return settings.Section + "." + name }
	return map[string]Property{
		key("lintFileUri"): {
			Type:                []string{"string", "null"},
			Scope:               "resource",
			MarkdownDescription: "Address of the lint server. Each open file is `POST`ed to it and the server answers with a JSON array of diagnostics.",
		},
		key("uri"): {
			Type:                []string{"string"},
			Default:             StrPtr(""),
			Scope:               "resource",
			MarkdownDescription: "Deprecated: use `lintServer.lintFileUri`. Read only when `lintFileUri` is not set.",
		},
		key("fixableSource"): {
			Type:                []string{"string", "null"},
			Scope:               "resource",
			MarkdownDescription: "Diagnostics with this `source` are offered as quick fixes when they carry an autofix.",
		},
	}
}

func NewVscodeProject(project projen.Project) typescript.TypeScriptProject {
	vscode := typescript.NewTypeScriptProject(&typescript.TypeScriptProjectOptions{
		DefaultReleaseBranch: StrPtr("main"),
		Outdir:               StrPtr("editors/vscode"),
		SampleCode:           BoolPtr(false),
		Parent:               project,
		Prettier:             BoolPtr(true),
		PrettierOptions: &javascript.PrettierOptions{
			Settings: &javascript.PrettierSettings{
				SingleQuote: BoolPtr(true),
			},
		},
		Description: StrPtr("Shows the diagnostics of a remote lint server in Visual Studio Code"),
		Repository:  StrPtr("https://github.com/corymhall/lintlsp"),
		EslintOptions: &javascript.EslintOptions{
			Dirs:     &[]*string{},
			Prettier: BoolPtr(true),
		},
		Name:       StrPtr("lintlsp-client"),
		AuthorName: StrPtr("corymhall"),
		Deps:       &[]*string{StrPtr("vscode-languageclient")},
		DevDeps:    &[]*string{StrPtr("@types/vscode"), StrPtr("@vscode/vsce")},
	})

	vscode.Gitignore().AddPatterns(StrPtr("lintlsp"))
	vscode.Package().AddField(StrPtr("main"), "assets/extension/index.js")
	bundle := vscode.Bundler().AddBundle(StrPtr("src/extension.ts"), &javascript.AddBundleOptions{
		Platform:  StrPtr("node"),
		Target:    StrPtr("node18"),
		Externals: &[]*string{StrPtr("vscode")},
		Minify:    BoolPtr(true),
	})

	projen.NewIgnoreFile(vscode, StrPtr(".vscodeignore"), &projen.IgnoreFileOptions{
		IgnorePatterns: &[]*string{
			StrPtr("node_modules"),
			StrPtr("!assets/extension/index.js"),
			StrPtr("!lintlsp"),
			StrPtr("!README.md"),
			StrPtr("!LICENSE"),
			StrPtr("!package.json"),
			StrPtr("**/*"),
		},
	})

	vscode.AddScripts(&map[string]*string{
		"vscode:prepublish": StrPtr(fmt.Sprintf("npx projen %s", *bundle.BundleTask.Name())),
	})

	vscode.PackageTask().Reset(StrPtr("npx vsce package --out ../../bin/"), &projen.TaskStepOptions{})
	vscode.Package().AddField(StrPtr("activationEvents"), []string{
		"onLanguage:hack",
	})
	vscode.Package().AddField(StrPtr("engines"), map[string]any{
		"vscode": "^1.99.1",
	})
	vscode.Package().AddField(StrPtr("contributes"), Contributes{
		Configuration: Configuration{
			Title:      "Lint Server",
			Properties: LintServerProperties(),
		},
	})
	return vscode
}
