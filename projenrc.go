package main

import (
	"github.com/corymhall/lintlsp/projenrc"
	"github.com/projen/projen-go/projen"
	"github.com/projen/projen-go/projen/github"
)

func main() {
	project := projen.NewProject(&projen.ProjectOptions{
		Name: projenrc.StrPtr("lintlsp"),
		GitIgnoreOptions: &projen.IgnoreFileOptions{
			IgnorePatterns: &[]*string{projenrc.StrPtr("bin"), projenrc.StrPtr("dist")},
		},
	})
	project.DefaultTask().Exec(projenrc.StrPtr("go run projenrc.go"), &projen.TaskStepOptions{})

	vscode := projenrc.NewVscodeProject(project)

	packageGoTask := project.AddTask(projenrc.StrPtr("package:go"), &projen.TaskOptions{
		Steps: &[]*projen.TaskStep{
			{Exec: projenrc.StrPtr("go build -o bin/lintlsp -ldflags \"-s -w -X github.com/corymhall/lintlsp/server.Version=${VERSION:-0.0.0}\" ./cmd/lintlsp")},
			{Exec: projenrc.StrPtr("mkdir -p dist && tar -czf dist/lintlsp-${VERSION}-${GOOS}-${GOARCH}.tar.gz -C bin lintlsp")},
		},
	})
	packageVsceTask := project.AddTask(projenrc.StrPtr("package:vscode"), &projen.TaskOptions{
		Steps: &[]*projen.TaskStep{
			{Exec: projenrc.StrPtr("go build -o ./editors/vscode/lintlsp ./cmd/lintlsp")},
			{
				Exec: projenrc.StrPtr("npx projen package"),
				Cwd:  projenrc.StrPtr("./editors/vscode"),
			},
		},
	})
	project.PackageTask().Spawn(packageGoTask, &projen.TaskStepOptions{})

	gh := github.NewGitHub(project, &github.GitHubOptions{})
	projenrc.NewTestWorkflow(gh)
	projenrc.NewGitHubReleaseWorkflow(project, gh, packageVsceTask, packageGoTask)

	project.Synth()
	vscode.Synth()
}
