package projenrc

import (
	"github.com/projen/projen-go/projen"
	"github.com/projen/projen-go/projen/github"
	"github.com/projen/projen-go/projen/github/workflows"
	"github.com/projen/projen-go/projen/release"
)

// target is one os/arch pair a release artifact is built for.
type target struct {
	platform string
	arch     string
	runsOn   string
}

// vsce names platforms the way node does, go the way GOOS/GOARCH do.
var (
	vsceTargets = []target{
		{"linux", "x64", "ubuntu-latest"},
		{"linux", "arm64", "ubuntu-latest"},
		{"darwin", "x64", "ubuntu-latest"},
		{"darwin", "arm64", "ubuntu-latest"},
		{"win32", "x64", "ubuntu-latest"},
	}
	goTargets = []target{
		{"linux", "amd64", "ubuntu-latest"},
		{"linux", "arm64", "ubuntu-latest"},
		{"darwin", "amd64", "macos-latest"},
		{"darwin", "arm64", "macos-latest"},
		{"windows", "amd64", "windows-latest"},
	}
)

func matrix(targets []target) *workflows.JobStrategy {
	include := make([]*map[string]any, 0, len(targets))
	for _, t := range targets {
		include = append(include, &map[string]any{"platform": t.platform, "arch": t.arch, "os": t.runsOn})
	}
	return &workflows.JobStrategy{
		Matrix: &workflows.JobMatrix{Include: &include},
	}
}

func Workflows_SetupNode() *workflows.JobStep {
	return &workflows.JobStep{
		Uses: StrPtr("actions/setup-node@v4"),
		With: &map[string]any{
			"node-version": "20.x",
		},
	}
}

func Workflows_SetupGo() *workflows.JobStep {
	return &workflows.JobStep{
		Uses: StrPtr("actions/setup-go@v5"),
		With: &map[string]any{
			"cache-dependency-path": "go.sum",
			"go-version-file":       "go.mod",
		},
	}
}

// NewTestWorkflow runs the Go tests on every pull request and on main.
func NewTestWorkflow(gh github.GitHub) github.GithubWorkflow {
	wf := gh.AddWorkflow(StrPtr("test"))
	wf.On(&workflows.Triggers{
		PullRequest: &workflows.PullRequestOptions{},
		Push: &workflows.PushOptions{
			Branches: &[]*string{StrPtr("main")},
		},
	})
	wf.AddJobs(&map[string]any{
		"test": &workflows.Job{
			RunsOn: &[]*string{StrPtr("ubuntu-latest")},
			Permissions: &workflows.JobPermissions{
				Contents: workflows.JobPermission_READ,
			},
			Steps: &[]*workflows.JobStep{
				github.WorkflowSteps_Checkout(&github.CheckoutOptions{}),
				Workflows_SetupGo(),
				{Name: StrPtr("Vet"), Run: StrPtr("go vet ./...")},
				{Name: StrPtr("Test"), Run: StrPtr("go test -race ./...")},
			},
		},
	})
	return wf
}

func NewGitHubReleaseWorkflow(
	project projen.Project,
	gh github.GitHub,
	packageVsceTask projen.Task,
	packageGoTask projen.Task,
) release.Release {
	ghRelease := release.NewRelease(gh, &release.ReleaseOptions{
		PostBuildSteps: &[]*workflows.JobStep{
			{
				Name: StrPtr("Get Version"),
				Id:   StrPtr("get_version"),
				Run:  StrPtr("cat dist/releasetag.txt >> $GITHUB_OUTPUT"),
			},
		},
		ReleaseWorkflowSetupSteps: &[]*workflows.JobStep{
			Workflows_SetupGo(),
			Workflows_SetupNode(),
			{Run: StrPtr("yarn install --check-files --frozen-lockfile")},
		},
		ArtifactsDirectory: StrPtr("dist"),
		Branch:             StrPtr("main"),
		Task:               project.PackageTask(),
		VersionFile:        StrPtr("editors/vscode/package.json"),
	})
	project.TryFindObjectFile(StrPtr(".github/workflows/release.yml")).
		AddOverride(StrPtr("jobs.release.outputs.version"), "${{ steps.get_version.outputs.version }}")

	needsRelease := releaseJob{
		ifCond: "needs.release.outputs.tag_exists != 'true' && needs.release.outputs.latest_commit == github.sha",
		needs:  []*string{StrPtr("release"), StrPtr("release_github")},
	}
	ghRelease.AddJobs(&map[string]*workflows.Job{
		"package-vsce": needsRelease.job(matrix(vsceTargets), []*workflows.JobStep{
			github.WorkflowSteps_Checkout(&github.CheckoutOptions{}),
			Workflows_SetupNode(),
			{
				Name: StrPtr("Install Deps"),
				Run:  StrPtr("cd editors/vscode && yarn install --check-files --frozen-lockfile"),
			},
			{
				Name: StrPtr("Package vsce"),
				Run:  gh.Project().RunTaskCommand(packageVsceTask),
				Env: &map[string]*string{
					"PLATFORM": StrPtr("${{ matrix.platform }}"),
					"ARCH":     StrPtr("${{ matrix.arch }}"),
					"VERSION":  StrPtr("${{ env.VERSION }}"),
				},
			},
			uploadArtifact("lintlsp-client-${{ matrix.platform }}-${{ matrix.arch }}-${{ github.ref_name }}.vsix"),
		}),
		"package-go": needsRelease.job(matrix(goTargets), []*workflows.JobStep{
			github.WorkflowSteps_Checkout(&github.CheckoutOptions{}),
			Workflows_SetupGo(),
			Workflows_SetupNode(),
			{
				Name: StrPtr("Package Go"),
				Run:  gh.Project().RunTaskCommand(packageGoTask),
				Env: &map[string]*string{
					"GOOS":    StrPtr("${{ matrix.platform }}"),
					"GOARCH":  StrPtr("${{ matrix.arch }}"),
					"VERSION": StrPtr("${{ env.VERSION }}"),
				},
			},
			uploadArtifact("lintlsp-${{ github.ref_name }}-${{ matrix.platform }}-${{ matrix.arch }}.tar.gz"),
		}),
		"update-release": UpdateReleaseJob(needsRelease.ifCond),
	})
	return ghRelease
}

// releaseJob carries what every packaging job shares: it only runs once
// the release job tagged a new version.
type releaseJob struct {
	ifCond string
	needs  []*string
}

func (r releaseJob) job(strategy *workflows.JobStrategy, steps []*workflows.JobStep) *workflows.Job {
	return &workflows.Job{
		If:    StrPtr(r.ifCond),
		Needs: &r.needs,
		Permissions: &workflows.JobPermissions{
			Contents: workflows.JobPermission_WRITE,
		},
		Env: &map[string]*string{
			"VERSION": StrPtr("needs.release.outputs.version"),
		},
		RunsOn:   &[]*string{StrPtr("${{ matrix.os }}")},
		Strategy: strategy,
		Steps:    &steps,
	}
}

func uploadArtifact(file string) *workflows.JobStep {
	return github.WorkflowSteps_UploadArtifact(&github.UploadArtifactOptions{
		With: &github.UploadArtifactWith{
			Name: StrPtr(file),
			Path: StrPtr("./dist/" + file),
		},
	})
}

func UpdateReleaseJob(ifCond string) *workflows.Job {
	return &workflows.Job{
		Permissions: &workflows.JobPermissions{
			Contents: workflows.JobPermission_WRITE,
		},
		If:     &ifCond,
		Needs:  &[]*string{StrPtr("package-vsce"), StrPtr("package-go"), StrPtr("release")},
		RunsOn: &[]*string{StrPtr("ubuntu-latest")},
		Env: &map[string]*string{
			"VERSION": StrPtr("needs.release.outputs.version"),
		},
		Steps: &[]*workflows.JobStep{
			github.WorkflowSteps_Checkout(&github.CheckoutOptions{}),
			github.WorkflowSteps_DownloadArtifact(&github.DownloadArtifactOptions{
				With: &github.DownloadArtifactWith{
					MergeMultiple: BoolPtr(true),
					Path:          StrPtr("dist"),
					Pattern:       StrPtr("lintlsp-*"),
				},
			}),
			{
				Name: StrPtr("Upload Release"),
				Run:  StrPtr("gh release upload $VERSION dist/*"),
				Env: &map[string]*string{
					"VERSION": StrPtr("${{ env.VERSION }}"),
				},
			},
		},
	}
}
