package orchestrator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/personax/relkit/model"
	"github.com/personax/relkit/service/gitops"
	"github.com/personax/relkit/service/mutate"
	"github.com/personax/relkit/service/output"
	"github.com/personax/relkit/service/runner"
	"github.com/personax/relkit/service/verify"
	"github.com/personax/relkit/service/version"
	"github.com/personax/relkit/shared/logx"
)

// fakeGit scripts git responses by joined argument list and records
// every invocation so tests can assert which stages ran.
type fakeGit struct {
	calls   []string
	results map[string]runner.Result
}

func (f *fakeGit) run(_ context.Context, _, _ string, args ...string) runner.Result {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)
	if res, ok := f.results[key]; ok {
		return res
	}
	return runner.Result{Status: runner.StatusOK}
}

func (f *fakeGit) called(prefix string) bool {
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func repoResults() map[string]runner.Result {
	return map[string]runner.Result{
		"rev-parse --is-inside-work-tree": {Status: runner.StatusOK, Stdout: "true"},
		"rev-parse --abbrev-ref HEAD":     {Status: runner.StatusOK, Stdout: "main"},
		"rev-parse --short HEAD":          {Status: runner.StatusOK, Stdout: "abc1234"},
		// Staged changes exist.
		"diff --staged --quiet": {Status: runner.StatusFailed, ExitCode: 1},
		// Tag does not exist yet.
		"rev-parse --verify --quiet refs/tags/v1.2.4": {Status: runner.StatusFailed, ExitCode: 1},
	}
}

func writeProject(t *testing.T) (string, []model.FileTarget) {
	t.Helper()
	root := t.TempDir()

	versionPath := filepath.Join(root, "VERSION")
	manifestPath := filepath.Join(root, "pyproject.toml")
	initPath := filepath.Join(root, "__init__.py")

	files := map[string]string{
		versionPath:  "1.2.3\n",
		manifestPath: "[project]\nname = \"demo\"\nversion = \"1.2.3\"\n",
		initPath:     "__version__ = \"1.2.3\"\n",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	targets := []model.FileTarget{
		{Path: versionPath, Kind: model.TargetPlain},
		{Path: manifestPath, Kind: model.TargetManifest, Sections: []string{"[tool.poetry]", "[project]"}, Key: "version"},
		{Path: initPath, Kind: model.TargetAssign, Key: "__version__"},
	}
	return root, targets
}

func newPipeline(git *fakeGit, confirm func(string, bool) bool) Service {
	return NewService(Deps{
		Version: version.NewService(),
		Mutate:  mutate.NewService(),
		Verify:  verify.NewService(),
		Git:     gitops.NewService(runner.Func(git.run)),
		Output:  output.NewService(),
		Confirm: confirm,
		Info:    model.VersionInfo{Version: "test"},
	})
}

func alwaysYes(string, bool) bool { return true }

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestRunPatchBump(t *testing.T) {
	root, targets := writeProject(t)
	git := &fakeGit{results: repoResults()}
	pipeline := newPipeline(git, alwaysYes)

	result, err := pipeline.Run(context.Background(), model.RunConfig{
		VersionArg: "patch",
		SkipPush:   true,
		Root:       root,
		Targets:    targets,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if result.OldVersion != "1.2.3" || result.NewVersion != "1.2.4" {
		t.Errorf("versions = %q -> %q", result.OldVersion, result.NewVersion)
	}
	if result.BumpType != "patch" {
		t.Errorf("BumpType = %q", result.BumpType)
	}
	if result.Branch != "main" {
		t.Errorf("Branch = %q", result.Branch)
	}
	if !result.Committed || result.CommitHash != "abc1234" {
		t.Errorf("commit stage: %+v", result)
	}
	if !result.Tagged || result.TagName != "v1.2.4" {
		t.Errorf("tag stage: %+v", result)
	}
	if result.Pushed {
		t.Error("push was disabled")
	}

	if got := readFile(t, targets[0].Path); got != "1.2.4\n" {
		t.Errorf("VERSION = %q", got)
	}
	if got := readFile(t, targets[1].Path); !strings.Contains(got, `version = "1.2.4"`) {
		t.Errorf("manifest not updated:\n%s", got)
	}
	if got := readFile(t, targets[2].Path); !strings.Contains(got, `__version__ = "1.2.4"`) {
		t.Errorf("initializer not updated:\n%s", got)
	}

	if !git.called("add --") || !git.called("commit -m") || !git.called("tag -a v1.2.4") {
		t.Errorf("expected stage commands, got: %v", git.calls)
	}
	if git.called("push") {
		t.Errorf("push must not run: %v", git.calls)
	}
}

func TestRunExplicitVersion(t *testing.T) {
	root, targets := writeProject(t)
	git := &fakeGit{results: repoResults()}
	pipeline := newPipeline(git, alwaysYes)

	result, err := pipeline.Run(context.Background(), model.RunConfig{
		VersionArg: "1.2.4",
		SkipGit:    true,
		SkipPush:   true,
		Root:       root,
		Targets:    targets,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result.BumpType != "explicit" {
		t.Errorf("BumpType = %q, want explicit", result.BumpType)
	}
	if len(git.calls) != 0 {
		t.Errorf("--no-git must not touch git: %v", git.calls)
	}
}

func TestRunInvalidVersion(t *testing.T) {
	root, targets := writeProject(t)
	pipeline := newPipeline(&fakeGit{}, alwaysYes)

	_, err := pipeline.Run(context.Background(), model.RunConfig{
		VersionArg: "1.2.3-beta",
		Root:       root,
		Targets:    targets,
	})
	if err == nil {
		t.Fatal("invalid version should fail before any mutation")
	}
	if got := readFile(t, targets[0].Path); got != "1.2.3\n" {
		t.Errorf("VERSION must be untouched, got %q", got)
	}
}

func TestRunDryRun(t *testing.T) {
	root, targets := writeProject(t)
	git := &fakeGit{results: repoResults()}
	pipeline := newPipeline(git, alwaysYes)

	before := make(map[string]string, len(targets))
	for _, target := range targets {
		before[target.Path] = readFile(t, target.Path)
	}

	result, err := pipeline.Run(context.Background(), model.RunConfig{
		VersionArg: "minor",
		DryRun:     true,
		Root:       root,
		Targets:    targets,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result.NewVersion != "1.3.0" {
		t.Errorf("NewVersion = %q", result.NewVersion)
	}
	if result.Committed || result.Tagged || result.Pushed {
		t.Errorf("dry-run must not run git stages: %+v", result)
	}

	for _, target := range targets {
		if got := readFile(t, target.Path); got != before[target.Path] {
			t.Errorf("dry-run modified %s", target.Path)
		}
	}
	for _, call := range git.calls {
		if strings.HasPrefix(call, "add") || strings.HasPrefix(call, "commit") ||
			strings.HasPrefix(call, "tag") || strings.HasPrefix(call, "push") {
			t.Errorf("dry-run issued a mutating git command: %s", call)
		}
	}
}

func TestRunTagCollisionDeclined(t *testing.T) {
	root, targets := writeProject(t)
	results := repoResults()
	results["rev-parse --verify --quiet refs/tags/v1.2.4"] = runner.Result{Status: runner.StatusOK, Stdout: "deadbeef"}
	results["rev-list -n 1 v1.2.4"] = runner.Result{Status: runner.StatusOK, Stdout: "deadbeef"}
	git := &fakeGit{results: results}

	confirm := func(message string, def bool) bool {
		// Decline the delete-and-recreate question, accept the rest.
		return !strings.Contains(message, "already exists")
	}
	pipeline := newPipeline(git, confirm)

	gitSvc := gitops.NewService(runner.Func(git.run))
	before, err := gitSvc.TagCommit(root, "v1.2.4")
	if err != nil {
		t.Fatalf("TagCommit error: %v", err)
	}

	result, err := pipeline.Run(context.Background(), model.RunConfig{
		VersionArg: "1.2.4",
		SkipPush:   true,
		Root:       root,
		Targets:    targets,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result.Tagged {
		t.Error("declining the recreate prompt must leave the tag alone")
	}
	if git.called("tag -d") || git.called("tag -a") {
		t.Errorf("tag must not be touched: %v", git.calls)
	}
	if !result.Committed {
		t.Error("commit stage should still run")
	}

	after, err := gitSvc.TagCommit(root, "v1.2.4")
	if err != nil {
		t.Fatalf("TagCommit error: %v", err)
	}
	if after != before {
		t.Errorf("tag commit moved from %q to %q", before, after)
	}
}

func TestRunSameVersionReconciles(t *testing.T) {
	root, targets := writeProject(t)
	git := &fakeGit{results: repoResults()}
	pipeline := newPipeline(git, alwaysYes)

	result, err := pipeline.Run(context.Background(), model.RunConfig{
		VersionArg: "1.2.3",
		SkipGit:    true,
		Root:       root,
		Targets:    targets,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result.OldVersion != result.NewVersion {
		t.Errorf("versions = %q -> %q", result.OldVersion, result.NewVersion)
	}
	for _, f := range result.Files {
		if f.Changed {
			t.Errorf("%s should already be current: %+v", f.Path, f)
		}
	}
}

func TestRunPushStage(t *testing.T) {
	root, targets := writeProject(t)
	git := &fakeGit{results: repoResults()}
	pipeline := newPipeline(git, alwaysYes)

	result, err := pipeline.Run(context.Background(), model.RunConfig{
		VersionArg: "patch",
		Root:       root,
		Targets:    targets,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !result.Pushed {
		t.Errorf("push stage should succeed: %+v", result)
	}

	branchIdx, tagIdx := -1, -1
	for i, call := range git.calls {
		switch call {
		case "push origin main":
			branchIdx = i
		case "push origin v1.2.4":
			tagIdx = i
		}
	}
	if branchIdx < 0 || tagIdx < 0 {
		t.Fatalf("expected branch and tag pushes, got: %v", git.calls)
	}
	if branchIdx > tagIdx {
		t.Errorf("branch must be pushed before the tag: %v", git.calls)
	}
}

func TestRunPushDeclined(t *testing.T) {
	root, targets := writeProject(t)
	git := &fakeGit{results: repoResults()}

	confirm := func(message string, def bool) bool {
		return !strings.Contains(message, "Push")
	}
	pipeline := newPipeline(git, confirm)

	result, err := pipeline.Run(context.Background(), model.RunConfig{
		VersionArg: "patch",
		Root:       root,
		Targets:    targets,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result.Pushed {
		t.Error("declined push must not be recorded as pushed")
	}
	if git.called("push") {
		t.Errorf("push must not run: %v", git.calls)
	}
}

func TestRunPushFailureIsNotFatal(t *testing.T) {
	root, targets := writeProject(t)
	results := repoResults()
	results["push origin main"] = runner.Result{Status: runner.StatusFailed, ExitCode: 1, Stderr: "remote: rejected"}
	git := &fakeGit{results: results}
	pipeline := newPipeline(git, alwaysYes)

	result, err := pipeline.Run(context.Background(), model.RunConfig{
		VersionArg: "patch",
		Root:       root,
		Targets:    targets,
	})
	if err != nil {
		t.Fatalf("a failed push must not fail the run: %v", err)
	}
	if result.Pushed {
		t.Error("a partial push must not be recorded as pushed")
	}
	// No rollback: the tag push still runs and the commit/tag stand.
	if !git.called("push origin v1.2.4") {
		t.Errorf("tag push should still be attempted: %v", git.calls)
	}
	if !result.Committed || !result.Tagged {
		t.Errorf("commit and tag must survive a failed push: %+v", result)
	}
	if git.called("reset") || git.called("tag -d") {
		t.Errorf("no rollback commands may run: %v", git.calls)
	}
}

func TestRunExplicitDowngradeWarns(t *testing.T) {
	root, targets := writeProject(t)
	git := &fakeGit{results: repoResults()}
	pipeline := newPipeline(git, alwaysYes)

	var buf bytes.Buffer
	logx.SetWriters(&buf, &buf)
	defer logx.SetWriters(os.Stdout, os.Stderr)

	result, err := pipeline.Run(context.Background(), model.RunConfig{
		VersionArg: "1.0.0",
		SkipGit:    true,
		Root:       root,
		Targets:    targets,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result.NewVersion != "1.0.0" {
		t.Errorf("NewVersion = %q", result.NewVersion)
	}
	if !strings.Contains(buf.String(), "lower than current") {
		t.Errorf("expected a downgrade warning, got:\n%s", buf.String())
	}
	if got := readFile(t, targets[0].Path); got != "1.0.0\n" {
		t.Errorf("downgrade should still be applied, VERSION = %q", got)
	}
}

func TestRunKeywordWithoutCurrentVersion(t *testing.T) {
	root := t.TempDir()
	targets := []model.FileTarget{
		{Path: filepath.Join(root, "VERSION"), Kind: model.TargetPlain},
	}
	pipeline := newPipeline(&fakeGit{}, alwaysYes)

	_, err := pipeline.Run(context.Background(), model.RunConfig{
		VersionArg: "patch",
		SkipGit:    true,
		Root:       root,
		Targets:    targets,
	})
	if err == nil {
		t.Fatal("keyword bump without a current version should fail")
	}
}
