// Package orchestrator sequences the version bump pipeline:
// validate, mutate, verify, then the optional git stages (commit, tag,
// push), followed by the summary report and history recording. Control
// flow is strictly linear and every stage receives the immutable run
// configuration.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/personax/relkit/model"
	"github.com/personax/relkit/service/storage"
	"github.com/personax/relkit/shared/logx"
	"github.com/personax/relkit/shared/spinner"
)

const commitMessageFormat = "chore(release): bump version to %s"

// Run executes one bump run end to end.
func (s *service) Run(ctx context.Context, cfg model.RunConfig) (model.BumpResult, error) {
	start := time.Now()
	result := model.BumpResult{DryRun: cfg.DryRun}

	current, hasCurrent := s.readCurrentVersion(cfg.Targets)
	result.OldVersion = current

	newVersion, bumpType, err := s.resolveVersion(cfg.VersionArg, current, hasCurrent)
	if err != nil {
		return result, err
	}
	result.NewVersion = newVersion
	result.BumpType = bumpType

	logx.Header(fmt.Sprintf("Bump %s -> %s", current, newVersion))
	if current == newVersion {
		logx.Info("version is already %s; files will be reconciled", logx.Value(newVersion))
	}

	for _, target := range cfg.Targets {
		change, err := s.deps.Mutate.Apply(target, newVersion, cfg.DryRun)
		if err != nil {
			return result, err
		}
		if change.Changed && !cfg.DryRun {
			logx.Step("%s: %s", logx.Path(change.Path), change.Note)
		}
		result.Files = append(result.Files, change)
	}

	if !cfg.DryRun {
		var toVerify []model.FileTarget
		for i, target := range cfg.Targets {
			if !result.Files[i].Skipped {
				toVerify = append(toVerify, target)
			}
		}
		failures := s.deps.Verify.VerifyAll(toVerify, newVersion)
		if len(failures) > 0 {
			s.deps.Output.RenderVerifyFailures(failures)
			return result, fmt.Errorf("verification failed for %d file(s)", len(failures))
		}
		logx.Success("verified %d file(s)", len(toVerify))
	}

	s.runGitStages(cfg, &result)

	s.deps.Output.RenderSummary(result)

	if cfg.Store && !cfg.DryRun && s.deps.Storage != nil {
		if err := s.recordRelease(ctx, result, time.Since(start)); err != nil {
			logx.Warn("failed to record release history: %v", err)
		} else {
			logx.Success("release recorded in history")
		}
	}

	return result, nil
}

// readCurrentVersion reads the plain version file target, the source of
// truth for the pre-bump version.
func (s *service) readCurrentVersion(targets []model.FileTarget) (string, bool) {
	for _, t := range targets {
		if t.Kind != model.TargetPlain {
			continue
		}
		data, err := os.ReadFile(t.Path)
		if err != nil {
			break
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			return v, true
		}
	}
	return "unknown", false
}

// resolveVersion turns the version argument (explicit version or bump
// keyword) into a validated version string.
func (s *service) resolveVersion(arg, current string, hasCurrent bool) (string, string, error) {
	if s.deps.Version.IsKeyword(arg) {
		if !hasCurrent {
			return "", "", fmt.Errorf("cannot apply %q bump: no current version found", arg)
		}
		bumped, err := s.deps.Version.Bump(current, arg)
		if err != nil {
			return "", "", err
		}
		return bumped, arg, nil
	}
	if err := s.deps.Version.Validate(arg); err != nil {
		return "", "", err
	}
	if hasCurrent {
		if cmp, ok := s.deps.Version.Compare(arg, current); ok && cmp < 0 {
			logx.Warn("target version %s is lower than current %s", logx.Value(arg), logx.Value(current))
		}
	}
	return arg, "explicit", nil
}

// runGitStages drives the commit, tag, and push stages. Failures here
// never roll back the file mutations; partial success is reported and
// left for the operator to finish manually.
func (s *service) runGitStages(cfg model.RunConfig, result *model.BumpResult) {
	tag := s.deps.Version.TagName(result.NewVersion)
	result.TagName = tag

	if cfg.SkipGit {
		logx.Info("--no-git set, skipping commit, tag, and push")
		return
	}
	git := s.deps.Git
	if !git.Available() {
		logx.Warn("git is not available, skipping commit, tag, and push")
		return
	}
	if !git.IsRepo(cfg.Root) {
		logx.Warn("%s is not inside a git repository, skipping commit, tag, and push", logx.Path(cfg.Root))
		return
	}
	if branch, err := git.CurrentBranch(cfg.Root); err == nil {
		result.Branch = branch
	}

	paths := stagedPaths(result.Files)

	if cfg.DryRun {
		logx.Info("dry-run: would stage %d file(s) and commit with message %q",
			len(paths), fmt.Sprintf(commitMessageFormat, result.NewVersion))
		logx.Info("dry-run: would create annotated tag %s", logx.Key(tag))
		if cfg.SkipPush {
			logx.Info("dry-run: push disabled by --no-push")
		} else {
			logx.Info("dry-run: would push %s and %s to origin after confirmation", result.Branch, tag)
		}
		return
	}

	s.commitStage(cfg, result, paths)
	s.tagStage(cfg, result, tag)
	s.pushStage(cfg, result, tag)
}

func (s *service) commitStage(cfg model.RunConfig, result *model.BumpResult, paths []string) {
	if len(paths) == 0 {
		logx.Warn("no files to stage; skipping commit")
		return
	}
	if err := s.deps.Git.Stage(cfg.Root, paths); err != nil {
		logx.Error("%v", err)
		return
	}
	if !s.deps.Git.HasStagedChanges(cfg.Root) {
		logx.Warn("nothing changed; skipping commit")
		return
	}
	if !s.deps.Confirm(fmt.Sprintf("Commit version bump to %s?", result.NewVersion), true) {
		logx.Info("commit skipped")
		return
	}
	if err := s.deps.Git.Commit(cfg.Root, fmt.Sprintf(commitMessageFormat, result.NewVersion)); err != nil {
		logx.Error("%v", err)
		return
	}
	result.Committed = true
	if head, err := s.deps.Git.Head(cfg.Root); err == nil {
		result.CommitHash = head
	}
	logx.Success("committed version bump to %s", logx.Value(result.NewVersion))
}

func (s *service) tagStage(cfg model.RunConfig, result *model.BumpResult, tag string) {
	confirmed := false
	if s.deps.Git.TagExists(cfg.Root, tag) {
		if !s.deps.Confirm(fmt.Sprintf("Tag %s already exists. Delete and recreate it?", tag), false) {
			if ref, err := s.deps.Git.TagCommit(cfg.Root, tag); err == nil {
				logx.Info("keeping existing tag %s at %s", logx.Key(tag), ref)
			} else {
				logx.Info("keeping existing tag %s", logx.Key(tag))
			}
			return
		}
		if err := s.deps.Git.DeleteTag(cfg.Root, tag); err != nil {
			logx.Error("%v", err)
			return
		}
		confirmed = true
	}
	if !confirmed && !s.deps.Confirm(fmt.Sprintf("Create annotated tag %s?", tag), true) {
		logx.Info("tag skipped")
		return
	}
	if err := s.deps.Git.CreateTag(cfg.Root, tag, "Release "+tag); err != nil {
		logx.Error("%v", err)
		return
	}
	result.Tagged = true
	logx.Success("created annotated tag %s", logx.Key(tag))
}

func (s *service) pushStage(cfg model.RunConfig, result *model.BumpResult, tag string) {
	if cfg.SkipPush {
		logx.Info("--no-push set, skipping push")
		return
	}
	if !s.deps.Confirm("Push the branch and tag to origin?", false) {
		logx.Info("push skipped")
		return
	}

	var refs []string
	if result.Branch != "" {
		refs = append(refs, result.Branch)
	}
	if result.Tagged {
		refs = append(refs, tag)
	}

	spinner.Start("Pushing release to origin...")
	var failed []string
	for _, ref := range refs {
		if err := s.deps.Git.Push(cfg.Root, ref); err != nil {
			failed = append(failed, ref)
			spinner.Stop()
			logx.Error("%v", err)
			spinner.Start("Pushing release to origin...")
		}
	}
	spinner.Stop()

	if len(failed) > 0 {
		for _, ref := range failed {
			logx.Warn("retry manually: %s", logx.Command("git push origin "+ref))
		}
		return
	}
	result.Pushed = len(refs) > 0
	if result.Pushed {
		logx.Success("pushed %s to origin", strings.Join(refs, " and "))
	}
}

func (s *service) recordRelease(ctx context.Context, result model.BumpResult, elapsed time.Duration) error {
	files := make([]storage.ReleaseFile, 0, len(result.Files))
	for _, f := range result.Files {
		status := "unchanged"
		switch {
		case f.Skipped:
			status = "skipped"
		case f.Changed:
			status = "updated"
		}
		files = append(files, storage.ReleaseFile{Path: f.Path, Status: status})
	}

	_, err := s.deps.Storage.SaveRelease(ctx, storage.SaveReleaseInput{
		OldVersion: result.OldVersion,
		NewVersion: result.NewVersion,
		BumpType:   result.BumpType,
		Branch:     result.Branch,
		CommitHash: result.CommitHash,
		TagName:    result.TagName,
		Pushed:     result.Pushed,
		DurationMS: elapsed.Milliseconds(),
		CLIVersion: s.deps.Info.Version,
		Files:      files,
	})
	return err
}

// stagedPaths returns the paths of targets that exist on disk.
func stagedPaths(files []model.FileChange) []string {
	var paths []string
	for _, f := range files {
		if f.Skipped || f.Path == "" {
			continue
		}
		paths = append(paths, f.Path)
	}
	return paths
}
