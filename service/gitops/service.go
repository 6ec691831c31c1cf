// Package gitops drives the git CLI for the release stages. Only exit
// codes and captured output are consulted; no repository internals are
// touched directly.
package gitops

import (
	"context"
	"fmt"

	"github.com/personax/relkit/service/runner"
)

// Service is the interface for git operations.
type Service interface {
	Available() bool
	IsRepo(dir string) bool
	CurrentBranch(dir string) (string, error)
	Head(dir string) (string, error)
	Stage(dir string, paths []string) error
	HasStagedChanges(dir string) bool
	Commit(dir, message string) error
	TagExists(dir, tag string) bool
	TagCommit(dir, tag string) (string, error)
	CreateTag(dir, tag, message string) error
	DeleteTag(dir, tag string) error
	Push(dir, ref string) error
}

type service struct {
	runner runner.Runner
}

// NewService creates a git service on top of the given command runner.
func NewService(r runner.Runner) Service {
	return &service{runner: r}
}

func (s *service) git(dir string, args ...string) runner.Result {
	return s.runner.Run(context.Background(), dir, "git", args...)
}

// Available reports whether the git binary can be found.
func (s *service) Available() bool {
	return s.runner.LookPath("git")
}

// IsRepo reports whether dir is inside a git working tree.
func (s *service) IsRepo(dir string) bool {
	res := s.git(dir, "rev-parse", "--is-inside-work-tree")
	return res.OK() && res.Stdout == "true"
}

// CurrentBranch returns the checked-out branch name.
func (s *service) CurrentBranch(dir string) (string, error) {
	res := s.git(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if !res.OK() {
		return "", fmt.Errorf("failed to resolve current branch: %s", res.Detail())
	}
	return res.Stdout, nil
}

// Head returns the commit hash of HEAD.
func (s *service) Head(dir string) (string, error) {
	res := s.git(dir, "rev-parse", "--short", "HEAD")
	if !res.OK() {
		return "", fmt.Errorf("failed to resolve HEAD: %s", res.Detail())
	}
	return res.Stdout, nil
}

// Stage adds the given paths to the index.
func (s *service) Stage(dir string, paths []string) error {
	args := append([]string{"add", "--"}, paths...)
	if res := s.git(dir, args...); !res.OK() {
		return fmt.Errorf("git add failed: %s", res.Detail())
	}
	return nil
}

// HasStagedChanges reports whether the index differs from HEAD.
// git diff --staged --quiet exits 1 when differences exist.
func (s *service) HasStagedChanges(dir string) bool {
	res := s.git(dir, "diff", "--staged", "--quiet")
	return res.Status == runner.StatusFailed
}

// Commit records the staged changes.
func (s *service) Commit(dir, message string) error {
	if res := s.git(dir, "commit", "-m", message); !res.OK() {
		return fmt.Errorf("git commit failed: %s", res.Detail())
	}
	return nil
}

// TagExists reports whether the given tag name exists.
func (s *service) TagExists(dir, tag string) bool {
	return s.git(dir, "rev-parse", "--verify", "--quiet", "refs/tags/"+tag).OK()
}

// TagCommit returns the commit a tag points at.
func (s *service) TagCommit(dir, tag string) (string, error) {
	res := s.git(dir, "rev-list", "-n", "1", tag)
	if !res.OK() {
		return "", fmt.Errorf("failed to resolve tag %s: %s", tag, res.Detail())
	}
	return res.Stdout, nil
}

// CreateTag creates an annotated tag on HEAD.
func (s *service) CreateTag(dir, tag, message string) error {
	if res := s.git(dir, "tag", "-a", tag, "-m", message); !res.OK() {
		return fmt.Errorf("git tag failed: %s", res.Detail())
	}
	return nil
}

// DeleteTag removes a local tag.
func (s *service) DeleteTag(dir, tag string) error {
	if res := s.git(dir, "tag", "-d", tag); !res.OK() {
		return fmt.Errorf("git tag -d failed: %s", res.Detail())
	}
	return nil
}

// Push pushes a ref (branch or tag) to origin.
func (s *service) Push(dir, ref string) error {
	if res := s.git(dir, "push", "origin", ref); !res.OK() {
		return fmt.Errorf("git push origin %s failed: %s", ref, res.Detail())
	}
	return nil
}
