// Package toolchain wraps the external packaging manager, linter, and
// formatter. Only their exit codes and output are consulted.
package toolchain

import (
	"context"
	"errors"
	"fmt"

	"github.com/personax/relkit/service/config"
	"github.com/personax/relkit/service/runner"
	"github.com/personax/relkit/shared/logx"
	"golang.org/x/sync/errgroup"
)

// Service is the interface for external tool invocations.
type Service interface {
	InstallDeps(ctx context.Context, frozen bool) error
	Lint(ctx context.Context, paths []string) error
	Format(ctx context.Context, check bool, paths []string) error
	Check(ctx context.Context) error
}

type service struct {
	runner runner.Runner
	root   string
	tools  config.Tools
}

// NewService creates a toolchain service for the given project root.
func NewService(r runner.Runner, root string, tools config.Tools) Service {
	return &service{runner: r, root: root, tools: tools}
}

// InstallDeps invokes the packaging manager to sync the environment.
func (s *service) InstallDeps(ctx context.Context, frozen bool) error {
	argv := s.tools.Packager
	if frozen {
		argv = append(append([]string{}, argv...), "--frozen")
	}
	logx.Step("installing dependencies with %s", logx.Command(argv[0]))
	if err := s.run(ctx, argv); err != nil {
		return err
	}
	logx.Success("dependencies are in sync")
	return nil
}

// Lint runs the linter over the given paths (or the whole project).
func (s *service) Lint(ctx context.Context, paths []string) error {
	argv := append(append([]string{}, s.tools.Linter...), paths...)
	logx.Step("linting with %s", logx.Command(argv[0]))
	if err := s.run(ctx, argv); err != nil {
		return err
	}
	logx.Success("lint passed")
	return nil
}

// Format runs the formatter; with check set it only reports drift.
func (s *service) Format(ctx context.Context, check bool, paths []string) error {
	argv := append([]string{}, s.tools.Formatter...)
	if check {
		argv = append(argv, "--check")
	}
	argv = append(argv, paths...)
	logx.Step("formatting with %s", logx.Command(argv[0]))
	if err := s.run(ctx, argv); err != nil {
		return err
	}
	logx.Success("formatting clean")
	return nil
}

// Check runs lint and format-check concurrently and reports both
// results; either failure fails the check.
func (s *service) Check(ctx context.Context) error {
	var g errgroup.Group
	var lintErr, formatErr error

	g.Go(func() error {
		lintErr = s.Lint(ctx, nil)
		return nil
	})
	g.Go(func() error {
		formatErr = s.Format(ctx, true, nil)
		return nil
	})
	_ = g.Wait()

	return errors.Join(lintErr, formatErr)
}

func (s *service) run(ctx context.Context, argv []string) error {
	name, args := argv[0], argv[1:]
	res := s.runner.Run(ctx, s.root, name, args...)

	switch res.Status {
	case runner.StatusToolMissing:
		return fmt.Errorf("%s is not installed; install it and retry", name)
	case runner.StatusFailed:
		if res.Stdout != "" {
			fmt.Println(res.Stdout)
		}
		if res.Stderr != "" {
			logx.Error("%s", res.Stderr)
		}
		return fmt.Errorf("%s exited with code %d", name, res.ExitCode)
	}

	if res.Stdout != "" {
		fmt.Println(res.Stdout)
	}
	return nil
}
