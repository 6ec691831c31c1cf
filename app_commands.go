package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/personax/relkit/service/config"
	"github.com/personax/relkit/service/docs"
	"github.com/personax/relkit/service/output"
	"github.com/personax/relkit/service/runner"
	"github.com/personax/relkit/service/storage"
	"github.com/personax/relkit/service/toolchain"
	"github.com/personax/relkit/shared/logx"
	"github.com/spf13/pflag"
)

func runHistoryCommand(args []string) error {
	fs := pflag.NewFlagSet("history", pflag.ContinueOnError)
	dbPath := fs.String("db-path", "", "SQLite database path")
	limit := fs.Int("limit", 20, "Number of rows to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: relkit history <list|show|purge>")
	}

	store, err := storage.NewService(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	out := output.NewService()

	switch sub := rest[0]; sub {
	case "list":
		releases, err := store.GetRecentReleases(*limit)
		if err != nil {
			return err
		}
		out.RenderHistory(releases)
		return nil
	case "show":
		if len(rest) < 2 {
			return fmt.Errorf("usage: relkit history show <release-id>")
		}
		releaseID, err := strconv.ParseInt(rest[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid release id %q", rest[1])
		}
		release, err := store.GetRelease(releaseID)
		if err != nil {
			return err
		}
		out.RenderHistory([]storage.ReleaseSummary{*release})
		files, err := store.ListFiles(releaseID)
		if err != nil {
			return err
		}
		out.RenderFiles(files)
		return nil
	case "purge":
		days := 90
		if len(rest) > 1 {
			if days, err = strconv.Atoi(rest[1]); err != nil {
				return fmt.Errorf("invalid day count %q", rest[1])
			}
		}
		count, err := store.PurgeOlderThan(context.Background(), days)
		if err != nil {
			return err
		}
		logx.Success("purged %d release(s)", count)
		return nil
	default:
		return fmt.Errorf("unsupported history command: %s", sub)
	}
}

func runDBCommand(args []string) error {
	fs := pflag.NewFlagSet("db", pflag.ContinueOnError)
	dbPath := fs.String("db-path", "", "SQLite database path")
	olderThan := fs.Int("older-than", 90, "Purge releases older than N days")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: relkit db <vacuum|reindex|purge> [--db-path ...]")
	}

	store, err := storage.NewService(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	switch sub := rest[0]; sub {
	case "vacuum":
		return store.Vacuum(context.Background())
	case "reindex":
		return store.Reindex(context.Background())
	case "purge":
		count, err := store.PurgeOlderThan(context.Background(), *olderThan)
		if err != nil {
			return err
		}
		logx.Success("purged %d release(s)", count)
		return nil
	default:
		return fmt.Errorf("unsupported db command: %s", sub)
	}
}

func runDepsCommand(args []string) error {
	fs := pflag.NewFlagSet("deps", pflag.ContinueOnError)
	frozen := fs.Bool("frozen", false, "Install exactly the locked dependency versions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	tc, err := newToolchain()
	if err != nil {
		return err
	}
	return tc.InstallDeps(context.Background(), *frozen)
}

func runLintCommand(args []string) error {
	fs := pflag.NewFlagSet("lint", pflag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	tc, err := newToolchain()
	if err != nil {
		return err
	}
	return tc.Lint(context.Background(), fs.Args())
}

func runFormatCommand(args []string) error {
	fs := pflag.NewFlagSet("format", pflag.ContinueOnError)
	check := fs.Bool("check", false, "Report formatting drift without rewriting files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	tc, err := newToolchain()
	if err != nil {
		return err
	}
	return tc.Format(context.Background(), *check, fs.Args())
}

func runCheckCommand(args []string) error {
	fs := pflag.NewFlagSet("check", pflag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	tc, err := newToolchain()
	if err != nil {
		return err
	}
	return tc.Check(context.Background())
}

func runDocsCommand(args []string) error {
	fs := pflag.NewFlagSet("docs", pflag.ContinueOnError)
	siteDir := fs.String("site-dir", "", "Generated site directory (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 || rest[0] != "enhance" {
		return fmt.Errorf("usage: relkit docs enhance [--site-dir DIR]")
	}

	root, cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	dir := *siteDir
	if dir == "" {
		dir = cfg.SiteDir
	}
	if dir == "" {
		dir = "site"
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}

	updated, err := docs.NewService().Enhance(dir)
	if err != nil {
		logx.Warn("%v", err)
		return nil
	}
	logx.Success("enhanced %d page(s)", updated)
	return nil
}

func newToolchain() (toolchain.Service, error) {
	root, cfg, err := loadProjectConfig()
	if err != nil {
		return nil, err
	}
	return toolchain.NewService(runner.NewExec(), root, cfg.Tools), nil
}

func loadProjectConfig() (string, config.Config, error) {
	root, err := os.Getwd()
	if err != nil {
		return "", config.Config{}, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	cfg, err := config.NewService().Load(root, "")
	return root, cfg, err
}
