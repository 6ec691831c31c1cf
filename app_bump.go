package main

import (
	"context"
	"fmt"
	"os"

	"github.com/personax/relkit/model"
	"github.com/personax/relkit/service/config"
	"github.com/personax/relkit/service/flag"
	"github.com/personax/relkit/service/gitops"
	"github.com/personax/relkit/service/mutate"
	"github.com/personax/relkit/service/orchestrator"
	"github.com/personax/relkit/service/output"
	"github.com/personax/relkit/service/runner"
	"github.com/personax/relkit/service/storage"
	"github.com/personax/relkit/service/verify"
	versionsvc "github.com/personax/relkit/service/version"
	"github.com/personax/relkit/shared/banner"
	"github.com/personax/relkit/shared/prompt"
)

// runBump wires the services together and executes the bump pipeline.
func runBump(args []string) error {
	flags, err := flag.NewService().ParseBumpFlags(args)
	if err != nil {
		return err
	}

	root := flags.Root
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}
	}

	cfgService := config.NewService()
	cfg, err := cfgService.Load(root, flags.ConfigPath)
	if err != nil {
		return err
	}

	runCfg := model.RunConfig{
		VersionArg: flags.VersionArg,
		DryRun:     flags.DryRun,
		SkipGit:    flags.NoGit,
		SkipPush:   flags.NoGit || flags.NoPush,
		AssumeYes:  flags.Yes,
		Store:      flags.Store,
		Root:       root,
		Targets:    cfgService.ResolveTargets(root, cfg),
	}

	var storageService storage.Service
	if flags.Store && !flags.DryRun {
		dbPath := flags.DBPath
		if dbPath == "" {
			dbPath = cfg.DBPath
		}
		storageService, err = storage.NewService(dbPath)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer storageService.Close()
	}

	confirm := prompt.New(os.Stdin, os.Stdout).Confirm
	if flags.Yes {
		confirm = func(string, bool) bool { return true }
	}

	banner.DrawBannerTitle("release tooling " + version)

	pipeline := orchestrator.NewService(orchestrator.Deps{
		Version: versionsvc.NewService(),
		Mutate:  mutate.NewService(),
		Verify:  verify.NewService(),
		Git:     gitops.NewService(runner.NewExec()),
		Output:  output.NewService(),
		Storage: storageService,
		Confirm: confirm,
		Info:    model.VersionInfo{Version: version, Commit: commit, Date: date},
	})

	_, err = pipeline.Run(context.Background(), runCfg)
	return err
}
