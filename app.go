// Package main is the entry point for the relkit release tooling CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/personax/relkit/shared/ansi"
	"github.com/personax/relkit/shared/logx"
	"github.com/spf13/pflag"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ansi.EnableANSI()
	logx.Init()

	if err := run(); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		logx.Error("%v", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		printUsage()
		return errors.New("a command is required")
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "bump":
		return runBump(args)
	case "history":
		return runHistoryCommand(args)
	case "db":
		return runDBCommand(args)
	case "deps":
		return runDepsCommand(args)
	case "lint":
		return runLintCommand(args)
	case "format":
		return runFormatCommand(args)
	case "check":
		return runCheckCommand(args)
	case "docs":
		return runDocsCommand(args)
	case "version", "-v", "--version":
		fmt.Printf("relkit %s (commit %s, built %s)\n", version, commit, date)
		return nil
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func printUsage() {
	fmt.Print(`relkit — release and workflow tooling

Usage:
  relkit <command> [flags]

Commands:
  bump      Bump the project version, then commit, tag, and push
  history   List and inspect recorded releases
  db        Maintain the local release history database
  deps      Install project dependencies with the packaging manager
  lint      Run the linter
  format    Run the formatter
  check     Run lint and format checks together
  docs      Post-process the generated documentation site
  version   Show build information
  help      Show this help

Run 'relkit <command> --help' for command flags.
`)
}
