// Package flag parses the command line of the bump command.
package flag

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/personax/relkit/model"
	"github.com/spf13/pflag"
)

// NewService creates a new flag service.
func NewService() Service {
	return &service{}
}

// ParseBumpFlags parses the bump command flags and its single
// positional version argument. Zero or more than one positional is a
// usage error. A -h/--help request surfaces as pflag.ErrHelp.
func (s *service) ParseBumpFlags(args []string) (model.Flags, error) {
	fs := pflag.NewFlagSet("bump", pflag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, bumpUsage) }

	dryRun := fs.Bool("dry-run", false, "Preview the bump without writing files or touching git")
	noGit := fs.Bool("no-git", false, "Skip the commit, tag, and push stages")
	noPush := fs.Bool("no-push", false, "Skip the push stage")
	yes := fs.BoolP("yes", "y", false, "Assume yes for all confirmation prompts")
	store := fs.Bool("store", false, "Record the release in the local SQLite history")
	dbPath := fs.String("db-path", "", "Custom SQLite database path (default ~/.relkit/history.db)")
	root := fs.String("root", "", "Project root directory (default: current directory)")
	configPath := fs.String("config", "", "Path to the .relkit.yaml config file")

	if err := fs.Parse(args); err != nil {
		return model.Flags{}, err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return model.Flags{}, errors.New("exactly one <version> argument is required")
	}
	if len(rest) > 1 {
		return model.Flags{}, fmt.Errorf("unexpected extra arguments: %s", strings.Join(rest[1:], " "))
	}

	return model.Flags{
		VersionArg: rest[0],
		DryRun:     *dryRun,
		NoGit:      *noGit,
		NoPush:     *noPush,
		Yes:        *yes,
		Store:      *store,
		DBPath:     *dbPath,
		Root:       *root,
		ConfigPath: *configPath,
	}, nil
}

const bumpUsage = `Usage:
  relkit bump <version|major|minor|patch> [flags]

Bumps the project version across the version file, the manifest, and
the package initializer, then commits, tags, and optionally pushes.

Flags:
      --dry-run        Preview the bump without writing files or touching git
      --no-git         Skip the commit, tag, and push stages
      --no-push        Skip the push stage
  -y, --yes            Assume yes for all confirmation prompts
      --store          Record the release in the local SQLite history
      --db-path PATH   Custom SQLite database path
      --root DIR       Project root directory
      --config PATH    Path to the .relkit.yaml config file
`
