// Package config loads the optional .relkit.yaml project configuration
// and resolves the set of version-bearing file targets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/personax/relkit/model"
	"gopkg.in/yaml.v3"
)

// Tools holds the external tool invocations, command name first.
type Tools struct {
	Packager  []string `yaml:"packager"`
	Linter    []string `yaml:"linter"`
	Formatter []string `yaml:"formatter"`
}

// Config is the project-level configuration. Every field is optional;
// zero values fall back to the defaults below.
type Config struct {
	VersionFile  string `yaml:"version_file"`
	ManifestFile string `yaml:"manifest_file"`
	InitFile     string `yaml:"init_file"`
	SiteDir      string `yaml:"site_dir"`
	DBPath       string `yaml:"db_path"`
	Tools        Tools  `yaml:"tools"`
}

// DefaultConfigName is the config file looked up in the project root.
const DefaultConfigName = ".relkit.yaml"

// Service is the interface for configuration loading.
type Service interface {
	Load(root, path string) (Config, error)
	ResolveTargets(root string, cfg Config) []model.FileTarget
}

type service struct{}

// NewService creates a new config service.
func NewService() Service {
	return &service{}
}

// Load reads the config file, falling back to defaults when the file is
// absent. An explicit path that does not exist is an error; the default
// location is allowed to be missing.
func (s *service) Load(root, path string) (Config, error) {
	cfg := defaults()

	explicit := path != ""
	if path == "" {
		path = filepath.Join(root, DefaultConfigName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return cfg, nil
}

func defaults() Config {
	return Config{
		VersionFile:  "VERSION",
		ManifestFile: "pyproject.toml",
		SiteDir:      "site",
		Tools: Tools{
			Packager:  []string{"uv", "sync"},
			Linter:    []string{"ruff", "check"},
			Formatter: []string{"ruff", "format"},
		},
	}
}

func applyDefaults(cfg *Config) {
	def := defaults()
	if cfg.VersionFile == "" {
		cfg.VersionFile = def.VersionFile
	}
	if cfg.ManifestFile == "" {
		cfg.ManifestFile = def.ManifestFile
	}
	if cfg.SiteDir == "" {
		cfg.SiteDir = def.SiteDir
	}
	if len(cfg.Tools.Packager) == 0 {
		cfg.Tools.Packager = def.Tools.Packager
	}
	if len(cfg.Tools.Linter) == 0 {
		cfg.Tools.Linter = def.Tools.Linter
	}
	if len(cfg.Tools.Formatter) == 0 {
		cfg.Tools.Formatter = def.Tools.Formatter
	}
}

// ResolveTargets builds the three file targets for a project root. The
// initializer path is auto-detected from the manifest package name when
// not configured; a target that cannot be located is still returned so
// the mutator can report the missing file as a warning.
func (s *service) ResolveTargets(root string, cfg Config) []model.FileTarget {
	initFile := cfg.InitFile
	if initFile == "" {
		initFile = detectInitFile(root, filepath.Join(root, cfg.ManifestFile))
	}

	return []model.FileTarget{
		{Path: filepath.Join(root, cfg.VersionFile), Kind: model.TargetPlain},
		{
			Path:     filepath.Join(root, cfg.ManifestFile),
			Kind:     model.TargetManifest,
			Sections: []string{"[tool.poetry]", "[project]"},
			Key:      "version",
		},
		{Path: initFile, Kind: model.TargetAssign, Key: "__version__"},
	}
}

var manifestNameRE = regexp.MustCompile(`(?m)^name\s*=\s*"([^"]+)"`)

// detectInitFile guesses the package initializer from the manifest's
// package name, checking <name>/__init__.py and src/<name>/__init__.py.
func detectInitFile(root, manifestPath string) string {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return ""
	}

	m := manifestNameRE.FindSubmatch(data)
	if m == nil {
		return ""
	}
	pkg := strings.ReplaceAll(string(m[1]), "-", "_")

	for _, candidate := range []string{
		filepath.Join(root, pkg, "__init__.py"),
		filepath.Join(root, "src", pkg, "__init__.py"),
	} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
