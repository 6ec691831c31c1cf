package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/personax/relkit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := NewService().Load(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "VERSION", cfg.VersionFile)
	assert.Equal(t, "pyproject.toml", cfg.ManifestFile)
	assert.Equal(t, "site", cfg.SiteDir)
	assert.Equal(t, []string{"uv", "sync"}, cfg.Tools.Packager)
	assert.Equal(t, []string{"ruff", "check"}, cfg.Tools.Linter)
	assert.Equal(t, []string{"ruff", "format"}, cfg.Tools.Formatter)
}

func TestLoadOverrides(t *testing.T) {
	root := t.TempDir()
	content := `version_file: version.txt
site_dir: public
tools:
  linter: [flake8]
`
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultConfigName), []byte(content), 0o644))

	cfg, err := NewService().Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, "version.txt", cfg.VersionFile)
	assert.Equal(t, "public", cfg.SiteDir)
	assert.Equal(t, []string{"flake8"}, cfg.Tools.Linter)
	// Unset fields keep their defaults.
	assert.Equal(t, "pyproject.toml", cfg.ManifestFile)
	assert.Equal(t, []string{"uv", "sync"}, cfg.Tools.Packager)
}

func TestLoadExplicitPathMissing(t *testing.T) {
	_, err := NewService().Load(t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultConfigName), []byte("tools: [not a map"), 0o644))

	_, err := NewService().Load(root, "")
	assert.Error(t, err)
}

func TestResolveTargets(t *testing.T) {
	root := t.TempDir()
	targets := NewService().ResolveTargets(root, defaults())

	require.Len(t, targets, 3)
	assert.Equal(t, filepath.Join(root, "VERSION"), targets[0].Path)
	assert.Equal(t, model.TargetPlain, targets[0].Kind)
	assert.Equal(t, model.TargetManifest, targets[1].Kind)
	assert.Equal(t, []string{"[tool.poetry]", "[project]"}, targets[1].Sections)
	assert.Equal(t, model.TargetAssign, targets[2].Kind)
	// No manifest, so the initializer cannot be detected.
	assert.Empty(t, targets[2].Path)
}

func TestDetectInitFile(t *testing.T) {
	root := t.TempDir()
	manifest := "[project]\nname = \"my-package\"\nversion = \"1.0.0\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "pyproject.toml"), []byte(manifest), 0o644))

	initDir := filepath.Join(root, "src", "my_package")
	require.NoError(t, os.MkdirAll(initDir, 0o755))
	initPath := filepath.Join(initDir, "__init__.py")
	require.NoError(t, os.WriteFile(initPath, []byte("__version__ = \"1.0.0\"\n"), 0o644))

	targets := NewService().ResolveTargets(root, defaults())
	assert.Equal(t, initPath, targets[2].Path)
}

func TestResolveTargetsConfiguredInit(t *testing.T) {
	root := t.TempDir()
	cfg := defaults()
	cfg.InitFile = filepath.Join(root, "custom", "__init__.py")

	targets := NewService().ResolveTargets(root, cfg)
	assert.Equal(t, cfg.InitFile, targets[2].Path)
}
