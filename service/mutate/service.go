// Package mutate rewrites version declarations in project files.
//
// Each mutation is all-or-nothing: the original content is kept in a
// .bak file until the rewrite lands, so a failed write never leaves a
// half-modified target behind. Under dry-run nothing is written.
package mutate

import (
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/personax/relkit/model"
	"github.com/personax/relkit/shared/logx"
)

// Service is the interface for file mutation.
type Service interface {
	Apply(target model.FileTarget, newVersion string, dryRun bool) (model.FileChange, error)
}

type service struct{}

// NewService creates a new mutate service.
func NewService() Service {
	return &service{}
}

// Apply rewrites the version occurrence(s) in one target file.
func (s *service) Apply(target model.FileTarget, newVersion string, dryRun bool) (model.FileChange, error) {
	switch target.Kind {
	case model.TargetPlain:
		return s.applyPlain(target, newVersion, dryRun)
	case model.TargetManifest:
		return s.applyManifest(target, newVersion, dryRun)
	case model.TargetAssign:
		return s.applyAssign(target, newVersion, dryRun)
	default:
		return model.FileChange{Path: target.Path}, fmt.Errorf("unknown target kind %q", target.Kind)
	}
}

func (s *service) applyPlain(target model.FileTarget, newVersion string, dryRun bool) (model.FileChange, error) {
	change := model.FileChange{Path: target.Path}

	old, err := os.ReadFile(target.Path)
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return change, fmt.Errorf("failed to read %s: %w", target.Path, err)
	}

	content := newVersion + "\n"
	if exists && string(old) == content {
		change.Note = "already at " + newVersion
		return change, nil
	}

	if dryRun {
		logx.Info("dry-run: would write %s to %s", logx.Value(newVersion), logx.Path(target.Path))
		change.Changed = true
		change.Note = "would overwrite"
		return change, nil
	}

	if err := writeAtomic(target.Path, old, exists, []byte(content)); err != nil {
		return change, err
	}
	change.Changed = true
	change.Note = "overwritten"
	return change, nil
}

func (s *service) applyManifest(target model.FileTarget, newVersion string, dryRun bool) (model.FileChange, error) {
	change := model.FileChange{Path: target.Path}

	old, err := os.ReadFile(target.Path)
	if err != nil {
		if os.IsNotExist(err) {
			logx.Warn("manifest %s not found, skipping", logx.Path(target.Path))
			change.Skipped = true
			change.Note = "missing file"
			return change, nil
		}
		return change, fmt.Errorf("failed to read %s: %w", target.Path, err)
	}

	key := target.Key
	if key == "" {
		key = "version"
	}
	assignRE := regexp.MustCompile(`^(\s*` + regexp.QuoteMeta(key) + `\s*=\s*")[^"]*(".*)$`)

	lines := strings.Split(string(old), "\n")
	replaced := 0
	for _, section := range target.Sections {
		idx := findSection(lines, section)
		if idx < 0 {
			logx.Warn("section %s not found in %s, skipping", logx.Key(section), logx.Path(target.Path))
			continue
		}
		// Scoped to the section: stop at the next section header.
		for i := idx + 1; i < len(lines); i++ {
			trimmed := strings.TrimSpace(lines[i])
			if strings.HasPrefix(trimmed, "[") {
				break
			}
			if m := assignRE.FindStringSubmatch(lines[i]); m != nil {
				lines[i] = m[1] + newVersion + m[2]
				replaced++
				break
			}
		}
	}

	if replaced == 0 {
		change.Skipped = true
		change.Note = "no version assignment found"
		return change, nil
	}

	content := strings.Join(lines, "\n")
	if content == string(old) {
		change.Note = "already at " + newVersion
		return change, nil
	}

	if dryRun {
		logx.Info("dry-run: would set %s in %d section(s) of %s", logx.Value(newVersion), replaced, logx.Path(target.Path))
		change.Changed = true
		change.Note = "would update"
		return change, nil
	}

	if err := writeAtomic(target.Path, old, true, []byte(content)); err != nil {
		return change, err
	}
	change.Changed = true
	change.Note = fmt.Sprintf("updated %d section(s)", replaced)
	return change, nil
}

func (s *service) applyAssign(target model.FileTarget, newVersion string, dryRun bool) (model.FileChange, error) {
	change := model.FileChange{Path: target.Path}

	if target.Path == "" {
		logx.Warn("package initializer not found, skipping")
		change.Skipped = true
		change.Note = "missing file"
		return change, nil
	}

	old, err := os.ReadFile(target.Path)
	if err != nil {
		if os.IsNotExist(err) {
			logx.Warn("initializer %s not found, skipping", logx.Path(target.Path))
			change.Skipped = true
			change.Note = "missing file"
			return change, nil
		}
		return change, fmt.Errorf("failed to read %s: %w", target.Path, err)
	}

	key := target.Key
	if key == "" {
		key = "__version__"
	}
	assignRE := regexp.MustCompile(`^(` + regexp.QuoteMeta(key) + `\s*=\s*["'])[^"']*(["'].*)$`)

	lines := strings.Split(string(old), "\n")
	replaced := false
	for i, line := range lines {
		if m := assignRE.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + newVersion + m[2]
			replaced = true
			break
		}
	}

	if !replaced {
		change.Skipped = true
		change.Note = fmt.Sprintf("no %s assignment found", key)
		return change, nil
	}

	content := strings.Join(lines, "\n")
	if content == string(old) {
		change.Note = "already at " + newVersion
		return change, nil
	}

	if dryRun {
		logx.Info("dry-run: would set %s = %s in %s", logx.Key(key), logx.Value(newVersion), logx.Path(target.Path))
		change.Changed = true
		change.Note = "would update"
		return change, nil
	}

	if err := writeAtomic(target.Path, old, true, []byte(content)); err != nil {
		return change, err
	}
	change.Changed = true
	change.Note = "updated"
	return change, nil
}

// findSection returns the index of the line equal to the section header.
func findSection(lines []string, section string) int {
	for i, line := range lines {
		if strings.TrimSpace(line) == section {
			return i
		}
	}
	return -1
}

// writeAtomic replaces path with data, keeping the original in a .bak
// file until the write succeeds. The backup is removed on success and
// restored on failure.
func writeAtomic(path string, old []byte, exists bool, data []byte) error {
	perm := fs.FileMode(0o644)
	if exists {
		if info, err := os.Stat(path); err == nil {
			perm = info.Mode().Perm()
		}
		bak := path + ".bak"
		if err := os.WriteFile(bak, old, perm); err != nil {
			return fmt.Errorf("failed to write backup for %s: %w", path, err)
		}
		if err := os.WriteFile(path, data, perm); err != nil {
			_ = os.Rename(bak, path)
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return os.Remove(bak)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
