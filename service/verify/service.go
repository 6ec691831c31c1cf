// Package verify re-reads mutated targets and confirms the expected
// version is present, using the same match rules as the mutators. It
// never writes; all mismatches are collected so a failing run reports
// every broken file, not just the first.
package verify

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/personax/relkit/model"
)

// Failure describes one target that does not carry the expected version.
type Failure struct {
	Path   string
	Want   string
	Detail string
}

// Service is the interface for post-mutation verification.
type Service interface {
	VerifyAll(targets []model.FileTarget, version string) []Failure
}

type service struct{}

// NewService creates a new verify service.
func NewService() Service {
	return &service{}
}

// VerifyAll checks every target and returns the full list of failures.
// Targets whose file is missing are skipped; the mutator already
// reported those as warnings.
func (s *service) VerifyAll(targets []model.FileTarget, version string) []Failure {
	var failures []Failure
	for _, t := range targets {
		if f := s.verifyOne(t, version); f != nil {
			failures = append(failures, *f)
		}
	}
	return failures
}

func (s *service) verifyOne(target model.FileTarget, version string) *Failure {
	if target.Path == "" {
		return nil
	}
	data, err := os.ReadFile(target.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &Failure{Path: target.Path, Want: version, Detail: err.Error()}
	}

	switch target.Kind {
	case model.TargetPlain:
		if got := strings.TrimSpace(string(data)); got != version {
			return &Failure{Path: target.Path, Want: version, Detail: fmt.Sprintf("contains %q", got)}
		}
	case model.TargetManifest:
		return verifyManifest(target, string(data), version)
	case model.TargetAssign:
		return verifyAssign(target, string(data), version)
	}
	return nil
}

func verifyManifest(target model.FileTarget, content, version string) *Failure {
	key := target.Key
	if key == "" {
		key = "version"
	}
	valueRE := regexp.MustCompile(`^\s*` + regexp.QuoteMeta(key) + `\s*=\s*"([^"]*)"`)

	lines := strings.Split(content, "\n")
	for _, section := range target.Sections {
		idx := sectionIndex(lines, section)
		if idx < 0 {
			continue
		}
		for i := idx + 1; i < len(lines); i++ {
			trimmed := strings.TrimSpace(lines[i])
			if strings.HasPrefix(trimmed, "[") {
				break
			}
			if m := valueRE.FindStringSubmatch(lines[i]); m != nil {
				if m[1] != version {
					return &Failure{
						Path:   target.Path,
						Want:   version,
						Detail: fmt.Sprintf("section %s has %q", section, m[1]),
					}
				}
				break
			}
		}
	}
	return nil
}

func verifyAssign(target model.FileTarget, content, version string) *Failure {
	key := target.Key
	if key == "" {
		key = "__version__"
	}
	valueRE := regexp.MustCompile(`^` + regexp.QuoteMeta(key) + `\s*=\s*["']([^"']*)["']`)

	for _, line := range strings.Split(content, "\n") {
		if m := valueRE.FindStringSubmatch(line); m != nil {
			if m[1] != version {
				return &Failure{Path: target.Path, Want: version, Detail: fmt.Sprintf("%s is %q", key, m[1])}
			}
			return nil
		}
	}
	return &Failure{Path: target.Path, Want: version, Detail: fmt.Sprintf("no %s assignment found", key)}
}

func sectionIndex(lines []string, section string) int {
	for i, line := range lines {
		if strings.TrimSpace(line) == section {
			return i
		}
	}
	return -1
}
