// Package version validates and manipulates project version strings.
//
// The accepted grammar is MAJOR.MINOR.PATCH with an optional suffix of
// one of: a pre-release tag (aN, bN, rcN), .postN, or .devN. Hyphenated
// SemVer pre-releases are rejected.
package version

import (
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/mod/semver"
)

var versionRE = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)((?:a|b|rc)\d+|\.post\d+|\.dev\d+)?$`)

// Service is the interface for version validation and arithmetic.
type Service interface {
	Validate(v string) error
	IsKeyword(arg string) bool
	Bump(current, keyword string) (string, error)
	Compare(a, b string) (int, bool)
	TagName(v string) string
}

type service struct{}

// NewService creates a new version service.
func NewService() Service {
	return &service{}
}

// Validate checks v against the version grammar.
func (s *service) Validate(v string) error {
	if !versionRE.MatchString(v) {
		return fmt.Errorf("invalid version %q: expected MAJOR.MINOR.PATCH with optional aN/bN/rcN, .postN, or .devN suffix", v)
	}
	return nil
}

// IsKeyword reports whether arg is a bump keyword rather than an
// explicit version.
func (s *service) IsKeyword(arg string) bool {
	switch arg {
	case "major", "minor", "patch":
		return true
	}
	return false
}

// Bump applies a bump keyword to the current version. The current
// version must be a plain triplet; keyword bumps on suffixed versions
// are ambiguous and rejected.
func (s *service) Bump(current, keyword string) (string, error) {
	m := versionRE.FindStringSubmatch(current)
	if m == nil {
		return "", fmt.Errorf("current version %q does not match the version grammar", current)
	}
	if m[4] != "" {
		return "", fmt.Errorf("cannot apply %q bump to suffixed version %q; pass an explicit version instead", keyword, current)
	}

	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])

	switch keyword {
	case "major":
		major++
		minor = 0
		patch = 0
	case "minor":
		minor++
		patch = 0
	case "patch":
		patch++
	default:
		return "", fmt.Errorf("unknown bump keyword: %s", keyword)
	}

	return fmt.Sprintf("%d.%d.%d", major, minor, patch), nil
}

// Compare orders two versions when both are plain triplets. The second
// return value is false when either carries a suffix, in which case no
// total order is defined here.
func (s *service) Compare(a, b string) (int, bool) {
	ma := versionRE.FindStringSubmatch(a)
	mb := versionRE.FindStringSubmatch(b)
	if ma == nil || mb == nil || ma[4] != "" || mb[4] != "" {
		return 0, false
	}
	return semver.Compare("v"+a, "v"+b), true
}

// TagName returns the git tag name for a version.
func (s *service) TagName(v string) string {
	return "v" + v
}
