package model

// TargetKind selects the substitution rule applied to a file target.
type TargetKind string

const (
	// TargetPlain is a bare version file whose whole content is the version.
	TargetPlain TargetKind = "plain"
	// TargetManifest is a sectioned manifest with version = "..." assignments.
	TargetManifest TargetKind = "manifest"
	// TargetAssign is a source file with a single version assignment line.
	TargetAssign TargetKind = "assign"
)

// FileTarget describes one version-bearing file and how to rewrite it.
type FileTarget struct {
	Path     string
	Kind     TargetKind
	Sections []string // manifest section headers, e.g. "[tool.poetry]"
	Key      string   // assignment key, e.g. "__version__"
}

// FileChange records the outcome of a single mutation.
type FileChange struct {
	Path    string
	Changed bool
	Skipped bool
	Note    string
}
