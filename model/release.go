package model

// RunConfig is the immutable configuration for one bump run. It is built
// once from the parsed flags and threaded through every pipeline stage.
type RunConfig struct {
	VersionArg string
	DryRun     bool
	SkipGit    bool
	SkipPush   bool
	AssumeYes  bool
	Store      bool
	Root       string
	Targets    []FileTarget
}

// BumpResult summarizes a completed (or simulated) bump run.
type BumpResult struct {
	OldVersion string
	NewVersion string
	BumpType   string
	Branch     string
	CommitHash string
	TagName    string
	Committed  bool
	Tagged     bool
	Pushed     bool
	DryRun     bool
	Files      []FileChange
}
