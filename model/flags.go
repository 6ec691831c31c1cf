package model

// Flags represents the command line flags of the bump command.
type Flags struct {
	VersionArg string
	DryRun     bool
	NoGit      bool
	NoPush     bool
	Yes        bool
	Store      bool
	DBPath     string
	Root       string
	ConfigPath string
}
