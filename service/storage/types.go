package storage

import (
	"context"
	"time"
)

// Service defines release history persistence operations.
type Service interface {
	SaveRelease(ctx context.Context, input SaveReleaseInput) (int64, error)
	GetRecentReleases(limit int) ([]ReleaseSummary, error)
	GetRelease(releaseID int64) (*ReleaseSummary, error)
	ListFiles(releaseID int64) ([]ReleaseFile, error)
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
	Vacuum(ctx context.Context) error
	Reindex(ctx context.Context) error
	Close() error
}

// SaveReleaseInput is the payload recorded for one completed bump.
type SaveReleaseInput struct {
	ReleaseUUID string
	OldVersion  string
	NewVersion  string
	BumpType    string
	Branch      string
	CommitHash  string
	TagName     string
	Pushed      bool
	DurationMS  int64
	CLIVersion  string
	Files       []ReleaseFile
}

// ReleaseSummary is one row of the release history.
type ReleaseSummary struct {
	ReleaseID  int64
	OldVersion string
	NewVersion string
	BumpType   string
	Branch     string
	CommitHash string
	TagName    string
	Pushed     bool
	CreatedAt  time.Time
}

// ReleaseFile records one file touched by a release.
type ReleaseFile struct {
	Path   string
	Status string
}
