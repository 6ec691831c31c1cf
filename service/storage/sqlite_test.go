package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func sampleInput(uuid, newVersion string) SaveReleaseInput {
	return SaveReleaseInput{
		ReleaseUUID: uuid,
		OldVersion:  "1.2.3",
		NewVersion:  newVersion,
		BumpType:    "patch",
		Branch:      "main",
		CommitHash:  "abc1234",
		TagName:     "v" + newVersion,
		Pushed:      true,
		DurationMS:  420,
		CLIVersion:  "dev",
		Files: []ReleaseFile{
			{Path: "VERSION", Status: "updated"},
			{Path: "pyproject.toml", Status: "updated"},
			{Path: "src/demo/__init__.py", Status: "skipped"},
		},
	}
}

func TestSaveAndGetRelease(t *testing.T) {
	store := newTestStorage(t)

	id, err := store.SaveRelease(context.Background(), sampleInput("uuid-1", "1.2.4"))
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	release, err := store.GetRelease(id)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", release.OldVersion)
	assert.Equal(t, "1.2.4", release.NewVersion)
	assert.Equal(t, "patch", release.BumpType)
	assert.Equal(t, "main", release.Branch)
	assert.Equal(t, "v1.2.4", release.TagName)
	assert.True(t, release.Pushed)
	assert.False(t, release.CreatedAt.IsZero())

	files, err := store.ListFiles(id)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "VERSION", files[0].Path)
	assert.Equal(t, "updated", files[0].Status)
	assert.Equal(t, "skipped", files[2].Status)
}

func TestSaveReleaseRequiresVersion(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.SaveRelease(context.Background(), SaveReleaseInput{})
	assert.Error(t, err)
}

func TestSaveReleaseGeneratesUUID(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.SaveRelease(context.Background(), SaveReleaseInput{NewVersion: "1.0.0"})
	require.NoError(t, err)
	_, err = store.SaveRelease(context.Background(), SaveReleaseInput{NewVersion: "1.0.1"})
	require.NoError(t, err)
}

func TestGetRecentReleases(t *testing.T) {
	store := newTestStorage(t)

	for i, v := range []string{"1.0.0", "1.0.1", "1.0.2"} {
		_, err := store.SaveRelease(context.Background(), sampleInput(
			string(rune('a'+i)), v))
		require.NoError(t, err)
	}

	releases, err := store.GetRecentReleases(2)
	require.NoError(t, err)
	require.Len(t, releases, 2)
	// Newest first; equal timestamps fall back to the id ordering.
	assert.Equal(t, "1.0.2", releases[0].NewVersion)
	assert.Equal(t, "1.0.1", releases[1].NewVersion)

	releases, err = store.GetRecentReleases(0)
	require.NoError(t, err)
	assert.Len(t, releases, 3)
}

func TestGetReleaseNotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetRelease(12345)
	assert.Error(t, err)
}

func TestPurgeOlderThan(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.SaveRelease(context.Background(), sampleInput("uuid-1", "1.0.0"))
	require.NoError(t, err)

	// Fresh rows survive a purge window in the past.
	count, err := store.PurgeOlderThan(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = store.PurgeOlderThan(context.Background(), 0)
	assert.Error(t, err)
}

func TestVacuumAndReindex(t *testing.T) {
	store := newTestStorage(t)

	require.NoError(t, store.Vacuum(context.Background()))
	require.NoError(t, store.Reindex(context.Background()))
}
