// Package storage persists release history in a local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const defaultDBPath = "~/.relkit/history.db"

// NewService creates a SQLite-backed storage service.
func NewService(dbPath string) (Service, error) {
	resolved, err := resolvePath(dbPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaV1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &service{db: db, dbPath: resolved}, nil
}

type service struct {
	db     *sql.DB
	dbPath string
}

func resolvePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		p = defaultDBPath
	}
	if strings.HasPrefix(p, "~/") || p == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home dir: %w", err)
		}
		if p == "~" {
			p = home
		} else {
			p = filepath.Join(home, p[2:])
		}
	}
	return filepath.Clean(p), nil
}

// SaveRelease records one completed bump and its touched files.
func (s *service) SaveRelease(ctx context.Context, input SaveReleaseInput) (int64, error) {
	if input.NewVersion == "" {
		return 0, errors.New("new version is required")
	}
	if input.ReleaseUUID == "" {
		input.ReleaseUUID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	pushed := 0
	if input.Pushed {
		pushed = 1
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO releases (
			release_uuid, old_version, new_version, bump_type,
			branch, commit_hash, tag_name, pushed, duration_ms, cli_version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, input.ReleaseUUID, input.OldVersion, input.NewVersion, input.BumpType,
		input.Branch, input.CommitHash, input.TagName, pushed, input.DurationMS, input.CLIVersion)
	if err != nil {
		return 0, err
	}
	releaseID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, f := range input.Files {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO release_files(release_id, path, status) VALUES (?, ?, ?)
		`, releaseID, f.Path, f.Status); err != nil {
			return 0, err
		}
	}

	err = tx.Commit()
	if err != nil {
		return 0, err
	}
	return releaseID, nil
}

// GetRecentReleases lists the most recent releases, newest first.
func (s *service) GetRecentReleases(limit int) ([]ReleaseSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT release_id, old_version, new_version, bump_type,
		       COALESCE(branch, ''), COALESCE(commit_hash, ''), COALESCE(tag_name, ''),
		       pushed, created_at
		FROM releases
		ORDER BY created_at DESC, release_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// GetRelease fetches one release by id.
func (s *service) GetRelease(releaseID int64) (*ReleaseSummary, error) {
	rows, err := s.db.Query(`
		SELECT release_id, old_version, new_version, bump_type,
		       COALESCE(branch, ''), COALESCE(commit_hash, ''), COALESCE(tag_name, ''),
		       pushed, created_at
		FROM releases
		WHERE release_id = ?
	`, releaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries, err := scanSummaries(rows)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, fmt.Errorf("release %d not found", releaseID)
	}
	return &summaries[0], nil
}

func scanSummaries(rows *sql.Rows) ([]ReleaseSummary, error) {
	var out []ReleaseSummary
	for rows.Next() {
		var r ReleaseSummary
		var pushed int
		var created string
		if err := rows.Scan(&r.ReleaseID, &r.OldVersion, &r.NewVersion, &r.BumpType,
			&r.Branch, &r.CommitHash, &r.TagName, &pushed, &created); err != nil {
			return nil, err
		}
		r.Pushed = pushed != 0
		if ts, err := time.Parse("2006-01-02 15:04:05", created); err == nil {
			r.CreatedAt = ts
		} else if ts, err := time.Parse(time.RFC3339, created); err == nil {
			r.CreatedAt = ts
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListFiles lists the files touched by a release.
func (s *service) ListFiles(releaseID int64) ([]ReleaseFile, error) {
	rows, err := s.db.Query(`
		SELECT path, status FROM release_files WHERE release_id = ? ORDER BY id
	`, releaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReleaseFile
	for rows.Next() {
		var f ReleaseFile
		if err := rows.Scan(&f.Path, &f.Status); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// PurgeOlderThan deletes releases older than the given number of days.
func (s *service) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, errors.New("days must be positive")
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM releases WHERE created_at < DATETIME('now', ?)
	`, fmt.Sprintf("-%d day", days))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Vacuum compacts the database file.
func (s *service) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM;")
	return err
}

// Reindex rebuilds the indexes.
func (s *service) Reindex(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "REINDEX;")
	return err
}

// Close closes the underlying database.
func (s *service) Close() error {
	return s.db.Close()
}
