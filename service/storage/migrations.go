package storage

const schemaV1 = `
CREATE TABLE IF NOT EXISTS releases (
    release_id      INTEGER PRIMARY KEY AUTOINCREMENT,
    release_uuid    TEXT UNIQUE NOT NULL,
    old_version     TEXT NOT NULL,
    new_version     TEXT NOT NULL,
    bump_type       TEXT NOT NULL,
    branch          TEXT,
    commit_hash     TEXT,
    tag_name        TEXT,
    pushed          INTEGER DEFAULT 0,
    duration_ms     INTEGER,
    cli_version     TEXT,
    created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_releases_created
    ON releases(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_releases_version
    ON releases(new_version);

CREATE TABLE IF NOT EXISTS release_files (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    release_id      INTEGER NOT NULL,
    path            TEXT NOT NULL,
    status          TEXT NOT NULL,
    created_at      DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (release_id) REFERENCES releases(release_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_release_files_release
    ON release_files(release_id);
`
