package repository

import (
	"fmt"
	"time"

	"github.com/pocketbase/dbx"

	// Register the cgo-free sqlite driver.
	_ "modernc.org/sqlite"
)

// timeFormat is how timestamps are stored in SQLite text columns.
const timeFormat = time.RFC3339Nano

// schema is applied idempotently on open. The UNIQUE index on
// (chat_user_id, commit_sha) is what makes the duplicate-log guard a single
// atomic conditional insert rather than a check-then-act.
const schema = `
CREATE TABLE IF NOT EXISTS identities (
	chat_user_id TEXT PRIMARY KEY,
	github_login TEXT NOT NULL,
	verified_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pending_links (
	token        TEXT PRIMARY KEY,
	chat_user_id TEXT NOT NULL,
	issued_at    TEXT NOT NULL,
	expires_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pending_links_expires ON pending_links (expires_at);

CREATE TABLE IF NOT EXISTS commits (
	sha          TEXT NOT NULL,
	github_login TEXT NOT NULL,
	repo         TEXT NOT NULL DEFAULT '',
	message      TEXT NOT NULL DEFAULT '',
	committed_at TEXT NOT NULL,
	PRIMARY KEY (sha, github_login)
);
CREATE INDEX IF NOT EXISTS idx_commits_login_time ON commits (github_login, committed_at);

CREATE TABLE IF NOT EXISTS hour_logs (
	id           TEXT PRIMARY KEY,
	chat_user_id TEXT NOT NULL,
	commit_sha   TEXT NOT NULL,
	hours        REAL NOT NULL,
	logged_at    TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_hour_logs_user_commit ON hour_logs (chat_user_id, commit_sha);
CREATE INDEX IF NOT EXISTS idx_hour_logs_user_time ON hour_logs (chat_user_id, logged_at);
`

// OpenSQLite opens (and creates, if needed) the tracker database at path and
// applies the schema. The busy timeout keeps concurrent writers queueing
// instead of failing immediately.
func OpenSQLite(path string) (*dbx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)

	db, err := dbx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if _, err := db.NewQuery(schema).Execute(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
