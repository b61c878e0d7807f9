package persistence

import (
	"database/sql"
	"fmt"
)

// EnsureSchema creates the credential record and the submission ledger tables
// if they do not exist. Safe to call at startup.
func EnsureSchema(db *sql.DB) error {
	ddls := []string{
		`CREATE TABLE IF NOT EXISTS reddit_auth (
			id INTEGER PRIMARY KEY,
			access_token TEXT NOT NULL,
			token_type TEXT NOT NULL,
			scope TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at BIGINT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id BIGSERIAL PRIMARY KEY,
			video_id TEXT NOT NULL UNIQUE,
			post_id TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			stickied BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions(created_at)`,
	}
	for _, ddl := range ddls {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}
	return nil
}
