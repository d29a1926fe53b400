package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are idempotent so the full
// list re-runs safely on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// The working copy is the single authoritative snapshot of the full
	// tracker state, stored as one JSON payload. The selection and the
	// undo slot ride alongside it so they survive between invocations.
	`CREATE TABLE IF NOT EXISTS working_copy (
		id                INTEGER PRIMARY KEY CHECK(id = 1),
		payload           TEXT NOT NULL,
		selected_note_ids TEXT NOT NULL DEFAULT '[]',
		undo_payload      TEXT,
		updated_at        TEXT NOT NULL
	)`,

	// Autosaves form a bounded ring of timestamped full snapshots; pruning
	// happens in the repository on append.
	`CREATE TABLE IF NOT EXISTS autosaves (
		id                TEXT PRIMARY KEY,
		created_at        TEXT NOT NULL,
		payload           TEXT NOT NULL,
		selected_note_ids TEXT NOT NULL DEFAULT '[]'
	)`,

	`CREATE INDEX IF NOT EXISTS idx_autosaves_created ON autosaves(created_at DESC)`,
}
