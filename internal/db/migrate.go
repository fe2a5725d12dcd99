package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// migrations is the ordered list of schema statements. Statements must be
// idempotent (IF NOT EXISTS) because Migrate re-runs the full list on every
// startup.
var migrations = []string{
	// A project is the root step of its own tree: project_id equals id and
	// parent_step_id is NULL. Child rows cascade when an ancestor row is
	// removed, but the engine still deletes full descendant sets explicitly
	// so that sibling renumbering and progress recomputation happen in the
	// same transaction.
	`CREATE TABLE IF NOT EXISTS steps (
		id             TEXT PRIMARY KEY,
		project_id     TEXT NOT NULL,
		parent_step_id TEXT REFERENCES steps(id) ON DELETE CASCADE,
		name           TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		order_index    INTEGER NOT NULL DEFAULT 0,
		progress       REAL NOT NULL DEFAULT 0 CHECK(progress >= 0 AND progress <= 1),
		created_by_id  TEXT NOT NULL,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_steps_parent ON steps(parent_step_id)`,
	`CREATE INDEX IF NOT EXISTS idx_steps_project ON steps(project_id)`,

	`CREATE TABLE IF NOT EXISTS project_members (
		project_id TEXT NOT NULL,
		user_id    TEXT NOT NULL,
		role       TEXT NOT NULL CHECK(role IN ('MANAGER','MEMBER')),
		created_at TEXT NOT NULL,
		PRIMARY KEY (project_id, user_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_members_user ON project_members(user_id)`,
}
