package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are re-run on every open,
// so each one must be idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form in SQLite.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		id                TEXT PRIMARY KEY,
		user_id           TEXT NOT NULL UNIQUE,
		exam_date         TEXT,
		start_date        TEXT NOT NULL,
		end_date          TEXT NOT NULL,
		hours_json        TEXT NOT NULL DEFAULT '{}',
		adaptive_tutoring INTEGER NOT NULL DEFAULT 0,
		anki_variant      TEXT NOT NULL DEFAULT ''
		                  CHECK(anki_variant IN ('','anki_clinic','regular_anki')),
		cars              INTEGER NOT NULL DEFAULT 0,
		uworld            INTEGER NOT NULL DEFAULT 0,
		aamc              INTEGER NOT NULL DEFAULT 0,
		balance           TEXT NOT NULL DEFAULT 'balanced',
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS placements (
		id            TEXT PRIMARY KEY,
		plan_id       TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		date          TEXT NOT NULL,
		activity_name TEXT NOT NULL,
		hours         REAL NOT NULL DEFAULT 0 CHECK(hours >= 0),
		kind          TEXT NOT NULL CHECK(kind IN ('practice','review','exam')),
		status        TEXT NOT NULL DEFAULT 'not_started'
		              CHECK(status IN ('not_started','in_progress','completed')),
		source        TEXT NOT NULL DEFAULT 'generated'
		              CHECK(source IN ('generated','exam')),
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_placements_plan_date ON placements(plan_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_placements_plan_source ON placements(plan_id, source)`,

	// Checklists attached at generation time.
	`ALTER TABLE placements ADD COLUMN checklist_json TEXT NOT NULL DEFAULT '[]'`,

	// Checklist template document: one pending queue per activity name.
	`CREATE TABLE IF NOT EXISTS checklist_queues (
		activity_name TEXT PRIMARY KEY,
		queue_json    TEXT NOT NULL DEFAULT '[]',
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS checklist_meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}
