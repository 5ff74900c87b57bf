// Package sqlite provides SQLite-based persistent storage for cocina.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/gamify.db.
// Enables WAL mode, foreign keys, and a 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "gamify.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Per-user monotonic counters
		`CREATE TABLE IF NOT EXISTS user_stats (
			user_id TEXT NOT NULL,
			stat    TEXT NOT NULL,
			value   INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, stat)
		)`,

		// Cumulative XP and denormalized level
		`CREATE TABLE IF NOT EXISTS user_levels (
			user_id TEXT PRIMARY KEY,
			xp      INTEGER NOT NULL DEFAULT 0,
			level   INTEGER NOT NULL DEFAULT 1
		)`,

		// Append-only XP event log
		`CREATE TABLE IF NOT EXISTS xp_events (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			type       TEXT NOT NULL,
			amount     INTEGER NOT NULL,
			points     INTEGER NOT NULL,
			metadata   TEXT NOT NULL DEFAULT '{}',
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_xp_events_user ON xp_events(user_id, created_at)`,

		// Per-(user, achievement) progress. Completion is terminal.
		`CREATE TABLE IF NOT EXISTS achievement_progress (
			user_id        TEXT NOT NULL,
			achievement_id TEXT NOT NULL,
			progress       INTEGER NOT NULL DEFAULT 0,
			max_progress   INTEGER NOT NULL DEFAULT 0,
			completed      BOOLEAN NOT NULL DEFAULT 0,
			completed_at   INTEGER,
			PRIMARY KEY (user_id, achievement_id)
		)`,

		// Per-(user, activity) streak state
		`CREATE TABLE IF NOT EXISTS streaks (
			user_id      TEXT NOT NULL,
			activity     TEXT NOT NULL,
			current_days INTEGER NOT NULL DEFAULT 0,
			longest_days INTEGER NOT NULL DEFAULT 0,
			last_date    INTEGER NOT NULL DEFAULT 0,
			freeze_used  BOOLEAN NOT NULL DEFAULT 0,
			freeze_week  TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (user_id, activity)
		)`,

		// Double-entry points ledger
		`CREATE TABLE IF NOT EXISTS points_ledger (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			type        TEXT NOT NULL,
			entry_type  TEXT NOT NULL,
			account     TEXT NOT NULL,
			amount      INTEGER NOT NULL,
			event_id    TEXT,
			description TEXT,
			balance     INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_points_account ON points_ledger(account, timestamp)`,

		// Notification log (per-user daily cap, quiet hours)
		`CREATE TABLE IF NOT EXISTS notifications (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT NOT NULL,
			type       TEXT NOT NULL,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			shown      BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notif_user ON notifications(user_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
