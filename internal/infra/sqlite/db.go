// Package sqlite provides SQLite-based persistent storage for DrinkWise.
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

// Open creates or opens the SQLite database at dir/drinkwise.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "drinkwise.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
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
		// Raw party event log. Drink lines are stored as a JSON array:
		// they are only ever read back whole, never queried individually.
		`CREATE TABLE IF NOT EXISTS parties (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL,
			date           INTEGER NOT NULL,
			category       TEXT NOT NULL,
			location       TEXT NOT NULL DEFAULT '',
			drinks         TEXT NOT NULL DEFAULT '[]',
			vomi           INTEGER NOT NULL DEFAULT 0,
			fights         INTEGER NOT NULL DEFAULT 0,
			recal          INTEGER NOT NULL DEFAULT 0,
			contacts       INTEGER NOT NULL DEFAULT 0,
			quiz_title     TEXT NOT NULL DEFAULT '',
			quiz_questions INTEGER NOT NULL DEFAULT 0,
			created_at     INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_parties_user ON parties(user_id, date)`,

		// Per-user progression state
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id          TEXT PRIMARY KEY,
			username         TEXT NOT NULL DEFAULT '',
			xp               INTEGER NOT NULL DEFAULT 0,
			level            INTEGER NOT NULL DEFAULT 1,
			total_parties    INTEGER NOT NULL DEFAULT 0,
			total_drinks     INTEGER NOT NULL DEFAULT 0,
			current_streak   INTEGER NOT NULL DEFAULT 0,
			longest_streak   INTEGER NOT NULL DEFAULT 0,
			last_streak_date TEXT NOT NULL DEFAULT '',
			updated_at       INTEGER NOT NULL
		)`,

		// Unlocked badges, append-only
		`CREATE TABLE IF NOT EXISTS profile_badges (
			user_id     TEXT NOT NULL,
			badge_id    TEXT NOT NULL,
			unlocked_at INTEGER NOT NULL,
			notified    BOOLEAN DEFAULT 0,
			PRIMARY KEY (user_id, badge_id)
		)`,

		// Completed challenges, append-only (never re-armed)
		`CREATE TABLE IF NOT EXISTS profile_challenges (
			user_id      TEXT NOT NULL,
			challenge_id TEXT NOT NULL,
			window_id    TEXT NOT NULL,
			completed_at INTEGER NOT NULL,
			PRIMARY KEY (user_id, challenge_id)
		)`,

		// Denormalized per-user snapshot visible to groups
		`CREATE TABLE IF NOT EXISTS public_stats (
			user_id              TEXT PRIMARY KEY,
			username             TEXT NOT NULL DEFAULT '',
			stats                TEXT NOT NULL DEFAULT '{}',
			xp                   INTEGER NOT NULL DEFAULT 0,
			level                INTEGER NOT NULL DEFAULT 1,
			badge_count          INTEGER NOT NULL DEFAULT 0,
			challenges_completed INTEGER NOT NULL DEFAULT 0,
			updated_at           INTEGER NOT NULL
		)`,

		// Groups with cached aggregate stats
		`CREATE TABLE IF NOT EXISTS groups (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_by  TEXT NOT NULL,
			stats       TEXT NOT NULL DEFAULT '{}',
			created_at  INTEGER NOT NULL,
			updated_at  INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS group_members (
			group_id  TEXT NOT NULL,
			user_id   TEXT NOT NULL,
			is_admin  BOOLEAN DEFAULT 0,
			joined_at INTEGER NOT NULL,
			PRIMARY KEY (group_id, user_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_members_user ON group_members(user_id)`,
		`CREATE TABLE IF NOT EXISTS group_goals (
			id           TEXT PRIMARY KEY,
			group_id     TEXT NOT NULL,
			type         TEXT NOT NULL,
			target       INTEGER NOT NULL,
			is_completed BOOLEAN DEFAULT 0,
			completed_at INTEGER,
			created_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_goals_group ON group_goals(group_id)`,

		// Notification log
		`CREATE TABLE IF NOT EXISTS notifications (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT NOT NULL,
			type       TEXT NOT NULL,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			shown      BOOLEAN DEFAULT 0
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
