package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/triahq/tria/internal/config"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the tria database at the XDG data path.
func Open() (*DB, error) {
	paths := config.GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("creating data dirs: %w", err)
	}
	return OpenAt(paths.DBFile + "?_journal_mode=WAL&_busy_timeout=5000")
}

// OpenAt opens a database at an explicit DSN. Tests use ":memory:".
func OpenAt(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=-64000", // 64MB cache
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the raw sql.DB for direct queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// migrate runs all schema migrations.
func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		// Triage items: emails, timeline items, and tasks share one table.
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			category TEXT DEFAULT '',
			labels TEXT DEFAULT '',
			from_email TEXT DEFAULT '',
			from_name TEXT DEFAULT '',
			subject TEXT DEFAULT '',
			received_at DATETIME,
			starts_at DATETIME,
			due_at DATETIME,
			is_read INTEGER DEFAULT 0,
			triage_state TEXT DEFAULT 'unassigned',
			snoozed_until DATETIME,
			has_attachments INTEGER DEFAULT 0,
			manual_priority REAL,
			model_priority REAL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		// Scheduling conflicts attached to timeline items.
		`CREATE TABLE IF NOT EXISTS item_conflicts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
			with_id TEXT DEFAULT '',
			severity TEXT DEFAULT 'default'
		)`,
		// Blocking dependencies between items.
		`CREATE TABLE IF NOT EXISTS item_deps (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
			on_id TEXT NOT NULL,
			kind TEXT DEFAULT 'other',
			blocking INTEGER DEFAULT 1
		)`,
		// The active priority configuration, one JSON document per row name.
		`CREATE TABLE IF NOT EXISTS priority_config (
			name TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			source TEXT DEFAULT '',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		// Key-value store for misc state
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_kind ON items(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_items_triage_state ON items(triage_state)`,
		`CREATE INDEX IF NOT EXISTS idx_item_conflicts_item ON item_conflicts(item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_item_deps_item ON item_deps(item_id)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	// ALTER TABLE migrations cannot use IF NOT EXISTS — handle idempotently.
	// SQLite raises "duplicate column name: X" when a column already exists.
	// The modernc.org/sqlite pure-Go driver preserves this exact error string
	// (it mirrors the SQLite C library wording), so the string match is stable.
	// See: https://www.sqlite.org/lang_altertable.html
	alterMigrations := []string{
		`ALTER TABLE items ADD COLUMN archived INTEGER DEFAULT 0`,
	}
	for _, m := range alterMigrations {
		if _, err := db.conn.Exec(m); err != nil {
			if !strings.Contains(err.Error(), "duplicate column name") {
				return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
			}
		}
	}

	return nil
}

// GetKV returns the stored value for key, or "" when unset.
func (db *DB) GetKV(key string) (string, error) {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading kv %q: %w", key, err)
	}
	return value, nil
}

// SetKV upserts a key-value pair.
func (db *DB) SetKV(key, value string) error {
	_, err := db.conn.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing kv %q: %w", key, err)
	}
	return nil
}

// InstallID returns this workspace's stable identifier, minting one on the
// first call.
func (db *DB) InstallID() (string, error) {
	id, err := db.GetKV("install_id")
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	id = uuid.New().String()
	if err := db.SetKV("install_id", id); err != nil {
		return "", err
	}
	return id, nil
}
