package priority

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Config document names in the priority_config table.
const (
	activeConfigName = "active"
)

// Config sources recorded alongside saves.
const (
	SourceDefault = "default"
	SourceManual  = "manual"
	SourcePreset  = "preset"
	SourceImport  = "import"
	SourceAPI     = "api"
)

// ConfigStore persists the active priority configuration as a JSON document.
type ConfigStore struct {
	db        *sql.DB
	validator *Validator
}

// NewConfigStore creates a config store. gen may be nil to use UUIDs for
// repaired rule ids.
func NewConfigStore(db *sql.DB, gen IDGenerator) *ConfigStore {
	return &ConfigStore{db: db, validator: NewValidator(gen)}
}

// Normalize runs raw JSON through the store's validator without persisting.
func (cs *ConfigStore) Normalize(data []byte) (Config, error) {
	return cs.validator.Normalize(data)
}

// Load returns the active configuration. A missing or unreadable row yields
// the built-in defaults so scoring keeps working; stored documents always go
// through Normalize so stale or hand-edited rows come back in range.
func (cs *ConfigStore) Load() (Config, string, error) {
	var body, source string
	err := cs.db.QueryRow(
		`SELECT body, source FROM priority_config WHERE name = ?`, activeConfigName,
	).Scan(&body, &source)
	if err == sql.ErrNoRows {
		return DefaultConfig(), SourceDefault, nil
	}
	if err != nil {
		return DefaultConfig(), SourceDefault, fmt.Errorf("loading priority config: %w", err)
	}

	cfg, err := cs.validator.Normalize([]byte(body))
	if err != nil {
		// Corrupt document. Fall back to defaults rather than failing triage.
		return DefaultConfig(), SourceDefault, nil
	}
	return cfg, source, nil
}

// Save upserts the active configuration. The config is normalized before
// writing so the stored document is always in range.
func (cs *ConfigStore) Save(cfg Config, source string) error {
	body, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding priority config: %w", err)
	}
	_, err = cs.db.Exec(
		`INSERT INTO priority_config (name, body, source, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET body = excluded.body, source = excluded.source, updated_at = excluded.updated_at`,
		activeConfigName, string(body), source, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving priority config: %w", err)
	}
	return nil
}

// Reset deletes the stored configuration so Load returns defaults again.
func (cs *ConfigStore) Reset() error {
	if _, err := cs.db.Exec(`DELETE FROM priority_config WHERE name = ?`, activeConfigName); err != nil {
		return fmt.Errorf("resetting priority config: %w", err)
	}
	return nil
}

// UpdatedAt reports when the active configuration was last saved.
// Returns the zero time when no row exists.
func (cs *ConfigStore) UpdatedAt() (time.Time, error) {
	var raw string
	err := cs.db.QueryRow(
		`SELECT updated_at FROM priority_config WHERE name = ?`, activeConfigName,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	// Fallback for SQLite-native "YYYY-MM-DD HH:MM:SS" format.
	t, err := time.Parse("2006-01-02 15:04:05", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing updated_at %q: %w", raw, err)
	}
	return t, nil
}
