package config

import (
	"fmt"
	"net"
	"sort"
	"strings"
	"time"
)

// KeyType represents the data type of a config key.
type KeyType string

const (
	KeyTypeString KeyType = "string"
	KeyTypeBool   KeyType = "bool"
)

// KeyEntry describes a known, settable config key.
type KeyEntry struct {
	// Type is the value's data type.
	Type KeyType
	// Desc is a human-readable description shown in `tria config list`.
	Desc string
	// DefaultStr is the string representation of the default/zero value.
	DefaultStr string

	// get returns the current value as a string.
	get func(*Config) string
	// set validates and applies the value to cfg, returning an error on bad input.
	set func(cfg *Config, value string) error
	// unset resets the key to its schema default.
	unset func(cfg *Config)
}

// Get returns the current value of the key as a string.
func (e *KeyEntry) Get(cfg *Config) string { return e.get(cfg) }

// Set validates and sets the value, returning a descriptive error on bad input.
func (e *KeyEntry) Set(cfg *Config, value string) error { return e.set(cfg, value) }

// Unset resets the key to its schema default.
func (e *KeyEntry) Unset(cfg *Config) { e.unset(cfg) }

// SchemaKeys is the authoritative registry of all settable workspace config
// keys. Keys use dot-notation matching the TOML section structure. The
// priority scoring profile has its own key registry and is edited through
// `tria config set` with section-prefixed keys.
var SchemaKeys = map[string]*KeyEntry{
	"user.name": {
		Type:       KeyTypeString,
		Desc:       "Display name",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.User.Name },
		set:        func(cfg *Config, v string) error { cfg.User.Name = v; return nil },
		unset:      func(cfg *Config) { cfg.User.Name = "" },
	},
	"user.email": {
		Type:       KeyTypeString,
		Desc:       "Email address",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.User.Email },
		set:        func(cfg *Config, v string) error { cfg.User.Email = v; return nil },
		unset:      func(cfg *Config) { cfg.User.Email = "" },
	},
	"workspace.name": {
		Type:       KeyTypeString,
		Desc:       "Workspace display name",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.Workspace.Name },
		set:        func(cfg *Config, v string) error { cfg.Workspace.Name = v; return nil },
		unset:      func(cfg *Config) { cfg.Workspace.Name = "" },
	},
	"workspace.timezone": {
		Type:       KeyTypeString,
		Desc:       "IANA timezone for display and date math",
		DefaultStr: "UTC",
		get:        func(cfg *Config) string { return cfg.Workspace.Timezone },
		set: func(cfg *Config, v string) error {
			tz := strings.TrimSpace(v)
			if tz == "" {
				return fmt.Errorf("timezone cannot be empty")
			}
			if _, err := time.LoadLocation(tz); err != nil {
				return fmt.Errorf("invalid timezone %q: %w", v, err)
			}
			cfg.Workspace.Timezone = tz
			return nil
		},
		unset: func(cfg *Config) { cfg.Workspace.Timezone = "UTC" },
	},
	"server.addr": {
		Type:       KeyTypeString,
		Desc:       "Listen address for `tria serve`",
		DefaultStr: "127.0.0.1:7337",
		get:        func(cfg *Config) string { return cfg.Server.Addr },
		set: func(cfg *Config, v string) error {
			if _, _, err := net.SplitHostPort(strings.TrimSpace(v)); err != nil {
				return fmt.Errorf("invalid address %q: %w", v, err)
			}
			cfg.Server.Addr = strings.TrimSpace(v)
			return nil
		},
		unset: func(cfg *Config) { cfg.Server.Addr = "127.0.0.1:7337" },
	},
}

// ValidKeyNames returns the sorted list of all known config key names.
func ValidKeyNames() []string {
	names := make([]string, 0, len(SchemaKeys))
	for k := range SchemaKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LookupKey returns the KeyEntry for a known config key.
func LookupKey(key string) (*KeyEntry, bool) {
	entry, ok := SchemaKeys[key]
	return entry, ok
}

// ParseBoolValue accepts common boolean string representations.
// Valid truthy values: true, 1, yes, on.
// Valid falsy values: false, 0, no, off.
func ParseBoolValue(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q (use one of: true/false, 1/0, yes/no, on/off)", s)
	}
}
