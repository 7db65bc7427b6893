package config

import (
	"sort"
	"testing"
)

func TestValidKeyNames_NonEmpty(t *testing.T) {
	names := ValidKeyNames()
	if len(names) == 0 {
		t.Fatal("expected non-empty key list")
	}
}

func TestValidKeyNames_Sorted(t *testing.T) {
	names := ValidKeyNames()
	if !sort.StringsAreSorted(names) {
		t.Fatalf("expected sorted key names, got %v", names)
	}
}

func TestValidKeyNames_ContainsKnownKeys(t *testing.T) {
	expected := []string{"user.name", "user.email", "workspace.timezone", "server.addr"}
	names := ValidKeyNames()
	nameSet := make(map[string]bool, len(names))
	for _, n := range names {
		nameSet[n] = true
	}
	for _, want := range expected {
		if !nameSet[want] {
			t.Errorf("ValidKeyNames missing expected key %q", want)
		}
	}
}

func TestLookupKey_Known(t *testing.T) {
	entry, ok := LookupKey("user.name")
	if !ok {
		t.Fatal("expected user.name to be found")
	}
	if entry.Type != KeyTypeString {
		t.Fatalf("expected string type for user.name, got %q", entry.Type)
	}
}

func TestLookupKey_Unknown(t *testing.T) {
	_, ok := LookupKey("not.a.real.key")
	if ok {
		t.Fatal("expected unknown key to return false")
	}
}

func TestParseBoolValue_TrueVariants(t *testing.T) {
	for _, v := range []string{"true", "1", "yes", "on", "TRUE", "YES", "On"} {
		b, err := ParseBoolValue(v)
		if err != nil {
			t.Errorf("ParseBoolValue(%q): unexpected error: %v", v, err)
		}
		if !b {
			t.Errorf("ParseBoolValue(%q): expected true", v)
		}
	}
}

func TestParseBoolValue_FalseVariants(t *testing.T) {
	for _, v := range []string{"false", "0", "no", "off", "FALSE", "NO", "Off"} {
		b, err := ParseBoolValue(v)
		if err != nil {
			t.Errorf("ParseBoolValue(%q): unexpected error: %v", v, err)
		}
		if b {
			t.Errorf("ParseBoolValue(%q): expected false", v)
		}
	}
}

func TestParseBoolValue_Invalid(t *testing.T) {
	for _, v := range []string{"maybe", "yep", "nope", "", "2", "tru"} {
		_, err := ParseBoolValue(v)
		if err == nil {
			t.Errorf("ParseBoolValue(%q): expected error for invalid bool", v)
		}
	}
}

func TestSetGetUnset_StringKey(t *testing.T) {
	cfg := &Config{}
	entry, ok := LookupKey("user.name")
	if !ok {
		t.Fatal("user.name not found in registry")
	}

	if err := entry.Set(cfg, "Alice"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := entry.Get(cfg); got != "Alice" {
		t.Fatalf("Get: expected 'Alice', got %q", got)
	}

	entry.Unset(cfg)
	if got := entry.Get(cfg); got != "" {
		t.Fatalf("Unset: expected '', got %q", got)
	}
}

func TestSetGetUnset_Timezone(t *testing.T) {
	cfg := defaultConfig()
	entry, ok := LookupKey("workspace.timezone")
	if !ok {
		t.Fatal("workspace.timezone not found in registry")
	}

	if err := entry.Set(cfg, "America/New_York"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := entry.Get(cfg); got != "America/New_York" {
		t.Fatalf("Get: expected 'America/New_York', got %q", got)
	}

	entry.Unset(cfg)
	if got := entry.Get(cfg); got != "UTC" {
		t.Fatalf("Unset: expected 'UTC', got %q", got)
	}
}

func TestSet_TimezoneInvalid(t *testing.T) {
	cfg := defaultConfig()
	entry, _ := LookupKey("workspace.timezone")
	if err := entry.Set(cfg, "Nowhere/Land"); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
	if cfg.Workspace.Timezone != "UTC" {
		t.Fatalf("failed set should not change value, got %q", cfg.Workspace.Timezone)
	}
}

func TestSet_ServerAddr(t *testing.T) {
	cfg := defaultConfig()
	entry, _ := LookupKey("server.addr")
	if err := entry.Set(cfg, "0.0.0.0:8080"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if cfg.Server.Addr != "0.0.0.0:8080" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if err := entry.Set(cfg, "not-an-addr"); err == nil {
		t.Fatal("expected error for address without a port")
	}
}

func TestAllSchemaKeys_GetSetUnsetDoNotPanic(t *testing.T) {
	cfg := defaultConfig()
	for key, entry := range SchemaKeys {
		// Verify Get doesn't panic.
		_ = entry.Get(cfg)

		// Verify Unset doesn't panic.
		entry.Unset(cfg)

		// Verify Get after Unset doesn't panic.
		_ = entry.Get(cfg)

		// Verify Set with a non-empty default doesn't fail for string keys.
		if entry.Type == KeyTypeString && entry.DefaultStr != "" {
			if err := entry.Set(cfg, entry.DefaultStr); err != nil {
				t.Errorf("key %q: Set with default value %q failed: %v", key, entry.DefaultStr, err)
			}
		}
	}
}

func TestAllSchemaKeys_HaveDesc(t *testing.T) {
	for key, entry := range SchemaKeys {
		if entry.Desc == "" {
			t.Errorf("key %q has empty Desc", key)
		}
	}
}

func TestRoundTrip_UserEmail(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir+"/config")
	t.Setenv("XDG_DATA_HOME", tmpDir+"/data")
	t.Setenv("XDG_CACHE_HOME", tmpDir+"/cache")
	t.Setenv("XDG_STATE_HOME", tmpDir+"/state")

	entry, ok := LookupKey("user.email")
	if !ok {
		t.Fatal("user.email not found")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := entry.Set(cfg, "alice@example.com"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}

	if got := entry.Get(loaded); got != "alice@example.com" {
		t.Fatalf("round-trip failed: expected 'alice@example.com', got %q", got)
	}
}
