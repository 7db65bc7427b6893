package priority

import "testing"

func TestRegistryGetSetRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	entry := SchemaKeys["email.unread_bonus"]
	if got := entry.Get(cfg); got != "15" {
		t.Fatalf("default unread bonus = %q, want 15", got)
	}
	next, err := entry.Set(cfg, "22")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if next.Email.UnreadBonus != 22 {
		t.Fatalf("unread bonus after set = %v, want 22", next.Email.UnreadBonus)
	}
	if cfg.Email.UnreadBonus != 15 {
		t.Fatalf("set mutated the input config")
	}
}

func TestRegistrySetClamps(t *testing.T) {
	cfg := DefaultConfig()
	next, err := SchemaKeys["email.unread_bonus"].Set(cfg, "9001")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if next.Email.UnreadBonus != 100 {
		t.Fatalf("unread bonus = %v, want clamped 100", next.Email.UnreadBonus)
	}
	next, err = SchemaKeys["tasks.manual_priority_weight"].Set(cfg, "-3")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if next.Tasks.ManualPriorityWeight != 0 {
		t.Fatalf("weight = %v, want clamped 0", next.Tasks.ManualPriorityWeight)
	}
}

func TestRegistrySetNonFiniteIgnored(t *testing.T) {
	cfg := DefaultConfig()
	for _, raw := range []string{"NaN", "Inf", "-Inf"} {
		next, err := SchemaKeys["time.overdue_penalty_per_day"].Set(cfg, raw)
		if err != nil {
			t.Fatalf("set %q: %v", raw, err)
		}
		if next.Time.OverduePenaltyPerDay != cfg.Time.OverduePenaltyPerDay {
			t.Fatalf("set %q changed value to %v", raw, next.Time.OverduePenaltyPerDay)
		}
	}
}

func TestRegistrySetMalformed(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := SchemaKeys["email.unread_bonus"].Set(cfg, "lots"); err == nil {
		t.Fatal("expected error for non-numeric input")
	}
	if _, err := SchemaKeys["scheduling.timezone"].Set(cfg, "Mars/Olympus"); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestRegistryTimezone(t *testing.T) {
	cfg := DefaultConfig()
	next, err := SchemaKeys["scheduling.timezone"].Set(cfg, "Europe/Berlin")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if next.Scheduling.Timezone != "Europe/Berlin" {
		t.Fatalf("timezone = %q", next.Scheduling.Timezone)
	}
}

func TestRegistryDefaultsMatchConfig(t *testing.T) {
	cfg := DefaultConfig()
	for _, key := range SortedKeys() {
		entry := SchemaKeys[key]
		if got := entry.Get(cfg); got != entry.DefaultStr {
			t.Errorf("%s: Get(default) = %q, DefaultStr = %q", key, got, entry.DefaultStr)
		}
	}
}
