package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/triahq/tria/internal/entity"
	"github.com/triahq/tria/internal/item"
)

func TestParseWhen(t *testing.T) {
	got, err := parseWhen("2024-06-15")
	if err != nil {
		t.Fatalf("parseWhen date: %v", err)
	}
	want := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseWhen(2024-06-15) = %v, want %v", got, want)
	}

	got, err = parseWhen("2024-06-15T09:30:00Z")
	if err != nil {
		t.Fatalf("parseWhen RFC3339: %v", err)
	}
	want = time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseWhen(RFC3339) = %v, want %v", got, want)
	}

	if _, err := parseWhen("next tuesday"); err == nil {
		t.Error("parseWhen accepted garbage input")
	}
	if _, err := parseWhen("15/06/2024"); err == nil {
		t.Error("parseWhen accepted a slash date")
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9"); got != "0a1b2c3d" {
		t.Errorf("shortID = %q, want %q", got, "0a1b2c3d")
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID short input = %q, want %q", got, "abc")
	}
}

func resetAddFlags() {
	addFlags.kind = "email"
	addFlags.category = ""
	addFlags.labels = nil
	addFlags.fromEmail = ""
	addFlags.fromName = ""
	addFlags.received = ""
	addFlags.starts = ""
	addFlags.due = ""
	addFlags.unread = true
	addFlags.attachments = false
	addFlags.manual = -1
	addFlags.model = -1
	addFlags.conflicts = nil
	addFlags.deps = nil
}

func TestAddCommandStoresEmail(t *testing.T) {
	setupTestEnv(t)
	resetAddFlags()
	addFlags.kind = "email"
	addFlags.category = "BOOKING/Offer"
	addFlags.fromEmail = "venue@example.com"
	addFlags.received = "2024-01-01T12:00:00Z"

	out := captureOutput(t, func() error {
		return runAdd(nil, []string{"Gig offer for March"})
	})
	if !strings.Contains(out, "Added email") {
		t.Errorf("output missing confirmation: %s", out)
	}

	db, _, items, err := openStores()
	if err != nil {
		t.Fatalf("openStores: %v", err)
	}
	defer db.Close()

	all, err := items.List(item.ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 stored item, got %d", len(all))
	}
	snap := all[0]
	if snap.Kind != entity.KindEmail || snap.Category != "BOOKING/Offer" {
		t.Errorf("stored item = %+v", snap)
	}
	if snap.IsRead {
		t.Error("unread flag did not carry through")
	}
	if snap.TriageState != entity.TriageUnassigned {
		t.Errorf("TriageState = %q, want unassigned", snap.TriageState)
	}
}

func TestAddCommandTimelineRelations(t *testing.T) {
	setupTestEnv(t)
	resetAddFlags()
	addFlags.kind = "tl"
	addFlags.starts = "2024-02-01T10:00:00Z"
	addFlags.conflicts = []string{"other-1", "other-2:error"}
	addFlags.deps = []string{"pred-1:finish-to-start"}

	captureOutput(t, func() error {
		return runAdd(nil, []string{"Rehearsal"})
	})

	db, _, items, err := openStores()
	if err != nil {
		t.Fatalf("openStores: %v", err)
	}
	defer db.Close()

	all, err := items.List(item.ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 stored item, got %d", len(all))
	}
	snap := all[0]
	if len(snap.Conflicts) != 2 {
		t.Fatalf("Conflicts = %+v", snap.Conflicts)
	}
	if snap.Conflicts[0].Severity != entity.ConflictDefault {
		t.Errorf("first conflict severity = %q", snap.Conflicts[0].Severity)
	}
	if snap.Conflicts[1].WithID != "other-2" || snap.Conflicts[1].Severity != entity.ConflictError {
		t.Errorf("second conflict = %+v", snap.Conflicts[1])
	}
	if len(snap.Dependencies) != 1 || snap.Dependencies[0].Kind != entity.DependencyFinishToStart {
		t.Errorf("Dependencies = %+v", snap.Dependencies)
	}
	if !snap.Dependencies[0].Blocking {
		t.Error("dependency should default to blocking")
	}
}

func TestAddCommandRejectsBadKind(t *testing.T) {
	setupTestEnv(t)
	resetAddFlags()
	addFlags.kind = "meeting"

	if err := runAdd(nil, []string{"nope"}); err == nil {
		t.Error("expected error for invalid kind")
	}
}
