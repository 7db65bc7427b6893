package item

import (
	"testing"
	"time"

	"github.com/triahq/tria/internal/entity"
	"github.com/triahq/tria/internal/store"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := store.OpenAt(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.Conn())
}

func timePtr(t time.Time) *time.Time { return &t }
func f64(v float64) *float64         { return &v }

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func sampleEmail(id string) entity.Snapshot {
	return entity.Snapshot{
		ID:             id,
		Kind:           entity.KindEmail,
		Category:       "BOOKING/Offer",
		Labels:         []string{"BOOKING/Offer", "VIP"},
		FromEmail:      "agent@label.com",
		FromName:       "Agent",
		Subject:        "Festival offer",
		ReceivedAt:     baseTime,
		HasAttachments: true,
	}
}

func TestAddAndGet(t *testing.T) {
	s := setupTestStore(t)

	if err := s.Add(sampleEmail("m1")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := s.Get("m1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Kind != entity.KindEmail || got.Category != "BOOKING/Offer" {
		t.Fatalf("unexpected item: %+v", got)
	}
	if len(got.Labels) != 2 || got.Labels[1] != "VIP" {
		t.Fatalf("labels = %v", got.Labels)
	}
	if !got.ReceivedAt.Equal(baseTime) {
		t.Fatalf("received at = %v, want %v", got.ReceivedAt, baseTime)
	}
	if got.TriageState != entity.TriageUnassigned {
		t.Fatalf("new items default to unassigned, got %q", got.TriageState)
	}
	if !got.HasAttachments {
		t.Fatal("attachment flag lost")
	}
}

func TestAddRequiresID(t *testing.T) {
	s := setupTestStore(t)
	snap := sampleEmail("")
	if err := s.Add(snap); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestAddDuplicateIDFails(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Add(sampleEmail("m1")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(sampleEmail("m1")); err == nil {
		t.Fatal("expected error for duplicate id")
	}
}

func TestRelationsRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	snap := entity.Snapshot{
		ID:       "tl1",
		Kind:     entity.KindTimeline,
		Category: "HOLD",
		Subject:  "Studio block",
		StartsAt: timePtr(baseTime.AddDate(0, 0, 3)),
		Conflicts: []entity.Conflict{
			{WithID: "tl2", Severity: entity.ConflictError},
			{WithID: "tl3"},
		},
		Dependencies: []entity.Dependency{
			{OnID: "t9", Kind: entity.DependencyFinishToStart, Blocking: true},
		},
	}
	if err := s.Add(snap); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := s.Get("tl1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Conflicts) != 2 {
		t.Fatalf("conflicts = %v", got.Conflicts)
	}
	if got.Conflicts[0].Severity != entity.ConflictError {
		t.Fatalf("first conflict severity = %q", got.Conflicts[0].Severity)
	}
	// Missing severity is stored as default.
	if got.Conflicts[1].Severity != entity.ConflictDefault {
		t.Fatalf("second conflict severity = %q", got.Conflicts[1].Severity)
	}
	if len(got.Dependencies) != 1 || !got.Dependencies[0].Blocking {
		t.Fatalf("dependencies = %v", got.Dependencies)
	}
}

func TestReplaceRelations(t *testing.T) {
	s := setupTestStore(t)
	snap := entity.Snapshot{
		ID:        "tl1",
		Kind:      entity.KindTimeline,
		Subject:   "Hold",
		Conflicts: []entity.Conflict{{WithID: "a"}},
	}
	if err := s.Add(snap); err != nil {
		t.Fatalf("Add: %v", err)
	}

	snap.Conflicts = []entity.Conflict{{WithID: "b", Severity: entity.ConflictError}}
	snap.Dependencies = []entity.Dependency{{OnID: "x", Kind: entity.DependencyOther, Blocking: true}}
	if err := s.ReplaceRelations(snap); err != nil {
		t.Fatalf("ReplaceRelations: %v", err)
	}

	got, err := s.Get("tl1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Conflicts) != 1 || got.Conflicts[0].WithID != "b" {
		t.Fatalf("conflicts = %v", got.Conflicts)
	}
	if len(got.Dependencies) != 1 || got.Dependencies[0].OnID != "x" {
		t.Fatalf("dependencies = %v", got.Dependencies)
	}
}

func TestListFilters(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Add(sampleEmail("m1")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	task := entity.Snapshot{ID: "t1", Kind: entity.KindTask, Subject: "Send stems", DueAt: timePtr(baseTime)}
	if err := s.Add(task); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.SetTriageState("t1", entity.TriageResolved); err != nil {
		t.Fatalf("SetTriageState: %v", err)
	}

	all, err := s.List(ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all = %d items", len(all))
	}

	emails, err := s.List(ListOptions{Kind: entity.KindEmail})
	if err != nil {
		t.Fatalf("List emails: %v", err)
	}
	if len(emails) != 1 || emails[0].ID != "m1" {
		t.Fatalf("emails = %v", emails)
	}

	open, err := s.List(ListOptions{States: []entity.TriageState{entity.TriageUnassigned, entity.TriageAcknowledged}})
	if err != nil {
		t.Fatalf("List open: %v", err)
	}
	if len(open) != 1 || open[0].ID != "m1" {
		t.Fatalf("open = %v", open)
	}
}

func TestSnoozeAndReopen(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Add(sampleEmail("m1")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	until := baseTime.AddDate(0, 0, 2)
	if err := s.Snooze("m1", until); err != nil {
		t.Fatalf("Snooze: %v", err)
	}
	got, _ := s.Get("m1")
	if got.TriageState != entity.TriageSnoozed {
		t.Fatalf("state = %q", got.TriageState)
	}
	if got.SnoozedUntil == nil || !got.SnoozedUntil.Equal(until) {
		t.Fatalf("snoozed until = %v", got.SnoozedUntil)
	}

	// Reopening clears the snooze deadline.
	if err := s.SetTriageState("m1", entity.TriageUnassigned); err != nil {
		t.Fatalf("SetTriageState: %v", err)
	}
	got, _ = s.Get("m1")
	if got.TriageState != entity.TriageUnassigned || got.SnoozedUntil != nil {
		t.Fatalf("after reopen: state=%q snoozed=%v", got.TriageState, got.SnoozedUntil)
	}
}

func TestMarkReadAndManualPriority(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Add(sampleEmail("m1")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := s.MarkRead("m1", true); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	got, _ := s.Get("m1")
	if !got.IsRead {
		t.Fatal("expected read")
	}

	if err := s.SetManualPriority("m1", f64(72)); err != nil {
		t.Fatalf("SetManualPriority: %v", err)
	}
	got, _ = s.Get("m1")
	if got.ManualPriority == nil || *got.ManualPriority != 72 {
		t.Fatalf("manual priority = %v", got.ManualPriority)
	}

	if err := s.SetManualPriority("m1", nil); err != nil {
		t.Fatalf("clearing manual priority: %v", err)
	}
	got, _ = s.Get("m1")
	if got.ManualPriority != nil {
		t.Fatalf("manual priority should clear, got %v", got.ManualPriority)
	}
}

func TestArchiveHidesFromList(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Add(sampleEmail("m1")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Archive("m1"); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	visible, err := s.List(ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("archived item still listed: %v", visible)
	}

	all, err := s.List(ListOptions{IncludeArchived: true})
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("IncludeArchived should return it, got %d", len(all))
	}
}

func TestDeleteCascades(t *testing.T) {
	s := setupTestStore(t)
	snap := entity.Snapshot{
		ID:        "tl1",
		Kind:      entity.KindTimeline,
		Subject:   "Hold",
		Conflicts: []entity.Conflict{{WithID: "a"}},
	}
	if err := s.Add(snap); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Delete("tl1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("tl1"); err == nil {
		t.Fatal("expected not-found after delete")
	}
	if err := s.Delete("tl1"); err == nil {
		t.Fatal("expected error deleting missing item")
	}
}

func TestCount(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Add(sampleEmail("m1")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(sampleEmail("m2")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.SetTriageState("m2", entity.TriageResolved); err != nil {
		t.Fatalf("SetTriageState: %v", err)
	}

	open, total, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if open != 1 || total != 2 {
		t.Fatalf("open=%d total=%d, want 1/2", open, total)
	}
}
