package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/triahq/tria/internal/entity"
)

func resetInboxFlags() {
	inboxFlags.kind = ""
	inboxFlags.all = false
	inboxFlags.interactive = false
}

func TestInboxRanksHotItemsFirst(t *testing.T) {
	setupTestEnv(t)
	resetInboxFlags()

	now := time.Now().UTC()
	seedItem(t, entity.Snapshot{
		ID:         "cold",
		Kind:       entity.KindEmail,
		Category:   "NEWSLETTER",
		Subject:    "Weekly digest",
		ReceivedAt: now,
		IsRead:     true,
	})
	seedItem(t, entity.Snapshot{
		ID:         "hot",
		Kind:       entity.KindEmail,
		Category:   "BOOKING/Offer",
		Subject:    "Festival slot",
		ReceivedAt: now,
	})

	out := captureOutput(t, func() error { return runInbox(nil, nil) })

	hotAt := strings.Index(out, "Festival slot")
	coldAt := strings.Index(out, "Weekly digest")
	if hotAt < 0 || coldAt < 0 {
		t.Fatalf("missing items in output:\n%s", out)
	}
	if hotAt > coldAt {
		t.Errorf("booking offer should rank above the newsletter:\n%s", out)
	}
}

func TestInboxHidesResolvedByDefault(t *testing.T) {
	setupTestEnv(t)
	resetInboxFlags()

	now := time.Now().UTC()
	seedItem(t, entity.Snapshot{
		ID: "open", Kind: entity.KindEmail, Subject: "still open", ReceivedAt: now,
	})
	seedItem(t, entity.Snapshot{
		ID: "closed", Kind: entity.KindEmail, Subject: "already handled", ReceivedAt: now,
		TriageState: entity.TriageResolved,
	})

	out := captureOutput(t, func() error { return runInbox(nil, nil) })
	if strings.Contains(out, "already handled") {
		t.Errorf("resolved item shown without --all:\n%s", out)
	}

	inboxFlags.all = true
	out = captureOutput(t, func() error { return runInbox(nil, nil) })
	if !strings.Contains(out, "already handled") {
		t.Errorf("resolved item missing with --all:\n%s", out)
	}
}

func TestInboxKindFilter(t *testing.T) {
	setupTestEnv(t)
	resetInboxFlags()

	now := time.Now().UTC()
	seedItem(t, entity.Snapshot{
		ID: "mail", Kind: entity.KindEmail, Subject: "a mail", ReceivedAt: now,
	})
	seedItem(t, entity.Snapshot{ID: "chore", Kind: entity.KindTask, Subject: "a chore"})

	inboxFlags.kind = "task"
	out := captureOutput(t, func() error { return runInbox(nil, nil) })
	if strings.Contains(out, "a mail") {
		t.Errorf("email leaked through the task filter:\n%s", out)
	}
	if !strings.Contains(out, "a chore") {
		t.Errorf("task missing from filtered view:\n%s", out)
	}

	inboxFlags.kind = "meeting"
	if err := runInbox(nil, nil); err == nil {
		t.Error("expected error for invalid kind filter")
	}
}

func TestInboxEmpty(t *testing.T) {
	setupTestEnv(t)
	resetInboxFlags()

	out := captureOutput(t, func() error { return runInbox(nil, nil) })
	if !strings.Contains(out, "Inbox zero") {
		t.Errorf("empty inbox output:\n%s", out)
	}
}

func TestWhyShowsBreakdown(t *testing.T) {
	setupTestEnv(t)
	id := seedItem(t, entity.Snapshot{
		Kind:       entity.KindEmail,
		Category:   "BOOKING/Offer",
		Subject:    "Support act in May",
		FromName:   "Jo Promoter",
		FromEmail:  "jo@example.com",
		ReceivedAt: time.Now().UTC(),
	})

	out := captureOutput(t, func() error { return runWhy(nil, []string{id}) })
	for _, want := range []string{"Support act in May", "Jo Promoter", "total"} {
		if !strings.Contains(out, want) {
			t.Errorf("why output missing %q:\n%s", want, out)
		}
	}
}

func TestWhyUnknownItem(t *testing.T) {
	setupTestEnv(t)
	if err := runWhy(nil, []string{"no-such-id"}); err == nil {
		t.Error("expected error for unknown item")
	}
}
