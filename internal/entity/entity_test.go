package entity

import (
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"email", KindEmail, false},
		{"e", KindEmail, false},
		{"mail", KindEmail, false},
		{"  Email ", KindEmail, false},
		{"timeline", KindTimeline, false},
		{"tl", KindTimeline, false},
		{"event", KindTimeline, false},
		{"task", KindTask, false},
		{"t", KindTask, false},
		{"TASK", KindTask, false},
		{"calendar", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseKind(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseKind(%q) expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKind(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseTriageState(t *testing.T) {
	cases := []struct {
		in      string
		want    TriageState
		wantErr bool
	}{
		{"unassigned", TriageUnassigned, false},
		{"u", TriageUnassigned, false},
		{"", TriageUnassigned, false},
		{"acknowledged", TriageAcknowledged, false},
		{"ack", TriageAcknowledged, false},
		{"a", TriageAcknowledged, false},
		{"snoozed", TriageSnoozed, false},
		{"snooze", TriageSnoozed, false},
		{"z", TriageSnoozed, false},
		{"resolved", TriageResolved, false},
		{"done", TriageResolved, false},
		{"r", TriageResolved, false},
		{"DONE", TriageResolved, false},
		{"parked", "", true},
	}
	for _, tc := range cases {
		got, err := ParseTriageState(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTriageState(%q) expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTriageState(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTriageState(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestReferenceTime(t *testing.T) {
	received := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	starts := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)
	due := time.Date(2024, 1, 5, 17, 0, 0, 0, time.UTC)

	email := Snapshot{Kind: KindEmail, ReceivedAt: received}
	if got := email.ReferenceTime(); got == nil || !got.Equal(received) {
		t.Errorf("email ReferenceTime = %v, want %v", got, received)
	}

	undatedEmail := Snapshot{Kind: KindEmail}
	if got := undatedEmail.ReferenceTime(); got != nil {
		t.Errorf("undated email ReferenceTime = %v, want nil", got)
	}

	event := Snapshot{Kind: KindTimeline, StartsAt: &starts, DueAt: &due}
	if got := event.ReferenceTime(); got == nil || !got.Equal(starts) {
		t.Errorf("timeline ReferenceTime = %v, want %v", got, starts)
	}

	task := Snapshot{Kind: KindTask, StartsAt: &starts, DueAt: &due}
	if got := task.ReferenceTime(); got == nil || !got.Equal(due) {
		t.Errorf("task ReferenceTime = %v, want %v", got, due)
	}

	undatedTask := Snapshot{Kind: KindTask}
	if got := undatedTask.ReferenceTime(); got != nil {
		t.Errorf("undated task ReferenceTime = %v, want nil", got)
	}
}

func TestReferenceTimeCopiesReceivedAt(t *testing.T) {
	received := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := Snapshot{Kind: KindEmail, ReceivedAt: received}
	p := s.ReferenceTime()
	*p = p.Add(time.Hour)
	if !s.ReceivedAt.Equal(received) {
		t.Error("mutating the returned pointer changed the snapshot")
	}
}
