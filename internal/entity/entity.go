// Package entity defines the scored workspace items: emails, timeline items,
// and tasks. A Snapshot is an immutable view of one item at scoring time.
package entity

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies which kind of workspace item a snapshot describes.
type Kind string

const (
	KindEmail    Kind = "email"
	KindTimeline Kind = "timeline"
	KindTask     Kind = "task"
)

// ParseKind validates and normalizes a kind string.
// Accepts short aliases: e=email, tl=timeline, t=task.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "email", "e", "mail":
		return KindEmail, nil
	case "timeline", "tl", "event":
		return KindTimeline, nil
	case "task", "t":
		return KindTask, nil
	default:
		return "", fmt.Errorf("invalid kind %q — valid values: email (e), timeline (tl), task (t)", s)
	}
}

// TriageState is the human triage decision on an item.
type TriageState string

const (
	TriageUnassigned   TriageState = "unassigned"
	TriageAcknowledged TriageState = "acknowledged"
	TriageSnoozed      TriageState = "snoozed"
	TriageResolved     TriageState = "resolved"
)

// ValidTriageStates is the set of allowed triage state values.
var ValidTriageStates = []TriageState{TriageUnassigned, TriageAcknowledged, TriageSnoozed, TriageResolved}

// ParseTriageState validates and normalizes a triage state string.
func ParseTriageState(s string) (TriageState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unassigned", "u", "":
		return TriageUnassigned, nil
	case "acknowledged", "ack", "a":
		return TriageAcknowledged, nil
	case "snoozed", "snooze", "z":
		return TriageSnoozed, nil
	case "resolved", "done", "r":
		return TriageResolved, nil
	default:
		return "", fmt.Errorf("invalid triage state %q — valid values: unassigned (u), acknowledged (a), snoozed (z), resolved (r)", s)
	}
}

// ConflictSeverity grades a scheduling conflict on a timeline item.
type ConflictSeverity string

const (
	ConflictDefault ConflictSeverity = "default"
	ConflictError   ConflictSeverity = "error"
)

// Conflict records one detected scheduling overlap with another timeline item.
type Conflict struct {
	WithID   string           `json:"with_id,omitempty"`
	Severity ConflictSeverity `json:"severity"`
}

// DependencyKind classifies a predecessor link on a timeline item.
type DependencyKind string

const (
	DependencyFinishToStart DependencyKind = "finish-to-start"
	DependencyOther         DependencyKind = "other"
)

// Dependency records a predecessor link. Blocking is true while the
// predecessor is still open; only blocking dependencies are penalized.
type Dependency struct {
	OnID     string         `json:"on_id,omitempty"`
	Kind     DependencyKind `json:"kind"`
	Blocking bool           `json:"blocking"`
}

// Snapshot is an immutable view of one workspace item, carrying every signal
// the priority engine reads. Scoring never mutates a snapshot.
type Snapshot struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"kind"`
	Category string `json:"category"`
	// Labels come from the external classifier; prefix rules match against them.
	Labels []string `json:"labels,omitempty"`

	FromEmail string `json:"from_email,omitempty"`
	FromName  string `json:"from_name,omitempty"`
	Subject   string `json:"subject"`

	// ReceivedAt is the reference time for emails; StartsAt for timeline
	// items; DueAt for tasks. Zero/nil means undated.
	ReceivedAt time.Time  `json:"received_at,omitzero"`
	StartsAt   *time.Time `json:"starts_at,omitempty"`
	DueAt      *time.Time `json:"due_at,omitempty"`

	IsRead         bool        `json:"is_read"`
	TriageState    TriageState `json:"triage_state"`
	SnoozedUntil   *time.Time  `json:"snoozed_until,omitempty"`
	HasAttachments bool        `json:"has_attachments"`

	// ManualPriority is the human-entered 0-100 priority for timeline items
	// and tasks; nil when never set.
	ManualPriority *float64 `json:"manual_priority,omitempty"`
	// ModelPriority is the external classifier's 0-100 estimate; nil when the
	// classifier has not run for this item.
	ModelPriority *float64 `json:"model_priority,omitempty"`

	// Timeline-only signals.
	Conflicts    []Conflict   `json:"conflicts,omitempty"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
}

// ReferenceTime returns the kind-appropriate reference instant, or nil for
// undated timeline items and tasks (and emails with no received time).
func (s Snapshot) ReferenceTime() *time.Time {
	switch s.Kind {
	case KindTimeline:
		return s.StartsAt
	case KindTask:
		return s.DueAt
	default:
		if s.ReceivedAt.IsZero() {
			return nil
		}
		t := s.ReceivedAt
		return &t
	}
}
