package priority

import (
	"fmt"
	"sort"
	"time"

	"github.com/triahq/tria/internal/entity"
)

// Component is one labeled, signed contribution to a priority score, in the
// order the scorer applied it.
type Component struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Score is the result of scoring one snapshot: the running sum after all
// steps plus the breakdown that explains it. The total is never clamped;
// zone thresholds apply to the raw sum.
type Score struct {
	Total      float64     `json:"total"`
	Components []Component `json:"components"`
}

// Scorer computes priority scores. It is stateless apart from the capability
// set and safe for concurrent use: Compute is a pure function of its inputs.
type Scorer struct {
	caps Capabilities
}

// NewScorer returns a scorer with the given capability set. A nil set
// enables every engine feature.
func NewScorer(caps Capabilities) *Scorer {
	return &Scorer{caps: caps}
}

// Compute scores one snapshot against cfg at the reference instant now.
// It is deterministic and total: entities with unknown categories fall into
// the default-weight bucket, and no input raises an error.
//
// Steps run in a fixed order; each step that changes the score appends one
// signed component. Evaluation order matters for the breakdown's readability
// and for running-score boost criteria, not for the final sum.
func (sc *Scorer) Compute(s entity.Snapshot, cfg Config, now time.Time) Score {
	var score Score

	add := func(label string, delta float64) {
		if delta == 0 {
			return
		}
		score.Total += delta
		score.Components = append(score.Components, Component{Label: label, Value: delta})
	}

	// 1. Base category weight.
	base, known := cfg.Email.CategoryWeights[s.Category]
	if !known {
		base = cfg.Email.DefaultCategoryWeight
	}
	if known {
		add(fmt.Sprintf("Category %s", s.Category), base)
	} else {
		add("Default category weight", base)
	}

	// 2. Cross-label prefix boosts.
	if sc.caps.Enabled(CapCrossLabelRules) {
		for _, r := range cfg.Email.CrossLabelRules {
			if r.MatchesLabels(s.Labels) {
				label := r.Description
				if label == "" {
					label = fmt.Sprintf("Label prefix %s", r.Prefix)
				}
				add(label, r.Weight)
			}
		}
	}

	// 3. Advanced boosts, in rule-array order. MinPriority criteria see the
	// running total including boosts already applied above them.
	if sc.caps.Enabled(CapAdvancedBoosts) {
		for _, b := range cfg.Email.AdvancedBoosts {
			if b.Matches(s, score.Total) {
				add(b.Label, b.Weight)
			}
		}
	}

	// 4. Time adjustment.
	if sc.caps.Enabled(CapTimeDecay) {
		add(sc.timeComponent(s, cfg, now))
	}

	// 5. Unread bonus.
	if s.Kind == entity.KindEmail && !s.IsRead {
		add("Unread", cfg.Email.UnreadBonus)
	}

	// 6. Snooze reduction scales the whole running total down.
	if sc.caps.Enabled(CapSnoozeReduction) &&
		s.TriageState == entity.TriageSnoozed &&
		s.SnoozedUntil != nil && s.SnoozedUntil.After(now) {
		add("Snoozed", -score.Total*cfg.Email.SnoozeAgeReduction)
	}

	// Model blend: pull the email score toward the classifier's estimate.
	if sc.caps.Enabled(CapModelBlend) &&
		s.Kind == entity.KindEmail && s.ModelPriority != nil {
		w := cfg.Email.ModelPriorityWeight
		add("Model estimate", (*s.ModelPriority-score.Total)*w)
	}

	// 7. Manual blend for timeline items and tasks.
	if sc.caps.Enabled(CapManualBlend) && s.ManualPriority != nil {
		var w float64
		switch s.Kind {
		case entity.KindTimeline:
			w = cfg.Timeline.ManualPriorityWeight
		case entity.KindTask:
			w = cfg.Tasks.ManualPriorityWeight
		}
		// computed*(1-w) + manual*w, expressed as a delta on the running sum.
		add("Manual priority", (*s.ManualPriority-score.Total)*w)
	}

	// 8. Conflict and dependency penalties, timeline only.
	if sc.caps.Enabled(CapConflictPenalties) && s.Kind == entity.KindTimeline {
		for _, c := range s.Conflicts {
			if c.Severity == entity.ConflictError {
				add("Scheduling conflict (error)", -cfg.Timeline.ConflictPenalties.Error)
			} else {
				add("Scheduling conflict", -cfg.Timeline.ConflictPenalties.Default)
			}
		}
		for _, d := range s.Dependencies {
			if !d.Blocking {
				continue
			}
			if d.Kind == entity.DependencyFinishToStart {
				add("Blocked (finish-to-start)", -cfg.Timeline.DependencyPenalties.FinishToStart)
			} else {
				add("Blocked by dependency", -cfg.Timeline.DependencyPenalties.Other)
			}
		}
	}

	return score
}

// timeComponent converts the snapshot's age or lateness into one delta.
func (sc *Scorer) timeComponent(s entity.Snapshot, cfg Config, now time.Time) (string, float64) {
	ref := s.ReferenceTime()
	if ref == nil {
		switch s.Kind {
		case entity.KindTimeline:
			return "No start date", cfg.Timeline.UndatedValue
		case entity.KindTask:
			return "No due date", cfg.Tasks.NoDueDateValue
		default:
			return "", 0
		}
	}

	days := now.Sub(*ref).Hours() / 24
	if days < 0 {
		// Future-dated: decays with distance.
		return "Upcoming decay", days * cfg.Time.UpcomingDecayPerDay
	}

	delta := days * cfg.Time.OverduePenaltyPerDay
	label := "Overdue"
	if s.Kind == entity.KindEmail {
		label = "Thread age"
		if !s.IsRead && days > idleWindowDays {
			delta *= cfg.Email.IdleAge.LongWindowMultiplier
			label = "Idle unread thread"
		}
	}
	return label, delta
}

// Zone buckets a raw total for presentation. Snoozed and resolved items live
// in their own zones regardless of score (see TriageZone).
type Zone string

const (
	ZoneCritical Zone = "critical"
	ZoneHigh     Zone = "high"
	ZoneMedium   Zone = "medium"
	ZoneLow      Zone = "low"
	ZoneSnoozed  Zone = "snoozed"
	ZoneResolved Zone = "resolved"
)

// ZoneFor returns the zone for a total, honoring triage-state overrides.
func ZoneFor(state entity.TriageState, total float64) Zone {
	switch state {
	case entity.TriageSnoozed:
		return ZoneSnoozed
	case entity.TriageResolved:
		return ZoneResolved
	}
	switch {
	case total >= 80:
		return ZoneCritical
	case total >= 60:
		return ZoneHigh
	case total >= 40:
		return ZoneMedium
	default:
		return ZoneLow
	}
}

// Ranked pairs a snapshot with its score and zone.
type Ranked struct {
	Entity entity.Snapshot `json:"entity"`
	Score  Score           `json:"score"`
	Zone   Zone            `json:"zone"`
}

// Rank scores every snapshot and sorts the result: total descending, then
// reference time descending so the most recent item wins ties.
func (sc *Scorer) Rank(items []entity.Snapshot, cfg Config, now time.Time) []Ranked {
	out := make([]Ranked, len(items))
	for i, s := range items {
		score := sc.Compute(s, cfg, now)
		out[i] = Ranked{Entity: s, Score: score, Zone: ZoneFor(s.TriageState, score.Total)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score.Total != out[j].Score.Total {
			return out[i].Score.Total > out[j].Score.Total
		}
		ri, rj := out[i].Entity.ReferenceTime(), out[j].Entity.ReferenceTime()
		switch {
		case ri == nil:
			return false
		case rj == nil:
			return true
		default:
			return ri.After(*rj)
		}
	})
	return out
}
