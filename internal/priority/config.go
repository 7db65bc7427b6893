// Package priority implements the configurable priority scoring and ranking
// engine: weighted category scores, time decay, cross-label and multi-criteria
// boosts, action rule matching, manual/model blending, conflict penalties, and
// named preset substitution.
package priority

import "math"

// Config is the root priority configuration. It is always handled by value:
// every edit path clones first, and every numeric write is clamped to its
// documented range. Reads never clamp.
type Config struct {
	Email      EmailConfig      `json:"email"`
	Time       TimeConfig       `json:"time"`
	Timeline   TimelineConfig   `json:"timeline"`
	Tasks      TasksConfig      `json:"tasks"`
	Scheduling SchedulingConfig `json:"scheduling"`
}

// EmailConfig tunes how emails are scored.
type EmailConfig struct {
	// CategoryWeights maps a classifier category to its base weight (0-100).
	CategoryWeights map[string]float64 `json:"categoryWeights"`
	// DefaultCategoryWeight is the base weight for unknown categories (0-100).
	DefaultCategoryWeight float64 `json:"defaultCategoryWeight"`
	// UnreadBonus is added when the email is unread (0-100).
	UnreadBonus float64 `json:"unreadBonus"`
	// ModelPriorityWeight blends the classifier's own priority estimate into
	// the computed score (0-1; 0 ignores the model entirely).
	ModelPriorityWeight float64 `json:"modelPriorityWeight"`
	// SnoozeAgeReduction scales down snoozed emails: the running total is
	// multiplied by (1 - SnoozeAgeReduction) while the snooze is active (0-1).
	SnoozeAgeReduction float64 `json:"snoozeAgeReduction"`
	IdleAge            IdleAgeConfig `json:"idleAge"`

	CrossLabelRules []CrossLabelRule `json:"crossLabelRules"`
	AdvancedBoosts  []AdvancedBoost  `json:"advancedBoosts"`
	ActionRules     []ActionRule     `json:"actionRules"`
}

// IdleAgeConfig amplifies the time delta of threads that have sat unread
// beyond the long idle window.
type IdleAgeConfig struct {
	// LongWindowMultiplier multiplies the accumulated time delta for unread
	// emails older than the idle window (>= 0).
	LongWindowMultiplier float64 `json:"longWindowMultiplier"`
}

// TimeConfig converts entity age and lateness into score deltas.
type TimeConfig struct {
	// UpcomingDecayPerDay is subtracted per day until a future-dated item is
	// due (0-50).
	UpcomingDecayPerDay float64 `json:"upcomingDecayPerDay"`
	// OverduePenaltyPerDay is added per day an item is overdue (0-100).
	// "Penalty" raises urgency: overdue items surface, not sink.
	OverduePenaltyPerDay float64 `json:"overduePenaltyPerDay"`
}

// TimelineConfig tunes timeline item scoring.
type TimelineConfig struct {
	// ManualPriorityWeight blends the human-entered priority with the
	// computed score (0-1).
	ManualPriorityWeight float64 `json:"manualPriorityWeight"`
	// UndatedValue is the time-step contribution for items with no start
	// date (0-100).
	UndatedValue        float64             `json:"undatedValue"`
	ConflictPenalties   ConflictPenalties   `json:"conflictPenalties"`
	DependencyPenalties DependencyPenalties `json:"dependencyPenalties"`
}

// ConflictPenalties are subtracted once per detected scheduling conflict,
// keyed by severity (0-200 each).
type ConflictPenalties struct {
	Default float64 `json:"default"`
	Error   float64 `json:"error"`
}

// DependencyPenalties are subtracted once per blocking predecessor, keyed by
// dependency kind (0-200 each).
type DependencyPenalties struct {
	FinishToStart float64 `json:"finishToStart"`
	Other         float64 `json:"other"`
}

// TasksConfig tunes task scoring.
type TasksConfig struct {
	ManualPriorityWeight float64 `json:"manualPriorityWeight"`
	// NoDueDateValue is the time-step contribution for tasks without a due
	// date (0-100).
	NoDueDateValue float64 `json:"noDueDateValue"`
}

// SchedulingConfig holds the preset schedule: day/time windows that designate
// which preset should be considered active.
type SchedulingConfig struct {
	// Timezone is the IANA zone the entry windows are evaluated in.
	Timezone string          `json:"timezone"`
	Entries  []ScheduleEntry `json:"entries"`
}

// ScheduleEntry is one day/time window designating a preset.
type ScheduleEntry struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	PresetSlug string `json:"presetSlug"`
	// DaysOfWeek uses 0=Sunday .. 6=Saturday.
	DaysOfWeek []int  `json:"daysOfWeek"`
	StartTime  string `json:"startTime"` // "HH:MM"
	// EndTime nil means the window is open-ended for the day.
	EndTime   *string `json:"endTime"`
	AutoApply bool    `json:"autoApply"`
}

// CrossLabelRule boosts entities whose label set contains a label starting
// with Prefix. CaseInsensitive applies to the comparison only.
type CrossLabelRule struct {
	Prefix          string  `json:"prefix"`
	Description     string  `json:"description"`
	Weight          float64 `json:"weight"` // -200..200
	CaseInsensitive bool    `json:"caseInsensitive"`
}

// AdvancedBoost is a multi-criteria conditional boost. Criterion kinds are
// ANDed together; elements within a kind are ORed. An empty criterion list is
// a wildcard.
type AdvancedBoost struct {
	ID          string        `json:"id"`
	Label       string        `json:"label"`
	Description *string       `json:"description"`
	Weight      float64       `json:"weight"` // -100..200
	Criteria    BoostCriteria `json:"criteria"`
}

// BoostCriteria are the matchable dimensions of an AdvancedBoost.
// MinPriority compares against the running score at the moment the boost is
// evaluated, in rule-array order, so later boosts can depend on earlier ones.
type BoostCriteria struct {
	Senders       []string `json:"senders"`
	Domains       []string `json:"domains"`
	Keywords      []string `json:"keywords"`
	Labels        []string `json:"labels"`
	Categories    []string `json:"categories"`
	HasAttachment *bool    `json:"hasAttachment"`
	MinPriority   *float64 `json:"minPriority"`
}

// ActionType classifies what triggering an action rule does in the UI.
type ActionType string

const (
	ActionPlaybook   ActionType = "playbook"
	ActionCreateLead ActionType = "create_lead"
	ActionOpenURL    ActionType = "open_url"
	ActionCustom     ActionType = "custom"
)

// ActionRule gates a UI-exposed action by category, triage state, and score.
type ActionRule struct {
	ID           string     `json:"id"`
	Label        string     `json:"label"`
	Description  *string    `json:"description"`
	ActionType   ActionType `json:"actionType"`
	Categories   []string   `json:"categories"`
	TriageStates []string   `json:"triageStates"`
	MinPriority  *float64   `json:"minPriority"`
	Icon         *string    `json:"icon"`
	Color        *string    `json:"color"`
	Payload      *string    `json:"payload"`
}

// Numeric field ranges. Clamping happens on every write path (updaters,
// Normalize, registry setters), never on read.
const (
	maxCategoryWeight   = 100
	maxUnreadBonus      = 100
	maxUpcomingDecay    = 50
	maxOverduePenalty   = 100
	maxConflictPenalty  = 200
	maxSectionValue     = 100 // undatedValue / noDueDateValue
	minCrossLabelWeight = -200
	maxCrossLabelWeight = 200
	minBoostWeight      = -100
	maxBoostWeight      = 200
)

// idleWindowDays is the age past which an unread email counts as long-idle.
const idleWindowDays = 7

func clamp(v, lo, hi float64) float64 {
	// Non-finite writes are ignored upstream; guard anyway so a NaN can
	// never be stored.
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

// clampAll clamps every numeric field of cfg in place.
func clampAll(cfg *Config) {
	for k, w := range cfg.Email.CategoryWeights {
		cfg.Email.CategoryWeights[k] = clamp(w, 0, maxCategoryWeight)
	}
	cfg.Email.DefaultCategoryWeight = clamp(cfg.Email.DefaultCategoryWeight, 0, maxCategoryWeight)
	cfg.Email.UnreadBonus = clamp(cfg.Email.UnreadBonus, 0, maxUnreadBonus)
	cfg.Email.ModelPriorityWeight = clamp01(cfg.Email.ModelPriorityWeight)
	cfg.Email.SnoozeAgeReduction = clamp01(cfg.Email.SnoozeAgeReduction)
	if cfg.Email.IdleAge.LongWindowMultiplier < 0 || math.IsNaN(cfg.Email.IdleAge.LongWindowMultiplier) {
		cfg.Email.IdleAge.LongWindowMultiplier = 0
	}
	for i := range cfg.Email.CrossLabelRules {
		r := &cfg.Email.CrossLabelRules[i]
		r.Weight = clamp(r.Weight, minCrossLabelWeight, maxCrossLabelWeight)
	}
	for i := range cfg.Email.AdvancedBoosts {
		b := &cfg.Email.AdvancedBoosts[i]
		b.Weight = clamp(b.Weight, minBoostWeight, maxBoostWeight)
	}

	cfg.Time.UpcomingDecayPerDay = clamp(cfg.Time.UpcomingDecayPerDay, 0, maxUpcomingDecay)
	cfg.Time.OverduePenaltyPerDay = clamp(cfg.Time.OverduePenaltyPerDay, 0, maxOverduePenalty)

	cfg.Timeline.ManualPriorityWeight = clamp01(cfg.Timeline.ManualPriorityWeight)
	cfg.Timeline.UndatedValue = clamp(cfg.Timeline.UndatedValue, 0, maxSectionValue)
	cfg.Timeline.ConflictPenalties.Default = clamp(cfg.Timeline.ConflictPenalties.Default, 0, maxConflictPenalty)
	cfg.Timeline.ConflictPenalties.Error = clamp(cfg.Timeline.ConflictPenalties.Error, 0, maxConflictPenalty)
	cfg.Timeline.DependencyPenalties.FinishToStart = clamp(cfg.Timeline.DependencyPenalties.FinishToStart, 0, maxConflictPenalty)
	cfg.Timeline.DependencyPenalties.Other = clamp(cfg.Timeline.DependencyPenalties.Other, 0, maxConflictPenalty)

	cfg.Tasks.ManualPriorityWeight = clamp01(cfg.Tasks.ManualPriorityWeight)
	cfg.Tasks.NoDueDateValue = clamp(cfg.Tasks.NoDueDateValue, 0, maxSectionValue)
}

// DefaultConfig returns the built-in default configuration.
func DefaultConfig() Config {
	return Config{
		Email: EmailConfig{
			CategoryWeights: map[string]float64{
				"BOOKING/Offer":        85,
				"BOOKING/Confirmation": 70,
				"LEGAL/Contract":       80,
				"OPS/Alert":            75,
				"FINANCE/Invoice":      70,
				"FINANCE/Receipt":      45,
				"TEAM/Internal":        55,
				"SUPPORT/Request":      60,
				"NEWSLETTER":           15,
				"SOCIAL":               10,
				"MARKETING":            5,
			},
			DefaultCategoryWeight: 40,
			UnreadBonus:           15,
			ModelPriorityWeight:   0.3,
			SnoozeAgeReduction:    0.6,
			IdleAge:               IdleAgeConfig{LongWindowMultiplier: 1.5},
			CrossLabelRules:       []CrossLabelRule{},
			AdvancedBoosts:        []AdvancedBoost{},
			ActionRules:           []ActionRule{},
		},
		Time: TimeConfig{
			UpcomingDecayPerDay:  2,
			OverduePenaltyPerDay: 5,
		},
		Timeline: TimelineConfig{
			ManualPriorityWeight: 0.5,
			UndatedValue:         30,
			ConflictPenalties:    ConflictPenalties{Default: 15, Error: 40},
			DependencyPenalties:  DependencyPenalties{FinishToStart: 25, Other: 10},
		},
		Tasks: TasksConfig{
			ManualPriorityWeight: 0.6,
			NoDueDateValue:       25,
		},
		Scheduling: SchedulingConfig{
			Timezone: "UTC",
			Entries:  []ScheduleEntry{},
		},
	}
}

// DefaultCategories returns the category names carried by the default config,
// in no particular order.
func DefaultCategories() []string {
	defaults := DefaultConfig()
	cats := make([]string, 0, len(defaults.Email.CategoryWeights))
	for k := range defaults.Email.CategoryWeights {
		cats = append(cats, k)
	}
	return cats
}

// Patch clones cfg, applies fn to the clone, clamps every numeric field, and
// returns the result. This is the single edit path: the receiver is never
// aliased or mutated.
func (c Config) Patch(fn func(*Config)) Config {
	out := Clone(c)
	fn(&out)
	clampAll(&out)
	return out
}

// SetCategoryWeight clones cfg with one category weight changed (clamped).
func (c Config) SetCategoryWeight(category string, weight float64) Config {
	return c.Patch(func(cfg *Config) {
		if cfg.Email.CategoryWeights == nil {
			cfg.Email.CategoryWeights = map[string]float64{}
		}
		cfg.Email.CategoryWeights[category] = weight
	})
}
