package priority

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// KeyEntry describes one settable scalar of the priority config. Keys use
// dot-notation matching the JSON section structure. Setters clamp on write;
// non-finite numeric input is silently ignored and the prior value retained.
type KeyEntry struct {
	// Desc is a human-readable description shown in `tria config list`.
	Desc string
	// DefaultStr is the string form of the built-in default value.
	DefaultStr string

	get func(Config) string
	set func(Config, string) (Config, error)
}

// Get returns the current value of the key as a string.
func (e *KeyEntry) Get(cfg Config) string { return e.get(cfg) }

// Set applies the value through the clone-then-patch edit path and returns
// the new config. A malformed number is an error; a non-finite one is a
// silent no-op.
func (e *KeyEntry) Set(cfg Config, value string) (Config, error) { return e.set(cfg, value) }

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func numKey(desc string, def float64, get func(Config) float64, set func(*Config, float64)) *KeyEntry {
	return &KeyEntry{
		Desc:       desc,
		DefaultStr: formatNum(def),
		get:        func(cfg Config) string { return formatNum(get(cfg)) },
		set: func(cfg Config, value string) (Config, error) {
			v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return cfg, fmt.Errorf("invalid number %q", value)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				// Deliberate fail-safe: keep the prior valid value.
				return cfg, nil
			}
			return cfg.Patch(func(c *Config) { set(c, v) }), nil
		},
	}
}

// SchemaKeys is the authoritative registry of settable priority config keys.
var SchemaKeys = map[string]*KeyEntry{
	"email.default_category_weight": numKey(
		"Base weight for categories without an explicit entry (0-100)", 40,
		func(c Config) float64 { return c.Email.DefaultCategoryWeight },
		func(c *Config, v float64) { c.Email.DefaultCategoryWeight = v },
	),
	"email.unread_bonus": numKey(
		"Bonus added to unread emails (0-100)", 15,
		func(c Config) float64 { return c.Email.UnreadBonus },
		func(c *Config, v float64) { c.Email.UnreadBonus = v },
	),
	"email.model_priority_weight": numKey(
		"Blend weight for the classifier's own priority estimate (0-1)", 0.3,
		func(c Config) float64 { return c.Email.ModelPriorityWeight },
		func(c *Config, v float64) { c.Email.ModelPriorityWeight = v },
	),
	"email.snooze_age_reduction": numKey(
		"Score reduction factor while snoozed (0-1)", 0.6,
		func(c Config) float64 { return c.Email.SnoozeAgeReduction },
		func(c *Config, v float64) { c.Email.SnoozeAgeReduction = v },
	),
	"email.idle_long_window_multiplier": numKey(
		"Multiplier for the time delta of long-idle unread threads (>= 0)", 1.5,
		func(c Config) float64 { return c.Email.IdleAge.LongWindowMultiplier },
		func(c *Config, v float64) { c.Email.IdleAge.LongWindowMultiplier = v },
	),
	"time.upcoming_decay_per_day": numKey(
		"Score subtracted per day until a future-dated item (0-50)", 2,
		func(c Config) float64 { return c.Time.UpcomingDecayPerDay },
		func(c *Config, v float64) { c.Time.UpcomingDecayPerDay = v },
	),
	"time.overdue_penalty_per_day": numKey(
		"Score added per day an item is overdue (0-100)", 5,
		func(c Config) float64 { return c.Time.OverduePenaltyPerDay },
		func(c *Config, v float64) { c.Time.OverduePenaltyPerDay = v },
	),
	"timeline.manual_priority_weight": numKey(
		"Blend weight for manual priority on timeline items (0-1)", 0.5,
		func(c Config) float64 { return c.Timeline.ManualPriorityWeight },
		func(c *Config, v float64) { c.Timeline.ManualPriorityWeight = v },
	),
	"timeline.undated_value": numKey(
		"Time-step value for timeline items without a start date (0-100)", 30,
		func(c Config) float64 { return c.Timeline.UndatedValue },
		func(c *Config, v float64) { c.Timeline.UndatedValue = v },
	),
	"timeline.conflict_penalty.default": numKey(
		"Penalty per ordinary scheduling conflict (0-200)", 15,
		func(c Config) float64 { return c.Timeline.ConflictPenalties.Default },
		func(c *Config, v float64) { c.Timeline.ConflictPenalties.Default = v },
	),
	"timeline.conflict_penalty.error": numKey(
		"Penalty per error-severity scheduling conflict (0-200)", 40,
		func(c Config) float64 { return c.Timeline.ConflictPenalties.Error },
		func(c *Config, v float64) { c.Timeline.ConflictPenalties.Error = v },
	),
	"timeline.dependency_penalty.finish_to_start": numKey(
		"Penalty per blocking finish-to-start predecessor (0-200)", 25,
		func(c Config) float64 { return c.Timeline.DependencyPenalties.FinishToStart },
		func(c *Config, v float64) { c.Timeline.DependencyPenalties.FinishToStart = v },
	),
	"timeline.dependency_penalty.other": numKey(
		"Penalty per other blocking predecessor (0-200)", 10,
		func(c Config) float64 { return c.Timeline.DependencyPenalties.Other },
		func(c *Config, v float64) { c.Timeline.DependencyPenalties.Other = v },
	),
	"tasks.manual_priority_weight": numKey(
		"Blend weight for manual priority on tasks (0-1)", 0.6,
		func(c Config) float64 { return c.Tasks.ManualPriorityWeight },
		func(c *Config, v float64) { c.Tasks.ManualPriorityWeight = v },
	),
	"tasks.no_due_date_value": numKey(
		"Time-step value for tasks without a due date (0-100)", 25,
		func(c Config) float64 { return c.Tasks.NoDueDateValue },
		func(c *Config, v float64) { c.Tasks.NoDueDateValue = v },
	),
	"scheduling.timezone": {
		Desc:       "IANA timezone used to evaluate schedule entries",
		DefaultStr: "UTC",
		get:        func(cfg Config) string { return cfg.Scheduling.Timezone },
		set: func(cfg Config, value string) (Config, error) {
			tz := strings.TrimSpace(value)
			if _, err := time.LoadLocation(tz); err != nil || tz == "" {
				return cfg, fmt.Errorf("invalid timezone %q", value)
			}
			return cfg.Patch(func(c *Config) { c.Scheduling.Timezone = tz }), nil
		},
	},
}

// SortedKeys returns the registry keys in stable display order.
func SortedKeys() []string {
	keys := make([]string, 0, len(SchemaKeys))
	for k := range SchemaKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
