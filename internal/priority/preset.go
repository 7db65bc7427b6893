package priority

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrUnknownPreset is returned when a preset slug has no definition.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a named, full-substitution configuration. Applying a preset
// replaces the entire config — a preset that leaves a section at its default
// still resets that section, it never merges with the user's prior values.
type Preset struct {
	Slug                 string   `json:"slug"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	RecommendedScenarios []string `json:"recommendedScenarios"`
	Adjustments          []string `json:"adjustments"`
	Config               Config   `json:"-"`
}

// Presets returns the built-in presets in display order.
func Presets() []Preset {
	return []Preset{
		{
			Slug:                 "balanced",
			Name:                 "Balanced",
			Description:          "The built-in defaults: steady triage across every category.",
			RecommendedScenarios: []string{"everyday triage", "mixed inbox"},
			Adjustments:          []string{"default category weights", "moderate time decay"},
			Config:               DefaultConfig(),
		},
		{
			Slug:        "deep-work",
			Name:        "Deep Work",
			Description: "Quiets the inbox: lower unread pressure, faster decay on anything not urgent.",
			RecommendedScenarios: []string{
				"focus blocks",
				"maker schedule days",
			},
			Adjustments: []string{
				"unread bonus halved",
				"newsletters and marketing near zero",
				"steeper upcoming decay",
			},
			Config: DefaultConfig().Patch(func(cfg *Config) {
				cfg.Email.UnreadBonus = 6
				cfg.Email.CategoryWeights["NEWSLETTER"] = 2
				cfg.Email.CategoryWeights["MARKETING"] = 0
				cfg.Email.CategoryWeights["SOCIAL"] = 2
				cfg.Time.UpcomingDecayPerDay = 6
			}),
		},
		{
			Slug:        "firefight",
			Name:        "Firefight",
			Description: "Everything operational to the top: alerts dominate, overdue items escalate fast.",
			RecommendedScenarios: []string{
				"incident response",
				"launch week",
			},
			Adjustments: []string{
				"OPS/Alert at maximum weight",
				"overdue penalty doubled",
				"conflict penalties raised",
			},
			Config: DefaultConfig().Patch(func(cfg *Config) {
				cfg.Email.CategoryWeights["OPS/Alert"] = 100
				cfg.Email.CategoryWeights["SUPPORT/Request"] = 80
				cfg.Time.OverduePenaltyPerDay = 10
				cfg.Timeline.ConflictPenalties = ConflictPenalties{Default: 30, Error: 80}
			}),
		},
		{
			Slug:        "follow-up",
			Name:        "Follow-up Sweep",
			Description: "Surfaces what went quiet: idle threads amplified, manual priorities trusted more.",
			RecommendedScenarios: []string{
				"end-of-week review",
				"pipeline cleanup",
			},
			Adjustments: []string{
				"idle-thread multiplier raised",
				"manual priority weight raised",
				"snooze reduction softened",
			},
			Config: DefaultConfig().Patch(func(cfg *Config) {
				cfg.Email.IdleAge.LongWindowMultiplier = 2.5
				cfg.Email.SnoozeAgeReduction = 0.3
				cfg.Timeline.ManualPriorityWeight = 0.8
				cfg.Tasks.ManualPriorityWeight = 0.8
			}),
		},
	}
}

// FindPreset returns the preset for a slug.
func FindPreset(slug string) (Preset, error) {
	for _, p := range Presets() {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, slug)
}

// ApplyPreset returns the preset's full config as a fresh value. The result
// wholesale replaces the current config; nothing from the previous config
// survives.
func ApplyPreset(slug string) (Config, Preset, error) {
	p, err := FindPreset(slug)
	if err != nil {
		return Config{}, Preset{}, err
	}
	return Clone(p.Config), p, nil
}

// ResetCategories restores the named category weights (all of them when
// categories is empty) to the built-in defaults, leaving everything else
// untouched. It returns the new config and the sorted list of categories
// whose weight actually changed.
func ResetCategories(cfg Config, categories []string) (Config, []string) {
	defaults := DefaultConfig().Email.CategoryWeights
	if len(categories) == 0 {
		categories = make([]string, 0, len(defaults))
		for k := range defaults {
			categories = append(categories, k)
		}
	}

	var changed []string
	out := cfg.Patch(func(c *Config) {
		if c.Email.CategoryWeights == nil {
			c.Email.CategoryWeights = map[string]float64{}
		}
		for _, cat := range categories {
			def, ok := defaults[cat]
			if !ok {
				continue
			}
			if c.Email.CategoryWeights[cat] != def {
				c.Email.CategoryWeights[cat] = def
				changed = append(changed, cat)
			}
		}
	})
	sort.Strings(changed)
	return out, changed
}

// ScheduleEntryActive reports whether the entry's day/time window contains
// now, evaluated in the given IANA timezone. A nil end time means the window
// is open-ended for the rest of the day. An unparseable timezone falls back
// to UTC, matching Normalize.
func ScheduleEntryActive(e ScheduleEntry, now time.Time, timezone string) bool {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)

	day := int(local.Weekday())
	inDay := false
	for _, d := range e.DaysOfWeek {
		if d == day {
			inDay = true
			break
		}
	}
	if !inDay {
		return false
	}

	start, err := clockMinutes(e.StartTime)
	if err != nil {
		return false
	}
	nowMin := local.Hour()*60 + local.Minute()
	if nowMin < start {
		return false
	}
	if e.EndTime == nil {
		return true
	}
	end, err := clockMinutes(*e.EndTime)
	if err != nil {
		return false
	}
	return nowMin < end
}

// ActiveScheduledPreset returns the first schedule entry (in array order)
// whose window contains now. It only reports the designation — nothing here
// applies the preset; automatic execution is not wired to any scheduler.
func ActiveScheduledPreset(cfg Config, now time.Time) (ScheduleEntry, bool) {
	for _, e := range cfg.Scheduling.Entries {
		if ScheduleEntryActive(e, now, cfg.Scheduling.Timezone) {
			return e, true
		}
	}
	return ScheduleEntry{}, false
}

func clockMinutes(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
