package priority

import (
	"strings"

	"github.com/triahq/tria/internal/entity"
)

// SelectActions returns the action rules that apply to a scored snapshot,
// preserving config array order. An empty result is valid; there are no
// error conditions.
//
// A rule applies iff its minimum priority is unset or met, its category list
// is empty or contains the entity's category (case-insensitively), and its
// triage-state list is empty or contains the entity's state.
func (sc *Scorer) SelectActions(s entity.Snapshot, score float64, cfg Config) []ActionRule {
	if !sc.caps.Enabled(CapActionRules) {
		return nil
	}
	var out []ActionRule
	for _, rule := range cfg.Email.ActionRules {
		if rule.MinPriority != nil && score < *rule.MinPriority {
			continue
		}
		if !anyFold(rule.Categories, func(v string) bool {
			return strings.EqualFold(v, s.Category)
		}) {
			continue
		}
		if !anyFold(rule.TriageStates, func(v string) bool {
			return strings.EqualFold(v, string(s.TriageState))
		}) {
			continue
		}
		out = append(out, rule)
	}
	return out
}
