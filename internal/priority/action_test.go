package priority

import (
	"testing"

	"github.com/triahq/tria/internal/entity"
)

func actionConfig(rules ...ActionRule) Config {
	return DefaultConfig().Patch(func(c *Config) { c.Email.ActionRules = rules })
}

func TestSelectActions_MinPriorityGate(t *testing.T) {
	cfg := actionConfig(ActionRule{ID: "a1", Label: "Escalate", ActionType: ActionPlaybook, MinPriority: f64(80)})
	sc := NewScorer(nil)
	s := entity.Snapshot{Kind: entity.KindEmail, Category: "X", TriageState: entity.TriageUnassigned}

	if got := sc.SelectActions(s, 79, cfg); len(got) != 0 {
		t.Errorf("a rule with minPriority 80 must never apply at score 79, got %d rules", len(got))
	}
	if got := sc.SelectActions(s, 80, cfg); len(got) != 1 {
		t.Errorf("score 80 should meet minPriority 80, got %d rules", len(got))
	}
}

func TestSelectActions_CategoryAndTriageFilters(t *testing.T) {
	cfg := actionConfig(ActionRule{
		ID: "a1", Label: "Create lead", ActionType: ActionCreateLead,
		Categories:   []string{"BOOKING/Offer"},
		TriageStates: []string{"unassigned", "acknowledged"},
	})
	sc := NewScorer(nil)

	match := entity.Snapshot{Kind: entity.KindEmail, Category: "booking/offer", TriageState: entity.TriageAcknowledged}
	if got := sc.SelectActions(match, 50, cfg); len(got) != 1 {
		t.Errorf("category comparison should be case-insensitive, got %d rules", len(got))
	}

	wrongState := match
	wrongState.TriageState = entity.TriageResolved
	if got := sc.SelectActions(wrongState, 50, cfg); len(got) != 0 {
		t.Errorf("resolved is outside the rule's triage states, got %d rules", len(got))
	}
}

func TestSelectActions_PreservesConfigOrder(t *testing.T) {
	cfg := actionConfig(
		ActionRule{ID: "z", Label: "last in alphabet", ActionType: ActionCustom},
		ActionRule{ID: "a", Label: "first in alphabet", ActionType: ActionCustom},
	)
	sc := NewScorer(nil)
	s := entity.Snapshot{Kind: entity.KindEmail, TriageState: entity.TriageUnassigned}

	got := sc.SelectActions(s, 10, cfg)
	if len(got) != 2 || got[0].ID != "z" || got[1].ID != "a" {
		t.Errorf("result must preserve config array order, got %+v", got)
	}
}

func TestSelectActions_EmptyResultIsValid(t *testing.T) {
	sc := NewScorer(nil)
	s := entity.Snapshot{Kind: entity.KindEmail}
	if got := sc.SelectActions(s, 100, DefaultConfig()); len(got) != 0 {
		t.Errorf("no rules configured means no actions, got %d", len(got))
	}
}

func TestSelectActions_CapabilityGate(t *testing.T) {
	cfg := actionConfig(ActionRule{ID: "a1", Label: "Anything", ActionType: ActionCustom})
	sc := NewScorer(AllCapabilities().Without(CapActionRules))
	s := entity.Snapshot{Kind: entity.KindEmail}
	if got := sc.SelectActions(s, 100, cfg); got != nil {
		t.Errorf("disabled action rules should return nothing, got %+v", got)
	}
}
