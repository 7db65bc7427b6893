package priority

// Capability names one engine feature that can be switched off. Capabilities
// are passed explicitly into the scorer rather than read from ambient flags,
// so tests (and the app config) can enable or disable features per call site.
type Capability string

const (
	CapCrossLabelRules   Capability = "cross_label_rules"
	CapAdvancedBoosts    Capability = "advanced_boosts"
	CapTimeDecay         Capability = "time_decay"
	CapSnoozeReduction   Capability = "snooze_reduction"
	CapModelBlend        Capability = "model_blend"
	CapManualBlend       Capability = "manual_blend"
	CapConflictPenalties Capability = "conflict_penalties"
	CapActionRules       Capability = "action_rules"
)

// AllCapabilityNames lists every known capability.
var AllCapabilityNames = []Capability{
	CapCrossLabelRules,
	CapAdvancedBoosts,
	CapTimeDecay,
	CapSnoozeReduction,
	CapModelBlend,
	CapManualBlend,
	CapConflictPenalties,
	CapActionRules,
}

// Capabilities is the set of enabled engine features. A nil set means
// everything is enabled, which is the production default.
type Capabilities map[Capability]bool

// AllCapabilities returns a set with every capability enabled.
func AllCapabilities() Capabilities {
	caps := make(Capabilities, len(AllCapabilityNames))
	for _, c := range AllCapabilityNames {
		caps[c] = true
	}
	return caps
}

// Enabled reports whether cap is on. The nil set enables everything.
func (c Capabilities) Enabled(cap Capability) bool {
	if c == nil {
		return true
	}
	return c[cap]
}

// Without returns a copy of the set with the given capabilities disabled.
func (c Capabilities) Without(caps ...Capability) Capabilities {
	out := make(Capabilities, len(AllCapabilityNames))
	if c == nil {
		for _, k := range AllCapabilityNames {
			out[k] = true
		}
	} else {
		for k, v := range c {
			out[k] = v
		}
	}
	for _, k := range caps {
		out[k] = false
	}
	return out
}
