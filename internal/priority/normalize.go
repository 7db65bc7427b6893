package priority

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ValidationError reports input that cannot be normalized at all: anything
// whose JSON root is not an object. Every other defect is repaired silently.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid priority configuration: %s", e.Reason)
}

// Validator normalizes arbitrary (possibly partial or stale) input into a
// well-formed Config. Missing or malformed fields fall back to the built-in
// defaults; numeric fields are clamped; missing rule ids are regenerated.
type Validator struct {
	genID IDGenerator
}

// NewValidator returns a Validator using gen for id regeneration.
// A nil gen falls back to random UUIDs.
func NewValidator(gen IDGenerator) *Validator {
	if gen == nil {
		gen = NewUUID
	}
	return &Validator{genID: gen}
}

// Normalize turns raw JSON into a well-formed Config. It fails only when the
// root is not a JSON object (string, array, number, or garbage).
func (v *Validator) Normalize(raw []byte) (Config, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Config{}, &ValidationError{Reason: "empty input"}
	}
	var root map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &root); err != nil {
		return Config{}, &ValidationError{Reason: "root must be a JSON object"}
	}

	cfg := DefaultConfig()
	if sec, ok := root["email"]; ok {
		v.normalizeEmail(&cfg.Email, sec)
	}
	if sec, ok := root["time"]; ok {
		decodeInto(sec, &cfg.Time)
	}
	if sec, ok := root["timeline"]; ok {
		decodeInto(sec, &cfg.Timeline)
	}
	if sec, ok := root["tasks"]; ok {
		decodeInto(sec, &cfg.Tasks)
	}
	if sec, ok := root["scheduling"]; ok {
		v.normalizeScheduling(&cfg.Scheduling, sec)
	}

	clampAll(&cfg)
	v.ensureIDs(&cfg)
	return cfg, nil
}

// decodeInto unmarshals raw into dst, leaving dst untouched (defaults) when
// the section is malformed.
func decodeInto[T any](raw json.RawMessage, dst *T) {
	var v T
	if err := json.Unmarshal(raw, &v); err == nil {
		*dst = v
	}
}

// decodeField decodes one object key into dst, keeping the prior (default)
// value when the key is absent or malformed.
func decodeField[T any](obj map[string]json.RawMessage, key string, dst *T) {
	raw, ok := obj[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err == nil {
		*dst = v
	}
}

// decodeList decodes a JSON array element-by-element. Elements that fail to
// parse are dropped: that is the one hard-failure path where an entry may be
// discarded rather than repaired.
func decodeList[T any](obj map[string]json.RawMessage, key string) ([]T, bool) {
	raw, ok := obj[key]
	if !ok {
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, false
	}
	out := make([]T, 0, len(elems))
	for _, e := range elems {
		var v T
		if err := json.Unmarshal(e, &v); err == nil {
			out = append(out, v)
		}
	}
	return out, true
}

func (v *Validator) normalizeEmail(dst *EmailConfig, raw json.RawMessage) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return
	}
	decodeField(obj, "categoryWeights", &dst.CategoryWeights)
	if dst.CategoryWeights == nil {
		dst.CategoryWeights = DefaultConfig().Email.CategoryWeights
	}
	decodeField(obj, "defaultCategoryWeight", &dst.DefaultCategoryWeight)
	decodeField(obj, "unreadBonus", &dst.UnreadBonus)
	decodeField(obj, "modelPriorityWeight", &dst.ModelPriorityWeight)
	decodeField(obj, "snoozeAgeReduction", &dst.SnoozeAgeReduction)
	decodeField(obj, "idleAge", &dst.IdleAge)
	if rules, ok := decodeList[CrossLabelRule](obj, "crossLabelRules"); ok {
		dst.CrossLabelRules = rules
	}
	if boosts, ok := decodeList[AdvancedBoost](obj, "advancedBoosts"); ok {
		dst.AdvancedBoosts = boosts
	}
	if actions, ok := decodeList[ActionRule](obj, "actionRules"); ok {
		dst.ActionRules = actions
	}
}

func (v *Validator) normalizeScheduling(dst *SchedulingConfig, raw json.RawMessage) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return
	}
	decodeField(obj, "timezone", &dst.Timezone)
	if _, err := time.LoadLocation(dst.Timezone); err != nil || dst.Timezone == "" {
		dst.Timezone = "UTC"
	}
	if entries, ok := decodeList[ScheduleEntry](obj, "entries"); ok {
		dst.Entries = entries
	}
	for i := range dst.Entries {
		e := &dst.Entries[i]
		days := e.DaysOfWeek[:0]
		for _, d := range e.DaysOfWeek {
			if d >= 0 && d <= 6 {
				days = append(days, d)
			}
		}
		e.DaysOfWeek = days
		if !validClock(e.StartTime) {
			e.StartTime = "00:00"
		}
		if e.EndTime != nil && !validClock(*e.EndTime) {
			e.EndTime = nil
		}
	}
}

func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// ensureIDs regenerates missing ids and replaces duplicates so every id is
// unique within its array. Entries are repaired, never dropped.
func (v *Validator) ensureIDs(cfg *Config) {
	fix := func(id *string, seen map[string]bool) {
		if *id == "" || seen[*id] {
			*id = v.genID()
		}
		seen[*id] = true
	}

	seen := map[string]bool{}
	for i := range cfg.Email.AdvancedBoosts {
		fix(&cfg.Email.AdvancedBoosts[i].ID, seen)
	}
	seen = map[string]bool{}
	for i := range cfg.Email.ActionRules {
		fix(&cfg.Email.ActionRules[i].ID, seen)
	}
	seen = map[string]bool{}
	for i := range cfg.Scheduling.Entries {
		fix(&cfg.Scheduling.Entries[i].ID, seen)
	}
}

// Clone returns a deep copy of cfg with no shared references to the source.
func Clone(cfg Config) Config {
	out := cfg

	if cfg.Email.CategoryWeights != nil {
		out.Email.CategoryWeights = make(map[string]float64, len(cfg.Email.CategoryWeights))
		for k, v := range cfg.Email.CategoryWeights {
			out.Email.CategoryWeights[k] = v
		}
	}

	out.Email.CrossLabelRules = append([]CrossLabelRule(nil), cfg.Email.CrossLabelRules...)

	out.Email.AdvancedBoosts = make([]AdvancedBoost, len(cfg.Email.AdvancedBoosts))
	for i, b := range cfg.Email.AdvancedBoosts {
		nb := b
		nb.Description = cloneStrPtr(b.Description)
		nb.Criteria.Senders = append([]string(nil), b.Criteria.Senders...)
		nb.Criteria.Domains = append([]string(nil), b.Criteria.Domains...)
		nb.Criteria.Keywords = append([]string(nil), b.Criteria.Keywords...)
		nb.Criteria.Labels = append([]string(nil), b.Criteria.Labels...)
		nb.Criteria.Categories = append([]string(nil), b.Criteria.Categories...)
		nb.Criteria.HasAttachment = cloneBoolPtr(b.Criteria.HasAttachment)
		nb.Criteria.MinPriority = cloneF64Ptr(b.Criteria.MinPriority)
		out.Email.AdvancedBoosts[i] = nb
	}

	out.Email.ActionRules = make([]ActionRule, len(cfg.Email.ActionRules))
	for i, a := range cfg.Email.ActionRules {
		na := a
		na.Description = cloneStrPtr(a.Description)
		na.Categories = append([]string(nil), a.Categories...)
		na.TriageStates = append([]string(nil), a.TriageStates...)
		na.MinPriority = cloneF64Ptr(a.MinPriority)
		na.Icon = cloneStrPtr(a.Icon)
		na.Color = cloneStrPtr(a.Color)
		na.Payload = cloneStrPtr(a.Payload)
		out.Email.ActionRules[i] = na
	}

	out.Scheduling.Entries = make([]ScheduleEntry, len(cfg.Scheduling.Entries))
	for i, e := range cfg.Scheduling.Entries {
		ne := e
		ne.DaysOfWeek = append([]int(nil), e.DaysOfWeek...)
		ne.EndTime = cloneStrPtr(e.EndTime)
		out.Scheduling.Entries[i] = ne
	}

	return out
}

func cloneStrPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneBoolPtr(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneF64Ptr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Equal reports structural equality: map fields compare by key and value
// regardless of enumeration order, array fields element-by-element in order,
// and nil slices/maps equal empty ones.
func Equal(a, b Config) bool {
	if len(a.Email.CategoryWeights) != len(b.Email.CategoryWeights) {
		return false
	}
	for k, v := range a.Email.CategoryWeights {
		w, ok := b.Email.CategoryWeights[k]
		if !ok || v != w {
			return false
		}
	}
	if a.Email.DefaultCategoryWeight != b.Email.DefaultCategoryWeight ||
		a.Email.UnreadBonus != b.Email.UnreadBonus ||
		a.Email.ModelPriorityWeight != b.Email.ModelPriorityWeight ||
		a.Email.SnoozeAgeReduction != b.Email.SnoozeAgeReduction ||
		a.Email.IdleAge != b.Email.IdleAge {
		return false
	}

	if len(a.Email.CrossLabelRules) != len(b.Email.CrossLabelRules) {
		return false
	}
	for i := range a.Email.CrossLabelRules {
		if a.Email.CrossLabelRules[i] != b.Email.CrossLabelRules[i] {
			return false
		}
	}

	if len(a.Email.AdvancedBoosts) != len(b.Email.AdvancedBoosts) {
		return false
	}
	for i := range a.Email.AdvancedBoosts {
		if !equalBoost(a.Email.AdvancedBoosts[i], b.Email.AdvancedBoosts[i]) {
			return false
		}
	}

	if len(a.Email.ActionRules) != len(b.Email.ActionRules) {
		return false
	}
	for i := range a.Email.ActionRules {
		if !equalActionRule(a.Email.ActionRules[i], b.Email.ActionRules[i]) {
			return false
		}
	}

	if a.Time != b.Time || a.Timeline != b.Timeline || a.Tasks != b.Tasks {
		return false
	}

	if a.Scheduling.Timezone != b.Scheduling.Timezone {
		return false
	}
	if len(a.Scheduling.Entries) != len(b.Scheduling.Entries) {
		return false
	}
	for i := range a.Scheduling.Entries {
		if !equalScheduleEntry(a.Scheduling.Entries[i], b.Scheduling.Entries[i]) {
			return false
		}
	}
	return true
}

func equalBoost(a, b AdvancedBoost) bool {
	return a.ID == b.ID &&
		a.Label == b.Label &&
		eqStrPtr(a.Description, b.Description) &&
		a.Weight == b.Weight &&
		eqStrs(a.Criteria.Senders, b.Criteria.Senders) &&
		eqStrs(a.Criteria.Domains, b.Criteria.Domains) &&
		eqStrs(a.Criteria.Keywords, b.Criteria.Keywords) &&
		eqStrs(a.Criteria.Labels, b.Criteria.Labels) &&
		eqStrs(a.Criteria.Categories, b.Criteria.Categories) &&
		eqBoolPtr(a.Criteria.HasAttachment, b.Criteria.HasAttachment) &&
		eqF64Ptr(a.Criteria.MinPriority, b.Criteria.MinPriority)
}

func equalActionRule(a, b ActionRule) bool {
	return a.ID == b.ID &&
		a.Label == b.Label &&
		eqStrPtr(a.Description, b.Description) &&
		a.ActionType == b.ActionType &&
		eqStrs(a.Categories, b.Categories) &&
		eqStrs(a.TriageStates, b.TriageStates) &&
		eqF64Ptr(a.MinPriority, b.MinPriority) &&
		eqStrPtr(a.Icon, b.Icon) &&
		eqStrPtr(a.Color, b.Color) &&
		eqStrPtr(a.Payload, b.Payload)
}

func equalScheduleEntry(a, b ScheduleEntry) bool {
	if a.ID != b.ID || a.Label != b.Label || a.PresetSlug != b.PresetSlug ||
		a.StartTime != b.StartTime || a.AutoApply != b.AutoApply ||
		!eqStrPtr(a.EndTime, b.EndTime) {
		return false
	}
	if len(a.DaysOfWeek) != len(b.DaysOfWeek) {
		return false
	}
	for i := range a.DaysOfWeek {
		if a.DaysOfWeek[i] != b.DaysOfWeek[i] {
			return false
		}
	}
	return true
}

func eqStrs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func eqStrPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func eqBoolPtr(a, b *bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func eqF64Ptr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
