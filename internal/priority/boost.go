package priority

import (
	"strings"

	"github.com/triahq/tria/internal/entity"
)

// MatchesLabels reports whether any label starts with the rule's prefix.
// CaseInsensitive affects the comparison only, never the stored values.
func (r CrossLabelRule) MatchesLabels(labels []string) bool {
	if r.Prefix == "" {
		return false
	}
	prefix := r.Prefix
	if r.CaseInsensitive {
		prefix = strings.ToLower(prefix)
	}
	for _, label := range labels {
		l := label
		if r.CaseInsensitive {
			l = strings.ToLower(l)
		}
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

// Matches evaluates the boost's criteria against a snapshot and the running
// score at this point of the evaluation. Criterion kinds AND together;
// elements within a kind OR. Empty lists and nil scalars are wildcards.
func (b AdvancedBoost) Matches(s entity.Snapshot, running float64) bool {
	c := b.Criteria
	if !anyFold(c.Senders, func(v string) bool {
		return strings.EqualFold(v, s.FromEmail)
	}) {
		return false
	}
	if !anyFold(c.Domains, func(v string) bool {
		return matchDomain(s.FromEmail, v)
	}) {
		return false
	}
	if !anyFold(c.Keywords, func(v string) bool {
		return strings.Contains(strings.ToLower(s.Subject), strings.ToLower(v))
	}) {
		return false
	}
	if !anyFold(c.Labels, func(v string) bool {
		for _, l := range s.Labels {
			if strings.EqualFold(l, v) {
				return true
			}
		}
		return false
	}) {
		return false
	}
	if !anyFold(c.Categories, func(v string) bool {
		return strings.EqualFold(v, s.Category)
	}) {
		return false
	}
	if c.HasAttachment != nil && *c.HasAttachment != s.HasAttachments {
		return false
	}
	if c.MinPriority != nil && running < *c.MinPriority {
		return false
	}
	return true
}

// anyFold returns true when the list is empty (wildcard) or pred holds for
// at least one element.
func anyFold(list []string, pred func(string) bool) bool {
	if len(list) == 0 {
		return true
	}
	for _, v := range list {
		if pred(v) {
			return true
		}
	}
	return false
}

// matchDomain reports whether addr belongs to domain (exact domain or a
// subdomain of it).
func matchDomain(addr, domain string) bool {
	at := strings.LastIndex(addr, "@")
	if at < 0 || domain == "" {
		return false
	}
	have := strings.ToLower(addr[at+1:])
	want := strings.ToLower(strings.TrimPrefix(domain, "@"))
	return have == want || strings.HasSuffix(have, "."+want)
}
