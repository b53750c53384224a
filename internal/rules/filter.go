package rules

import (
	"strings"

	"github.com/merchpilot/reco-console/model"
)

// Criteria are the client-side rule list filters. Mode and Kind accept
// "all" or empty to match everything. This filter is a fallback for when
// the external store is unreachable; the store performs authoritative
// filtering when it can.
type Criteria struct {
	Mode  string
	Kind  string
	Query string
}

// Filter returns the ordered subset of rules matching all criteria. It is
// a pure function: the input slice is never mutated and relative order is
// preserved.
func Filter(items []model.Rule, c Criteria) []model.Rule {
	out := make([]model.Rule, 0, len(items))
	for _, rule := range items {
		if !matchesMode(rule, c.Mode) {
			continue
		}
		if !matchesKind(rule, c.Kind) {
			continue
		}
		if !matchesQuery(rule, c.Query) {
			continue
		}
		out = append(out, rule)
	}
	return out
}

func matchesMode(rule model.Rule, mode string) bool {
	if mode == "" || mode == "all" {
		return true
	}
	return string(rule.Mode) == mode
}

// matchesKind treats an empty kind scope as "all kinds", so such rules
// pass every kind query.
func matchesKind(rule model.Rule, kind string) bool {
	if kind == "" || kind == "all" {
		return true
	}
	return rule.AppliesTo(model.RecoKind(kind))
}

// matchesQuery matches case-insensitively against the rule name, and
// against the comma-joined label list.
func matchesQuery(rule model.Rule, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(rule.Name), strings.ToLower(q)) {
		return true
	}
	return strings.Contains(strings.Join(rule.Labels, ","), q)
}

// Paginate slices one 1-based page out of a filtered sequence and returns
// it with the total size of the whole sequence. Zero page or page size
// fall back to the first page of twenty.
func Paginate(items []model.Rule, page, pageSize int) ([]model.Rule, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	total := len(items)
	start := (page - 1) * pageSize
	if start >= total {
		return []model.Rule{}, total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return items[start:end], total
}
