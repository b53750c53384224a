package model

import (
	"time"
)

// RuleMode is the lifecycle state of a merchandising rule. A rule is in
// exactly one mode at a time; transitions are user-initiated.
type RuleMode string

const (
	RuleModeDraft    RuleMode = "draft"
	RuleModeActive   RuleMode = "active"
	RuleModePaused   RuleMode = "paused"
	RuleModeArchived RuleMode = "archived"
)

// ValidRuleModes lists the accepted lifecycle states.
var ValidRuleModes = map[RuleMode]bool{
	RuleModeDraft:    true,
	RuleModeActive:   true,
	RuleModePaused:   true,
	RuleModeArchived: true,
}

// RecoKind is a recommendation relationship type.
type RecoKind string

const (
	KindSimilar       RecoKind = "similar"
	KindComplementary RecoKind = "complementary"
	KindXSell         RecoKind = "x-sell"
)

// AllKinds returns every recommendation kind, in canonical order.
func AllKinds() []RecoKind {
	return []RecoKind{KindSimilar, KindComplementary, KindXSell}
}

// ValidKinds lists the accepted recommendation kinds.
var ValidKinds = map[RecoKind]bool{
	KindSimilar:       true,
	KindComplementary: true,
	KindXSell:         true,
}

// RankingCondition is one boost or penalty entry: when the condition on a
// candidate's field matches, the weight is added to (boost) or subtracted
// from (penalty) its score by the external evaluator.
type RankingCondition struct {
	Field  string      `json:"field"`
	Op     string      `json:"op"` // "eq", "neq", "gte", "lte", "gt", "lt"
	Value  interface{} `json:"value"`
	Weight float64     `json:"weight"`
}

// ValidRankingOps lists the comparison operators accepted in ranking conditions.
var ValidRankingOps = map[string]bool{
	"eq":  true,
	"neq": true,
	"gte": true,
	"lte": true,
	"gt":  true,
	"lt":  true,
}

// RuleTarget scopes a rule to a subset of the catalog. An absent target
// means the rule applies to all products.
type RuleTarget struct {
	CategoryPath []string               `json:"category_path,omitempty"`
	ProductIDs   []string               `json:"product_ids,omitempty"`
	Audience     map[string]interface{} `json:"audience,omitempty"`
}

// IncludeOnly is an inclusion filter; each bound is independently optional.
type IncludeOnly struct {
	InStock  *bool    `json:"in_stock,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
}

// ExcludeFilter lists catalog attributes whose products are excluded.
type ExcludeFilter struct {
	Vendors    []string `json:"vendors,omitempty"`
	Brands     []string `json:"brands,omitempty"`
	Categories []string `json:"categories,omitempty"`
	ProductIDs []string `json:"product_ids,omitempty"`
}

// RuleConstraints groups the optional inclusion and exclusion filters.
type RuleConstraints struct {
	IncludeOnly *IncludeOnly   `json:"include_only,omitempty"`
	Exclude     *ExcludeFilter `json:"exclude,omitempty"`
}

// RuleRanking holds the ordered boost and penalty lists.
type RuleRanking struct {
	Boosts    []RankingCondition `json:"boosts,omitempty"`
	Penalties []RankingCondition `json:"penalties,omitempty"`
}

// RuleOverrides forces candidates in or out regardless of score. Pins keep
// their given order at the front of a result list; blocklisted products
// are always excluded.
type RuleOverrides struct {
	Pins      []string `json:"pins,omitempty"`
	Blocklist []string `json:"blocklist,omitempty"`
}

// RuleDiversity caps how many candidates sharing a grouping attribute may
// survive in one result list.
type RuleDiversity struct {
	By          string `json:"by,omitempty"` // "brand" or "category"
	MaxPerGroup int    `json:"max_per_group,omitempty"`
}

// RuleSchedule is carried in the document shape for future start/end
// windows. Nothing evaluates it yet.
type RuleSchedule struct {
	StartAt    *time.Time `json:"start_at,omitempty"`
	EndAt      *time.Time `json:"end_at,omitempty"`
	DaysOfWeek []int      `json:"days_of_week,omitempty"`
	Timezone   string     `json:"timezone,omitempty"`
}

// Rule is a merchandising policy applied to recommendation output for one
// tenant. Evaluation (scoring, priority tie-breaks, pin/blocklist conflict
// resolution) is owned by the external rule evaluator; this service stores,
// edits and displays the document.
type Rule struct {
	ID          string           `json:"_id,omitempty"` // assigned by the rule store on creation
	Tenant      string           `json:"tenant"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Mode        RuleMode         `json:"mode"`
	Priority    int              `json:"priority"`             // higher wins; 0-100 by UI convention, not enforced
	KindScope   []RecoKind       `json:"kind_scope,omitempty"` // empty means all kinds
	Target      *RuleTarget      `json:"target,omitempty"`
	Constraints *RuleConstraints `json:"constraints,omitempty"`
	Ranking     *RuleRanking     `json:"ranking,omitempty"`
	Overrides   *RuleOverrides   `json:"overrides,omitempty"`
	Diversity   *RuleDiversity   `json:"diversity,omitempty"`
	Schedule    *RuleSchedule    `json:"schedule,omitempty"`
	Labels      []string         `json:"labels,omitempty"`
	CreatedAt   time.Time        `json:"created_at,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at,omitempty"`
	CreatedBy   string           `json:"created_by,omitempty"`
}

// EffectiveKindScope resolves the "empty means all kinds" convention.
func (r *Rule) EffectiveKindScope() []RecoKind {
	if len(r.KindScope) == 0 {
		return AllKinds()
	}
	return r.KindScope
}

// AppliesTo reports whether the rule is scoped to the given kind.
func (r *Rule) AppliesTo(kind RecoKind) bool {
	for _, k := range r.EffectiveKindScope() {
		if k == kind {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the rule. Used for rollback snapshots
// before optimistic mutations.
func (r Rule) Clone() Rule {
	out := r
	out.KindScope = append([]RecoKind(nil), r.KindScope...)
	out.Labels = append([]string(nil), r.Labels...)
	if r.Target != nil {
		t := RuleTarget{
			CategoryPath: append([]string(nil), r.Target.CategoryPath...),
			ProductIDs:   append([]string(nil), r.Target.ProductIDs...),
		}
		if r.Target.Audience != nil {
			t.Audience = make(map[string]interface{}, len(r.Target.Audience))
			for k, v := range r.Target.Audience {
				t.Audience[k] = v
			}
		}
		out.Target = &t
	}
	if r.Constraints != nil {
		c := RuleConstraints{}
		if r.Constraints.IncludeOnly != nil {
			inc := IncludeOnly{
				InStock:  cloneBoolPtr(r.Constraints.IncludeOnly.InStock),
				MinPrice: cloneFloatPtr(r.Constraints.IncludeOnly.MinPrice),
				MaxPrice: cloneFloatPtr(r.Constraints.IncludeOnly.MaxPrice),
			}
			c.IncludeOnly = &inc
		}
		if r.Constraints.Exclude != nil {
			exc := ExcludeFilter{
				Vendors:    append([]string(nil), r.Constraints.Exclude.Vendors...),
				Brands:     append([]string(nil), r.Constraints.Exclude.Brands...),
				Categories: append([]string(nil), r.Constraints.Exclude.Categories...),
				ProductIDs: append([]string(nil), r.Constraints.Exclude.ProductIDs...),
			}
			c.Exclude = &exc
		}
		out.Constraints = &c
	}
	if r.Ranking != nil {
		rk := RuleRanking{
			Boosts:    append([]RankingCondition(nil), r.Ranking.Boosts...),
			Penalties: append([]RankingCondition(nil), r.Ranking.Penalties...),
		}
		out.Ranking = &rk
	}
	if r.Overrides != nil {
		ov := RuleOverrides{
			Pins:      append([]string(nil), r.Overrides.Pins...),
			Blocklist: append([]string(nil), r.Overrides.Blocklist...),
		}
		out.Overrides = &ov
	}
	if r.Diversity != nil {
		d := *r.Diversity
		out.Diversity = &d
	}
	if r.Schedule != nil {
		s := *r.Schedule
		if r.Schedule.StartAt != nil {
			v := *r.Schedule.StartAt
			s.StartAt = &v
		}
		if r.Schedule.EndAt != nil {
			v := *r.Schedule.EndAt
			s.EndAt = &v
		}
		s.DaysOfWeek = append([]int(nil), r.Schedule.DaysOfWeek...)
		out.Schedule = &s
	}
	return out
}

func cloneBoolPtr(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
