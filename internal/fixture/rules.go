// Package fixture provides the deterministic offline dataset the console
// serves when no backend is configured, and the standby data used when
// the backend is down. Everything here is reproducible: fixed ids, fixed
// timestamps, derived scores.
package fixture

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/merchpilot/reco-console/internal/errors"
	"github.com/merchpilot/reco-console/internal/rules"
	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

const fixtureTenant = "la_redoute"

func boolPtr(v bool) *bool       { return &v }
func floatPtr(v float64) *float64 { return &v }

// seedRules returns the built-in rule dataset. Timestamps are fixed so
// listings render identically across restarts.
func seedRules() []model.Rule {
	created := time.Date(2025, time.June, 2, 9, 30, 0, 0, time.UTC)
	updated := time.Date(2025, time.June, 16, 14, 5, 0, 0, time.UTC)

	return []model.Rule{
		{
			ID:          "rl_no_oos_global",
			Tenant:      fixtureTenant,
			Name:        "No out-of-stock products",
			Description: "Never recommend a product that is out of stock",
			Mode:        model.RuleModeActive,
			Priority:    100,
			Constraints: &model.RuleConstraints{
				IncludeOnly: &model.IncludeOnly{InStock: boolPtr(true)},
			},
			Labels:    []string{"quality", "global"},
			CreatedAt: created,
			UpdatedAt: updated,
			CreatedBy: "keyvan",
		},
		{
			ID:          "rl_pin_running_top",
			Tenant:      fixtureTenant,
			Name:        "Pin running top sellers",
			Description: "Keep the two best running shoes at the top of similar lists",
			Mode:        model.RuleModeActive,
			Priority:    80,
			KindScope:   []model.RecoKind{model.KindSimilar},
			Target: &model.RuleTarget{
				CategoryPath: []string{"Homme/Chaussures/Running"},
			},
			Overrides: &model.RuleOverrides{
				Pins: []string{"prod_run_001", "prod_run_002"},
			},
			Labels:    []string{"merch", "pin"},
			CreatedAt: created.Add(24 * time.Hour),
			UpdatedAt: updated,
			CreatedBy: "keyvan",
		},
		{
			ID:          "rl_boost_nike_comp",
			Tenant:      fixtureTenant,
			Name:        "Boost Nike (complementary)",
			Description: "+15 score for Nike products in complementary lists",
			Mode:        model.RuleModeActive,
			Priority:    70,
			KindScope:   []model.RecoKind{model.KindComplementary},
			Ranking: &model.RuleRanking{
				Boosts: []model.RankingCondition{
					{Field: "brand", Op: "eq", Value: "Nike", Weight: 15},
				},
			},
			Labels:    []string{"boost", "brand"},
			CreatedAt: created.Add(48 * time.Hour),
			UpdatedAt: updated,
			CreatedBy: "keyvan",
		},
		{
			ID:          "rl_block_vendor_market_bad",
			Tenant:      fixtureTenant,
			Name:        "Block vendor market_bad",
			Description: "Marketplace vendor under review, exclude everywhere",
			Mode:        model.RuleModeActive,
			Priority:    90,
			Constraints: &model.RuleConstraints{
				Exclude: &model.ExcludeFilter{Vendors: []string{"market_bad"}},
			},
			Labels:    []string{"quality", "compliance"},
			CreatedAt: created.Add(72 * time.Hour),
			UpdatedAt: updated,
			CreatedBy: "keyvan",
		},
		{
			ID:          "rl_diversity_brand_cap2",
			Tenant:      fixtureTenant,
			Name:        "Brand diversity cap",
			Description: "At most two products per brand in any list",
			Mode:        model.RuleModeDraft,
			Priority:    50,
			Diversity:   &model.RuleDiversity{By: "brand", MaxPerGroup: 2},
			Labels:      []string{"diversity"},
			CreatedAt:   created.Add(96 * time.Hour),
			UpdatedAt:   updated,
			CreatedBy:   "keyvan",
		},
	}
}

// RuleStore is the in-memory fixture implementation of
// services.RuleStore. Mutations affect only this process.
type RuleStore struct {
	mu    sync.Mutex
	order []string
	byID  map[string]model.Rule
	now   func() time.Time
}

func NewRuleStore() *RuleStore {
	store := &RuleStore{
		byID: make(map[string]model.Rule),
		now:  time.Now,
	}
	for _, r := range seedRules() {
		store.order = append(store.order, r.ID)
		store.byID[r.ID] = r
	}
	return store
}

func (s *RuleStore) snapshot() []model.Rule {
	out := make([]model.Rule, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out
}

func (s *RuleStore) ListRules(_ context.Context, q services.ListRulesQuery) (services.RuleList, error) {
	s.mu.Lock()
	all := s.snapshot()
	s.mu.Unlock()

	filtered := rules.Filter(all, rules.Criteria{Mode: q.Mode, Kind: q.Kind, Query: q.Query})
	page, total := rules.Paginate(filtered, q.Page, q.PageSize)

	pageNum, pageSize := q.Page, q.PageSize
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	return services.RuleList{
		Items:    page,
		Total:    total,
		Page:     pageNum,
		PageSize: pageSize,
		Source:   services.SourceFixture,
	}, nil
}

func (s *RuleStore) GetRule(_ context.Context, ruleID string) (model.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule, ok := s.byID[ruleID]
	if !ok {
		return model.Rule{}, apperrors.NewRuleNotFoundError(ruleID)
	}
	return rule.Clone(), nil
}

func (s *RuleStore) CreateRule(_ context.Context, rule model.Rule) (model.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule.ID = "rl_" + uuid.NewString()
	if rule.Tenant == "" {
		rule.Tenant = fixtureTenant
	}
	if rule.Mode == "" {
		rule.Mode = model.RuleModeDraft
	}
	now := s.now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	s.order = append(s.order, rule.ID)
	s.byID[rule.ID] = rule.Clone()
	return rule, nil
}

func (s *RuleStore) UpdateRule(_ context.Context, rule model.Rule) (model.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[rule.ID]
	if !ok {
		return model.Rule{}, apperrors.NewRuleNotFoundError(rule.ID)
	}

	rule.Tenant = existing.Tenant
	rule.CreatedAt = existing.CreatedAt
	rule.CreatedBy = existing.CreatedBy
	rule.UpdatedAt = s.now().UTC()

	s.byID[rule.ID] = rule.Clone()
	return rule, nil
}

func (s *RuleStore) SetRuleMode(_ context.Context, ruleID string, mode model.RuleMode) (model.Rule, error) {
	if !model.ValidRuleModes[mode] {
		return model.Rule{}, apperrors.NewValidationError("mode", "invalid mode '"+string(mode)+"'")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rule, ok := s.byID[ruleID]
	if !ok {
		return model.Rule{}, apperrors.NewRuleNotFoundError(ruleID)
	}
	rule.Mode = mode
	rule.UpdatedAt = s.now().UTC()
	s.byID[ruleID] = rule
	return rule.Clone(), nil
}

func (s *RuleStore) DeleteRule(_ context.Context, ruleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[ruleID]; !ok {
		return apperrors.NewRuleNotFoundError(ruleID)
	}
	delete(s.byID, ruleID)
	for i, id := range s.order {
		if id == ruleID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
