package fixture

import (
	"context"
	"sort"
	"strconv"

	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

// Preview evaluates rules against the fixture recommendation list. This
// is a simplified stand-in for the external rule evaluator, good enough
// to make the before/after panel meaningful offline: constraints filter,
// boosts and penalties re-rank, pins and blocklist override, diversity
// caps groups.
func (s *RuleStore) Preview(ctx context.Context, q services.PreviewQuery) (model.PreviewResult, error) {
	products := seedProducts()
	before := recommend(products, q.ProductID, q.Kind, defaultRecoLimit)

	applied, err := s.previewRules(ctx, q)
	if err != nil {
		return model.PreviewResult{}, err
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}

	after := cloneItems(before)
	for _, rule := range applied {
		after = applyRule(after, rule, byID)
	}
	for i := range after {
		rank := i
		after[i].Rank = &rank
	}

	return model.PreviewResult{Before: before, After: after}, nil
}

// previewRules selects which rules the preview applies: a single rule
// when one is named (whatever its mode, so drafts can be previewed), or
// every active rule scoped to the kind, highest priority first.
func (s *RuleStore) previewRules(ctx context.Context, q services.PreviewQuery) ([]model.Rule, error) {
	if q.RuleID != "" {
		rule, err := s.GetRule(ctx, q.RuleID)
		if err != nil {
			return nil, err
		}
		return []model.Rule{rule}, nil
	}

	s.mu.Lock()
	all := s.snapshot()
	s.mu.Unlock()

	var applied []model.Rule
	for _, r := range all {
		if r.Mode == model.RuleModeActive && r.AppliesTo(q.Kind) {
			applied = append(applied, r)
		}
	}
	sort.SliceStable(applied, func(i, j int) bool {
		return applied[i].Priority > applied[j].Priority
	})
	return applied, nil
}

func cloneItems(items []model.RecoItem) []model.RecoItem {
	out := make([]model.RecoItem, len(items))
	copy(out, items)
	return out
}

func applyRule(items []model.RecoItem, rule model.Rule, products map[string]model.Product) []model.RecoItem {
	items = applyConstraints(items, rule.Constraints, products)
	items = applyRanking(items, rule.Ranking, products)
	items = applyOverrides(items, rule.Overrides, products)
	items = applyDiversity(items, rule.Diversity, products)
	return items
}

func applyConstraints(items []model.RecoItem, constraints *model.RuleConstraints, products map[string]model.Product) []model.RecoItem {
	if constraints == nil {
		return items
	}

	kept := items[:0:0]
	for _, item := range items {
		p, known := products[item.ProductID]
		if inc := constraints.IncludeOnly; inc != nil && known {
			if inc.InStock != nil && *inc.InStock && (p.InStock == nil || !*p.InStock) {
				continue
			}
			if inc.MinPrice != nil && (p.Price == nil || *p.Price < *inc.MinPrice) {
				continue
			}
			if inc.MaxPrice != nil && (p.Price == nil || *p.Price > *inc.MaxPrice) {
				continue
			}
		}
		if exc := constraints.Exclude; exc != nil && known {
			if containsString(exc.Vendors, p.Vendor) ||
				containsString(exc.Brands, p.Brand) ||
				containsString(exc.Categories, p.Category) ||
				containsString(exc.ProductIDs, p.ProductID) {
				continue
			}
		}
		kept = append(kept, item)
	}
	return kept
}

func applyRanking(items []model.RecoItem, ranking *model.RuleRanking, products map[string]model.Product) []model.RecoItem {
	if ranking == nil || (len(ranking.Boosts) == 0 && len(ranking.Penalties) == 0) {
		return items
	}

	// Weights are percentage points on the unit-interval score.
	for i := range items {
		p, known := products[items[i].ProductID]
		if !known || items[i].Score == nil {
			continue
		}
		score := *items[i].Score
		for _, b := range ranking.Boosts {
			if conditionMatches(b, p) {
				score += b.Weight / 100
			}
		}
		for _, pen := range ranking.Penalties {
			if conditionMatches(pen, p) {
				score -= pen.Weight / 100
			}
		}
		items[i].Score = floatPtr(score)
	}

	sort.SliceStable(items, func(i, j int) bool {
		si, sj := items[i].Score, items[j].Score
		if si == nil || sj == nil {
			return sj == nil && si != nil
		}
		return *si > *sj
	})
	return items
}

func applyOverrides(items []model.RecoItem, overrides *model.RuleOverrides, products map[string]model.Product) []model.RecoItem {
	if overrides == nil {
		return items
	}

	if len(overrides.Blocklist) > 0 {
		kept := items[:0:0]
		for _, item := range items {
			if !containsString(overrides.Blocklist, item.ProductID) {
				kept = append(kept, item)
			}
		}
		items = kept
	}

	if len(overrides.Pins) == 0 {
		return items
	}

	// Pins keep their given order at the front. A pinned product missing
	// from the list is pulled in from the catalog.
	pinned := make([]model.RecoItem, 0, len(overrides.Pins))
	rest := make([]model.RecoItem, 0, len(items))

	inList := make(map[string]model.RecoItem, len(items))
	for _, item := range items {
		inList[item.ProductID] = item
	}
	pinnedSet := make(map[string]bool, len(overrides.Pins))

	for _, id := range overrides.Pins {
		if pinnedSet[id] {
			continue
		}
		pinnedSet[id] = true
		if item, ok := inList[id]; ok {
			pinned = append(pinned, item)
			continue
		}
		if p, ok := products[id]; ok {
			pinned = append(pinned, model.RecoItem{
				ProductID: p.ProductID,
				Name:      p.Name,
				ImageURL:  p.ImageURL,
				Price:     p.Price,
				Brand:     p.Brand,
			})
		}
	}
	for _, item := range items {
		if !pinnedSet[item.ProductID] {
			rest = append(rest, item)
		}
	}

	return append(pinned, rest...)
}

func applyDiversity(items []model.RecoItem, diversity *model.RuleDiversity, products map[string]model.Product) []model.RecoItem {
	if diversity == nil || diversity.MaxPerGroup < 1 {
		return items
	}

	counts := make(map[string]int)
	kept := items[:0:0]
	for _, item := range items {
		p, known := products[item.ProductID]
		if !known {
			kept = append(kept, item)
			continue
		}
		key := p.Brand
		if diversity.By == "category" {
			key = p.Category
		}
		if counts[key] >= diversity.MaxPerGroup {
			continue
		}
		counts[key]++
		kept = append(kept, item)
	}
	return kept
}

func conditionMatches(cond model.RankingCondition, p model.Product) bool {
	var field interface{}
	switch cond.Field {
	case "brand":
		field = p.Brand
	case "vendor":
		field = p.Vendor
	case "category":
		field = p.Category
	case "price":
		if p.Price == nil {
			return false
		}
		field = *p.Price
	case "stock":
		if p.Stock == nil {
			return false
		}
		field = float64(*p.Stock)
	default:
		return false
	}

	switch fieldValue := field.(type) {
	case string:
		want, ok := cond.Value.(string)
		if !ok {
			return false
		}
		switch cond.Op {
		case "eq":
			return fieldValue == want
		case "neq":
			return fieldValue != want
		}
		return false
	case float64:
		want, ok := numericValue(cond.Value)
		if !ok {
			return false
		}
		switch cond.Op {
		case "eq":
			return fieldValue == want
		case "neq":
			return fieldValue != want
		case "gte":
			return fieldValue >= want
		case "lte":
			return fieldValue <= want
		case "gt":
			return fieldValue > want
		case "lt":
			return fieldValue < want
		}
	}
	return false
}

func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		return parsed, err == nil
	}
	return 0, false
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
