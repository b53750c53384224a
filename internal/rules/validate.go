package rules

import (
	"fmt"
	"strings"

	"github.com/merchpilot/reco-console/model"
)

// Validate checks a rule document's structure before submission. The
// external store revalidates on its side; this keeps obviously broken
// documents from ever leaving the console.
func Validate(rule model.Rule) error {
	if strings.TrimSpace(rule.Name) == "" {
		return fmt.Errorf("rule name cannot be empty")
	}

	if !model.ValidRuleModes[rule.Mode] {
		return fmt.Errorf("invalid mode '%s'", rule.Mode)
	}

	for i, kind := range rule.KindScope {
		if !model.ValidKinds[kind] {
			return fmt.Errorf("kind_scope %d: invalid kind '%s'", i, kind)
		}
	}

	if rule.Ranking != nil {
		if err := validateConditions("boosts", rule.Ranking.Boosts); err != nil {
			return err
		}
		if err := validateConditions("penalties", rule.Ranking.Penalties); err != nil {
			return err
		}
	}

	if rule.Diversity != nil {
		if rule.Diversity.By != "brand" && rule.Diversity.By != "category" {
			return fmt.Errorf("diversity: invalid grouping '%s' (must be 'brand' or 'category')", rule.Diversity.By)
		}
		if rule.Diversity.MaxPerGroup < 1 {
			return fmt.Errorf("diversity: max_per_group must be 1 or greater")
		}
	}

	if rule.Constraints != nil && rule.Constraints.IncludeOnly != nil {
		inc := rule.Constraints.IncludeOnly
		if inc.MinPrice != nil && inc.MaxPrice != nil && *inc.MinPrice > *inc.MaxPrice {
			return fmt.Errorf("constraints: min_price %v is greater than max_price %v", *inc.MinPrice, *inc.MaxPrice)
		}
	}

	return nil
}

func validateConditions(kind string, conditions []model.RankingCondition) error {
	for i, c := range conditions {
		if strings.TrimSpace(c.Field) == "" {
			return fmt.Errorf("%s %d: field cannot be empty", kind, i)
		}
		if !model.ValidRankingOps[c.Op] {
			return fmt.Errorf("%s %d: invalid operator '%s'. Valid operators: eq, neq, gte, lte, gt, lt", kind, i, c.Op)
		}
		if c.Value == nil {
			return fmt.Errorf("%s %d: value cannot be nil", kind, i)
		}
	}
	return nil
}

// Warnings reports non-fatal inconsistencies in a rule. A product listed
// in both pins and blocklist is contradictory, but conflict resolution is
// owned by the external evaluator, so create/update do not reject it.
func Warnings(rule model.Rule) []string {
	var warnings []string

	if rule.Overrides != nil {
		blocked := make(map[string]bool, len(rule.Overrides.Blocklist))
		for _, id := range rule.Overrides.Blocklist {
			blocked[id] = true
		}
		for _, id := range rule.Overrides.Pins {
			if blocked[id] {
				warnings = append(warnings, fmt.Sprintf("product '%s' is both pinned and blocklisted", id))
			}
		}
	}

	if rule.Priority < 0 || rule.Priority > 100 {
		warnings = append(warnings, fmt.Sprintf("priority %d is outside the conventional 0-100 range", rule.Priority))
	}

	return warnings
}
