// Package rules holds the in-scope rule logic of the console: the
// form/document mapper used by the rule editor, the client-side list
// filter, document validation, and the optimistic editing session. Rule
// evaluation itself is owned by the external backend.
package rules

import (
	"strconv"
	"strings"

	"github.com/merchpilot/reco-console/internal/errors"
	"github.com/merchpilot/reco-console/model"
)

// BoostRow is one editable boost or penalty row. Value is kept as a
// string while editing; Document converts numeric-looking values back to
// numbers.
type BoostRow struct {
	Field  string  `json:"field"`
	Op     string  `json:"op"`
	Value  string  `json:"value"`
	Weight float64 `json:"weight"`
}

// RuleForm is the flat, form-friendly representation of a Rule document.
// List-valued fields are comma-separated strings, numeric bounds are
// string-or-empty (empty means unset), and the kind scope is three
// independent booleans.
type RuleForm struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Mode        string `json:"mode"`
	Priority    int    `json:"priority"`

	KindSimilar       bool `json:"kind_similar"`
	KindComplementary bool `json:"kind_complementary"`
	KindXSell         bool `json:"kind_xsell"`

	IncludeInStock bool   `json:"include_in_stock"`
	MinPrice       string `json:"min_price,omitempty"`
	MaxPrice       string `json:"max_price,omitempty"`

	TargetCategoryPath string `json:"target_category_path,omitempty"`
	TargetProductIDs   string `json:"target_product_ids,omitempty"`

	ExcludeVendors    string `json:"exclude_vendors,omitempty"`
	ExcludeBrands     string `json:"exclude_brands,omitempty"`
	ExcludeCategories string `json:"exclude_categories,omitempty"`
	ExcludeProductIDs string `json:"exclude_product_ids,omitempty"`

	Pins      string `json:"pins,omitempty"`
	Blocklist string `json:"blocklist,omitempty"`

	Boosts    []BoostRow `json:"boosts,omitempty"`
	Penalties []BoostRow `json:"penalties,omitempty"`

	DiversityBy  string `json:"diversity_by,omitempty"` // "brand", "category" or ""
	DiversityMax int    `json:"diversity_max,omitempty"`
}

// NewForm returns the default form state for a fresh draft.
func NewForm() RuleForm {
	return RuleForm{
		Mode:              string(model.RuleModeDraft),
		Priority:          50,
		KindSimilar:       true,
		KindComplementary: true,
		KindXSell:         true,
		DiversityMax:      2,
	}
}

// ToForm flattens a rule document into its editable form representation.
// Every field present in the document is reproduced; absent fields map to
// type-appropriate empty defaults.
func ToForm(r model.Rule) RuleForm {
	f := RuleForm{
		Name:        r.Name,
		Description: r.Description,
		Mode:        string(r.Mode),
		Priority:    r.Priority,
	}

	// Empty scope means all kinds, so all three boxes start checked.
	for _, k := range r.EffectiveKindScope() {
		switch k {
		case model.KindSimilar:
			f.KindSimilar = true
		case model.KindComplementary:
			f.KindComplementary = true
		case model.KindXSell:
			f.KindXSell = true
		}
	}

	if r.Constraints != nil && r.Constraints.IncludeOnly != nil {
		inc := r.Constraints.IncludeOnly
		f.IncludeInStock = inc.InStock != nil && *inc.InStock
		f.MinPrice = floatToField(inc.MinPrice)
		f.MaxPrice = floatToField(inc.MaxPrice)
	}
	if r.Constraints != nil && r.Constraints.Exclude != nil {
		exc := r.Constraints.Exclude
		f.ExcludeVendors = joinCSV(exc.Vendors)
		f.ExcludeBrands = joinCSV(exc.Brands)
		f.ExcludeCategories = joinCSV(exc.Categories)
		f.ExcludeProductIDs = joinCSV(exc.ProductIDs)
	}

	if r.Target != nil {
		f.TargetCategoryPath = joinCSV(r.Target.CategoryPath)
		f.TargetProductIDs = joinCSV(r.Target.ProductIDs)
	}

	if r.Overrides != nil {
		f.Pins = joinCSV(r.Overrides.Pins)
		f.Blocklist = joinCSV(r.Overrides.Blocklist)
	}

	if r.Ranking != nil {
		f.Boosts = toRows(r.Ranking.Boosts)
		f.Penalties = toRows(r.Ranking.Penalties)
	}

	if r.Diversity != nil {
		f.DiversityBy = r.Diversity.By
		f.DiversityMax = r.Diversity.MaxPerGroup
	}
	if f.DiversityMax == 0 {
		f.DiversityMax = 2
	}

	return f
}

// Document assembles the canonical rule document from the form. List
// fields that end up empty are omitted entirely rather than kept as empty
// lists; numeric fields with empty content map to unset. Boost and
// penalty rows with an empty field are dropped. All three kind booleans
// unchecked recombine to an empty scope, which by convention means "all
// kinds". Malformed numeric input is a ValidationError naming the field.
func (f RuleForm) Document() (model.Rule, error) {
	if !model.ValidRuleModes[model.RuleMode(f.Mode)] {
		return model.Rule{}, errors.NewValidationError("mode", "unknown mode '"+f.Mode+"'")
	}

	r := model.Rule{
		Name:        f.Name,
		Description: f.Description,
		Mode:        model.RuleMode(f.Mode),
		Priority:    f.Priority,
	}

	var scope []model.RecoKind
	if f.KindSimilar {
		scope = append(scope, model.KindSimilar)
	}
	if f.KindComplementary {
		scope = append(scope, model.KindComplementary)
	}
	if f.KindXSell {
		scope = append(scope, model.KindXSell)
	}
	r.KindScope = scope

	target := model.RuleTarget{
		CategoryPath: splitCSV(f.TargetCategoryPath),
		ProductIDs:   splitCSV(f.TargetProductIDs),
	}
	if len(target.CategoryPath) > 0 || len(target.ProductIDs) > 0 {
		r.Target = &target
	}

	minPrice, err := fieldToFloat("min_price", f.MinPrice)
	if err != nil {
		return model.Rule{}, err
	}
	maxPrice, err := fieldToFloat("max_price", f.MaxPrice)
	if err != nil {
		return model.Rule{}, err
	}

	constraints := model.RuleConstraints{}
	if f.IncludeInStock || minPrice != nil || maxPrice != nil {
		inc := model.IncludeOnly{MinPrice: minPrice, MaxPrice: maxPrice}
		if f.IncludeInStock {
			v := true
			inc.InStock = &v
		}
		constraints.IncludeOnly = &inc
	}
	exclude := model.ExcludeFilter{
		Vendors:    splitCSV(f.ExcludeVendors),
		Brands:     splitCSV(f.ExcludeBrands),
		Categories: splitCSV(f.ExcludeCategories),
		ProductIDs: splitCSV(f.ExcludeProductIDs),
	}
	if len(exclude.Vendors) > 0 || len(exclude.Brands) > 0 || len(exclude.Categories) > 0 || len(exclude.ProductIDs) > 0 {
		constraints.Exclude = &exclude
	}
	if constraints.IncludeOnly != nil || constraints.Exclude != nil {
		r.Constraints = &constraints
	}

	overrides := model.RuleOverrides{
		Pins:      splitCSV(f.Pins),
		Blocklist: splitCSV(f.Blocklist),
	}
	if len(overrides.Pins) > 0 || len(overrides.Blocklist) > 0 {
		r.Overrides = &overrides
	}

	boosts := fromRows(f.Boosts)
	penalties := fromRows(f.Penalties)
	if len(boosts) > 0 || len(penalties) > 0 {
		r.Ranking = &model.RuleRanking{Boosts: boosts, Penalties: penalties}
	}

	if f.DiversityBy != "" {
		r.Diversity = &model.RuleDiversity{By: f.DiversityBy, MaxPerGroup: f.DiversityMax}
	}

	return r, nil
}

// splitCSV splits a comma-separated field, trimming entries and dropping
// empties. An all-empty result is nil ("unset"), never an empty list.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func joinCSV(items []string) string {
	return strings.Join(items, ", ")
}

func floatToField(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func fieldToFloat(field, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.NewValidationError(field, "must be numeric, got '"+s+"'")
	}
	return &v, nil
}

func toRows(conditions []model.RankingCondition) []BoostRow {
	if len(conditions) == 0 {
		return nil
	}
	rows := make([]BoostRow, 0, len(conditions))
	for _, c := range conditions {
		rows = append(rows, BoostRow{
			Field:  c.Field,
			Op:     c.Op,
			Value:  valueToField(c.Value),
			Weight: c.Weight,
		})
	}
	return rows
}

// fromRows converts edited rows back to ranking conditions, dropping rows
// with an empty field so they are never persisted.
func fromRows(rows []BoostRow) []model.RankingCondition {
	var out []model.RankingCondition
	for _, row := range rows {
		if strings.TrimSpace(row.Field) == "" {
			continue
		}
		out = append(out, model.RankingCondition{
			Field:  row.Field,
			Op:     row.Op,
			Value:  fieldToValue(row.Value),
			Weight: row.Weight,
		})
	}
	return out
}

func valueToField(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// fieldToValue restores a comparison value from its edited string form:
// numbers and booleans round-trip, everything else stays a string.
func fieldToValue(s string) interface{} {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
