package rules

import (
	"errors"
	"reflect"
	"testing"

	apperrors "github.com/merchpilot/reco-console/internal/errors"
	"github.com/merchpilot/reco-console/model"
)

func boolPtr(v bool) *bool       { return &v }
func floatPtr(v float64) *float64 { return &v }

func fullRule() model.Rule {
	return model.Rule{
		Name:        "Boost Nike (complementary)",
		Description: "+15 score when brand=Nike",
		Mode:        model.RuleModeActive,
		Priority:    80,
		KindScope:   []model.RecoKind{model.KindComplementary},
		Target: &model.RuleTarget{
			CategoryPath: []string{"Homme/Chaussures/Running"},
			ProductIDs:   []string{"prod_abc123", "prod_def456"},
		},
		Constraints: &model.RuleConstraints{
			IncludeOnly: &model.IncludeOnly{
				InStock:  boolPtr(true),
				MinPrice: floatPtr(19.99),
				MaxPrice: floatPtr(250),
			},
			Exclude: &model.ExcludeFilter{
				Vendors: []string{"market_bad"},
				Brands:  []string{"NoName"},
			},
		},
		Ranking: &model.RuleRanking{
			Boosts: []model.RankingCondition{
				{Field: "brand", Op: "eq", Value: "Nike", Weight: 15},
				{Field: "stock", Op: "gte", Value: float64(10), Weight: 5},
			},
			Penalties: []model.RankingCondition{
				{Field: "price", Op: "gt", Value: float64(500), Weight: 3},
			},
		},
		Overrides: &model.RuleOverrides{
			Pins:      []string{"prod_abc123", "prod_def456"},
			Blocklist: []string{"prod_bad999"},
		},
		Diversity: &model.RuleDiversity{By: "brand", MaxPerGroup: 2},
	}
}

func TestFormRoundTrip_ReproducesDocument(t *testing.T) {
	original := fullRule()

	doc, err := ToForm(original).Document()
	if err != nil {
		t.Fatalf("Document() failed: %v", err)
	}

	if doc.Name != original.Name || doc.Description != original.Description {
		t.Errorf("name/description did not survive round trip")
	}
	if doc.Mode != original.Mode || doc.Priority != original.Priority {
		t.Errorf("mode/priority did not survive round trip")
	}
	if !reflect.DeepEqual(doc.KindScope, original.KindScope) {
		t.Errorf("kind_scope mismatch: got %v, want %v", doc.KindScope, original.KindScope)
	}
	if !reflect.DeepEqual(doc.Target, original.Target) {
		t.Errorf("target mismatch: got %+v, want %+v", doc.Target, original.Target)
	}
	if !reflect.DeepEqual(doc.Constraints, original.Constraints) {
		t.Errorf("constraints mismatch: got %+v, want %+v", doc.Constraints, original.Constraints)
	}
	// Pins are order-significant.
	if !reflect.DeepEqual(doc.Overrides, original.Overrides) {
		t.Errorf("overrides mismatch: got %+v, want %+v", doc.Overrides, original.Overrides)
	}
	if !reflect.DeepEqual(doc.Ranking, original.Ranking) {
		t.Errorf("ranking mismatch: got %+v, want %+v", doc.Ranking, original.Ranking)
	}
	if !reflect.DeepEqual(doc.Diversity, original.Diversity) {
		t.Errorf("diversity mismatch: got %+v, want %+v", doc.Diversity, original.Diversity)
	}
}

func TestToForm_EmptyDocumentMapsToDefaults(t *testing.T) {
	f := ToForm(model.Rule{Name: "bare", Mode: model.RuleModeDraft})

	// Empty kind scope means all kinds, so all three boxes are checked.
	if !f.KindSimilar || !f.KindComplementary || !f.KindXSell {
		t.Error("expected empty kind_scope to check all kind boxes")
	}
	if f.MinPrice != "" || f.MaxPrice != "" {
		t.Error("expected unset price bounds to map to empty strings")
	}
	if f.Pins != "" || f.Blocklist != "" || f.TargetCategoryPath != "" {
		t.Error("expected absent list fields to map to empty strings")
	}
	if f.IncludeInStock {
		t.Error("expected in_stock to default to false")
	}
}

func TestDocument_EmptyListsAreOmitted(t *testing.T) {
	f := NewForm()
	f.Name = "empty lists"
	f.TargetCategoryPath = " , , "
	f.Pins = ""
	f.ExcludeVendors = "  "

	doc, err := f.Document()
	if err != nil {
		t.Fatalf("Document() failed: %v", err)
	}

	if doc.Target != nil {
		t.Errorf("expected all-empty target to be omitted, got %+v", doc.Target)
	}
	if doc.Constraints != nil {
		t.Errorf("expected all-empty constraints to be omitted, got %+v", doc.Constraints)
	}
	if doc.Overrides != nil {
		t.Errorf("expected all-empty overrides to be omitted, got %+v", doc.Overrides)
	}
	if doc.Ranking != nil {
		t.Errorf("expected empty ranking to be omitted, got %+v", doc.Ranking)
	}
}

func TestDocument_SplitsAndTrimsCSVFields(t *testing.T) {
	f := NewForm()
	f.Name = "csv"
	f.Pins = " prod_a , prod_b ,, prod_c "

	doc, err := f.Document()
	if err != nil {
		t.Fatalf("Document() failed: %v", err)
	}

	want := []string{"prod_a", "prod_b", "prod_c"}
	if doc.Overrides == nil || !reflect.DeepEqual(doc.Overrides.Pins, want) {
		t.Errorf("expected pins %v, got %+v", want, doc.Overrides)
	}
}

func TestDocument_DropsBoostRowsWithEmptyField(t *testing.T) {
	f := NewForm()
	f.Name = "boosts"
	f.Boosts = []BoostRow{
		{Field: "brand", Op: "eq", Value: "Nike", Weight: 15},
		{Field: "   ", Op: "eq", Value: "ignored", Weight: 99},
		{Field: "", Op: "gte", Value: "10", Weight: 5},
	}

	doc, err := f.Document()
	if err != nil {
		t.Fatalf("Document() failed: %v", err)
	}

	if doc.Ranking == nil || len(doc.Ranking.Boosts) != 1 {
		t.Fatalf("expected exactly one surviving boost, got %+v", doc.Ranking)
	}
	if doc.Ranking.Boosts[0].Field != "brand" {
		t.Errorf("wrong boost survived: %+v", doc.Ranking.Boosts[0])
	}
}

func TestDocument_AllKindsUncheckedMeansEmptyScope(t *testing.T) {
	f := NewForm()
	f.Name = "no kinds"
	f.KindSimilar = false
	f.KindComplementary = false
	f.KindXSell = false

	doc, err := f.Document()
	if err != nil {
		t.Fatalf("Document() failed: %v", err)
	}

	// Empty scope is the documented convention for "all kinds".
	if len(doc.KindScope) != 0 {
		t.Errorf("expected empty kind_scope, got %v", doc.KindScope)
	}
}

func TestDocument_NumericFields(t *testing.T) {
	tests := []struct {
		name      string
		minPrice  string
		wantUnset bool
		wantErr   bool
	}{
		{name: "empty means unset", minPrice: "", wantUnset: true},
		{name: "whitespace means unset", minPrice: "   ", wantUnset: true},
		{name: "valid number", minPrice: "19.99"},
		{name: "non-numeric is a validation error", minPrice: "cheap", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewForm()
			f.Name = "prices"
			f.MinPrice = tt.minPrice

			doc, err := f.Document()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for non-numeric input")
				}
				if !errors.Is(err, apperrors.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Document() failed: %v", err)
			}
			if tt.wantUnset {
				if doc.Constraints != nil {
					t.Errorf("expected unset price to omit constraints, got %+v", doc.Constraints)
				}
				return
			}
			if doc.Constraints == nil || doc.Constraints.IncludeOnly == nil || doc.Constraints.IncludeOnly.MinPrice == nil {
				t.Fatal("expected min_price to be set")
			}
			if *doc.Constraints.IncludeOnly.MinPrice != 19.99 {
				t.Errorf("expected min_price 19.99, got %v", *doc.Constraints.IncludeOnly.MinPrice)
			}
		})
	}
}

func TestDocument_InStockFalseCollapsesToUnset(t *testing.T) {
	rule := model.Rule{
		Name: "oos",
		Mode: model.RuleModeDraft,
		Constraints: &model.RuleConstraints{
			IncludeOnly: &model.IncludeOnly{InStock: boolPtr(false)},
		},
	}

	doc, err := ToForm(rule).Document()
	if err != nil {
		t.Fatalf("Document() failed: %v", err)
	}

	// An unchecked in-stock box means "no constraint", same as absent.
	if doc.Constraints != nil {
		t.Errorf("expected in_stock=false to collapse to unset, got %+v", doc.Constraints)
	}
}
