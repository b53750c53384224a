package fixture

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	apperrors "github.com/merchpilot/reco-console/internal/errors"
	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

func TestRuleStore_SeedIsDeterministic(t *testing.T) {
	first, err := NewRuleStore().ListRules(context.Background(), services.ListRulesQuery{})
	if err != nil {
		t.Fatalf("ListRules() failed: %v", err)
	}
	second, _ := NewRuleStore().ListRules(context.Background(), services.ListRulesQuery{})

	if !reflect.DeepEqual(first, second) {
		t.Error("two fresh stores must serve identical listings")
	}
	if first.Total != 5 {
		t.Errorf("expected 5 seed rules, got %d", first.Total)
	}
	if first.Source != services.SourceFixture {
		t.Errorf("expected fixture source, got %q", first.Source)
	}
	if first.Items[0].ID != "rl_no_oos_global" {
		t.Errorf("expected stable seed order, got %s first", first.Items[0].ID)
	}
	if first.Items[0].CreatedAt.IsZero() {
		t.Error("seed rules must carry fixed timestamps")
	}
}

func TestRuleStore_CreateAssignsIDAndDefaults(t *testing.T) {
	store := NewRuleStore()

	created, err := store.CreateRule(context.Background(), model.Rule{Name: "new rule"})
	if err != nil {
		t.Fatalf("CreateRule() failed: %v", err)
	}

	if !strings.HasPrefix(created.ID, "rl_") {
		t.Errorf("expected generated rl_ id, got %q", created.ID)
	}
	if created.Mode != model.RuleModeDraft {
		t.Errorf("expected new rules to default to draft, got %s", created.Mode)
	}
	if created.Tenant != fixtureTenant {
		t.Errorf("expected default tenant, got %q", created.Tenant)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps on creation")
	}

	fetched, err := store.GetRule(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetRule() after create failed: %v", err)
	}
	if fetched.Name != "new rule" {
		t.Errorf("created rule not retrievable, got %+v", fetched)
	}
}

func TestRuleStore_UpdatePreservesProvenance(t *testing.T) {
	store := NewRuleStore()

	edited, err := store.GetRule(context.Background(), "rl_boost_nike_comp")
	if err != nil {
		t.Fatalf("GetRule() failed: %v", err)
	}
	originalCreated := edited.CreatedAt
	edited.Name = "Boost Nike harder"
	edited.CreatedBy = "intruder"
	edited.CreatedAt = time.Time{}

	updated, err := store.UpdateRule(context.Background(), edited)
	if err != nil {
		t.Fatalf("UpdateRule() failed: %v", err)
	}

	if updated.Name != "Boost Nike harder" {
		t.Errorf("edit did not apply: %q", updated.Name)
	}
	if updated.CreatedBy != "keyvan" || !updated.CreatedAt.Equal(originalCreated) {
		t.Errorf("provenance fields must be preserved, got by=%q at=%v", updated.CreatedBy, updated.CreatedAt)
	}
	if !updated.UpdatedAt.After(originalCreated) {
		t.Error("expected updated_at to advance")
	}
}

func TestRuleStore_NotFound(t *testing.T) {
	store := NewRuleStore()
	ctx := context.Background()

	if _, err := store.GetRule(ctx, "rl_nope"); !errors.Is(err, apperrors.ErrRuleNotFound) {
		t.Errorf("GetRule: expected ErrRuleNotFound, got %v", err)
	}
	if _, err := store.SetRuleMode(ctx, "rl_nope", model.RuleModePaused); !errors.Is(err, apperrors.ErrRuleNotFound) {
		t.Errorf("SetRuleMode: expected ErrRuleNotFound, got %v", err)
	}
	if err := store.DeleteRule(ctx, "rl_nope"); !errors.Is(err, apperrors.ErrRuleNotFound) {
		t.Errorf("DeleteRule: expected ErrRuleNotFound, got %v", err)
	}
}

func TestRuleStore_SetRuleModeRejectsUnknownMode(t *testing.T) {
	store := NewRuleStore()
	if _, err := store.SetRuleMode(context.Background(), "rl_no_oos_global", "enabled"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func recoIDs(items []model.RecoItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ProductID)
	}
	return out
}

func TestRecommender_Deterministic(t *testing.T) {
	reco := NewRecommender()
	q := services.RecommendationQuery{ProductID: "prod_run_001", Kind: model.KindSimilar, Limit: 6}

	first, err := reco.Recommendations(context.Background(), q)
	if err != nil {
		t.Fatalf("Recommendations() failed: %v", err)
	}
	second, _ := reco.Recommendations(context.Background(), q)

	if !reflect.DeepEqual(recoIDs(first), recoIDs(second)) {
		t.Error("fixture recommendations must be deterministic")
	}
	if len(first) != 6 {
		t.Errorf("expected 6 candidates, got %d", len(first))
	}
	for _, item := range first {
		if item.ProductID == "prod_run_001" {
			t.Error("anchor product must not recommend itself")
		}
		if item.Score == nil {
			t.Error("fixture candidates must carry scores")
		}
	}
	// Similar lists put same-category products first.
	if first[0].ProductID != "prod_run_002" {
		t.Errorf("expected a running shoe first for a similar query, got %s", first[0].ProductID)
	}
}

func TestPreview_BlockedVendorAndStockFiltering(t *testing.T) {
	store := NewRuleStore()

	result, err := store.Preview(context.Background(), services.PreviewQuery{
		ProductID: "prod_run_001",
		Kind:      model.KindSimilar,
	})
	if err != nil {
		t.Fatalf("Preview() failed: %v", err)
	}

	if len(result.Before) == 0 || len(result.After) == 0 {
		t.Fatal("expected both preview lists to be populated")
	}

	for _, item := range result.After {
		// rl_block_vendor_market_bad excludes the Asics from market_bad,
		// rl_no_oos_global drops the out-of-stock Vomero.
		if item.ProductID == "prod_run_005" {
			t.Error("blocked vendor product survived the preview")
		}
		if item.ProductID == "prod_run_004" {
			t.Error("out-of-stock product survived the preview")
		}
	}
}

func TestPreview_PinsLeadTheAfterList(t *testing.T) {
	store := NewRuleStore()

	result, err := store.Preview(context.Background(), services.PreviewQuery{
		ProductID: "prod_bottle_001",
		Kind:      model.KindSimilar,
	})
	if err != nil {
		t.Fatalf("Preview() failed: %v", err)
	}

	got := recoIDs(result.After)
	if len(got) < 2 || got[0] != "prod_run_001" || got[1] != "prod_run_002" {
		t.Errorf("expected pinned products first in pin order, got %v", got)
	}
}

func TestPreview_SingleRuleIgnoresOtherActiveRules(t *testing.T) {
	store := NewRuleStore()

	result, err := store.Preview(context.Background(), services.PreviewQuery{
		ProductID: "prod_run_001",
		Kind:      model.KindSimilar,
		RuleID:    "rl_diversity_brand_cap2",
	})
	if err != nil {
		t.Fatalf("Preview() failed: %v", err)
	}

	counts := map[string]bool{}
	for _, item := range result.After {
		// The single-rule preview applies only the diversity draft, so
		// the out-of-stock product stays.
		if item.ProductID == "prod_run_004" {
			counts["oos"] = true
		}
	}
	if !counts["oos"] {
		t.Error("expected single-rule preview to skip the global stock rule")
	}
}

func TestPreview_UnknownRule(t *testing.T) {
	store := NewRuleStore()
	_, err := store.Preview(context.Background(), services.PreviewQuery{
		ProductID: "prod_run_001",
		Kind:      model.KindSimilar,
		RuleID:    "rl_nope",
	})
	if !errors.Is(err, apperrors.ErrRuleNotFound) {
		t.Errorf("expected ErrRuleNotFound, got %v", err)
	}
}

func TestCatalog_Filters(t *testing.T) {
	catalog := NewCatalog()
	ctx := context.Background()

	byQuery, err := catalog.Products(ctx, services.ProductQuery{Query: "nike"})
	if err != nil {
		t.Fatalf("Products() failed: %v", err)
	}
	for _, p := range byQuery.Items {
		if !strings.Contains(strings.ToLower(p.Name), "nike") && p.Brand != "Nike" {
			t.Errorf("query=nike matched %s", p.ProductID)
		}
	}

	inStock := true
	byStock, _ := catalog.Products(ctx, services.ProductQuery{InStock: &inStock})
	for _, p := range byStock.Items {
		if p.InStock == nil || !*p.InStock {
			t.Errorf("in_stock filter matched %s", p.ProductID)
		}
	}

	byCategory, _ := catalog.Products(ctx, services.ProductQuery{Category: "Homme/Chaussures"})
	if len(byCategory.Items) != 5 {
		t.Errorf("expected 5 shoes, got %d", len(byCategory.Items))
	}
}

func TestCatalog_LookupPreservesRequestOrder(t *testing.T) {
	catalog := NewCatalog()

	products, err := catalog.Lookup(context.Background(), "", []string{"prod_watch_001", "prod_run_001", "prod_missing"})
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}

	if len(products) != 2 {
		t.Fatalf("expected 2 known products, got %d", len(products))
	}
	if products[0].ProductID != "prod_watch_001" || products[1].ProductID != "prod_run_001" {
		t.Errorf("expected request order, got %s, %s", products[0].ProductID, products[1].ProductID)
	}
}

func TestIngestion_StartPrependsRun(t *testing.T) {
	svc := NewIngestion()
	ctx := context.Background()

	run, err := svc.StartIngestion(ctx, services.IngestionRequest{
		FeedURL:  "https://example.com/feed.json",
		FeedType: "json",
	})
	if err != nil {
		t.Fatalf("StartIngestion() failed: %v", err)
	}
	if run.Tenant != fixtureTenant || run.Type != model.RunTypeIngest {
		t.Errorf("unexpected run: %+v", run)
	}

	runs, err := svc.Runs(ctx, "", model.RunTypeIngest, 0)
	if err != nil {
		t.Fatalf("Runs() failed: %v", err)
	}
	if runs[0].ID != run.ID {
		t.Errorf("expected the new run first, got %s", runs[0].ID)
	}
}

func TestIngestion_RunsFilterAndLimit(t *testing.T) {
	svc := NewIngestion()

	runs, err := svc.Runs(context.Background(), "", model.RunTypeRecommendations, 0)
	if err != nil {
		t.Fatalf("Runs() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Type != model.RunTypeRecommendations {
		t.Errorf("expected one recommendation run, got %+v", runs)
	}

	limited, _ := svc.Runs(context.Background(), "", "", 2)
	if len(limited) != 2 {
		t.Errorf("expected limit to apply, got %d runs", len(limited))
	}
}

func TestAnalytics_ViewsDailyCoversWindow(t *testing.T) {
	analytics := NewAnalytics()

	series, err := analytics.ViewsDaily(context.Background(), services.AnalyticsQuery{WindowDays: 7})
	if err != nil {
		t.Fatalf("ViewsDaily() failed: %v", err)
	}
	if len(series) != 7 {
		t.Fatalf("expected 7 days, got %d", len(series))
	}
	if series[len(series)-1].Date != "2025-06-22" {
		t.Errorf("expected fixed window end, got %s", series[len(series)-1].Date)
	}

	again, _ := analytics.ViewsDaily(context.Background(), services.AnalyticsQuery{WindowDays: 7})
	if !reflect.DeepEqual(series, again) {
		t.Error("series must be deterministic")
	}
}

func TestAnalytics_ExplicitRange(t *testing.T) {
	analytics := NewAnalytics()

	series, err := analytics.ViewsDaily(context.Background(), services.AnalyticsQuery{
		DateFrom: "2025-06-10",
		DateTo:   "2025-06-12",
	})
	if err != nil {
		t.Fatalf("ViewsDaily() failed: %v", err)
	}
	if len(series) != 3 || series[0].Date != "2025-06-10" || series[2].Date != "2025-06-12" {
		t.Errorf("expected the explicit 3-day range, got %+v", series)
	}
}

func TestAnalytics_LeaderboardLimit(t *testing.T) {
	analytics := NewAnalytics()

	top, err := analytics.TopViewed(context.Background(), services.AnalyticsQuery{Limit: 3})
	if err != nil {
		t.Fatalf("TopViewed() failed: %v", err)
	}
	if len(top) != 3 {
		t.Errorf("expected 3 entries, got %d", len(top))
	}
}

func TestHealth_ReportsLatestRun(t *testing.T) {
	ingestion := NewIngestion()
	health := NewHealth(ingestion)

	status, err := health.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() failed: %v", err)
	}
	if status.Status != "ok" || status.Source != services.SourceFixture {
		t.Errorf("unexpected status: %+v", status)
	}
	if status.LastRun == nil {
		t.Error("expected the latest run to be reported")
	}
}
