package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/merchpilot/reco-console/config"
	"github.com/merchpilot/reco-console/internal/cache"
	apperrors "github.com/merchpilot/reco-console/internal/errors"
	"github.com/merchpilot/reco-console/internal/metrics"
	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	settings := &config.Settings{
		BackendBaseURL: server.URL,
		BackendAPIKey:  "test-key",
		BackendTimeout: 5 * time.Second,
	}
	return NewClient(settings, zap.NewNop(), metrics.New(prometheus.NewRegistry()))
}

func TestClient_SendsAPIKeyHeader(t *testing.T) {
	var gotKey string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		w.Write([]byte(`[]`))
	}))

	if _, err := client.get(context.Background(), "test", "rules/list", nil); err != nil {
		t.Fatalf("get() failed: %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("expected X-API-Key header, got %q", gotKey)
	}
}

func TestClient_ErrorStatusBecomesBackendError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))

	_, err := client.get(context.Background(), "test", "rules/list", nil)
	if !errors.Is(err, apperrors.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	var backendErr *apperrors.BackendError
	if !errors.As(err, &backendErr) || backendErr.Status != http.StatusBadGateway {
		t.Errorf("expected status 502 in error, got %+v", backendErr)
	}
}

func TestRuleStore_ListRulesFiltersAndPaginates(t *testing.T) {
	payload := []model.Rule{
		{ID: "rl_1", Name: "No out of stock", Mode: model.RuleModeActive},
		{ID: "rl_2", Name: "Boost Nike", Mode: model.RuleModePaused},
		{ID: "rl_3", Name: "Pin top seller", Mode: model.RuleModeActive},
	}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/webhook/api/rules/list" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("tenant") != "la_redoute" {
			t.Errorf("expected default tenant, got %q", r.URL.Query().Get("tenant"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"items": payload})
	}))

	store := NewRuleStore(client, "la_redoute")
	list, err := store.ListRules(context.Background(), services.ListRulesQuery{Mode: "active"})
	if err != nil {
		t.Fatalf("ListRules() failed: %v", err)
	}

	if list.Total != 2 || len(list.Items) != 2 {
		t.Errorf("expected 2 active rules, got total=%d len=%d", list.Total, len(list.Items))
	}
	if list.Source != services.SourceLive {
		t.Errorf("expected live source, got %q", list.Source)
	}
	if list.Page != 1 || list.PageSize != 20 {
		t.Errorf("expected default pagination, got page=%d size=%d", list.Page, list.PageSize)
	}
}

func TestRuleStore_GetRuleMapsNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	store := NewRuleStore(client, "la_redoute")
	_, err := store.GetRule(context.Background(), "rl_missing")
	if !errors.Is(err, apperrors.ErrRuleNotFound) {
		t.Fatalf("expected ErrRuleNotFound, got %v", err)
	}
}

func TestRuleStore_SetRuleModeSendsPartialUpdate(t *testing.T) {
	var gotBody map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(model.Rule{ID: "rl_1", Mode: model.RuleModePaused})
	}))

	store := NewRuleStore(client, "la_redoute")
	rule, err := store.SetRuleMode(context.Background(), "rl_1", model.RuleModePaused)
	if err != nil {
		t.Fatalf("SetRuleMode() failed: %v", err)
	}

	if len(gotBody) != 1 || gotBody["mode"] != "paused" {
		t.Errorf("expected body with only mode, got %v", gotBody)
	}
	if rule.Mode != model.RuleModePaused {
		t.Errorf("expected paused rule back, got %s", rule.Mode)
	}
}

func TestRuleStore_PreviewDecodesStringifiedBody(t *testing.T) {
	result := model.PreviewResult{
		Before: []model.RecoItem{{ProductID: "a"}},
		After:  []model.RecoItem{{ProductID: "a"}},
	}
	inner, _ := json.Marshal(result)
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode("=" + string(inner))
	}))

	store := NewRuleStore(client, "la_redoute")
	got, err := store.Preview(context.Background(), services.PreviewQuery{ProductID: "a", Kind: model.KindSimilar})
	if err != nil {
		t.Fatalf("Preview() failed: %v", err)
	}
	if len(got.Before) != 1 || len(got.After) != 1 {
		t.Errorf("expected one item per list, got %+v", got)
	}
}

func TestCatalog_LookupChunks(t *testing.T) {
	var batches [][]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			IDs []string `json:"ids"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		batches = append(batches, body.IDs)

		products := make([]model.Product, 0, len(body.IDs))
		for _, id := range body.IDs {
			products = append(products, model.Product{ProductID: id})
		}
		json.NewEncoder(w).Encode(products)
	}))

	catalog := NewCatalog(client, "la_redoute", 2)
	ids := []string{"p1", "p2", "p3", "p4", "p5"}
	products, err := catalog.Lookup(context.Background(), "", ids)
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}

	if len(batches) != 3 {
		t.Fatalf("expected 3 chunks of size 2, got %d: %v", len(batches), batches)
	}
	if len(batches[2]) != 1 || batches[2][0] != "p5" {
		t.Errorf("expected final chunk [p5], got %v", batches[2])
	}
	if len(products) != 5 {
		t.Errorf("expected all 5 products back, got %d", len(products))
	}
}

func TestCatalog_LookupEmptyIDsSkipsBackend(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty id list")
	}))

	catalog := NewCatalog(client, "la_redoute", 50)
	products, err := catalog.Lookup(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("expected empty result, got %v", products)
	}
}

func TestCachedRecommender_ServesFromCache(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode([]model.RecoItem{{ProductID: "p1"}})
	}))

	reco := NewCachedRecommender(
		NewRecommender(client, "la_redoute"),
		cache.NewMemory(),
		time.Minute,
		zap.NewNop(),
		metrics.New(prometheus.NewRegistry()),
	)
	q := services.RecommendationQuery{ProductID: "p0", Kind: model.KindSimilar, Limit: 10}

	for i := 0; i < 3; i++ {
		items, err := reco.Recommendations(context.Background(), q)
		if err != nil {
			t.Fatalf("Recommendations() failed: %v", err)
		}
		if len(items) != 1 || items[0].ProductID != "p1" {
			t.Fatalf("unexpected items: %+v", items)
		}
	}

	if calls != 1 {
		t.Errorf("expected one backend call for three reads, got %d", calls)
	}
}

func TestCachedRecommender_RefreshBypassesCache(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode([]model.RecoItem{{ProductID: "p1"}})
	}))

	reco := NewCachedRecommender(
		NewRecommender(client, "la_redoute"),
		cache.NewMemory(),
		time.Minute,
		zap.NewNop(),
		metrics.New(prometheus.NewRegistry()),
	)
	q := services.RecommendationQuery{ProductID: "p0", Kind: model.KindSimilar}

	if _, err := reco.Recommendations(context.Background(), q); err != nil {
		t.Fatalf("Recommendations() failed: %v", err)
	}
	if _, err := reco.Refresh(context.Background(), q); err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}

	if calls != 2 {
		t.Errorf("expected refresh to reach the backend, got %d calls", calls)
	}
}

type failingRuleStore struct{ services.RuleStore }

func (failingRuleStore) ListRules(context.Context, services.ListRulesQuery) (services.RuleList, error) {
	return services.RuleList{}, apperrors.NewBackendError("rules_list", 0, errors.New("connection refused"))
}

type staticRuleStore struct {
	services.RuleStore
	list services.RuleList
}

func (s staticRuleStore) ListRules(context.Context, services.ListRulesQuery) (services.RuleList, error) {
	return s.list, nil
}

func TestFallbackRuleStore_ListFallsBackToStandby(t *testing.T) {
	standby := staticRuleStore{list: services.RuleList{
		Items: []model.Rule{{ID: "rl_fix"}}, Total: 1, Page: 1, PageSize: 20,
	}}
	store := NewFallbackRuleStore(failingRuleStore{}, standby, zap.NewNop(), metrics.New(prometheus.NewRegistry()))

	list, err := store.ListRules(context.Background(), services.ListRulesQuery{})
	if err != nil {
		t.Fatalf("expected standby data, got error %v", err)
	}
	if list.Source != services.SourceFixture {
		t.Errorf("expected fixture source marker, got %q", list.Source)
	}
	if len(list.Items) != 1 || list.Items[0].ID != "rl_fix" {
		t.Errorf("expected standby items, got %+v", list.Items)
	}
}

func TestIngestion_RequiresExactlyOneFeedSource(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("validation failures must not reach the backend")
	}))
	svc := NewIngestion(client, "la_redoute")

	_, err := svc.StartIngestion(context.Background(), services.IngestionRequest{FeedType: "json"})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput with no source, got %v", err)
	}

	_, err = svc.StartIngestion(context.Background(), services.IngestionRequest{
		FeedType:   "json",
		FeedURL:    "https://example.com/feed.json",
		FeedInline: json.RawMessage(`[]`),
	})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput with both sources, got %v", err)
	}
}

func TestHealth_NormalizesUndecodableBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`OK`))
	}))

	status, err := NewHealth(client).Health(context.Background())
	if err != nil {
		t.Fatalf("Health() failed: %v", err)
	}
	if status.Status != "ok" || status.Source != services.SourceLive {
		t.Errorf("expected normalized ok/live status, got %+v", status)
	}
}
