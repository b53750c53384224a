package services

import (
	"context"
	"encoding/json"

	"github.com/merchpilot/reco-console/model"
)

// Source values used to distinguish live backend data from the
// deterministic offline fixture dataset.
const (
	SourceLive    = "live"
	SourceFixture = "fixture"
)

// ListRulesQuery carries the filter criteria for a rule listing.
// Mode and Kind accept "all" (or empty) to match everything.
type ListRulesQuery struct {
	Tenant   string
	Mode     string
	Kind     string
	Query    string
	Page     int // 1-based
	PageSize int
}

// RuleList is one page of a filtered rule listing. Total counts the whole
// filtered sequence, not the page.
type RuleList struct {
	Items    []model.Rule `json:"items"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Source   string       `json:"source,omitempty"`
}

// PreviewQuery identifies one before/after preview request. RuleID is
// optional: when empty the preview engine applies all active rules.
type PreviewQuery struct {
	Tenant    string
	ProductID string
	Kind      model.RecoKind
	RuleID    string
}

// RuleStore owns persisted rule documents. The remote implementation
// forwards to the external rule store over HTTP; the fixture
// implementation serves a deterministic in-memory dataset.
type RuleStore interface {
	ListRules(ctx context.Context, q ListRulesQuery) (RuleList, error)
	GetRule(ctx context.Context, ruleID string) (model.Rule, error)
	CreateRule(ctx context.Context, rule model.Rule) (model.Rule, error)
	UpdateRule(ctx context.Context, rule model.Rule) (model.Rule, error)
	SetRuleMode(ctx context.Context, ruleID string, mode model.RuleMode) (model.Rule, error)
	DeleteRule(ctx context.Context, ruleID string) error
	Preview(ctx context.Context, q PreviewQuery) (model.PreviewResult, error)
}

// ProductQuery carries catalog listing criteria.
type ProductQuery struct {
	Tenant   string
	Query    string
	Page     int
	Limit    int
	InStock  *bool
	Category string
}

// ProductList is one page of catalog results.
type ProductList struct {
	Items  []model.Product `json:"items"`
	Total  int             `json:"total,omitempty"`
	Source string          `json:"source,omitempty"`
}

// CatalogService exposes catalog browsing and batched product lookups.
// Lookup implementations fetch details in fixed-size id chunks.
type CatalogService interface {
	Products(ctx context.Context, q ProductQuery) (ProductList, error)
	Lookup(ctx context.Context, tenant string, ids []string) ([]model.Product, error)
}

// RecommendationQuery identifies one ranked candidate list.
type RecommendationQuery struct {
	Tenant    string
	ProductID string
	Kind      model.RecoKind
	Limit     int
}

// Recommender exposes the external recommendation service's ranked
// candidate lists. Refresh bypasses any cached copy.
type Recommender interface {
	Recommendations(ctx context.Context, q RecommendationQuery) ([]model.RecoItem, error)
	Refresh(ctx context.Context, q RecommendationQuery) ([]model.RecoItem, error)
}

// IngestionRequest triggers one feed ingestion. Exactly one of FeedURL and
// FeedInline should be set.
type IngestionRequest struct {
	Tenant     string          `json:"tenant"`
	FeedURL    string          `json:"feed_url,omitempty"`
	FeedInline json.RawMessage `json:"feed_inline,omitempty"`
	FeedType   string          `json:"feed_type"`
	BatchSize  int             `json:"batch_size,omitempty"`
	DryRun     bool            `json:"dry_run,omitempty"`
}

// IngestionService triggers feed ingestions and lists run history.
type IngestionService interface {
	StartIngestion(ctx context.Context, req IngestionRequest) (model.Run, error)
	Runs(ctx context.Context, tenant string, runType model.RunType, limit int) ([]model.Run, error)
}

// AnalyticsQuery carries the date range and limits shared by all
// leaderboard and time-series queries.
type AnalyticsQuery struct {
	Tenant     string
	DateFrom   string
	DateTo     string
	Limit      int
	WindowDays int
}

// AnalyticsProvider exposes the precomputed analytics series owned by the
// external analytics backend.
type AnalyticsProvider interface {
	TopViewed(ctx context.Context, q AnalyticsQuery) ([]model.LeaderboardEntry, error)
	TopSales(ctx context.Context, q AnalyticsQuery) ([]model.LeaderboardEntry, error)
	Trending(ctx context.Context, q AnalyticsQuery) ([]model.LeaderboardEntry, error)
	ViewsDaily(ctx context.Context, q AnalyticsQuery) ([]model.DailyViews, error)
	BrandShare(ctx context.Context, q AnalyticsQuery) ([]model.ShareRow, error)
	CategoryShare(ctx context.Context, q AnalyticsQuery) ([]model.ShareRow, error)
	RunsStats(ctx context.Context, q AnalyticsQuery) ([]model.RunsStat, error)
}

// HealthChecker probes backend liveness.
type HealthChecker interface {
	Health(ctx context.Context) (model.HealthStatus, error)
}
