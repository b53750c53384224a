package backend

import (
	"context"
	"net/url"
	"strconv"

	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

// Analytics implements services.AnalyticsProvider against the webhook
// API's precomputed analytics endpoints. All aggregation happens in the
// backend; every method is a straight fetch-and-decode.
type Analytics struct {
	client *Client
	tenant string
}

func NewAnalytics(client *Client, defaultTenant string) *Analytics {
	return &Analytics{client: client, tenant: defaultTenant}
}

func (a *Analytics) query(q services.AnalyticsQuery) url.Values {
	tenant := q.Tenant
	if tenant == "" {
		tenant = a.tenant
	}
	values := url.Values{"tenant": {tenant}}
	if q.DateFrom != "" {
		values.Set("date_from", q.DateFrom)
	}
	if q.DateTo != "" {
		values.Set("date_to", q.DateTo)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.WindowDays > 0 {
		values.Set("window_days", strconv.Itoa(q.WindowDays))
	}
	return values
}

func fetchSeries[T any](ctx context.Context, a *Analytics, op, path string, q services.AnalyticsQuery) ([]T, error) {
	raw, err := a.client.get(ctx, op, path, a.query(q))
	if err != nil {
		return nil, err
	}
	return DecodeItems[T](Normalize(raw)), nil
}

func (a *Analytics) TopViewed(ctx context.Context, q services.AnalyticsQuery) ([]model.LeaderboardEntry, error) {
	return fetchSeries[model.LeaderboardEntry](ctx, a, "analytics_top_viewed", "analytics/top-viewed", q)
}

func (a *Analytics) TopSales(ctx context.Context, q services.AnalyticsQuery) ([]model.LeaderboardEntry, error) {
	return fetchSeries[model.LeaderboardEntry](ctx, a, "analytics_top_sales", "analytics/top-sales", q)
}

func (a *Analytics) Trending(ctx context.Context, q services.AnalyticsQuery) ([]model.LeaderboardEntry, error) {
	return fetchSeries[model.LeaderboardEntry](ctx, a, "analytics_trending", "analytics/trending", q)
}

func (a *Analytics) ViewsDaily(ctx context.Context, q services.AnalyticsQuery) ([]model.DailyViews, error) {
	return fetchSeries[model.DailyViews](ctx, a, "analytics_views_daily", "analytics/views-daily", q)
}

func (a *Analytics) BrandShare(ctx context.Context, q services.AnalyticsQuery) ([]model.ShareRow, error) {
	return fetchSeries[model.ShareRow](ctx, a, "analytics_brand_share", "analytics/brand-share", q)
}

func (a *Analytics) CategoryShare(ctx context.Context, q services.AnalyticsQuery) ([]model.ShareRow, error) {
	return fetchSeries[model.ShareRow](ctx, a, "analytics_category_share", "analytics/category-share", q)
}

func (a *Analytics) RunsStats(ctx context.Context, q services.AnalyticsQuery) ([]model.RunsStat, error) {
	return fetchSeries[model.RunsStat](ctx, a, "analytics_runs_stats", "analytics/runs-stats", q)
}
