package fixture

import (
	"context"
	"time"

	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

// Analytics is the fixture implementation of services.AnalyticsProvider.
// Leaderboards and shares are static; the daily series is generated
// deterministically from the requested date range.
type Analytics struct{}

func NewAnalytics() *Analytics {
	return &Analytics{}
}

func limitEntries(entries []model.LeaderboardEntry, limit int) []model.LeaderboardEntry {
	if limit > 0 && limit < len(entries) {
		return entries[:limit]
	}
	return entries
}

func (a *Analytics) TopViewed(_ context.Context, q services.AnalyticsQuery) ([]model.LeaderboardEntry, error) {
	return limitEntries([]model.LeaderboardEntry{
		{ProductID: "prod_run_001", Name: "Nike Pegasus 41", Brand: "Nike", Views: 18420},
		{ProductID: "prod_run_002", Name: "Adidas Ultraboost 5", Brand: "Adidas", Views: 15780},
		{ProductID: "prod_watch_001", Name: "Garmin Forerunner 165", Brand: "Garmin", Views: 11930},
		{ProductID: "prod_run_003", Name: "Puma Velocity Nitro 3", Brand: "Puma", Views: 9340},
		{ProductID: "prod_short_001", Name: "Nike Challenger Shorts", Brand: "Nike", Views: 7210},
	}, q.Limit), nil
}

func (a *Analytics) TopSales(_ context.Context, q services.AnalyticsQuery) ([]model.LeaderboardEntry, error) {
	return limitEntries([]model.LeaderboardEntry{
		{ProductID: "prod_run_001", Name: "Nike Pegasus 41", Brand: "Nike", Units: 642, Revenue: 83450.58},
		{ProductID: "prod_sock_001", Name: "Nike Crew Socks 3-Pack", Brand: "Nike", Units: 1180, Revenue: 17688.20},
		{ProductID: "prod_run_002", Name: "Adidas Ultraboost 5", Brand: "Adidas", Units: 389, Revenue: 70016.11},
		{ProductID: "prod_bottle_001", Name: "Salomon Soft Flask 500ml", Brand: "Salomon", Units: 455, Revenue: 11370.45},
		{ProductID: "prod_short_001", Name: "Nike Challenger Shorts", Brand: "Nike", Units: 310, Revenue: 12396.90},
	}, q.Limit), nil
}

func (a *Analytics) Trending(_ context.Context, q services.AnalyticsQuery) ([]model.LeaderboardEntry, error) {
	return limitEntries([]model.LeaderboardEntry{
		{ProductID: "prod_watch_001", Name: "Garmin Forerunner 165", Brand: "Garmin", Views: 4120},
		{ProductID: "prod_run_003", Name: "Puma Velocity Nitro 3", Brand: "Puma", Views: 3670},
		{ProductID: "prod_bottle_001", Name: "Salomon Soft Flask 500ml", Brand: "Salomon", Views: 2980},
	}, q.Limit), nil
}

func (a *Analytics) ViewsDaily(_ context.Context, q services.AnalyticsQuery) ([]model.DailyViews, error) {
	from, to := resolveRange(q)

	out := []model.DailyViews{}
	for day := from; !day.After(to); day = day.Add(24 * time.Hour) {
		// Deterministic weekly shape: weekends dip, midweek peaks.
		base := 5200
		switch day.Weekday() {
		case time.Saturday, time.Sunday:
			base = 3400
		case time.Wednesday, time.Thursday:
			base = 6100
		}
		out = append(out, model.DailyViews{
			Date:  day.Format("2006-01-02"),
			Views: base + day.Day()*17,
		})
	}
	return out, nil
}

func (a *Analytics) BrandShare(_ context.Context, _ services.AnalyticsQuery) ([]model.ShareRow, error) {
	return []model.ShareRow{
		{Key: "Nike", Count: 4210, Share: 0.36},
		{Key: "Adidas", Count: 2920, Share: 0.25},
		{Key: "Puma", Count: 1640, Share: 0.14},
		{Key: "Garmin", Count: 1170, Share: 0.10},
		{Key: "Asics", Count: 940, Share: 0.08},
		{Key: "other", Count: 820, Share: 0.07},
	}, nil
}

func (a *Analytics) CategoryShare(_ context.Context, _ services.AnalyticsQuery) ([]model.ShareRow, error) {
	return []model.ShareRow{
		{Key: "Homme/Chaussures/Running", Count: 5230, Share: 0.45},
		{Key: "Homme/Vetements/Shorts", Count: 2090, Share: 0.18},
		{Key: "Electronique/Montres", Count: 1860, Share: 0.16},
		{Key: "Homme/Accessoires/Chaussettes", Count: 1390, Share: 0.12},
		{Key: "Sport/Hydratation", Count: 1050, Share: 0.09},
	}, nil
}

func (a *Analytics) RunsStats(_ context.Context, q services.AnalyticsQuery) ([]model.RunsStat, error) {
	from, to := resolveRange(q)

	out := []model.RunsStat{}
	for day := from; !day.After(to); day = day.Add(24 * time.Hour) {
		total := 4
		failed := 0
		if day.Day()%5 == 0 {
			failed = 1
		}
		out = append(out, model.RunsStat{
			Date:   day.Format("2006-01-02"),
			Total:  total,
			OK:     total - failed,
			Failed: failed,
		})
	}
	return out, nil
}

// resolveRange turns the query's date bounds into a concrete window,
// defaulting to the 14 days ending 2025-06-22 so fixture charts stay
// stable over time.
func resolveRange(q services.AnalyticsQuery) (time.Time, time.Time) {
	defaultTo := time.Date(2025, time.June, 22, 0, 0, 0, 0, time.UTC)

	to := defaultTo
	if parsed, err := time.Parse("2006-01-02", q.DateTo); err == nil {
		to = parsed
	}

	window := q.WindowDays
	if window <= 0 {
		window = 14
	}
	from := to.Add(-time.Duration(window-1) * 24 * time.Hour)
	if parsed, err := time.Parse("2006-01-02", q.DateFrom); err == nil {
		from = parsed
	}

	if from.After(to) {
		from = to
	}
	return from, to
}
