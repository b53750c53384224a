package model

// LeaderboardEntry is one row of a product leaderboard (top viewed, top
// sales, trending). Aggregation is owned by the external analytics
// backend; values here are served as received.
type LeaderboardEntry struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name,omitempty"`
	Brand     string  `json:"brand,omitempty"`
	Views     int     `json:"views,omitempty"`
	Units     int     `json:"units,omitempty"`
	Revenue   float64 `json:"revenue,omitempty"`
}

// ShareRow is one slice of a brand or category share breakdown.
type ShareRow struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// DailyViews is one day of the product-view time series.
type DailyViews struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Views int    `json:"views"`
}

// RunsStat aggregates run outcomes for one day.
type RunsStat struct {
	Date   string `json:"date"`
	Total  int    `json:"total"`
	OK     int    `json:"ok"`
	Failed int    `json:"failed"`
}

// Leaderboards bundles the two headline product leaderboards shown
// together on the performance page.
type Leaderboards struct {
	TopViewed []LeaderboardEntry `json:"top_viewed"`
	TopSales  []LeaderboardEntry `json:"top_sales"`
}

// HealthStatus is the normalized shape of the backend health probe.
type HealthStatus struct {
	Status  string      `json:"status"`
	DB      string      `json:"db,omitempty"`
	LastRun interface{} `json:"last_run,omitempty"`
	Source  string      `json:"source,omitempty"` // "live" or "fixture"
}
