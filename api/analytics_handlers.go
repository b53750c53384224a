package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

func (api *API) analyticsQuery(c *gin.Context) services.AnalyticsQuery {
	return services.AnalyticsQuery{
		Tenant:     api.tenant(c),
		DateFrom:   c.Query("date_from"),
		DateTo:     c.Query("date_to"),
		Limit:      intQuery(c, "limit", 10),
		WindowDays: intQuery(c, "window_days", 14),
	}
}

// LeaderboardsHandler bundles the two headline leaderboards shown
// together on the performance page.
func (api *API) LeaderboardsHandler(c *gin.Context) {
	ctx := c.Request.Context()
	q := api.analyticsQuery(c)

	viewed, err := api.deps.Analytics.TopViewed(ctx, q)
	if err != nil {
		SendServiceError(c, err)
		return
	}
	sales, err := api.deps.Analytics.TopSales(ctx, q)
	if err != nil {
		SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Leaderboards{TopViewed: viewed, TopSales: sales})
}

func (api *API) TopViewedHandler(c *gin.Context) {
	api.sendSeries(c, func(q services.AnalyticsQuery) (interface{}, error) {
		return api.deps.Analytics.TopViewed(c.Request.Context(), q)
	})
}

func (api *API) TopSalesHandler(c *gin.Context) {
	api.sendSeries(c, func(q services.AnalyticsQuery) (interface{}, error) {
		return api.deps.Analytics.TopSales(c.Request.Context(), q)
	})
}

func (api *API) TrendingHandler(c *gin.Context) {
	api.sendSeries(c, func(q services.AnalyticsQuery) (interface{}, error) {
		return api.deps.Analytics.Trending(c.Request.Context(), q)
	})
}

func (api *API) ViewsDailyHandler(c *gin.Context) {
	api.sendSeries(c, func(q services.AnalyticsQuery) (interface{}, error) {
		return api.deps.Analytics.ViewsDaily(c.Request.Context(), q)
	})
}

func (api *API) BrandShareHandler(c *gin.Context) {
	api.sendSeries(c, func(q services.AnalyticsQuery) (interface{}, error) {
		return api.deps.Analytics.BrandShare(c.Request.Context(), q)
	})
}

func (api *API) CategoryShareHandler(c *gin.Context) {
	api.sendSeries(c, func(q services.AnalyticsQuery) (interface{}, error) {
		return api.deps.Analytics.CategoryShare(c.Request.Context(), q)
	})
}

func (api *API) RunsStatsHandler(c *gin.Context) {
	api.sendSeries(c, func(q services.AnalyticsQuery) (interface{}, error) {
		return api.deps.Analytics.RunsStats(c.Request.Context(), q)
	})
}

func (api *API) sendSeries(c *gin.Context, fetch func(services.AnalyticsQuery) (interface{}, error)) {
	series, err := fetch(api.analyticsQuery(c))
	if err != nil {
		SendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": series})
}
