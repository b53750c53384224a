package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/merchpilot/reco-console/internal/rules"
	"github.com/merchpilot/reco-console/services"
)

// Deps bundles the collaborators the handlers call into. Every field is
// an interface so the same handlers serve both the live backend and the
// fixture dataset.
type Deps struct {
	Rules         services.RuleStore
	Catalog       services.CatalogService
	Reco          services.Recommender
	Ingestion     services.IngestionService
	Analytics     services.AnalyticsProvider
	Health        services.HealthChecker
	Logger        *zap.Logger
	DefaultTenant string
}

// API holds dependencies for API handlers.
type API struct {
	deps    Deps
	session *rules.Session
}

// NewAPI creates a new API handler structure.
func NewAPI(deps Deps) *API {
	return &API{
		deps:    deps,
		session: rules.NewSession(deps.Rules),
	}
}

// SetupRoutes defines all the console's routes.
func SetupRoutes(router *gin.Engine, deps Deps, gatherer prometheus.Gatherer) {
	apiHandler := NewAPI(deps)

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	{
		ruleRoutes := v1.Group("/rules")
		{
			ruleRoutes.GET("", apiHandler.ListRulesHandler)             // List rules with filters and pagination
			ruleRoutes.POST("", apiHandler.CreateRuleHandler)           // Create a rule from a document
			ruleRoutes.POST("/form", apiHandler.CreateRuleFormHandler)  // Create a rule from the editor form
			ruleRoutes.POST("/preview", apiHandler.PreviewHandler)      // Before/after preview
			ruleRoutes.GET("/:ruleId", apiHandler.GetRuleHandler)       // Get one rule document
			ruleRoutes.GET("/:ruleId/form", apiHandler.GetRuleFormHandler)
			ruleRoutes.PUT("/:ruleId", apiHandler.UpdateRuleHandler)    // Replace a rule document
			ruleRoutes.PUT("/:ruleId/form", apiHandler.UpdateRuleFormHandler)
			ruleRoutes.POST("/:ruleId/toggle", apiHandler.ToggleRuleHandler) // Pause/resume
			ruleRoutes.DELETE("/:ruleId", apiHandler.DeleteRuleHandler)
		}

		productRoutes := v1.Group("/products")
		{
			productRoutes.GET("", apiHandler.ListProductsHandler)
			productRoutes.POST("/lookup", apiHandler.LookupProductsHandler)
			productRoutes.GET("/:productId/recommendations", apiHandler.RecommendationsHandler)
		}

		v1.POST("/ingest/start", apiHandler.StartIngestionHandler)
		v1.GET("/runs", apiHandler.ListRunsHandler)

		analyticsRoutes := v1.Group("/analytics")
		{
			analyticsRoutes.GET("/leaderboards", apiHandler.LeaderboardsHandler)
			analyticsRoutes.GET("/top-viewed", apiHandler.TopViewedHandler)
			analyticsRoutes.GET("/top-sales", apiHandler.TopSalesHandler)
			analyticsRoutes.GET("/trending", apiHandler.TrendingHandler)
			analyticsRoutes.GET("/views-daily", apiHandler.ViewsDailyHandler)
			analyticsRoutes.GET("/brand-share", apiHandler.BrandShareHandler)
			analyticsRoutes.GET("/category-share", apiHandler.CategoryShareHandler)
			analyticsRoutes.GET("/runs-stats", apiHandler.RunsStatsHandler)
		}
	}
}

// HealthCheckHandler reports backend reachability. The response is 200
// even when degraded: the console itself is up either way.
func (api *API) HealthCheckHandler(c *gin.Context) {
	status, err := api.deps.Health.Health(c.Request.Context())
	if err != nil {
		SendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// tenant resolves the effective tenant for a request.
func (api *API) tenant(c *gin.Context) string {
	if t := c.Query("tenant"); t != "" {
		return t
	}
	return api.deps.DefaultTenant
}
