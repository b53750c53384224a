package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

// StartIngestionHandler triggers one feed ingestion in the backend.
// Request Body: services.IngestionRequest
func (api *API) StartIngestionHandler(c *gin.Context) {
	var req services.IngestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if req.Tenant == "" {
		req.Tenant = api.tenant(c)
	}
	if req.FeedType == "" {
		req.FeedType = "json"
	}
	if req.BatchSize <= 0 {
		req.BatchSize = 100
	}

	run, err := api.deps.Ingestion.StartIngestion(c.Request.Context(), req)
	if err != nil {
		SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, run)
}

// ListRunsHandler lists run history, newest first.
func (api *API) ListRunsHandler(c *gin.Context) {
	runType := model.RunType(c.Query("type"))
	switch runType {
	case "", model.RunTypeIngest, model.RunTypeRecommendations:
	default:
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Unknown run type '"+string(runType)+"'")
		return
	}

	runs, err := api.deps.Ingestion.Runs(c.Request.Context(), api.tenant(c), runType, intQuery(c, "limit", 50))
	if err != nil {
		SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": runs})
}
