package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merchpilot/reco-console/internal/preview"
	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

// previewRequest is the body of a preview query. Kind defaults to
// "similar"; RuleID narrows the preview to a single rule, drafts
// included.
type previewRequest struct {
	Tenant    string `json:"tenant,omitempty"`
	ProductID string `json:"product_id"`
	Kind      string `json:"kind,omitempty"`
	RuleID    string `json:"rule_id,omitempty"`
}

// previewResponse carries both annotated lists plus the raw diff
// entries, in the rank order the evaluator returned them.
type previewResponse struct {
	Before []preview.DisplayItem `json:"before"`
	After  []preview.DisplayItem `json:"after"`
	Diffs  []model.PreviewDiff   `json:"diffs,omitempty"`
}

// PreviewHandler runs a before/after preview for one product and kind.
// Request Body: previewRequest
func (api *API) PreviewHandler(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if req.ProductID == "" {
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "product_id is required")
		return
	}
	kind := model.RecoKind(req.Kind)
	if req.Kind == "" {
		kind = model.KindSimilar
	} else if !model.ValidKinds[kind] {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Unknown kind '"+req.Kind+"'")
		return
	}
	if req.Tenant == "" {
		req.Tenant = api.tenant(c)
	}

	result, err := api.deps.Rules.Preview(c.Request.Context(), services.PreviewQuery{
		Tenant:    req.Tenant,
		ProductID: req.ProductID,
		Kind:      kind,
		RuleID:    req.RuleID,
	})
	if err != nil {
		SendServiceError(c, err)
		return
	}

	before, after := preview.Present(result)
	diffs := result.Diffs
	if len(diffs) == 0 {
		diffs = preview.Derive(result.Before, result.After)
	}

	c.JSON(http.StatusOK, previewResponse{Before: before, After: after, Diffs: diffs})
}
