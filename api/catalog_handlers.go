package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/merchpilot/reco-console/internal/preview"
	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

// ListProductsHandler handles paginated catalog browsing.
func (api *API) ListProductsHandler(c *gin.Context) {
	query := services.ProductQuery{
		Tenant:   api.tenant(c),
		Query:    c.Query("q"),
		Page:     intQuery(c, "page", 1),
		Limit:    intQuery(c, "limit", 20),
		Category: c.Query("category"),
	}
	if raw := c.Query("in_stock"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "in_stock must be a boolean")
			return
		}
		query.InStock = &v
	}

	list, err := api.deps.Catalog.Products(c.Request.Context(), query)
	if err != nil {
		SendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// lookupRequest is a batched product detail request.
type lookupRequest struct {
	Tenant string   `json:"tenant,omitempty"`
	IDs    []string `json:"ids"`
}

// LookupProductsHandler fetches details for an explicit id list.
// Request Body: lookupRequest
func (api *API) LookupProductsHandler(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if len(req.IDs) == 0 {
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "ids cannot be empty")
		return
	}
	if req.Tenant == "" {
		req.Tenant = api.tenant(c)
	}

	products, err := api.deps.Catalog.Lookup(c.Request.Context(), req.Tenant, req.IDs)
	if err != nil {
		SendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": products})
}

// recoResponse is one rendered recommendation panel: the annotated
// candidate list for one anchor product and kind.
type recoResponse struct {
	ProductID string                `json:"product_id"`
	Kind      model.RecoKind        `json:"kind"`
	Items     []preview.DisplayItem `json:"items"`
}

// RecommendationsHandler returns the ranked candidate list for one
// product, enriched with catalog details for candidates the
// recommendation service returned as bare ids. refresh=true bypasses the
// cache and recomputes.
func (api *API) RecommendationsHandler(c *gin.Context) {
	productID := c.Param("productId")

	kind := model.RecoKind(c.DefaultQuery("kind", string(model.KindSimilar)))
	if !model.ValidKinds[kind] {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Unknown kind '"+string(kind)+"'")
		return
	}

	query := services.RecommendationQuery{
		Tenant:    api.tenant(c),
		ProductID: productID,
		Kind:      kind,
		Limit:     intQuery(c, "limit", 8),
	}

	ctx := c.Request.Context()
	var items []model.RecoItem
	var err error
	if refresh, _ := strconv.ParseBool(c.Query("refresh")); refresh {
		items, err = api.deps.Reco.Refresh(ctx, query)
	} else {
		items, err = api.deps.Reco.Recommendations(ctx, query)
	}
	if err != nil {
		SendServiceError(c, err)
		return
	}

	items = api.enrich(c, query.Tenant, items)

	display := make([]preview.DisplayItem, 0, len(items))
	for _, item := range items {
		d := preview.DisplayItem{RecoItem: item}
		if pct, ok := preview.ScorePercent(item.Score); ok {
			d.Percent = &pct
		}
		display = append(display, d)
	}

	c.JSON(http.StatusOK, recoResponse{ProductID: productID, Kind: kind, Items: display})
}

// enrich fills in name, brand, image and price for candidates that
// arrived as bare ids, using one batched catalog lookup. Enrichment is
// best effort: a failed lookup leaves the candidates as they came.
func (api *API) enrich(c *gin.Context, tenant string, items []model.RecoItem) []model.RecoItem {
	var missing []string
	for _, item := range items {
		if item.Name == "" {
			missing = append(missing, item.ProductID)
		}
	}
	if len(missing) == 0 {
		return items
	}

	products, err := api.deps.Catalog.Lookup(c.Request.Context(), tenant, missing)
	if err != nil {
		api.deps.Logger.Warn("candidate enrichment lookup failed", zap.Error(err))
		return items
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}
	for i := range items {
		p, ok := byID[items[i].ProductID]
		if !ok {
			continue
		}
		if items[i].Name == "" {
			items[i].Name = p.Name
		}
		if items[i].Brand == "" {
			items[i].Brand = p.Brand
		}
		if items[i].ImageURL == "" {
			items[i].ImageURL = p.ImageURL
		}
		if items[i].Price == nil {
			items[i].Price = p.Price
		}
	}
	return items
}
