package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

// Catalog implements services.CatalogService against the webhook API's
// product endpoints.
type Catalog struct {
	client    *Client
	tenant    string
	chunkSize int
}

func NewCatalog(client *Client, defaultTenant string, lookupChunkSize int) *Catalog {
	if lookupChunkSize <= 0 {
		lookupChunkSize = 50
	}
	return &Catalog{client: client, tenant: defaultTenant, chunkSize: lookupChunkSize}
}

func (c *Catalog) Products(ctx context.Context, q services.ProductQuery) (services.ProductList, error) {
	tenant := q.Tenant
	if tenant == "" {
		tenant = c.tenant
	}

	query := url.Values{"tenant": {tenant}}
	if q.Query != "" {
		query.Set("q", q.Query)
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.InStock != nil {
		query.Set("in_stock", strconv.FormatBool(*q.InStock))
	}
	if q.Category != "" {
		query.Set("category", q.Category)
	}

	raw, err := c.client.get(ctx, "products_list", "products/list", query)
	if err != nil {
		return services.ProductList{}, err
	}

	env := Normalize(raw)
	items := DecodeItems[model.Product](env)
	total := len(items)
	if env.Total != nil {
		total = *env.Total
	}

	return services.ProductList{Items: items, Total: total, Source: services.SourceLive}, nil
}

// Lookup fetches product details in fixed-size id chunks, sequentially.
// The webhook API rejects oversized id lists, and the chunks stay small
// enough that parallelism buys nothing over one connection.
func (c *Catalog) Lookup(ctx context.Context, tenant string, ids []string) ([]model.Product, error) {
	if tenant == "" {
		tenant = c.tenant
	}
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	out := make([]model.Product, 0, len(ids))
	for start := 0; start < len(ids); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(ids) {
			end = len(ids)
		}

		body := map[string]interface{}{
			"tenant": tenant,
			"ids":    ids[start:end],
		}
		raw, err := c.client.send(ctx, "products_lookup", http.MethodPost, "products/lookup", body)
		if err != nil {
			return nil, err
		}
		out = append(out, DecodeItems[model.Product](Normalize(raw))...)
	}

	return out, nil
}
