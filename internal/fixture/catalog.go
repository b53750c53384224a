package fixture

import (
	"context"
	"strings"

	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

// seedProducts returns the built-in catalog. The dataset is small but
// deliberately covers every attribute the rules reference: an
// out-of-stock product, a blocked vendor, and several brands for the
// diversity cap.
func seedProducts() []model.Product {
	return []model.Product{
		{ProductID: "prod_run_001", Name: "Nike Pegasus 41", Brand: "Nike", Vendor: "la_redoute", Category: "Homme/Chaussures/Running", Price: floatPtr(129.99), Currency: "EUR", InStock: boolPtr(true), Stock: intPtr(42)},
		{ProductID: "prod_run_002", Name: "Adidas Ultraboost 5", Brand: "Adidas", Vendor: "la_redoute", Category: "Homme/Chaussures/Running", Price: floatPtr(179.99), Currency: "EUR", InStock: boolPtr(true), Stock: intPtr(17)},
		{ProductID: "prod_run_003", Name: "Puma Velocity Nitro 3", Brand: "Puma", Vendor: "la_redoute", Category: "Homme/Chaussures/Running", Price: floatPtr(119.99), Currency: "EUR", InStock: boolPtr(true), Stock: intPtr(8)},
		{ProductID: "prod_run_004", Name: "Nike Vomero 17", Brand: "Nike", Vendor: "la_redoute", Category: "Homme/Chaussures/Running", Price: floatPtr(159.99), Currency: "EUR", InStock: boolPtr(false), Stock: intPtr(0)},
		{ProductID: "prod_run_005", Name: "Asics Gel-Nimbus 26", Brand: "Asics", Vendor: "market_bad", Category: "Homme/Chaussures/Running", Price: floatPtr(189.99), Currency: "EUR", InStock: boolPtr(true), Stock: intPtr(3)},
		{ProductID: "prod_sock_001", Name: "Nike Crew Socks 3-Pack", Brand: "Nike", Vendor: "la_redoute", Category: "Homme/Accessoires/Chaussettes", Price: floatPtr(14.99), Currency: "EUR", InStock: boolPtr(true), Stock: intPtr(120)},
		{ProductID: "prod_sock_002", Name: "Adidas Running Socks", Brand: "Adidas", Vendor: "la_redoute", Category: "Homme/Accessoires/Chaussettes", Price: floatPtr(12.99), Currency: "EUR", InStock: boolPtr(true), Stock: intPtr(95)},
		{ProductID: "prod_short_001", Name: "Nike Challenger Shorts", Brand: "Nike", Vendor: "la_redoute", Category: "Homme/Vetements/Shorts", Price: floatPtr(39.99), Currency: "EUR", InStock: boolPtr(true), Stock: intPtr(31)},
		{ProductID: "prod_short_002", Name: "Puma Run Favourite Shorts", Brand: "Puma", Vendor: "market_bad", Category: "Homme/Vetements/Shorts", Price: floatPtr(29.99), Currency: "EUR", InStock: boolPtr(true), Stock: intPtr(12)},
		{ProductID: "prod_watch_001", Name: "Garmin Forerunner 165", Brand: "Garmin", Vendor: "la_redoute", Category: "Electronique/Montres", Price: floatPtr(279.99), Currency: "EUR", InStock: boolPtr(true), Stock: intPtr(6)},
		{ProductID: "prod_watch_002", Name: "Polar Pacer Pro", Brand: "Polar", Vendor: "la_redoute", Category: "Electronique/Montres", Price: floatPtr(299.99), Currency: "EUR", InStock: boolPtr(false), Stock: intPtr(0)},
		{ProductID: "prod_bottle_001", Name: "Salomon Soft Flask 500ml", Brand: "Salomon", Vendor: "la_redoute", Category: "Sport/Hydratation", Price: floatPtr(24.99), Currency: "EUR", InStock: boolPtr(true), Stock: intPtr(54)},
	}
}

func intPtr(v int) *int { return &v }

// Catalog is the fixture implementation of services.CatalogService.
type Catalog struct {
	products []model.Product
}

func NewCatalog() *Catalog {
	return &Catalog{products: seedProducts()}
}

func (c *Catalog) Products(_ context.Context, q services.ProductQuery) (services.ProductList, error) {
	matched := make([]model.Product, 0, len(c.products))
	query := strings.ToLower(strings.TrimSpace(q.Query))

	for _, p := range c.products {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Brand), query) &&
			!strings.Contains(strings.ToLower(p.ProductID), query) {
			continue
		}
		if q.Category != "" && !strings.HasPrefix(p.Category, q.Category) {
			continue
		}
		if q.InStock != nil && (p.InStock == nil || *p.InStock != *q.InStock) {
			continue
		}
		matched = append(matched, p)
	}

	total := len(matched)

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return services.ProductList{
		Items:  matched[start:end],
		Total:  total,
		Source: services.SourceFixture,
	}, nil
}

func (c *Catalog) Lookup(_ context.Context, _ string, ids []string) ([]model.Product, error) {
	byID := make(map[string]model.Product, len(c.products))
	for _, p := range c.products {
		byID[p.ProductID] = p
	}

	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
