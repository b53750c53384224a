package model

// Product is a catalog entry as served by the external catalog service.
// The catalog is owned by the backend; this system only renders it and
// uses product ids to enrich recommendation candidates.
type Product struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name,omitempty"`
	Brand     string   `json:"brand,omitempty"`
	Vendor    string   `json:"vendor,omitempty"`
	Category  string   `json:"category,omitempty"`
	ImageURL  string   `json:"image_url,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	Currency  string   `json:"currency,omitempty"`
	InStock   *bool    `json:"in_stock,omitempty"`
	Stock     *int     `json:"stock,omitempty"`
}
