package model

// RecoItem is one recommendation candidate in a ranked list. It is
// transient: the recommendation service owns scoring and this system never
// persists candidates. A nil Score means the backend sent no score, which
// is distinct from a zero score.
type RecoItem struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name,omitempty"`
	ImageURL  string   `json:"image_url,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	Brand     string   `json:"brand,omitempty"`
	Score     *float64 `json:"score,omitempty"` // unit interval
	Rank      *int     `json:"rank,omitempty"`
}

// DiffChange describes how one product was affected between the before and
// after lists of a preview.
type DiffChange string

const (
	DiffPinned    DiffChange = "pinned"
	DiffBlocked   DiffChange = "blocked"
	DiffBoosted   DiffChange = "boosted"
	DiffPenalized DiffChange = "penalized"
	DiffMoved     DiffChange = "moved"
)

// PreviewDiff annotates one product's change between the before and after
// lists. Delta/From/To are rank or score values depending on the change.
type PreviewDiff struct {
	ProductID string     `json:"product_id"`
	Change    DiffChange `json:"change"`
	Delta     *float64   `json:"delta,omitempty"`
	From      *int       `json:"from,omitempty"`
	To        *int       `json:"to,omitempty"`
}

// PreviewResult pairs the before and after ranked lists for one
// (product, kind) preview query. List order is the authoritative rank
// order as returned by the preview engine and must never be reordered.
type PreviewResult struct {
	Before []RecoItem    `json:"before"`
	After  []RecoItem    `json:"after"`
	Diffs  []PreviewDiff `json:"diffs,omitempty"`
}
