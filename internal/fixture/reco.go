package fixture

import (
	"context"

	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

// Recommender is the fixture implementation of services.Recommender. The
// lists are derived from the catalog with fixed scores so the same query
// always yields the same ranking.
type Recommender struct {
	products []model.Product
}

func NewRecommender() *Recommender {
	return &Recommender{products: seedProducts()}
}

func (r *Recommender) Recommendations(_ context.Context, q services.RecommendationQuery) ([]model.RecoItem, error) {
	return recommend(r.products, q.ProductID, q.Kind, q.Limit), nil
}

// Refresh is identical to Recommendations: fixture data has nothing to
// recompute.
func (r *Recommender) Refresh(ctx context.Context, q services.RecommendationQuery) ([]model.RecoItem, error) {
	return r.Recommendations(ctx, q)
}

const defaultRecoLimit = 8

// recommend derives a ranked candidate list from the catalog. Similar
// lists favor the anchor's category, complementary lists favor the
// anchor's brand in other categories, and x-sell lists take whatever is
// left. Scores decay with position.
func recommend(products []model.Product, productID string, kind model.RecoKind, limit int) []model.RecoItem {
	if limit <= 0 {
		limit = defaultRecoLimit
	}

	var anchor *model.Product
	for i := range products {
		if products[i].ProductID == productID {
			anchor = &products[i]
			break
		}
	}

	var preferred, rest []model.Product
	for _, p := range products {
		if p.ProductID == productID {
			continue
		}
		if anchor != nil && prefers(kind, *anchor, p) {
			preferred = append(preferred, p)
		} else {
			rest = append(rest, p)
		}
	}

	ordered := append(preferred, rest...)
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}

	items := make([]model.RecoItem, 0, len(ordered))
	for i, p := range ordered {
		score := 0.95 - 0.06*float64(i)
		if score < 0.05 {
			score = 0.05
		}
		rank := i
		items = append(items, model.RecoItem{
			ProductID: p.ProductID,
			Name:      p.Name,
			ImageURL:  p.ImageURL,
			Price:     p.Price,
			Brand:     p.Brand,
			Score:     floatPtr(score),
			Rank:      &rank,
		})
	}
	return items
}

func prefers(kind model.RecoKind, anchor, candidate model.Product) bool {
	switch kind {
	case model.KindSimilar:
		return candidate.Category == anchor.Category
	case model.KindComplementary:
		return candidate.Category != anchor.Category && candidate.Brand == anchor.Brand
	case model.KindXSell:
		return candidate.Category != anchor.Category && candidate.Brand != anchor.Brand
	default:
		return false
	}
}
