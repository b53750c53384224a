// Package preview presents before/after rule previews. The preview engine
// in the external backend owns all scoring; this package only annotates
// and formats what it returns, and never reorders either list.
package preview

import (
	"math"

	"github.com/merchpilot/reco-console/model"
)

// ScorePercent converts a unit-interval score to a display percentage,
// rounded and clamped to [0, 100]. The second return is false when the
// candidate has no score at all, which must render as "no badge" rather
// than 0%.
func ScorePercent(score *float64) (int, bool) {
	if score == nil {
		return 0, false
	}
	pct := int(math.Round(*score * 100))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct, true
}

// DisplayItem is one candidate prepared for rendering: the raw item, its
// percentage badge (nil when unscored), and the diff annotation for this
// product if any.
type DisplayItem struct {
	model.RecoItem
	Percent *int             `json:"percent,omitempty"`
	Change  model.DiffChange `json:"change,omitempty"`
	Delta   *float64         `json:"delta,omitempty"`
}

// Present prepares both lists of a preview result for rendering,
// preserving the server's ordering exactly. When the server sent no diff
// entries, a positional diff is derived locally.
func Present(result model.PreviewResult) (before, after []DisplayItem) {
	diffs := result.Diffs
	if len(diffs) == 0 {
		diffs = Derive(result.Before, result.After)
	}

	byProduct := make(map[string]model.PreviewDiff, len(diffs))
	for _, d := range diffs {
		byProduct[d.ProductID] = d
	}

	before = displayList(result.Before, byProduct, model.DiffBlocked)
	after = displayList(result.After, byProduct, "")
	return before, after
}

// displayList annotates one list. only is non-empty for the before list,
// where the only meaningful annotation is "blocked" (the product vanished
// from the after list); every other change belongs on the after side.
func displayList(items []model.RecoItem, diffs map[string]model.PreviewDiff, only model.DiffChange) []DisplayItem {
	out := make([]DisplayItem, 0, len(items))
	for _, item := range items {
		display := DisplayItem{RecoItem: item}
		if pct, ok := ScorePercent(item.Score); ok {
			display.Percent = &pct
		}
		if d, ok := diffs[item.ProductID]; ok && (only == "" || d.Change == only) {
			display.Change = d.Change
			display.Delta = d.Delta
		}
		out = append(out, display)
	}
	return out
}

// Derive computes a positional diff between the two lists when the server
// sent none. It infers only what positions can prove: products gone from
// the after list are blocked, products appearing only in the after list
// are pinned, and products whose rank changed have moved. Score deltas
// are never recomputed here.
func Derive(before, after []model.RecoItem) []model.PreviewDiff {
	beforeRank := make(map[string]int, len(before))
	for i, item := range before {
		beforeRank[item.ProductID] = i
	}
	afterRank := make(map[string]int, len(after))
	for i, item := range after {
		afterRank[item.ProductID] = i
	}

	var diffs []model.PreviewDiff

	for _, item := range before {
		if _, ok := afterRank[item.ProductID]; !ok {
			from := beforeRank[item.ProductID]
			diffs = append(diffs, model.PreviewDiff{
				ProductID: item.ProductID,
				Change:    model.DiffBlocked,
				From:      &from,
			})
		}
	}

	for i, item := range after {
		from, existed := beforeRank[item.ProductID]
		if !existed {
			to := i
			diffs = append(diffs, model.PreviewDiff{
				ProductID: item.ProductID,
				Change:    model.DiffPinned,
				To:        &to,
			})
			continue
		}
		if from != i {
			to := i
			fromCopy := from
			delta := float64(from - i) // positive = moved up
			diffs = append(diffs, model.PreviewDiff{
				ProductID: item.ProductID,
				Change:    model.DiffMoved,
				From:      &fromCopy,
				To:        &to,
				Delta:     &delta,
			})
		}
	}

	return diffs
}
