package preview

import (
	"testing"

	"github.com/merchpilot/reco-console/model"
)

func floatPtr(v float64) *float64 { return &v }

func TestScorePercent(t *testing.T) {
	tests := []struct {
		name     string
		score    *float64
		wantPct  int
		wantShow bool
	}{
		{name: "typical score", score: floatPtr(0.873), wantPct: 87, wantShow: true},
		{name: "rounds half up", score: floatPtr(0.875), wantPct: 88, wantShow: true},
		{name: "zero", score: floatPtr(0), wantPct: 0, wantShow: true},
		{name: "exactly one", score: floatPtr(1), wantPct: 100, wantShow: true},
		{name: "overshoot clamps to 100", score: floatPtr(1.2), wantPct: 100, wantShow: true},
		{name: "negative clamps to 0", score: floatPtr(-0.3), wantPct: 0, wantShow: true},
		{name: "missing score shows no badge", score: nil, wantPct: 0, wantShow: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct, show := ScorePercent(tt.score)
			if show != tt.wantShow {
				t.Fatalf("expected show=%v, got %v", tt.wantShow, show)
			}
			if pct != tt.wantPct {
				t.Errorf("expected %d%%, got %d%%", tt.wantPct, pct)
			}
		})
	}
}

func item(id string, score *float64) model.RecoItem {
	return model.RecoItem{ProductID: id, Name: "Product " + id, Score: score}
}

func TestDerive(t *testing.T) {
	before := []model.RecoItem{item("a", floatPtr(0.9)), item("b", floatPtr(0.8)), item("c", floatPtr(0.7))}
	after := []model.RecoItem{item("x", nil), item("c", floatPtr(0.7)), item("a", floatPtr(0.9))}

	diffs := Derive(before, after)

	byID := map[string]model.PreviewDiff{}
	for _, d := range diffs {
		byID[d.ProductID] = d
	}

	if d, ok := byID["b"]; !ok || d.Change != model.DiffBlocked {
		t.Errorf("expected b to be blocked, got %+v", d)
	}
	if d, ok := byID["x"]; !ok || d.Change != model.DiffPinned || d.To == nil || *d.To != 0 {
		t.Errorf("expected x to be pinned at rank 0, got %+v", d)
	}
	if d, ok := byID["c"]; !ok || d.Change != model.DiffMoved || d.From == nil || d.To == nil || *d.From != 2 || *d.To != 1 {
		t.Errorf("expected c moved from 2 to 1, got %+v", d)
	}
	if d, ok := byID["a"]; !ok || d.Change != model.DiffMoved || *d.From != 0 || *d.To != 2 {
		t.Errorf("expected a moved from 0 to 2, got %+v", d)
	}
}

func TestDerive_IdenticalListsProduceNoDiffs(t *testing.T) {
	list := []model.RecoItem{item("a", nil), item("b", nil)}
	if diffs := Derive(list, list); len(diffs) != 0 {
		t.Errorf("expected no diffs for identical lists, got %v", diffs)
	}
}

func TestPresent_PreservesServerOrder(t *testing.T) {
	result := model.PreviewResult{
		Before: []model.RecoItem{item("a", floatPtr(0.5)), item("b", floatPtr(0.9))},
		After:  []model.RecoItem{item("b", floatPtr(0.9)), item("a", floatPtr(0.5))},
	}

	before, after := Present(result)

	if before[0].ProductID != "a" || before[1].ProductID != "b" {
		t.Errorf("before order changed: %v %v", before[0].ProductID, before[1].ProductID)
	}
	if after[0].ProductID != "b" || after[1].ProductID != "a" {
		t.Errorf("after order changed: %v %v", after[0].ProductID, after[1].ProductID)
	}
}

func TestPresent_UsesServerDiffsWhenProvided(t *testing.T) {
	delta := 0.15
	result := model.PreviewResult{
		Before: []model.RecoItem{item("a", floatPtr(0.6))},
		After:  []model.RecoItem{item("a", floatPtr(0.75))},
		Diffs: []model.PreviewDiff{
			{ProductID: "a", Change: model.DiffBoosted, Delta: &delta},
		},
	}

	_, after := Present(result)

	if after[0].Change != model.DiffBoosted {
		t.Errorf("expected server-provided boost annotation, got %q", after[0].Change)
	}
	if after[0].Delta == nil || *after[0].Delta != delta {
		t.Errorf("expected delta %v, got %+v", delta, after[0].Delta)
	}
}

func TestPresent_BlockedAnnotationStaysOnBeforeList(t *testing.T) {
	result := model.PreviewResult{
		Before: []model.RecoItem{item("a", nil), item("gone", nil)},
		After:  []model.RecoItem{item("a", nil)},
	}

	before, after := Present(result)

	if before[1].Change != model.DiffBlocked {
		t.Errorf("expected removed product to be annotated blocked, got %q", before[1].Change)
	}
	if after[0].Change != "" {
		t.Errorf("expected surviving product to carry no annotation, got %q", after[0].Change)
	}
}

func TestPresent_PercentBadges(t *testing.T) {
	result := model.PreviewResult{
		After: []model.RecoItem{item("scored", floatPtr(0.42)), item("unscored", nil)},
	}

	_, after := Present(result)

	if after[0].Percent == nil || *after[0].Percent != 42 {
		t.Errorf("expected 42%% badge, got %+v", after[0].Percent)
	}
	if after[1].Percent != nil {
		t.Errorf("expected no badge for unscored item, got %d", *after[1].Percent)
	}
}
