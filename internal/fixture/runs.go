package fixture

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/merchpilot/reco-console/internal/errors"
	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

func seedRuns() []model.Run {
	base := time.Date(2025, time.June, 20, 3, 0, 0, 0, time.UTC)
	end := func(start time.Time, d time.Duration) *time.Time {
		v := start.Add(d)
		return &v
	}

	return []model.Run{
		{
			ID: "run_ing_0620", Tenant: fixtureTenant, Type: model.RunTypeIngest,
			Status: model.RunStatusCompleted,
			Counts: &model.RunCounts{Inserted: 1240, Updated: 310, Failed: 0},
			StartedAt: base, EndedAt: end(base, 14*time.Minute),
		},
		{
			ID: "run_reco_0620", Tenant: fixtureTenant, Type: model.RunTypeRecommendations,
			Status: model.RunStatusCompleted,
			Counts: &model.RunCounts{Inserted: 980, Updated: 240, Failed: 0},
			StartedAt: base.Add(time.Hour), EndedAt: end(base.Add(time.Hour), 22*time.Minute),
		},
		{
			ID: "run_ing_0621", Tenant: fixtureTenant, Type: model.RunTypeIngest,
			Status: model.RunStatusPartial,
			Counts: &model.RunCounts{Inserted: 1180, Updated: 295, Failed: 61},
			StartedAt: base.Add(24 * time.Hour), EndedAt: end(base.Add(24*time.Hour), 17*time.Minute),
		},
		{
			ID: "run_ing_0622", Tenant: fixtureTenant, Type: model.RunTypeIngest,
			Status: model.RunStatusFailed,
			Counts: &model.RunCounts{Inserted: 0, Updated: 0, Failed: 1550},
			StartedAt: base.Add(48 * time.Hour), EndedAt: end(base.Add(48*time.Hour), 2*time.Minute),
		},
	}
}

// Ingestion is the fixture implementation of services.IngestionService.
// Started runs are recorded in memory as immediately completed, so the
// run list reflects the trigger without a background worker.
type Ingestion struct {
	mu   sync.Mutex
	runs []model.Run
	now  func() time.Time
}

func NewIngestion() *Ingestion {
	return &Ingestion{runs: seedRuns(), now: time.Now}
}

func (s *Ingestion) StartIngestion(_ context.Context, req services.IngestionRequest) (model.Run, error) {
	if req.FeedURL == "" && len(req.FeedInline) == 0 {
		return model.Run{}, apperrors.NewValidationError("feed", "either feed_url or feed_inline is required")
	}
	if req.FeedURL != "" && len(req.FeedInline) > 0 {
		return model.Run{}, apperrors.NewValidationError("feed", "feed_url and feed_inline are mutually exclusive")
	}

	tenant := req.Tenant
	if tenant == "" {
		tenant = fixtureTenant
	}

	started := s.now().UTC()
	ended := started.Add(time.Second)
	run := model.Run{
		ID:        "run_" + uuid.NewString(),
		Tenant:    tenant,
		Type:      model.RunTypeIngest,
		Status:    model.RunStatusCompleted,
		Counts:    &model.RunCounts{Inserted: 0, Updated: 0, Failed: 0},
		StartedAt: started,
		EndedAt:   &ended,
	}
	s.mu.Lock()
	s.runs = append([]model.Run{run}, s.runs...)
	s.mu.Unlock()

	return run, nil
}

func (s *Ingestion) Runs(_ context.Context, tenant string, runType model.RunType, limit int) ([]model.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Run, 0, len(s.runs))
	for _, run := range s.runs {
		if tenant != "" && run.Tenant != tenant {
			continue
		}
		if runType != "" && run.Type != runType {
			continue
		}
		out = append(out, run)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Health is the fixture implementation of services.HealthChecker. It
// always reports up: there is nothing to probe.
type Health struct {
	ingestion *Ingestion
}

func NewHealth(ingestion *Ingestion) *Health {
	return &Health{ingestion: ingestion}
}

func (h *Health) Health(ctx context.Context) (model.HealthStatus, error) {
	status := model.HealthStatus{Status: "ok", DB: "fixture", Source: services.SourceFixture}

	runs, err := h.ingestion.Runs(ctx, "", "", 1)
	if err == nil && len(runs) > 0 {
		status.LastRun = runs[0]
	}
	return status, nil
}
