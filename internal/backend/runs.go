package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	apperrors "github.com/merchpilot/reco-console/internal/errors"
	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

// Ingestion implements services.IngestionService against the webhook
// API's ingest and run endpoints. Run bookkeeping stays entirely in the
// backend; this client only triggers and lists.
type Ingestion struct {
	client *Client
	tenant string
}

func NewIngestion(client *Client, defaultTenant string) *Ingestion {
	return &Ingestion{client: client, tenant: defaultTenant}
}

func (s *Ingestion) StartIngestion(ctx context.Context, req services.IngestionRequest) (model.Run, error) {
	if req.Tenant == "" {
		req.Tenant = s.tenant
	}
	if req.FeedURL == "" && len(req.FeedInline) == 0 {
		return model.Run{}, apperrors.NewValidationError("feed", "either feed_url or feed_inline is required")
	}
	if req.FeedURL != "" && len(req.FeedInline) > 0 {
		return model.Run{}, apperrors.NewValidationError("feed", "feed_url and feed_inline are mutually exclusive")
	}

	raw, err := s.client.send(ctx, "ingest_start", http.MethodPost, "ingest/start", req)
	if err != nil {
		return model.Run{}, err
	}

	var run model.Run
	if err := decodeObject(raw, &run); err != nil {
		return model.Run{}, apperrors.NewDecodeError("ingest_start", err)
	}
	if run.Type == "" {
		run.Type = model.RunTypeIngest
	}
	if run.Status == "" {
		run.Status = model.RunStatusRunning
	}
	return run, nil
}

func (s *Ingestion) Runs(ctx context.Context, tenant string, runType model.RunType, limit int) ([]model.Run, error) {
	if tenant == "" {
		tenant = s.tenant
	}

	query := url.Values{"tenant": {tenant}}
	if runType != "" {
		query.Set("type", string(runType))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	raw, err := s.client.get(ctx, "runs_list", "runs", query)
	if err != nil {
		return nil, err
	}
	return DecodeItems[model.Run](Normalize(raw)), nil
}

// Health implements services.HealthChecker against the webhook API.
type Health struct {
	client *Client
}

func NewHealth(client *Client) *Health {
	return &Health{client: client}
}

// Health probes the backend and normalizes whatever shape it answers
// with. Any 2xx counts as up even when the body does not decode.
func (h *Health) Health(ctx context.Context) (model.HealthStatus, error) {
	raw, err := h.client.get(ctx, "health", "health", nil)
	if err != nil {
		return model.HealthStatus{}, err
	}

	var status model.HealthStatus
	if err := decodeObject(raw, &status); err != nil || status.Status == "" {
		status = model.HealthStatus{Status: "ok"}
	}
	status.Source = services.SourceLive
	return status, nil
}
