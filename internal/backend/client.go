package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/merchpilot/reco-console/config"
	apperrors "github.com/merchpilot/reco-console/internal/errors"
	"github.com/merchpilot/reco-console/internal/metrics"
)

// Client is the HTTP client for the recommendation platform's webhook
// API. Every endpoint lives under {base}/webhook/api/ and authenticates
// with an X-API-Key header.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewClient builds a Client from settings. The returned client is safe
// for concurrent use.
func NewClient(settings *config.Settings, logger *zap.Logger, m *metrics.Metrics) *Client {
	return &Client{
		baseURL: settings.BackendBaseURL,
		apiKey:  settings.BackendAPIKey,
		http:    &http.Client{Timeout: settings.BackendTimeout},
		logger:  logger,
		metrics: m,
	}
}

// maxResponseBytes caps how much of a backend response is read. The
// webhook API occasionally echoes whole feeds back on errors.
const maxResponseBytes = 8 << 20

func (c *Client) get(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, op, http.MethodGet, path, query, nil)
}

func (c *Client) send(ctx context.Context, op, method, path string, body interface{}) ([]byte, error) {
	return c.do(ctx, op, method, path, nil, body)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body interface{}) ([]byte, error) {
	endpoint := c.baseURL + "/webhook/api/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, apperrors.NewBackendError(op, 0, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordRequest(op, err)
		c.logger.Warn("backend call failed",
			zap.String("op", op),
			zap.String("method", method),
			zap.Error(err))
		return nil, apperrors.NewBackendError(op, 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.metrics.RecordRequest(op, err)
		return nil, apperrors.NewBackendError(op, 0, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("backend returned error status",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode))
		backendErr := apperrors.NewBackendError(op, resp.StatusCode, nil)
		c.metrics.RecordRequest(op, backendErr)
		return nil, backendErr
	}

	c.metrics.RecordRequest(op, nil)
	return raw, nil
}
