package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/merchpilot/reco-console/internal/cache"
	"github.com/merchpilot/reco-console/internal/metrics"
	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

// Recommender implements services.Recommender against the webhook API.
type Recommender struct {
	client *Client
	tenant string
}

func NewRecommender(client *Client, defaultTenant string) *Recommender {
	return &Recommender{client: client, tenant: defaultTenant}
}

func (r *Recommender) Recommendations(ctx context.Context, q services.RecommendationQuery) ([]model.RecoItem, error) {
	return r.fetch(ctx, "reco_get", "reco/list", q)
}

// Refresh asks the backend to recompute the list before returning it.
func (r *Recommender) Refresh(ctx context.Context, q services.RecommendationQuery) ([]model.RecoItem, error) {
	return r.fetch(ctx, "reco_refresh", "reco/refresh", q)
}

func (r *Recommender) fetch(ctx context.Context, op, path string, q services.RecommendationQuery) ([]model.RecoItem, error) {
	tenant := q.Tenant
	if tenant == "" {
		tenant = r.tenant
	}

	query := url.Values{
		"tenant":     {tenant},
		"product_id": {q.ProductID},
		"kind":       {string(q.Kind)},
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	raw, err := r.client.get(ctx, op, path, query)
	if err != nil {
		return nil, err
	}
	return DecodeItems[model.RecoItem](Normalize(raw)), nil
}

// CachedRecommender decorates a Recommender with a short-TTL byte cache,
// keeping panel reloads off the backend. Refresh always goes through and
// overwrites the cached copy.
type CachedRecommender struct {
	inner   services.Recommender
	cache   cache.Cache
	ttl     time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewCachedRecommender(inner services.Recommender, c cache.Cache, ttl time.Duration, logger *zap.Logger, m *metrics.Metrics) *CachedRecommender {
	return &CachedRecommender{inner: inner, cache: c, ttl: ttl, logger: logger, metrics: m}
}

func cacheKey(q services.RecommendationQuery) string {
	return fmt.Sprintf("reco:%s:%s:%s:%d", q.Tenant, q.ProductID, q.Kind, q.Limit)
}

func (c *CachedRecommender) Recommendations(ctx context.Context, q services.RecommendationQuery) ([]model.RecoItem, error) {
	key := cacheKey(q)

	if raw, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var items []model.RecoItem
		if err := json.Unmarshal(raw, &items); err == nil {
			c.metrics.CacheHits.Inc()
			return items, nil
		}
	} else if err != nil {
		// A broken cache degrades to a backend call, never to an error.
		c.logger.Warn("recommendation cache read failed", zap.Error(err))
	}

	c.metrics.CacheMisses.Inc()
	items, err := c.inner.Recommendations(ctx, q)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, items)
	return items, nil
}

func (c *CachedRecommender) Refresh(ctx context.Context, q services.RecommendationQuery) ([]model.RecoItem, error) {
	items, err := c.inner.Refresh(ctx, q)
	if err != nil {
		return nil, err
	}
	c.store(ctx, cacheKey(q), items)
	return items, nil
}

func (c *CachedRecommender) store(ctx context.Context, key string, items []model.RecoItem) {
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn("recommendation cache write failed", zap.Error(err))
	}
}
