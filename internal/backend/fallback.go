package backend

import (
	"context"

	"go.uber.org/zap"

	"github.com/merchpilot/reco-console/internal/metrics"
	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

// FallbackRuleStore serves rule listings from a standby store when the
// primary fails, so the dashboard still renders something during a
// backend outage. Only reads fall back: a mutation against stale standby
// data would silently diverge from the backend, so mutations and
// previews propagate the primary's error.
type FallbackRuleStore struct {
	services.RuleStore
	standby services.RuleStore
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewFallbackRuleStore(primary, standby services.RuleStore, logger *zap.Logger, m *metrics.Metrics) *FallbackRuleStore {
	return &FallbackRuleStore{RuleStore: primary, standby: standby, logger: logger, metrics: m}
}

func (s *FallbackRuleStore) ListRules(ctx context.Context, q services.ListRulesQuery) (services.RuleList, error) {
	list, err := s.RuleStore.ListRules(ctx, q)
	if err == nil {
		return list, nil
	}

	s.logger.Warn("rule listing failed, serving standby data", zap.Error(err))
	s.metrics.RecordFallback("rules_list")

	list, standbyErr := s.standby.ListRules(ctx, q)
	if standbyErr != nil {
		return services.RuleList{}, err
	}
	list.Source = services.SourceFixture
	return list, nil
}

// FallbackHealth reports a degraded fixture-backed status instead of an
// error when the primary probe fails.
type FallbackHealth struct {
	primary services.HealthChecker
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewFallbackHealth(primary services.HealthChecker, logger *zap.Logger, m *metrics.Metrics) *FallbackHealth {
	return &FallbackHealth{primary: primary, logger: logger, metrics: m}
}

func (h *FallbackHealth) Health(ctx context.Context) (model.HealthStatus, error) {
	status, err := h.primary.Health(ctx)
	if err == nil {
		return status, nil
	}

	h.logger.Warn("health probe failed, reporting degraded", zap.Error(err))
	h.metrics.RecordFallback("health")
	return model.HealthStatus{Status: "degraded", Source: services.SourceFixture}, nil
}
