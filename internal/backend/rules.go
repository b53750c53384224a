package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	apperrors "github.com/merchpilot/reco-console/internal/errors"
	"github.com/merchpilot/reco-console/internal/rules"
	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

// RuleStore implements services.RuleStore against the webhook API's rule
// endpoints. The backend owns persistence; filtering and pagination of
// listings happen here, in memory, the same way the fixture store does
// them, so both sources behave identically.
type RuleStore struct {
	client *Client
	tenant string
}

func NewRuleStore(client *Client, defaultTenant string) *RuleStore {
	return &RuleStore{client: client, tenant: defaultTenant}
}

func (s *RuleStore) ListRules(ctx context.Context, q services.ListRulesQuery) (services.RuleList, error) {
	tenant := q.Tenant
	if tenant == "" {
		tenant = s.tenant
	}
	query := url.Values{"tenant": {tenant}}

	raw, err := s.client.get(ctx, "rules_list", "rules/list", query)
	if err != nil {
		return services.RuleList{}, err
	}

	all := DecodeItems[model.Rule](Normalize(raw))
	filtered := rules.Filter(all, rules.Criteria{Mode: q.Mode, Kind: q.Kind, Query: q.Query})
	page, total := rules.Paginate(filtered, q.Page, q.PageSize)

	return services.RuleList{
		Items:    page,
		Total:    total,
		Page:     normalizePage(q.Page),
		PageSize: normalizePageSize(q.PageSize),
		Source:   services.SourceLive,
	}, nil
}

func (s *RuleStore) GetRule(ctx context.Context, ruleID string) (model.Rule, error) {
	raw, err := s.client.get(ctx, "rules_get", "rules/"+url.PathEscape(ruleID), nil)
	if err != nil {
		return model.Rule{}, ruleError(err, ruleID)
	}
	return decodeRule(raw, "rules_get")
}

func (s *RuleStore) CreateRule(ctx context.Context, rule model.Rule) (model.Rule, error) {
	raw, err := s.client.send(ctx, "rules_create", http.MethodPost, "rules/create", rule)
	if err != nil {
		return model.Rule{}, err
	}
	return decodeRule(raw, "rules_create")
}

func (s *RuleStore) UpdateRule(ctx context.Context, rule model.Rule) (model.Rule, error) {
	raw, err := s.client.send(ctx, "rules_update", http.MethodPut, "rules/"+url.PathEscape(rule.ID), rule)
	if err != nil {
		return model.Rule{}, ruleError(err, rule.ID)
	}
	return decodeRule(raw, "rules_update")
}

// SetRuleMode sends a partial update carrying only the new mode, so a
// concurrent edit of other fields is not clobbered.
func (s *RuleStore) SetRuleMode(ctx context.Context, ruleID string, mode model.RuleMode) (model.Rule, error) {
	body := map[string]model.RuleMode{"mode": mode}
	raw, err := s.client.send(ctx, "rules_set_mode", http.MethodPut, "rules/"+url.PathEscape(ruleID), body)
	if err != nil {
		return model.Rule{}, ruleError(err, ruleID)
	}
	return decodeRule(raw, "rules_set_mode")
}

func (s *RuleStore) DeleteRule(ctx context.Context, ruleID string) error {
	_, err := s.client.send(ctx, "rules_delete", http.MethodDelete, "rules/"+url.PathEscape(ruleID), nil)
	return ruleError(err, ruleID)
}

func (s *RuleStore) Preview(ctx context.Context, q services.PreviewQuery) (model.PreviewResult, error) {
	tenant := q.Tenant
	if tenant == "" {
		tenant = s.tenant
	}
	body := map[string]string{
		"tenant":     tenant,
		"product_id": q.ProductID,
		"kind":       string(q.Kind),
	}
	if q.RuleID != "" {
		body["rule_id"] = q.RuleID
	}

	raw, err := s.client.send(ctx, "rules_preview", http.MethodPost, "rules/preview", body)
	if err != nil {
		return model.PreviewResult{}, err
	}

	var result model.PreviewResult
	if err := decodeObject(raw, &result); err != nil {
		return model.PreviewResult{}, apperrors.NewDecodeError("rules_preview", err)
	}
	if result.Before == nil {
		result.Before = []model.RecoItem{}
	}
	if result.After == nil {
		result.After = []model.RecoItem{}
	}
	return result, nil
}

// ruleError maps a 404 from a per-rule endpoint to the typed not-found
// error. Anything else passes through untouched.
func ruleError(err error, ruleID string) error {
	if err == nil {
		return nil
	}
	var backendErr *apperrors.BackendError
	if errors.As(err, &backendErr) && backendErr.Status == http.StatusNotFound {
		return apperrors.NewRuleNotFoundError(ruleID)
	}
	return err
}

// decodeRule handles both a bare rule document and a single-element
// wrapped one.
func decodeRule(raw []byte, op string) (model.Rule, error) {
	var rule model.Rule
	if err := decodeObject(raw, &rule); err == nil && rule.ID != "" {
		return rule, nil
	}
	if items := DecodeItems[model.Rule](Normalize(raw)); len(items) == 1 && items[0].ID != "" {
		return items[0], nil
	}
	return model.Rule{}, apperrors.NewDecodeError(op, errors.New("no rule document in response"))
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePageSize(size int) int {
	if size < 1 {
		return 20
	}
	return size
}
