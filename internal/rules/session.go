package rules

import (
	"context"
	"sync"

	"github.com/merchpilot/reco-console/internal/errors"
	"github.com/merchpilot/reco-console/model"
	"github.com/merchpilot/reco-console/services"
)

// Session owns the in-memory rule list behind the console's list view and
// applies optimistic mutations to it: pause/resume and delete update the
// local list synchronously, then confirm with the rule store. On failure
// the exact pre-mutation snapshot is restored. The store remains the
// source of truth; the session is only a responsiveness aid.
type Session struct {
	mu    sync.Mutex
	store services.RuleStore
	items []model.Rule
}

// NewSession creates a session over the given rule store.
func NewSession(store services.RuleStore) *Session {
	return &Session{store: store}
}

// Refresh replaces the local list with the store's answer for the given
// query and returns the listing.
func (s *Session) Refresh(ctx context.Context, q services.ListRulesQuery) (services.RuleList, error) {
	list, err := s.store.ListRules(ctx, q)
	if err != nil {
		return services.RuleList{}, err
	}

	s.mu.Lock()
	s.items = cloneRules(list.Items)
	s.mu.Unlock()

	return list, nil
}

// Items returns a copy of the current local list.
func (s *Session) Items() []model.Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRules(s.items)
}

// TogglePause flips a rule between active and paused: paused rules
// resume, everything else pauses. The flip is applied to the local list
// first, then confirmed with the store; on failure the prior list is
// restored and the error is returned.
func (s *Session) TogglePause(ctx context.Context, ruleID string) (model.RuleMode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(ruleID)
	if idx < 0 {
		return "", errors.NewRuleNotFoundError(ruleID)
	}

	next := model.RuleModePaused
	if s.items[idx].Mode == model.RuleModePaused {
		next = model.RuleModeActive
	}

	snapshot := cloneRules(s.items)
	s.items[idx].Mode = next

	if _, err := s.store.SetRuleMode(ctx, ruleID, next); err != nil {
		s.items = snapshot
		return "", err
	}

	return next, nil
}

// Delete removes a rule from the local list, then confirms with the
// store; on failure the prior list is restored.
func (s *Session) Delete(ctx context.Context, ruleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(ruleID)
	if idx < 0 {
		return errors.NewRuleNotFoundError(ruleID)
	}

	snapshot := cloneRules(s.items)
	s.items = append(s.items[:idx], s.items[idx+1:]...)

	if err := s.store.DeleteRule(ctx, ruleID); err != nil {
		s.items = snapshot
		return err
	}

	return nil
}

func (s *Session) indexOf(ruleID string) int {
	for i, rule := range s.items {
		if rule.ID == ruleID {
			return i
		}
	}
	return -1
}

// cloneRules takes a plain value copy of the list, deep enough that a
// restored snapshot is unaffected by any mutation made in between.
func cloneRules(items []model.Rule) []model.Rule {
	out := make([]model.Rule, len(items))
	for i, rule := range items {
		out[i] = rule.Clone()
	}
	return out
}
