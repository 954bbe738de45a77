package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/intakebot/internal/domain"
	"go.uber.org/zap"
)

type ImportResult struct {
	Created   int
	Updated   int
	Unchanged int
}

// ImportDecisions merges decisions into the registry in a single write.
// Existing qualifiers are kept. Canonical text is only replaced when empty unless overwriteText is set.
func (s *Service) ImportDecisions(ctx context.Context, decisions []domain.Decision, overwriteText bool) (ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repos.Decisions.List(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("list decisions: %w", err)
	}

	byID := make(map[domain.DecisionID]domain.Decision, len(existing))
	for _, decision := range existing {
		byID[decision.ID] = decision
	}

	var result ImportResult
	changed := make([]domain.Decision, 0, len(decisions))
	for _, incoming := range decisions {
		current, ok := byID[incoming.ID]
		if !ok {
			incoming.Qualifier = ""
			byID[incoming.ID] = incoming
			changed = append(changed, incoming)
			result.Created++
			continue
		}

		if current.CanonicalText == incoming.CanonicalText || (current.CanonicalText != "" && !overwriteText) {
			result.Unchanged++
			continue
		}

		current.CanonicalText = incoming.CanonicalText
		byID[incoming.ID] = current
		changed = append(changed, current)
		result.Updated++
	}

	if len(changed) == 0 {
		return result, nil
	}

	if err := s.repos.Decisions.SaveAll(ctx, changed); err != nil {
		return ImportResult{}, fmt.Errorf("save decisions: %w", errors.Join(ErrPersistence, err))
	}

	s.logger.Info("decisions imported",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("unchanged", result.Unchanged))

	return result, nil
}
