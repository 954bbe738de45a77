package toml

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/bnema/intakebot/internal/domain"
	"github.com/bnema/intakebot/internal/ports"
	"github.com/spf13/viper"
)

const (
	DecisionsPathKey  = "decisions.path"
	decisionsFileName = "decisions.toml"
)

// DecisionRepository keeps the decision registry in memory and rewrites the whole file on every change.
type DecisionRepository struct {
	path      string
	mu        sync.RWMutex
	decisions map[domain.DecisionID]domain.Decision
}

var _ ports.DecisionRepository = (*DecisionRepository)(nil)

func NewDecisionRepository(cfg *viper.Viper) (*DecisionRepository, error) {
	path, err := resolvePath(cfg, DecisionsPathKey, decisionsFileName)
	if err != nil {
		return nil, err
	}

	var file decisionsFileSchema
	if err := readTOMLFile(path, "decisions", &file); err != nil {
		return nil, err
	}

	decisions := make(map[domain.DecisionID]domain.Decision, len(file.Decisions))
	for _, entry := range file.Decisions {
		decision := fromDecisionSchema(entry)
		decisions[decision.ID] = decision
	}

	return &DecisionRepository{path: path, decisions: decisions}, nil
}

func (r *DecisionRepository) GetByID(ctx context.Context, id domain.DecisionID) (domain.Decision, error) {
	if err := ctx.Err(); err != nil {
		return domain.Decision{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	decision, ok := r.decisions[id]
	if !ok {
		return domain.Decision{}, domain.ErrDecisionNotFound
	}

	return decision, nil
}

func (r *DecisionRepository) List(ctx context.Context) ([]domain.Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedDecisions(r.decisions), nil
}

func (r *DecisionRepository) Save(ctx context.Context, decision domain.Decision) error {
	return r.SaveAll(ctx, []domain.Decision{decision})
}

func (r *DecisionRepository) SaveAll(ctx context.Context, decisions []domain.Decision) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := maps.Clone(r.decisions)
	for _, decision := range decisions {
		if decision.ID == "" {
			return fmt.Errorf("save decision: id is required")
		}
		next[decision.ID] = decision
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	file := decisionsFileSchema{}
	for _, decision := range sortedDecisions(next) {
		file.Decisions = append(file.Decisions, toDecisionSchema(decision))
	}
	if err := writeTOMLFile(r.path, "decisions", &file); err != nil {
		return err
	}

	r.decisions = next
	return nil
}

func sortedDecisions(decisions map[domain.DecisionID]domain.Decision) []domain.Decision {
	result := make([]domain.Decision, 0, len(decisions))
	for _, decision := range decisions {
		result = append(result, decision)
	}

	sort.Slice(result, func(i, j int) bool {
		return lessDecisionID(result[i].ID, result[j].ID)
	})

	return result
}

// lessDecisionID orders numeric ids numerically without parsing them.
func lessDecisionID(left, right domain.DecisionID) bool {
	if len(left) != len(right) {
		return len(left) < len(right)
	}
	return left < right
}

func toDecisionSchema(decision domain.Decision) decisionSchema {
	return decisionSchema{
		ID:        string(decision.ID),
		Text:      decision.CanonicalText,
		Qualifier: string(decision.Qualifier),
	}
}

func fromDecisionSchema(schema decisionSchema) domain.Decision {
	qualifier := domain.Qualifier(schema.Qualifier)
	if !qualifier.Valid() {
		qualifier = ""
	}

	return domain.Decision{
		ID:            domain.DecisionID(schema.ID),
		CanonicalText: schema.Text,
		Qualifier:     qualifier,
	}
}
