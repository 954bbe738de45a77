package ports

import (
	"context"

	"github.com/bnema/intakebot/internal/domain"
)

type DecisionRepository interface {
	GetByID(ctx context.Context, id domain.DecisionID) (domain.Decision, error)
	List(ctx context.Context) ([]domain.Decision, error)
	Save(ctx context.Context, decision domain.Decision) error
	SaveAll(ctx context.Context, decisions []domain.Decision) error
}
