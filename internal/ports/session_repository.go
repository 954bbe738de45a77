package ports

import (
	"context"

	"github.com/bnema/intakebot/internal/domain"
)

type SessionRepository interface {
	GetByUserID(ctx context.Context, id domain.UserID) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
}

type KnownUserRepository interface {
	// Add reports whether the user was not known before.
	Add(ctx context.Context, id domain.UserID) (bool, error)
	Remove(ctx context.Context, id domain.UserID) error
	List(ctx context.Context) ([]domain.UserID, error)
}

type StatsRepository interface {
	Increment(ctx context.Context, week domain.WeekKey, id domain.UserID) (domain.WeeklyTally, error)
	GetWeek(ctx context.Context, week domain.WeekKey) (domain.WeeklyTally, error)
}
