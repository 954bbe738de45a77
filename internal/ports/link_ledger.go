package ports

import (
	"context"

	"github.com/bnema/intakebot/internal/domain"
)

type LinkLedger interface {
	Get(ctx context.Context, link string) (domain.LinkEntry, error)
	Save(ctx context.Context, entry domain.LinkEntry) error
	Delete(ctx context.Context, link string) error
}
