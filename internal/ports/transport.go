package ports

import (
	"context"

	"github.com/bnema/intakebot/internal/domain"
)

type SendOptions struct {
	// Buttons replaces the reply keyboard; nil removes it.
	Buttons []string
}

// Transport delivers text to chat users and the broadcast channel.
// Failures are reported as *domain.DeliveryError.
type Transport interface {
	SendToUser(ctx context.Context, id domain.UserID, text string, opts SendOptions) error
	SendToChannel(ctx context.Context, id domain.ChannelID, text string) error
}
