package ports

import "context"

// BotTokenKey is where the Telegram bot credential is kept in a SecretStore.
const BotTokenKey = "intakebot/telegram/token"

// SecretStore returns domain.ErrSecretNotFound from Get when the key has no value.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
