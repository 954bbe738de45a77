package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/intakebot/internal/domain"
	"github.com/bnema/intakebot/internal/ports"
)

func TestStoreRoundTripsBotToken(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, ports.BotTokenKey, "123456:ABC"))

	value, err := store.Get(ctx, ports.BotTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "123456:ABC", value)

	info, err := os.Stat(filepath.Join(root, "intakebot", "telegram", "token"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, store.Delete(ctx, ports.BotTokenKey))
	_, err = store.Get(ctx, ports.BotTokenKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreGetTrimsTrailingNewline(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "token")
	require.NoError(t, os.WriteFile(path, []byte("secret\n"), 0o600))

	value, err := NewStore(root).Get(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "secret", value)
}

func TestStoreGetTreatsEmptyFileAsMissing(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "token"), []byte("\n"), 0o600))

	_, err := NewStore(root).Get(context.Background(), "token")
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreDeleteMissingIsNoop(t *testing.T) {
	require.NoError(t, NewStore(t.TempDir()).Delete(context.Background(), ports.BotTokenKey))
}

func TestStoreRejectsEscapingKeys(t *testing.T) {
	store := NewStore(t.TempDir())

	for _, key := range []string{"", "  ", "/etc/passwd", "../outside", "."} {
		err := store.Put(context.Background(), key, "value")
		assert.Error(t, err, key)
	}
}

func TestStoreHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStore(t.TempDir()).Get(ctx, ports.BotTokenKey)
	require.ErrorIs(t, err, context.Canceled)
}
