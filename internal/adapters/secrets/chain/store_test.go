package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	passstore "github.com/bnema/intakebot/internal/adapters/secrets/pass"
	"github.com/bnema/intakebot/internal/domain"
	"github.com/bnema/intakebot/internal/ports"
	portmocks "github.com/bnema/intakebot/internal/ports/mocks"
)

func newChain(t *testing.T) (*Store, *portmocks.MockSecretStore, *portmocks.MockSecretStore) {
	t.Helper()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store, err := NewStore(primary, fallback)
	require.NoError(t, err)

	return store, primary, fallback
}

func TestNewStoreRejectsNilBackends(t *testing.T) {
	t.Parallel()

	_, err := NewStore(nil, portmocks.NewMockSecretStore(t))
	require.ErrorIs(t, err, errNilPrimaryStore)

	_, err = NewStore(portmocks.NewMockSecretStore(t), nil)
	require.ErrorIs(t, err, errNilFallbackStore)
}

func TestStoreGetUsesPrimaryWhenItSucceeds(t *testing.T) {
	t.Parallel()

	store, primary, _ := newChain(t)
	primary.EXPECT().Get(mock.Anything, ports.BotTokenKey).Return("from-pass", nil).Once()

	value, err := store.Get(context.Background(), ports.BotTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "from-pass", value)
}

func TestStoreGetFallsBackWhenPassIsUnavailable(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Get(mock.Anything, ports.BotTokenKey).Return("", passstore.ErrUnavailable).Once()
	fallback.EXPECT().Get(mock.Anything, ports.BotTokenKey).Return("from-file", nil).Once()

	value, err := store.Get(context.Background(), ports.BotTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
}

func TestStoreGetReportsNotFoundFromBothBackends(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Get(mock.Anything, ports.BotTokenKey).Return("", domain.ErrSecretNotFound).Once()
	fallback.EXPECT().Get(mock.Anything, ports.BotTokenKey).Return("", domain.ErrSecretNotFound).Once()

	_, err := store.Get(context.Background(), ports.BotTokenKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreGetDoesNotFallBackOnCancellation(t *testing.T) {
	t.Parallel()

	store, primary, _ := newChain(t)
	primary.EXPECT().Get(mock.Anything, ports.BotTokenKey).Return("", context.Canceled).Once()

	_, err := store.Get(context.Background(), ports.BotTokenKey)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStorePutFallsBackAndCombinesErrors(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	passErr := errors.New("gpg: no secret key")
	fileErr := errors.New("read-only file system")
	primary.EXPECT().Put(mock.Anything, ports.BotTokenKey, "token").Return(passErr).Once()
	fallback.EXPECT().Put(mock.Anything, ports.BotTokenKey, "token").Return(fileErr).Once()

	err := store.Put(context.Background(), ports.BotTokenKey, "token")
	require.ErrorIs(t, err, passErr)
	require.ErrorIs(t, err, fileErr)
}

func TestStoreDeleteClearsBothBackends(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Delete(mock.Anything, ports.BotTokenKey).Return(passstore.ErrUnavailable).Once()
	fallback.EXPECT().Delete(mock.Anything, ports.BotTokenKey).Return(nil).Once()

	require.NoError(t, store.Delete(context.Background(), ports.BotTokenKey))
}
