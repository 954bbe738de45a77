package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bnema/intakebot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	store, err := NewStore("redis://" + server.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, server
}

func TestNewStoreRejectsInvalidURL(t *testing.T) {
	_, err := NewStore("://nope")
	require.Error(t, err)
	assert.ErrorContains(t, err, "parse redis url")
}

func TestDecisionRepositoryRoundTrip(t *testing.T) {
	store, _ := setupTestStore(t)
	repo := store.Decisions()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "5678")
	require.ErrorIs(t, err, domain.ErrDecisionNotFound)

	require.NoError(t, repo.SaveAll(ctx, []domain.Decision{
		{ID: "5678", CanonicalText: "сайт example.com"},
		{ID: "12", CanonicalText: "Книга", Qualifier: domain.QualifierFeminine},
	}))

	got, err := repo.GetByID(ctx, "12")
	require.NoError(t, err)
	assert.Equal(t, domain.QualifierFeminine, got.Qualifier)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, domain.DecisionID("12"), all[0].ID)
	assert.Equal(t, domain.DecisionID("5678"), all[1].ID)
}

func TestLinkLedgerRoundTrip(t *testing.T) {
	store, _ := setupTestStore(t)
	ledger := store.Links()
	ctx := context.Background()

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, ledger.Save(ctx, domain.LinkEntry{Link: "https://example.com/a ", LastSubmittedAt: at}))

	entry, err := ledger.Get(ctx, " https://example.com/a")
	require.NoError(t, err)
	assert.True(t, at.Equal(entry.LastSubmittedAt))

	require.NoError(t, ledger.Delete(ctx, "https://example.com/a"))
	_, err = ledger.Get(ctx, "https://example.com/a")
	require.ErrorIs(t, err, domain.ErrLinkNotFound)
}

func TestSessionRepositoryClearsEmptySession(t *testing.T) {
	store, server := setupTestStore(t)
	repo := store.Sessions()
	ctx := context.Background()

	session := domain.Session{UserID: 42, State: domain.StateAwaitingDecisionID, Link: "https://example.com/a"}
	require.NoError(t, repo.Save(ctx, session))
	assert.True(t, server.Exists(defaultPrefix+sessionsKey))

	got, err := repo.GetByUserID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, session.Link, got.Link)
	assert.Equal(t, domain.StateAwaitingDecisionID, got.State)

	require.NoError(t, repo.Save(ctx, domain.NewSession(42)))
	_, err = repo.GetByUserID(ctx, 42)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestKnownUserRepositoryAddRemoveList(t *testing.T) {
	store, _ := setupTestStore(t)
	repo := store.KnownUsers()
	ctx := context.Background()

	added, err := repo.Add(ctx, 3)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Add(ctx, 3)
	require.NoError(t, err)
	assert.False(t, added)

	_, err = repo.Add(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Remove(ctx, 3))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.UserID{1}, users)
}

func TestStatsRepositoryIncrement(t *testing.T) {
	store, _ := setupTestStore(t)
	repo := store.Stats()
	ctx := context.Background()

	_, err := repo.Increment(ctx, "2026-W42", 1)
	require.NoError(t, err)
	tally, err := repo.Increment(ctx, "2026-W42", 2)
	require.NoError(t, err)

	assert.Equal(t, 2, tally.Total())
	assert.Equal(t, 1, tally.PerUser[2])
}

func TestRepositoriesReportServerErrors(t *testing.T) {
	store, server := setupTestStore(t)
	server.SetError("boom")

	_, err := store.Decisions().GetByID(context.Background(), "1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDecisionNotFound)

	err = store.Links().Save(context.Background(), domain.LinkEntry{Link: "https://example.com", LastSubmittedAt: time.Now()})
	require.Error(t, err)
	assert.ErrorContains(t, err, "save link")
}
