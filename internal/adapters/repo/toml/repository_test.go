package toml

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bnema/intakebot/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *viper.Viper {
	t.Helper()

	config := viper.New()
	config.Set(StorageDirKey, t.TempDir())
	return config
}

// blockStoreDir makes every later write under dir fail while reads of missing files still succeed.
func blockStoreDir(t *testing.T, dir string) {
	t.Helper()

	require.NoError(t, os.WriteFile(dir, []byte("not a directory"), 0o600))
}

func TestDecisionRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t)
	repo, err := NewDecisionRepository(config)
	require.NoError(t, err)

	first := domain.Decision{ID: "5678", CanonicalText: "сайт example.com"}
	second := domain.Decision{ID: "12", CanonicalText: "Видеоролик", Qualifier: domain.QualifierNeuter}

	require.NoError(t, repo.Save(context.Background(), first))
	require.NoError(t, repo.Save(context.Background(), second))

	got, err := repo.GetByID(context.Background(), "5678")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	reopened, err := NewDecisionRepository(config)
	require.NoError(t, err)

	decisions, err := reopened.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Decision{second, first}, decisions)
}

func TestDecisionRepositoryGetMissingReturnsSentinel(t *testing.T) {
	t.Parallel()

	repo, err := NewDecisionRepository(newTestConfig(t))
	require.NoError(t, err)

	_, err = repo.GetByID(context.Background(), "1234")
	require.ErrorIs(t, err, domain.ErrDecisionNotFound)
}

func TestDecisionRepositoryWriteFailureKeepsMemoryUnchanged(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "store")
	config := viper.New()
	config.Set(StorageDirKey, dir)

	repo, err := NewDecisionRepository(config)
	require.NoError(t, err)
	blockStoreDir(t, dir)

	err = repo.Save(context.Background(), domain.Decision{ID: "1", CanonicalText: "text"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "decisions")

	_, err = repo.GetByID(context.Background(), "1")
	require.ErrorIs(t, err, domain.ErrDecisionNotFound)
}

func TestDecisionRepositoryIgnoresUnknownQualifier(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "decisions.toml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"version = 1",
		"",
		"[[decisions]]",
		"id = \"7\"",
		"text = \"Книга\"",
		"qualifier = \"plural\"",
		"",
	}, "\n")), 0o600))

	config := viper.New()
	config.Set(DecisionsPathKey, path)

	repo, err := NewDecisionRepository(config)
	require.NoError(t, err)

	got, err := repo.GetByID(context.Background(), "7")
	require.NoError(t, err)
	assert.False(t, got.HasQualifier())
	assert.Equal(t, "Книга", got.CanonicalText)
}

func TestDecisionRepositoryRejectsNewerSchemaVersion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "decisions.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 9\n"), 0o600))

	config := viper.New()
	config.Set(DecisionsPathKey, path)

	_, err := NewDecisionRepository(config)
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported decisions schema version 9")
}

func TestEmptyStoreFileIsTreatedAsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "users.toml")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	config := viper.New()
	config.Set(UsersPathKey, path)

	repo, err := NewKnownUserRepository(config)
	require.NoError(t, err)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestLinkLedgerSaveGetDelete(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t)
	ledger, err := NewLinkLedger(config)
	require.NoError(t, err)

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, ledger.Save(context.Background(), domain.LinkEntry{Link: " https://example.com/a ", LastSubmittedAt: at}))

	reopened, err := NewLinkLedger(config)
	require.NoError(t, err)

	entry, err := reopened.Get(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", entry.Link)
	assert.True(t, at.Equal(entry.LastSubmittedAt))

	require.NoError(t, reopened.Delete(context.Background(), "https://example.com/a"))
	require.NoError(t, reopened.Delete(context.Background(), "https://example.com/a"))

	_, err = reopened.Get(context.Background(), "https://example.com/a")
	require.ErrorIs(t, err, domain.ErrLinkNotFound)
}

func TestLinkLedgerKeepsSubSecondPrecisionAcrossReload(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t)
	ledger, err := NewLinkLedger(config)
	require.NoError(t, err)

	at := time.Date(2026, 3, 1, 10, 0, 0, 900_000_000, time.UTC)
	require.NoError(t, ledger.Save(context.Background(), domain.LinkEntry{Link: "https://example.com/a", LastSubmittedAt: at}))

	reopened, err := NewLinkLedger(config)
	require.NoError(t, err)

	entry, err := reopened.Get(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, at.Equal(entry.LastSubmittedAt))

	edge := at.Add(domain.ReuseWindow - 500*time.Millisecond)
	assert.False(t, domain.CheckReuse(&entry, edge).Accepted)
}

func TestLinkLedgerRejectsMalformedTimestamp(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "links.toml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"version = 1",
		"",
		"[[links]]",
		"link = \"https://example.com/a\"",
		"last_submitted_at = \"yesterday\"",
		"",
	}, "\n")), 0o600))

	config := viper.New()
	config.Set(LinksPathKey, path)

	_, err := NewLinkLedger(config)
	require.Error(t, err)
	assert.ErrorContains(t, err, "https://example.com/a")
	assert.ErrorContains(t, err, "yesterday")
}

func TestSessionRepositoryRemovesEmptySessions(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t)
	repo, err := NewSessionRepository(config)
	require.NoError(t, err)

	session := domain.Session{
		UserID:              42,
		State:               domain.StateAwaitingQualifier,
		Link:                "https://example.com/a",
		DecisionID:          "5678",
		PendingQualifierFor: "5678",
		UpdatedAt:           time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(context.Background(), session))

	reopened, err := NewSessionRepository(config)
	require.NoError(t, err)

	got, err := reopened.GetByUserID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, session.State, got.State)
	assert.Equal(t, session.PendingQualifierFor, got.PendingQualifierFor)
	assert.True(t, session.UpdatedAt.Equal(got.UpdatedAt))

	require.NoError(t, reopened.Save(context.Background(), domain.NewSession(42)))

	_, err = reopened.GetByUserID(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	data, err := os.ReadFile(reopened.path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "user_id")
}

func TestKnownUserRepositoryAddRemove(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t)
	repo, err := NewKnownUserRepository(config)
	require.NoError(t, err)

	added, err := repo.Add(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Add(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, added)

	_, err = repo.Add(context.Background(), 1)
	require.NoError(t, err)

	require.NoError(t, repo.Remove(context.Background(), 2))
	require.NoError(t, repo.Remove(context.Background(), 99))

	reopened, err := NewKnownUserRepository(config)
	require.NoError(t, err)

	users, err := reopened.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.UserID{1}, users)
}

func TestStatsRepositoryIncrementsPerWeek(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t)
	repo, err := NewStatsRepository(config)
	require.NoError(t, err)

	_, err = repo.Increment(context.Background(), "2026-W42", 1)
	require.NoError(t, err)
	tally, err := repo.Increment(context.Background(), "2026-W42", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, tally.PerUser[1])

	_, err = repo.Increment(context.Background(), "2026-W43", 2)
	require.NoError(t, err)

	reopened, err := NewStatsRepository(config)
	require.NoError(t, err)

	week, err := reopened.GetWeek(context.Background(), "2026-W42")
	require.NoError(t, err)
	assert.Equal(t, map[domain.UserID]int{1: 2}, week.PerUser)

	empty, err := reopened.GetWeek(context.Background(), "2020-W01")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total())
}

func TestStoreFilesUseRestrictivePermissions(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t)
	repo, err := NewKnownUserRepository(config)
	require.NoError(t, err)

	_, err = repo.Add(context.Background(), 7)
	require.NoError(t, err)

	info, err := os.Stat(repo.path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(storeFileMode), info.Mode().Perm())
}

func TestRepositoriesHonorCanceledContext(t *testing.T) {
	t.Parallel()

	repo, err := NewDecisionRepository(newTestConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = repo.Save(ctx, domain.Decision{ID: "1"})
	require.ErrorIs(t, err, context.Canceled)
}
