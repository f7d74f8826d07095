package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/openkms/tokend/internal/token/domain"
	"github.com/openkms/tokend/internal/token/store"
	"github.com/openkms/tokend/internal/token/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "tokens.db"))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func intPtr(v int) *int                       { return &v }
func timePtr(ts time.Time) *time.Time         { return &ts }
func durPtr(d time.Duration) *time.Duration   { return &d }

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore(t)

	notBefore := time.Now().UTC().Truncate(time.Second)
	notAfter := notBefore.Add(30 * time.Minute)

	rec := domain.TokenRecord{
		Credential: domain.TokenCredential{
			Value:     "tok-sqlite",
			NotBefore: notBefore,
			NotAfter:  timePtr(notAfter),
			Used:      1,
			UsedMax:   intPtr(10),
			Keepalive: durPtr(5 * time.Minute),
		},
		Username:    "admin",
		Permissions: []string{"login_token:create", "audit:read"},
	}
	require.NoError(t, s.Add(ctx, rec))

	got, err := s.Get(ctx, "tok-sqlite")
	require.NoError(t, err)
	require.Equal(t, "admin", got.Username)
	require.Equal(t, []string{"login_token:create", "audit:read"}, got.Permissions)
	require.True(t, got.Credential.NotBefore.Equal(notBefore))
	require.NotNil(t, got.Credential.NotAfter)
	require.True(t, got.Credential.NotAfter.Equal(notAfter))
	require.Equal(t, 1, got.Credential.Used)
	require.Equal(t, 10, *got.Credential.UsedMax)
	require.Equal(t, 5*time.Minute, *got.Credential.Keepalive)
}

func TestAddDuplicate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore(t)

	rec := domain.TokenRecord{
		Credential: domain.TokenCredential{Value: "tok-dup", NotBefore: time.Now().UTC()},
	}
	require.NoError(t, s.Add(ctx, rec))
	require.ErrorIs(t, s.Add(ctx, rec), store.ErrAlreadyExists)
}

func TestFindAbsent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore(t)

	rec, err := s.Find(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, rec)

	_, err = s.Get(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateUsageGuard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore(t)

	rec := domain.TokenRecord{
		Credential: domain.TokenCredential{
			Value:     "tok-guard",
			NotBefore: time.Now().UTC(),
			Used:      5,
		},
	}
	require.NoError(t, s.Add(ctx, rec))

	t.Run("unknown token", func(t *testing.T) {
		unknown := rec
		unknown.Credential.Value = "missing"
		require.ErrorIs(t, s.Update(ctx, unknown), store.ErrNotFound)
	})

	t.Run("regression rejected", func(t *testing.T) {
		stale := rec
		stale.Credential.Used = 4
		require.ErrorIs(t, s.Update(ctx, stale), store.ErrInvalidUpdate)
	})

	t.Run("growth accepted", func(t *testing.T) {
		next := rec
		next.Credential.Used = 6
		require.NoError(t, s.Update(ctx, next))

		got, err := s.Get(ctx, "tok-guard")
		require.NoError(t, err)
		require.Equal(t, 6, got.Credential.Used)
	})
}
