package realm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openkms/tokend/internal/token/domain"
	"github.com/openkms/tokend/internal/token/realm"
	"github.com/openkms/tokend/internal/token/store/drivers/memory"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int                     { return &v }
func timePtr(ts time.Time) *time.Time       { return &ts }
func durPtr(d time.Duration) *time.Duration { return &d }

func seed(t *testing.T, s *memory.Store, rec domain.TokenRecord) {
	t.Helper()
	require.NoError(t, s.Add(context.Background(), rec))
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New()
	auth := &realm.Authenticator{Store: s}

	seed(t, s, domain.TokenRecord{
		Credential:  domain.TokenCredential{Value: "tok-ok", NotBefore: time.Now()},
		Username:    "admin",
		Permissions: []string{"*:*"},
	})

	t.Run("known token resolves", func(t *testing.T) {
		rec, err := auth.Authenticate(ctx, "tok-ok")
		require.NoError(t, err)
		require.Equal(t, "admin", rec.Username)
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		_, err := auth.Authenticate(ctx, "tok-unknown")
		require.ErrorIs(t, err, realm.ErrTokenNotRecognized)
	})

	t.Run("empty token rejected", func(t *testing.T) {
		_, err := auth.Authenticate(ctx, "")
		require.ErrorIs(t, err, realm.ErrTokenNotRecognized)
	})

	t.Run("no validity check on expired token", func(t *testing.T) {
		expired := time.Now().Add(-time.Hour)
		seed(t, s, domain.TokenRecord{
			Credential: domain.TokenCredential{
				Value:     "tok-expired",
				NotBefore: expired.Add(-time.Hour),
				NotAfter:  timePtr(expired),
			},
		})

		// Authentication only matches the token; Verify enforces validity.
		rec, err := auth.Authenticate(ctx, "tok-expired")
		require.NoError(t, err)
		require.NotNil(t, rec)
	})
}

func TestAuthenticateKeepalive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New()

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := t0
	auth := &realm.Authenticator{
		Store: s,
		Now:   func() time.Time { return clock },
	}

	seed(t, s, domain.TokenRecord{
		Credential: domain.TokenCredential{
			Value:     "tok-ka",
			NotBefore: t0.Add(-time.Minute),
			NotAfter:  timePtr(t0.Add(10 * time.Second)),
			Keepalive: durPtr(60 * time.Second),
		},
	})

	// First lookup at T0 pushes notAfter out to T0+60s.
	rec, err := auth.Authenticate(ctx, "tok-ka")
	require.NoError(t, err)
	require.True(t, rec.Credential.NotAfter.Equal(t0.Add(60*time.Second)))

	// A later lookup at T0+30s extends again, to T0+90s.
	clock = t0.Add(30 * time.Second)
	rec, err = auth.Authenticate(ctx, "tok-ka")
	require.NoError(t, err)
	require.True(t, rec.Credential.NotAfter.Equal(t0.Add(90*time.Second)))

	// The extension is persisted, not just echoed.
	stored, err := s.Get(ctx, "tok-ka")
	require.NoError(t, err)
	require.True(t, stored.Credential.NotAfter.Equal(t0.Add(90*time.Second)))
}

// brokenUpdateStore fails every update, simulating a write error on the
// backing medium.
type brokenUpdateStore struct {
	*memory.Store
}

func (s *brokenUpdateStore) Update(ctx context.Context, rec domain.TokenRecord) error {
	return errors.New("write failed")
}

func TestAuthenticateKeepaliveWriteFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New()
	auth := &realm.Authenticator{Store: &brokenUpdateStore{Store: s}}

	seed(t, s, domain.TokenRecord{
		Credential: domain.TokenCredential{
			Value:     "tok-ka-broken",
			NotBefore: time.Now().Add(-time.Minute),
			Keepalive: durPtr(60 * time.Second),
		},
	})

	// An unrecorded extension must not authenticate: the caller would
	// otherwise proceed on a validity window the store never saw.
	_, err := auth.Authenticate(ctx, "tok-ka-broken")
	require.Error(t, err)

	// A credential without keepalive never hits the write path.
	seed(t, s, domain.TokenRecord{
		Credential: domain.TokenCredential{
			Value:     "tok-plain",
			NotBefore: time.Now().Add(-time.Minute),
		},
	})
	rec, err := auth.Authenticate(ctx, "tok-plain")
	require.NoError(t, err)
	require.NotNil(t, rec)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	auth := &realm.Authenticator{
		Store: s,
		Now:   func() time.Time { return now },
	}

	t.Run("valid token increments used", func(t *testing.T) {
		rec := domain.TokenRecord{
			Credential: domain.TokenCredential{
				Value:     "tok-verify",
				NotBefore: now.Add(-time.Minute),
				UsedMax:   intPtr(3),
			},
		}
		seed(t, s, rec)

		got, err := auth.Verify(ctx, rec)
		require.NoError(t, err)
		require.Equal(t, 1, got.Credential.Used)

		stored, err := s.Get(ctx, "tok-verify")
		require.NoError(t, err)
		require.Equal(t, 1, stored.Credential.Used)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		rec := domain.TokenRecord{
			Credential: domain.TokenCredential{
				Value:     "tok-verify-expired",
				NotBefore: now.Add(-time.Hour),
				NotAfter:  timePtr(now.Add(-time.Minute)),
			},
		}
		seed(t, s, rec)

		_, err := auth.Verify(ctx, rec)
		require.ErrorIs(t, err, realm.ErrTokenNotRecognized)
	})

	t.Run("exhausted token rejected", func(t *testing.T) {
		rec := domain.TokenRecord{
			Credential: domain.TokenCredential{
				Value:     "tok-verify-spent",
				NotBefore: now.Add(-time.Minute),
				Used:      2,
				UsedMax:   intPtr(2),
			},
		}
		seed(t, s, rec)

		_, err := auth.Verify(ctx, rec)
		require.ErrorIs(t, err, realm.ErrTokenNotRecognized)
	})
}

func TestPermissions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memory.New()
	auth := &realm.Authenticator{Store: s}

	seed(t, s, domain.TokenRecord{
		Credential:  domain.TokenCredential{Value: "tok-perms", NotBefore: time.Now()},
		Permissions: []string{"login_token:create", "audit:read"},
	})

	require.Equal(t,
		[]string{"login_token:create", "audit:read"},
		auth.Permissions(ctx, "tok-perms"),
	)
	require.Nil(t, auth.Permissions(ctx, "tok-unknown"))
}
