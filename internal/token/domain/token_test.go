package domain_test

import (
	"testing"
	"time"

	"github.com/openkms/tokend/internal/token/domain"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int              { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func TestValidAt(t *testing.T) {
	t.Parallel()

	now := time.Now()

	t.Run("within window", func(t *testing.T) {
		cred := domain.TokenCredential{
			Value:     "t",
			NotBefore: now.Add(-time.Minute),
			NotAfter:  timePtr(now.Add(time.Minute)),
		}
		require.True(t, cred.ValidAt(now))
	})

	t.Run("before notBefore", func(t *testing.T) {
		cred := domain.TokenCredential{Value: "t", NotBefore: now.Add(time.Minute)}
		require.False(t, cred.ValidAt(now))
	})

	t.Run("after notAfter", func(t *testing.T) {
		cred := domain.TokenCredential{
			Value:     "t",
			NotBefore: now.Add(-time.Hour),
			NotAfter:  timePtr(now.Add(-time.Minute)),
		}
		require.False(t, cred.ValidAt(now))
	})

	t.Run("nil notAfter never expires", func(t *testing.T) {
		cred := domain.TokenCredential{Value: "t", NotBefore: now.Add(-time.Hour)}
		require.True(t, cred.ValidAt(now.Add(24*365*time.Hour)))
	})

	t.Run("exhausted usage", func(t *testing.T) {
		cred := domain.TokenCredential{
			Value:     "t",
			NotBefore: now.Add(-time.Minute),
			Used:      1,
			UsedMax:   intPtr(1),
		}
		require.False(t, cred.ValidAt(now))
	})

	t.Run("usage remaining", func(t *testing.T) {
		cred := domain.TokenCredential{
			Value:     "t",
			NotBefore: now.Add(-time.Minute),
			Used:      0,
			UsedMax:   intPtr(1),
		}
		require.True(t, cred.ValidAt(now))
	})
}

func TestAnonymous(t *testing.T) {
	t.Parallel()

	require.True(t, domain.TokenRecord{}.Anonymous())
	require.False(t, domain.TokenRecord{Username: "admin"}.Anonymous())
}
