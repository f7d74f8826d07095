// Package realm implements token authentication against a token store:
// presented-token lookup, keepalive extension, validity verification, and
// permission resolution for authorization decisions.
package realm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openkms/tokend/internal/token/domain"
	"github.com/openkms/tokend/internal/token/store"
	"github.com/openkms/tokend/pkg/slogx"
)

// ErrTokenNotRecognized is returned when a presented token does not match
// any stored record. It deliberately does not distinguish unknown from
// mismatched tokens.
var ErrTokenNotRecognized = errors.New("realm: token not recognized")

// Authenticator resolves presented token values against a token store.
type Authenticator struct {
	Store store.Store

	// Now is the clock used for keepalive and validity decisions.
	// Defaults to time.Now when nil.
	Now func() time.Time
}

func (a *Authenticator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Authenticate resolves a presented token value to its stored record. It
// performs no validity checking: expiry and usage limits are enforced by
// Verify so the two concerns stay separately testable.
//
// When the matched credential carries a keepalive, its expiration is pushed
// out to now+keepalive as a side effect of the successful lookup. A failed
// extension write fails the authentication: the caller would otherwise
// proceed on a validity window the store never recorded.
func (a *Authenticator) Authenticate(ctx context.Context, value string) (*domain.TokenRecord, error) {
	if value == "" {
		return nil, ErrTokenNotRecognized
	}

	rec, err := a.Store.Find(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("token lookup: %w", err)
	}
	if rec == nil || rec.Credential.Value != value {
		return nil, ErrTokenNotRecognized
	}

	if rec.Credential.Keepalive != nil {
		extended := *rec
		extended.Credential = extended.Credential.WithNotAfter(a.now().Add(*rec.Credential.Keepalive))
		if err := a.Store.Update(ctx, extended); err != nil {
			return nil, fmt.Errorf("keepalive extension: %w", err)
		}
		rec = &extended
	}

	return rec, nil
}

// Verify checks that an authenticated record is currently usable (within
// its validity window and not exhausted) and then records the use by
// incrementing the usage count. Returns the updated record.
func (a *Authenticator) Verify(ctx context.Context, rec domain.TokenRecord) (*domain.TokenRecord, error) {
	if !rec.Credential.ValidAt(a.now()) {
		return nil, ErrTokenNotRecognized
	}

	used := rec
	used.Credential = used.Credential.WithUsed(rec.Credential.Used + 1)
	if err := a.Store.Update(ctx, used); err != nil {
		return nil, fmt.Errorf("record token use: %w", err)
	}
	return &used, nil
}

// Permissions returns the permission strings granted by a token value, or
// nil when the token is unknown. Lookup failures degrade to no permissions
// rather than erroring, since a missing grant and a failed grant lookup
// deny the same way.
func (a *Authenticator) Permissions(ctx context.Context, value string) []string {
	rec, err := a.Store.Find(ctx, value)
	if err != nil {
		slogx.FromContext(ctx).Warn("permission lookup failed",
			"error", err,
		)
		return nil
	}
	if rec == nil {
		return nil
	}
	return rec.Permissions
}
