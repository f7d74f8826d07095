// Package service implements token issuance and extension on top of a
// token store.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openkms/tokend/internal/token/domain"
	"github.com/openkms/tokend/internal/token/store"
	"github.com/openkms/tokend/pkg/cryptox"
	"github.com/openkms/tokend/pkg/slogx"
)

// ErrInsecureChannel is returned when issuance is attempted over a channel
// the service is configured to consider insecure.
var ErrInsecureChannel = errors.New("service: token issuance requires a secure channel")

// TokenRequest describes one requested token. Zero-valued fields are
// defaulted by the service.
type TokenRequest struct {
	// NotBefore is the requested validity start. Defaults to now.
	NotBefore *time.Time

	// NotAfter is the requested expiration. Defaults to NotBefore plus the
	// configured issuance lifetime.
	NotAfter *time.Time

	// NotMoreThan caps the number of uses. Nil means unlimited.
	NotMoreThan *int
}

// IssuedToken is one minted token with its resolved attributes, echoed back
// in the order the requests arrived.
type IssuedToken struct {
	Token       string
	NotBefore   time.Time
	NotAfter    time.Time
	NotMoreThan *int
}

// IssueService mints and extends login tokens.
type IssueService struct {
	Store store.Store

	// ExpiresAfter is the default token lifetime applied when a request
	// does not name its own expiration.
	ExpiresAfter time.Duration

	// RequireTLS rejects issuance over insecure channels when set.
	RequireTLS bool

	// NewToken generates the random token value. Defaults to a 256-bit
	// random string; injectable so tests can mint predictable tokens.
	NewToken func() (string, error)

	// Now is the clock used for defaulting. Defaults to time.Now when nil.
	Now func() time.Time
}

func (s *IssueService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *IssueService) newToken() (string, error) {
	if s.NewToken != nil {
		return s.NewToken()
	}
	return cryptox.GenerateToken(cryptox.TokenSize256)
}

// IssueTokens mints one token per request, bound to the caller's identity
// and permissions, and echoes the resolved attributes back in request
// order. The secure flag reports whether the transport is trusted; when
// RequireTLS is set an insecure channel fails with ErrInsecureChannel
// before any token is minted.
func (s *IssueService) IssueTokens(ctx context.Context, caller domain.Principal, reqs []TokenRequest, secure bool) ([]IssuedToken, error) {
	if s.RequireTLS && !secure {
		return nil, ErrInsecureChannel
	}

	log := slogx.FromContext(ctx)
	issued := make([]IssuedToken, 0, len(reqs))

	for _, req := range reqs {
		notBefore := s.now()
		if req.NotBefore != nil {
			notBefore = *req.NotBefore
		}
		notAfter := notBefore.Add(s.ExpiresAfter)
		if req.NotAfter != nil {
			notAfter = *req.NotAfter
		}

		value, err := s.newToken()
		if err != nil {
			return nil, fmt.Errorf("generate token: %w", err)
		}

		rec := domain.TokenRecord{
			Credential: domain.TokenCredential{
				Value:     value,
				NotBefore: notBefore,
				NotAfter:  &notAfter,
				UsedMax:   req.NotMoreThan,
			},
			Username:    caller.Username,
			Permissions: caller.Permissions,
		}
		if err := s.Store.Add(ctx, rec); err != nil {
			return nil, fmt.Errorf("store token: %w", err)
		}

		issued = append(issued, IssuedToken{
			Token:       value,
			NotBefore:   notBefore,
			NotAfter:    notAfter,
			NotMoreThan: req.NotMoreThan,
		})
	}

	log.Info("login tokens issued",
		"count", len(issued),
		"username", caller.Username,
	)

	return issued, nil
}

// ExtendToken pushes a token's expiration out by the configured lifetime,
// measured from its current expiration (or from now when it has none), and
// returns the new expiration. An unknown token fails with store.ErrNotFound.
func (s *IssueService) ExtendToken(ctx context.Context, value string) (time.Time, error) {
	rec, err := s.Store.Get(ctx, value)
	if err != nil {
		return time.Time{}, err
	}

	base := s.now()
	if rec.Credential.NotAfter != nil {
		base = *rec.Credential.NotAfter
	}
	notAfter := base.Add(s.ExpiresAfter)

	updated := *rec
	updated.Credential = updated.Credential.WithNotAfter(notAfter)
	if err := s.Store.Update(ctx, updated); err != nil {
		return time.Time{}, fmt.Errorf("extend token: %w", err)
	}

	slogx.FromContext(ctx).Info("login token extended", "not_after", notAfter)

	return notAfter, nil
}
