// Package store defines the persistence contract for login token records.
//
// A store keys records by the literal token value. Implementations live in
// the drivers subpackages (memory, file, sqlite) and must all satisfy the
// same semantics:
//
//   - Add fails with ErrAlreadyExists when the token value is taken.
//   - Update fails with ErrNotFound for unknown tokens and with
//     ErrInvalidUpdate when it would decrease the recorded usage count.
//   - Find returns (nil, nil) for unknown tokens; Get returns ErrNotFound.
package store

import (
	"context"
	"errors"

	"github.com/openkms/tokend/internal/token/domain"
)

var (
	// ErrNotFound is returned when no record exists for a token value.
	ErrNotFound = errors.New("store: token not found")

	// ErrAlreadyExists is returned when adding a token value already in use.
	ErrAlreadyExists = errors.New("store: token already registered")

	// ErrInvalidUpdate is returned when an update would decrease the usage count.
	ErrInvalidUpdate = errors.New("store: usage count must not decrease")
)

// Store persists token records keyed by token value.
type Store interface {
	// Add registers a new token record. The token value must be unused.
	Add(ctx context.Context, rec domain.TokenRecord) error

	// Update replaces the record for an existing token value.
	Update(ctx context.Context, rec domain.TokenRecord) error

	// Find looks up a record by token value. A missing token is not an
	// error: it returns (nil, nil).
	Find(ctx context.Context, value string) (*domain.TokenRecord, error)

	// Get looks up a record by token value, returning ErrNotFound when absent.
	Get(ctx context.Context, value string) (*domain.TokenRecord, error)

	// Ping reports whether the backing medium is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
