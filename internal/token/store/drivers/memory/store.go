// Package memory provides an in-process token store backed by a map.
// Records do not survive a restart; intended for tests and single-node
// deployments where tokens are ephemeral by design.
package memory

import (
	"context"
	"sync"

	"github.com/openkms/tokend/internal/token/domain"
	"github.com/openkms/tokend/internal/token/store"
)

// Store is a map-backed token store safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	tokens map[string]domain.TokenRecord
}

var _ store.Store = (*Store)(nil)

// New creates an empty in-memory token store.
func New() *Store {
	return &Store{tokens: make(map[string]domain.TokenRecord)}
}

// Add registers a new token record.
func (s *Store) Add(ctx context.Context, rec domain.TokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens[rec.Credential.Value]; ok {
		return store.ErrAlreadyExists
	}
	s.tokens[rec.Credential.Value] = rec
	return nil
}

// Update replaces the record for an existing token value.
func (s *Store) Update(ctx context.Context, rec domain.TokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tokens[rec.Credential.Value]
	if !ok {
		return store.ErrNotFound
	}
	if rec.Credential.Used < current.Credential.Used {
		return store.ErrInvalidUpdate
	}
	s.tokens[rec.Credential.Value] = rec
	return nil
}

// Find looks up a record, returning (nil, nil) when absent.
func (s *Store) Find(ctx context.Context, value string) (*domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.tokens[value]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Get looks up a record, returning store.ErrNotFound when absent.
func (s *Store) Get(ctx context.Context, value string) (*domain.TokenRecord, error) {
	rec, err := s.Find(ctx, value)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, store.ErrNotFound
	}
	return rec, nil
}

// Ping always succeeds for an in-memory store.
func (s *Store) Ping(ctx context.Context) error { return nil }

// Close is a no-op for an in-memory store.
func (s *Store) Close() error { return nil }
