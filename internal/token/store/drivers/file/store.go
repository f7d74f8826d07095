// Package file provides a token store that keeps one JSON document per
// token on disk, named by the literal token value, with an in-process
// read-through cache in front. Disk is authoritative: writes land on disk
// before the cache is touched, and updates re-read the disk copy before
// validating, so multiple processes sharing the directory stay consistent.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/openkms/tokend/internal/token/domain"
	"github.com/openkms/tokend/internal/token/store"
)

// Store persists token records as JSON files under a single directory.
type Store struct {
	dir string

	mu    sync.RWMutex
	cache map[string]domain.TokenRecord
}

var _ store.Store = (*Store)(nil)

// New creates a file-backed token store rooted at dir, creating the
// directory if it does not exist.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create token directory: %w", err)
	}
	return &Store{
		dir:   dir,
		cache: make(map[string]domain.TokenRecord),
	}, nil
}

// path maps a token value to its file on disk. Token values containing
// path separators or dot segments never match a stored file.
func (s *Store) path(value string) (string, bool) {
	if value == "" || value == "." || value == ".." {
		return "", false
	}
	if strings.ContainsAny(value, `/\`) {
		return "", false
	}
	return filepath.Join(s.dir, value), true
}

func (s *Store) readDisk(value string) (*domain.TokenRecord, error) {
	path, ok := s.path(value)
	if !ok {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var rec domain.TokenRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode token file: %w", err)
	}
	return &rec, nil
}

func (s *Store) writeDisk(rec domain.TokenRecord) error {
	path, ok := s.path(rec.Credential.Value)
	if !ok {
		return fmt.Errorf("invalid token value for file storage")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode token record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Add registers a new token record, writing it to disk before caching.
func (s *Store) Add(ctx context.Context, rec domain.TokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cache[rec.Credential.Value]; ok {
		return store.ErrAlreadyExists
	}
	existing, err := s.readDisk(rec.Credential.Value)
	if err != nil {
		return err
	}
	if existing != nil {
		return store.ErrAlreadyExists
	}

	if err := s.writeDisk(rec); err != nil {
		return err
	}
	s.cache[rec.Credential.Value] = rec
	return nil
}

// Update replaces the record for an existing token. The disk copy is
// re-read first and treated as the current state, so a usage count that
// regressed relative to disk is rejected even if the cache is behind.
func (s *Store) Update(ctx context.Context, rec domain.TokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readDisk(rec.Credential.Value)
	if err != nil {
		return err
	}
	if current == nil {
		return store.ErrNotFound
	}
	if rec.Credential.Used < current.Credential.Used {
		return store.ErrInvalidUpdate
	}

	if err := s.writeDisk(rec); err != nil {
		return err
	}
	s.cache[rec.Credential.Value] = rec
	return nil
}

// Find looks up a record in the cache first, falling back to disk and
// populating the cache on a hit. Absent tokens return (nil, nil).
func (s *Store) Find(ctx context.Context, value string) (*domain.TokenRecord, error) {
	s.mu.RLock()
	rec, ok := s.cache[value]
	s.mu.RUnlock()
	if ok {
		return &rec, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.cache[value]; ok {
		return &rec, nil
	}
	fromDisk, err := s.readDisk(value)
	if err != nil {
		return nil, err
	}
	if fromDisk == nil {
		return nil, nil
	}
	s.cache[value] = *fromDisk
	return fromDisk, nil
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

// Ping verifies the token directory is still accessible.
func (s *Store) Ping(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("token directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("token path %s is not a directory", s.dir)
	}
	return nil
}

// Close drops the in-process cache; files on disk are retained.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]domain.TokenRecord)
	return nil
}
