// Package history keeps the bounded, deduplicated, most-recent-first list
// of past search queries, persisted through the key-value store.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchdeck/internal/kvstore"
)

// DefaultLimit caps the retained history length.
const DefaultLimit = 10

// DuplicatePolicy decides what happens when a recorded query is already
// present in the history.
type DuplicatePolicy string

// Duplicate policies. MoveToFront is the default; IgnoreDuplicate keeps
// the existing position and records nothing.
const (
	MoveToFront     DuplicatePolicy = "move_to_front"
	IgnoreDuplicate DuplicatePolicy = "ignore"
)

// Store is the search history. It rehydrates once at construction; a
// malformed persisted value is treated as absent, never as an error.
type Store struct {
	kv     kvstore.Store
	key    string
	limit  int
	policy DuplicatePolicy
	logger *zap.Logger

	mu      sync.Mutex
	entries []string
}

// Option configures the Store.
type Option func(*Store)

// WithLimit overrides the retained length cap.
func WithLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithPolicy selects the duplicate policy.
func WithPolicy(p DuplicatePolicy) Option {
	return func(s *Store) {
		if p == MoveToFront || p == IgnoreDuplicate {
			s.policy = p
		}
	}
}

// WithLogger enables logging of persistence failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates the history store and rehydrates it from kv.
func New(ctx context.Context, kv kvstore.Store, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    kvstore.KeySearchHistory,
		limit:  DefaultLimit,
		policy: MoveToFront,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	s.entries = s.rehydrate(ctx)
	return s
}

func (s *Store) rehydrate(ctx context.Context) []string {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("history rehydrate failed", zap.Error(err))
		return nil
	}
	if !found {
		return nil
	}
	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		// Corrupt persisted value: start over rather than fail startup.
		s.logger.Warn("malformed persisted history, starting empty", zap.Error(err))
		return nil
	}
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}
	return entries
}

// Record adds query to the front of the history, applying the duplicate
// policy and the length cap, then persists the result.
func (s *Store) Record(ctx context.Context, query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, e := range s.entries {
		if e == query {
			idx = i
			break
		}
	}
	if idx >= 0 {
		if s.policy == IgnoreDuplicate {
			return nil
		}
		s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	}

	s.entries = append([]string{query}, s.entries...)
	if len(s.entries) > s.limit {
		s.entries = s.entries[:s.limit]
	}
	return s.persist(ctx)
}

// Clear empties the history and removes the persisted record.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	if err := s.kv.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Entries returns a copy of the history, most recent first.
func (s *Store) Entries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}
