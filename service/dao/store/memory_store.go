package store

import (
	"context"
	"sync"

	"github.com/viant/consent/service/dao"
)

// MemoryStore is a generic in-memory implementation of dao.Service.
// It keeps entities of type *T mapped by a comparable key K obtained from
// keySelector. List parameters are evaluated by an optional matcher.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	keySelector func(*T) K
	matcher     func(*T, *dao.Parameter) bool
}

// Option customises a MemoryStore.
type Option[K comparable, T any] func(*MemoryStore[K, T])

// WithMatcher sets the function used by List to evaluate parameters.
func WithMatcher[K comparable, T any](fn func(*T, *dao.Parameter) bool) Option[K, T] {
	return func(s *MemoryStore[K, T]) { s.matcher = fn }
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K, options ...Option[K, T]) *MemoryStore[K, T] {
	ret := &MemoryStore[K, T]{
		records:     make(map[K]*T),
		keySelector: keySelector,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Save stores or overwrites a record.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	if isZero(key) {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = v
	return nil
}

// Insert stores v only when its key is free; it reports whether v was stored.
func (s *MemoryStore[K, T]) Insert(_ context.Context, v *T) (bool, error) {
	if v == nil {
		return false, dao.ErrNilEntity
	}
	key := s.keySelector(v)
	if isZero(key) {
		return false, dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; ok {
		return false, nil
	}
	s.records[key] = v
	return true, nil
}

// Load returns a record by key or dao.ErrNotFound.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return v, nil
}

// Take removes and returns a record, or dao.ErrNotFound when absent.
func (s *MemoryStore[K, T]) Take(_ context.Context, key K) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	delete(s.records, key)
	return v, nil
}

// Delete removes a record.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// List returns stored records matching all parameters.
func (s *MemoryStore[K, T]) List(_ context.Context, parameters ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.records))
	for _, v := range s.records {
		if s.matches(v, parameters) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Len returns the number of stored records.
func (s *MemoryStore[K, T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore[K, T]) matches(v *T, parameters []*dao.Parameter) bool {
	if s.matcher == nil {
		return true
	}
	for _, p := range parameters {
		if !s.matcher(v, p) {
			return false
		}
	}
	return true
}

func isZero[K comparable](key K) bool {
	var zero K
	return key == zero
}

var (
	_ dao.Service[string, struct{}] = (*MemoryStore[string, struct{}])(nil)
	_ dao.Taker[string, struct{}]   = (*MemoryStore[string, struct{}])(nil)
)
