// Package headless provides an in-memory confirmation surface for embedding
// hosts and tests.
package headless

import (
	"context"
	"sync"

	approval "github.com/viant/consent/service/approval"
)

// Surface keeps the currently shown action in memory.
type Surface struct {
	mu      sync.RWMutex
	current string
	view    *approval.View
	shown   []string
	hides   int
	onShow  func(id string, view *approval.View)
}

// Option customises a Surface.
type Option func(*Surface)

// WithOnShow registers a callback run after every Show, outside the lock.
func WithOnShow(fn func(id string, view *approval.View)) Option {
	return func(s *Surface) { s.onShow = fn }
}

func New(options ...Option) *Surface {
	ret := &Surface{}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Show replaces whatever is displayed with view.
func (s *Surface) Show(_ context.Context, id string, view *approval.View) error {
	s.mu.Lock()
	s.current = id
	s.view = view
	s.shown = append(s.shown, id)
	cb := s.onShow
	s.mu.Unlock()
	if cb != nil {
		cb(id, view)
	}
	return nil
}

func (s *Surface) Hide(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
	s.view = nil
	s.hides++
	return nil
}

func (s *Surface) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// View returns the displayed rendering, nil when hidden.
func (s *Surface) View() *approval.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *Surface) Visible() bool {
	return s.Current() != ""
}

// Shown returns every id passed to Show, in order.
func (s *Surface) Shown() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.shown...)
}

// Hides returns how many times Hide was called.
func (s *Surface) Hides() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hides
}

var _ approval.Display = (*Surface)(nil)
