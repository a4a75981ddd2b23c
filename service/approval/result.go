package approval

import (
	"context"
	"sync"
)

// Result is the deferred outcome of a RequestApproval call. It is settled
// exactly once, either with a Decision or with an error.
type Result struct {
	id       string
	done     chan struct{}
	once     sync.Once
	decision *Decision
	err      error
}

// Settler is the resolving side of a Result; only the registry holds it.
type Settler struct {
	result *Result
}

// NewResult creates an unsettled Result and its Settler.
func NewResult(id string) (*Result, *Settler) {
	r := &Result{id: id, done: make(chan struct{})}
	return r, &Settler{result: r}
}

// Approved returns a Result already settled with d.
func Approved(d *Decision) *Result {
	r, s := NewResult(d.ID)
	s.Resolve(d)
	return r
}

// Failed returns a Result already settled with err.
func Failed(id string, err error) *Result {
	r, s := NewResult(id)
	s.Reject(err)
	return r
}

// ID returns the pending action id.
func (r *Result) ID() string { return r.id }

// Done is closed once the Result is settled.
func (r *Result) Done() <-chan struct{} { return r.done }

// Wait blocks until the Result is settled or ctx is done. Abandoning Wait
// does not cancel the pending action.
func (r *Result) Wait(ctx context.Context) (*Decision, error) {
	select {
	case <-r.done:
		return r.decision, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Settled reports whether the Result has an outcome.
func (r *Result) Settled() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Outcome returns the settled values without blocking. Both are nil while
// the action is still pending.
func (r *Result) Outcome() (*Decision, error) {
	if !r.Settled() {
		return nil, nil
	}
	return r.decision, r.err
}

// Resolve fulfils the Result; it reports false when already settled.
func (s *Settler) Resolve(d *Decision) bool {
	return s.settle(d, nil)
}

// Reject fails the Result; it reports false when already settled.
func (s *Settler) Reject(err error) bool {
	return s.settle(nil, err)
}

func (s *Settler) settle(d *Decision, err error) bool {
	settled := false
	s.result.once.Do(func() {
		s.result.decision = d
		s.result.err = err
		close(s.result.done)
		settled = true
	})
	return settled
}
