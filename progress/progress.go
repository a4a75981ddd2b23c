package progress

import (
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the registry.
// Fields are signed: Pending goes up on request and down on every outcome.
type Delta struct {
	Requested int
	Pending   int
	Approved  int
	Cancelled int
	TimedOut  int
	Expired   int
	Denied    int
}

// Counters is a point-in-time copy of the tracker.
type Counters struct {
	StartedAt time.Time
	Requested int
	Pending   int
	Approved  int
	Cancelled int
	TimedOut  int
	Expired   int
	Denied    int
}

// Settled returns the number of requests with an outcome.
func (c Counters) Settled() int {
	return c.Approved + c.Cancelled + c.TimedOut + c.Expired
}

// Progress keeps aggregated approval counters. It is safe for concurrent use.
type Progress struct {
	mu       sync.Mutex
	counters Counters
	onChange func(Counters)
}

// New creates a tracker; onChange may be nil.
func New(onChange func(Counters)) *Progress {
	return &Progress{counters: Counters{StartedAt: time.Now()}, onChange: onChange}
}

// Update applies the supplied delta. The onChange callback, if any, receives
// a copy outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.mu.Lock()
	c := &p.counters
	c.Requested += d.Requested
	c.Pending += d.Pending
	c.Approved += d.Approved
	c.Cancelled += d.Cancelled
	c.TimedOut += d.TimedOut
	c.Expired += d.Expired
	c.Denied += d.Denied
	snapshot := *c
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the counters.
func (p *Progress) Snapshot() Counters {
	if p == nil {
		return Counters{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counters
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables it; a later call replaces an earlier one.
func (p *Progress) OnChange(cb func(Counters)) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.onChange = cb
	p.mu.Unlock()
}
