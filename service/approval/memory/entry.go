package memory

import (
	"sync"
	"time"

	"github.com/viant/consent/internal/clock"
	approval "github.com/viant/consent/service/approval"
)

// entry is a registry record: the immutable action plus the continuation
// that settles the caller's Result.
type entry struct {
	action  *approval.Action
	settler *approval.Settler

	mu     sync.Mutex
	timer  clock.Timer
	closed bool
}

func entryKey(e *entry) string { return e.action.ID }

// arm installs the per-request timer unless the entry was already taken.
func (e *entry) arm(c clock.Clock, d time.Duration, fire func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.timer = c.AfterFunc(d, fire)
}

// close stops the timer; later arm calls become no-ops.
func (e *entry) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
