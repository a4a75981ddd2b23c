package approval

import (
	"context"
	"fmt"
	"time"
)

// DecisionFunc decides what to do with a pending action.
// Return true to approve, false to cancel.
type DecisionFunc func(a *Action) bool

// AutoDecider starts a goroutine that polls ListPending and applies fn to
// every pending action.  It returns stop(); call it or cancel ctx to exit.
// It is meant for headless hosts and tests where nobody sits at the display.
func AutoDecider(ctx context.Context,
	svc Service,
	fn DecisionFunc,
	interval time.Duration) (stop func()) {

	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				actions, _ := svc.ListPending(ctx)
				for _, a := range actions {
					if fn(a) {
						_, _ = svc.Approve(ctx, a.ID)
					} else {
						_ = svc.Cancel(ctx, a.ID)
					}
				}
			}
		}
	}()
	return func() { close(done) }
}

// AutoApprove automatically approves all pending actions
func AutoApprove(ctx context.Context,
	svc Service,
	interval time.Duration) func() {
	return AutoDecider(ctx, svc, func(*Action) bool { return true }, interval)
}

// AutoCancel automatically cancels all pending actions
func AutoCancel(ctx context.Context,
	svc Service,
	interval time.Duration) func() {
	return AutoDecider(ctx, svc, func(*Action) bool { return false }, interval)
}

// WaitForDecision waits up to timeout for result to settle.
func WaitForDecision(ctx context.Context, result *Result, timeout time.Duration) (*Decision, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	d, err := result.Wait(ctx)
	if err != nil && ctx.Err() != nil && !result.Settled() {
		return nil, fmt.Errorf("timeout waiting for decision on %s: %w", result.ID(), err)
	}
	return d, err
}
