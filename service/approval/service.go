package approval

import (
	"context"

	"github.com/viant/consent/service/dao"
	"github.com/viant/consent/service/messaging"
)

// Service defines the approval registry contract.
type Service interface {
	// RequestApproval records a pending action, shows it, and returns its
	// deferred Result.
	RequestApproval(ctx context.Context, actionType string, params map[string]interface{}, explanation string, actionContext map[string]interface{}) (*Result, error)
	// Approve resolves the action; empty id targets the displayed action.
	Approve(ctx context.Context, id string) (*Decision, error)
	// Cancel rejects the action; empty id targets the displayed action.
	// The display is hidden in every case.
	Cancel(ctx context.Context, id string) error
	// Sweep expires stale actions and returns how many were reclaimed.
	Sweep(ctx context.Context) int
	// ListPending returns a snapshot of live actions ordered by creation
	// time, optionally filtered by the "type" parameter.
	ListPending(ctx context.Context, parameters ...*dao.Parameter) ([]*Action, error)
	// Queue returns the event queue, nil when events are disabled.
	Queue() messaging.Queue[Event]
}

// Display is the presentation surface that shows one action at a time.
type Display interface {
	Show(ctx context.Context, id string, view *View) error
	// Hide must be idempotent and safe with nothing shown.
	Hide(ctx context.Context) error
	// Current returns the id of the displayed action, or "".
	Current() string
}

// Recorder receives observability records on approval and cancellation.
type Recorder interface {
	Record(ctx context.Context, kind, description string, metadata map[string]interface{}) error
}
