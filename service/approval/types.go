package approval

import (
	"time"
)

// Well-known action types. Any other non-empty string is accepted as well.
const (
	ActionNavigate     = "navigate"
	ActionScroll       = "scroll"
	ActionDownload     = "download"
	ActionExternalLink = "external_link"
)

// Event topics published by the registry.
const (
	TopicRequestCreated   = "request.created"
	TopicRequestCancelled = "request.cancelled"
	TopicRequestExpired   = "request.expired"
	TopicDecisionCreated  = "decision.created"
)

// Event is the envelope published on the approval queue.
type Event struct {
	Topic   string            // see topic constants above
	Data    interface{}       // *Action | *Decision
	Headers map[string]string `json:"headers,omitempty"`
}

// Action is one outstanding approval request. It is never mutated after
// creation.
type Action struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	Params      map[string]interface{} `json:"params,omitempty"`
	Explanation string                 `json:"explanation,omitempty"` // agent rationale shown to the user
	Context     map[string]interface{} `json:"context,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// Age returns how long the action has been pending at now.
func (a *Action) Age(now time.Time) time.Duration {
	return now.Sub(a.CreatedAt)
}

// Clone returns a shallow copy; maps are shared because they are passed
// through unchanged.
func (a *Action) Clone() *Action {
	if a == nil {
		return nil
	}
	ret := *a
	return &ret
}

// Decision is delivered to the caller when the user approves an action.
type Decision struct {
	ID         string                 `json:"id"` // same as Action.ID
	Approved   bool                   `json:"approved"`
	ActionType string                 `json:"actionType"`
	Params     map[string]interface{} `json:"params,omitempty"`
	DecidedAt  time.Time              `json:"decidedAt"`
}

// View is the human-readable rendering handed to the display surface.
type View struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Explanation string `json:"explanation,omitempty"`
}
