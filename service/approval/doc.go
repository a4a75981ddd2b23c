// Package approval defines the user-confirmation gate for agent-initiated UI
// actions. An agent submits an action, the display surface asks the user, and
// the resulting decision (or cancellation, timeout, expiry) settles the
// agent's deferred Result exactly once.
package approval
