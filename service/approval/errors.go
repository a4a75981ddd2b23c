package approval

import "errors"

var (
	// ErrNotFound is reported when approve/cancel reference an id with no
	// live pending action. It never reaches a Result.
	ErrNotFound = errors.New("approval: action not found")

	// ErrUserCancelled fails a Result when the user declines the action or
	// leaves it unanswered past the request timeout.
	ErrUserCancelled = errors.New("approval: cancelled by user")

	// ErrExpired fails a Result reclaimed by the background sweep.
	ErrExpired = errors.New("approval: action expired")

	// ErrDenied fails a Result when policy blocks the action type.
	ErrDenied = errors.New("approval: action denied by policy")

	// ErrInvalidAction is returned for requests without an action type.
	ErrInvalidAction = errors.New("approval: action type is required")
)
