package idgen

import "github.com/google/uuid"

// ActionPrefix prefixes every pending action identifier.
const ActionPrefix = "action_"

// NewFunc returns a new globally unique identifier as string. It is a variable
// so tests can stub it.
var NewFunc = func() string { return uuid.New().String() }

func New() string { return NewFunc() }

// NewAction returns a new pending action identifier.
func NewAction() string { return ActionPrefix + New() }
