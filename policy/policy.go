package policy

import (
	"context"
	"fmt"
	"strings"
)

// Modes recognised by the gate.
const (
	ModeAsk  = "ask"  // ask user before every action (default)
	ModeAuto = "auto" // approve without asking
	ModeDeny = "deny" // refuse every action
)

// Verdict is the outcome of evaluating a policy for one action.
type Verdict int

const (
	VerdictAsk Verdict = iota
	VerdictApprove
	VerdictDeny
)

func (v Verdict) String() string {
	switch v {
	case VerdictApprove:
		return "approve"
	case VerdictDeny:
		return "deny"
	}
	return "ask"
}

// Policy represents the approval settings applied to incoming actions.
//
//   - Mode controls the high-level behaviour (ask / auto / deny).
//   - AllowList, BlockList filter action types regardless of Mode.
//
// A nil *Policy asks the user for everything.
type Policy struct {
	Mode      string   // ask / auto / deny      (default = ask)
	AllowList []string // whitelist (empty => all)
	BlockList []string // blacklist
}

// Config represents the serialisable form of a Policy.
type Config struct {
	Mode      string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// Validate checks the mode.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch strings.ToLower(c.Mode) {
	case "", ModeAsk, ModeAuto, ModeDeny:
		return nil
	}
	return fmt.Errorf("policy: unsupported mode %q", c.Mode)
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		Mode:      p.Mode,
		AllowList: append([]string(nil), p.AllowList...),
		BlockList: append([]string(nil), p.BlockList...),
	}
}

// FromConfig converts a stored Config back to a runtime Policy.
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:      c.Mode,
		AllowList: append([]string(nil), c.AllowList...),
		BlockList: append([]string(nil), c.BlockList...),
	}
}

// IsAllowed evaluates AllowList / BlockList by case-insensitive comparison
// of the action type.
func (p *Policy) IsAllowed(actionType string) bool {
	if p == nil {
		return true
	}

	normalized := strings.ToLower(actionType)

	// BlockList has priority.
	for _, b := range p.BlockList {
		if normalized == strings.ToLower(b) {
			return false
		}
	}

	if len(p.AllowList) == 0 {
		return true
	}

	for _, a := range p.AllowList {
		if normalized == strings.ToLower(a) {
			return true
		}
	}

	return false
}

// Decide returns what to do with an action of actionType.
func (p *Policy) Decide(actionType string) Verdict {
	if p == nil {
		return VerdictAsk
	}
	if !p.IsAllowed(actionType) {
		return VerdictDeny
	}
	switch strings.ToLower(p.Mode) {
	case ModeAuto:
		return VerdictApprove
	case ModeDeny:
		return VerdictDeny
	}
	return VerdictAsk
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx; it overrides the gate's own policy for
// requests made with that context.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the policy embedded by WithPolicy, or nil.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
