package approval_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/consent/internal/logging"
	approval "github.com/viant/consent/service/approval"
	memApproval "github.com/viant/consent/service/approval/memory"
	"github.com/viant/consent/service/display/headless"
)

func newService() (approval.Service, *headless.Surface) {
	surface := headless.New()
	return memApproval.New(surface, memApproval.WithLogger(logging.Discard())), surface
}

// TestWaitForDecision verifies that WaitForDecision blocks until the user
// decides and reports a timeout when nobody does.
func TestWaitForDecision(t *testing.T) {
	type testCase struct {
		name        string
		approve     bool
		expectError error
		timeout     time.Duration
		decideDelay time.Duration
	}

	tests := []testCase{{
		name:        "approved before timeout",
		approve:     true,
		timeout:     500 * time.Millisecond,
		decideDelay: 10 * time.Millisecond,
	}, {
		name:        "cancelled before timeout",
		approve:     false,
		expectError: approval.ErrUserCancelled,
		timeout:     500 * time.Millisecond,
		decideDelay: 10 * time.Millisecond,
	}, {
		name:        "timeout waiting for decision",
		approve:     true,
		expectError: context.DeadlineExceeded,
		timeout:     50 * time.Millisecond,
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			svc, _ := newService()

			params := map[string]interface{}{"page": "blog"}
			result, err := svc.RequestApproval(ctx, approval.ActionNavigate, params, "", nil)
			require.NoError(t, err)

			if tc.decideDelay > 0 {
				go func() {
					time.Sleep(tc.decideDelay)
					if tc.approve {
						_, _ = svc.Approve(ctx, "")
					} else {
						_ = svc.Cancel(ctx, "")
					}
				}()
			}

			dec, err := approval.WaitForDecision(ctx, result, tc.timeout)
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, dec)
				return
			}

			require.NoError(t, err)
			expected := &approval.Decision{
				ID:         result.ID(),
				Approved:   true,
				ActionType: approval.ActionNavigate,
				Params:     params,
			}
			expected.DecidedAt = dec.DecidedAt // align dynamic field
			assert.EqualValues(t, expected, dec)
		})
	}
}

func TestAutoDecider(t *testing.T) {
	type testCase struct {
		name        string
		start       func(ctx context.Context, svc approval.Service) func()
		expectError map[string]error
	}

	tests := []testCase{
		{
			name: "auto approve",
			start: func(ctx context.Context, svc approval.Service) func() {
				return approval.AutoApprove(ctx, svc, 5*time.Millisecond)
			},
			expectError: map[string]error{approval.ActionScroll: nil, approval.ActionDownload: nil},
		},
		{
			name: "auto cancel",
			start: func(ctx context.Context, svc approval.Service) func() {
				return approval.AutoCancel(ctx, svc, 5*time.Millisecond)
			},
			expectError: map[string]error{approval.ActionScroll: approval.ErrUserCancelled, approval.ActionDownload: approval.ErrUserCancelled},
		},
		{
			name: "decide by type",
			start: func(ctx context.Context, svc approval.Service) func() {
				return approval.AutoDecider(ctx, svc, func(a *approval.Action) bool {
					return a.Type != approval.ActionDownload
				}, 5*time.Millisecond)
			},
			expectError: map[string]error{approval.ActionScroll: nil, approval.ActionDownload: approval.ErrUserCancelled},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			svc, _ := newService()

			results := map[string]*approval.Result{}
			for _, actionType := range []string{approval.ActionScroll, approval.ActionDownload} {
				result, err := svc.RequestApproval(ctx, actionType, nil, "", nil)
				require.NoError(t, err)
				results[actionType] = result
			}

			stop := tc.start(ctx, svc)
			defer stop()

			for actionType, result := range results {
				_, err := approval.WaitForDecision(ctx, result, time.Second)
				if expected := tc.expectError[actionType]; expected != nil {
					assert.ErrorIs(t, err, expected, actionType)
				} else {
					assert.NoError(t, err, actionType)
				}
			}
			pending, err := svc.ListPending(ctx)
			require.NoError(t, err)
			assert.Empty(t, pending)
		})
	}
}
