package approval

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_SettlesOnce(t *testing.T) {
	result, settler := NewResult("action_1")
	assert.False(t, result.Settled())
	d, err := result.Outcome()
	assert.Nil(t, d)
	assert.NoError(t, err)

	decision := &Decision{ID: "action_1", Approved: true, ActionType: ActionDownload}
	assert.True(t, settler.Resolve(decision))
	assert.False(t, settler.Reject(ErrUserCancelled))
	assert.False(t, settler.Resolve(&Decision{ID: "other"}))

	got, err := result.Wait(context.Background())
	require.NoError(t, err)
	assert.Same(t, decision, got)
	assert.True(t, result.Settled())
}

func TestResult_WaitHonoursContext(t *testing.T) {
	result, _ := NewResult("action_2")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := result.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, result.Settled())
}

func TestResult_Presettled(t *testing.T) {
	failed := Failed("action_3", ErrDenied)
	_, err := failed.Wait(context.Background())
	assert.ErrorIs(t, err, ErrDenied)
	assert.Equal(t, "action_3", failed.ID())

	approved := Approved(&Decision{ID: "action_4", Approved: true})
	d, err := approved.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, d.Approved)
}
