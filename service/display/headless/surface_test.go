package headless_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	approval "github.com/viant/consent/service/approval"
	"github.com/viant/consent/service/display/headless"
)

func TestSurface(t *testing.T) {
	ctx := context.Background()
	var observed []string
	s := headless.New(headless.WithOnShow(func(id string, _ *approval.View) {
		observed = append(observed, id)
	}))

	assert.False(t, s.Visible())
	assert.Equal(t, "", s.Current())

	require.NoError(t, s.Show(ctx, "a", &approval.View{Title: "A"}))
	require.NoError(t, s.Show(ctx, "b", &approval.View{Title: "B"}))
	assert.True(t, s.Visible())
	assert.Equal(t, "b", s.Current())
	assert.Equal(t, "B", s.View().Title)
	assert.Equal(t, []string{"a", "b"}, s.Shown())
	assert.Equal(t, []string{"a", "b"}, observed)

	require.NoError(t, s.Hide(ctx))
	require.NoError(t, s.Hide(ctx))
	assert.False(t, s.Visible())
	assert.Nil(t, s.View())
	assert.Equal(t, 2, s.Hides())
}
