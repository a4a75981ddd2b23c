package store_test

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/consent/service/dao"
	"github.com/viant/consent/service/dao/store"
)

type record struct {
	ID   string
	Kind string
}

func newStore() *store.MemoryStore[string, record] {
	return store.NewMemoryStore[string, record](
		func(r *record) string { return r.ID },
		store.WithMatcher[string, record](func(r *record, p *dao.Parameter) bool {
			if p.Name != "Kind" {
				return true
			}
			return p.Matches(r.Kind)
		}),
	)
}

func TestMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	require.NoError(t, s.Save(ctx, &record{ID: "a", Kind: "navigate"}))
	assert.ErrorIs(t, s.Save(ctx, nil), dao.ErrNilEntity)
	assert.ErrorIs(t, s.Save(ctx, &record{}), dao.ErrInvalidID)
	_, err := s.Insert(ctx, &record{Kind: "scroll"})
	assert.ErrorIs(t, err, dao.ErrInvalidID)

	inserted, err := s.Insert(ctx, &record{ID: "a", Kind: "scroll"})
	require.NoError(t, err)
	assert.False(t, inserted)

	loaded, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "navigate", loaded.Kind)

	_, err = s.Load(ctx, "missing")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "a"))
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_List(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	for _, r := range []*record{{ID: "1", Kind: "navigate"}, {ID: "2", Kind: "download"}, {ID: "3", Kind: "navigate"}} {
		require.NoError(t, s.Save(ctx, r))
	}

	type testCase struct {
		name     string
		params   []*dao.Parameter
		expected []string
	}
	for _, tc := range []testCase{
		{name: "all", expected: []string{"1", "2", "3"}},
		{name: "single kind", params: []*dao.Parameter{dao.NewParameter("Kind", "navigate")}, expected: []string{"1", "3"}},
		{name: "kind list", params: []*dao.Parameter{dao.NewParameter("Kind", "navigate", "download")}, expected: []string{"1", "2", "3"}},
		{name: "unknown name ignored", params: []*dao.Parameter{dao.NewParameter("Other", "x")}, expected: []string{"1", "2", "3"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			items, err := s.List(ctx, tc.params...)
			require.NoError(t, err)
			var ids []string
			for _, item := range items {
				ids = append(ids, item.ID)
			}
			sort.Strings(ids)
			assert.Equal(t, tc.expected, ids)
		})
	}
}

func TestMemoryStore_TakeExactlyOnce(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	require.NoError(t, s.Save(ctx, &record{ID: "x"}))

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Take(ctx, "x"); err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, wins)
	assert.Equal(t, 0, s.Len())
}
