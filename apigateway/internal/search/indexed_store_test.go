package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/locvowork/task_management_sample/apigateway/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndex struct {
	docs    map[string]domain.Task
	failing bool
	closed  bool
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: make(map[string]domain.Task)}
}

var errIndexDown = errors.New("index unavailable")

func (f *fakeIndex) Index(_ context.Context, t *domain.Task) error {
	if f.failing {
		return errIndexDown
	}
	f.docs[t.ID] = *t
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id string) error {
	if f.failing {
		return errIndexDown
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) SearchIDs(_ context.Context, keyword string) ([]string, error) {
	if f.failing {
		return nil, errIndexDown
	}
	kw := strings.ToLower(keyword)
	var ids []string
	for id, t := range f.docs {
		if strings.Contains(strings.ToLower(t.Title), kw) || strings.Contains(strings.ToLower(t.Description), kw) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeIndex) Close() error {
	f.closed = true
	return nil
}

func TestIndexedStore_MirrorsWrites(t *testing.T) {
	ctx := context.Background()
	idx := newFakeIndex()
	s := NewIndexedStore(store.NewMemoryStore(), idx)

	task := &domain.Task{Title: "Quarterly review"}
	require.NoError(t, s.Insert(ctx, task))
	assert.Contains(t, idx.docs, task.ID)

	task.Title = "Annual review"
	require.NoError(t, s.Replace(ctx, task))
	assert.Equal(t, "Annual review", idx.docs[task.ID].Title)

	found, err := s.Find(ctx, store.Query{Keyword: "ANNUAL"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, task.ID, found[0].ID)

	require.NoError(t, s.Delete(ctx, task.ID))
	assert.NotContains(t, idx.docs, task.ID)

	require.NoError(t, s.Close())
	assert.True(t, idx.closed)
}

func TestIndexedStore_IndexFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	idx := newFakeIndex()
	idx.failing = true
	s := NewIndexedStore(store.NewMemoryStore(), idx)

	task := &domain.Task{Title: "Still stored"}
	require.NoError(t, s.Insert(ctx, task))

	got, err := s.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Still stored", got.Title)

	assert.True(t, s.Stale())

	found, err := s.Find(ctx, store.Query{Keyword: "still"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, task.ID, found[0].ID)
}

func TestIndexedStore_FindsTasksStoredBeforeIndexing(t *testing.T) {
	ctx := context.Background()
	base := store.NewMemoryStore()
	existing := &domain.Task{Title: "Foobar existing"}
	require.NoError(t, base.Insert(ctx, existing))

	idx := newFakeIndex()
	s := NewIndexedStore(base, idx)
	assert.True(t, s.Stale())

	n, err := s.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, s.Stale())
	assert.Contains(t, idx.docs, existing.ID)

	found, err := s.Find(ctx, store.Query{Keyword: "foo"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, existing.ID, found[0].ID)
}

func TestIndexedStore_RecoversTasksWrittenDuringOutage(t *testing.T) {
	ctx := context.Background()
	base := store.NewMemoryStore()
	require.NoError(t, base.Insert(ctx, &domain.Task{Title: "Foobar existing"}))

	idx := newFakeIndex()
	s := NewIndexedStore(base, idx)

	idx.failing = true
	outage := &domain.Task{Title: "Foobar during outage"}
	require.NoError(t, s.Insert(ctx, outage))

	found, err := s.Find(ctx, store.Query{Keyword: "foo"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.True(t, s.Stale())

	idx.failing = false
	found, err = s.Find(ctx, store.Query{Keyword: "foo"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.False(t, s.Stale())
	assert.Contains(t, idx.docs, outage.ID)
}

func TestIndexedStore_ReindexFailureKeepsIndexStale(t *testing.T) {
	ctx := context.Background()
	base := store.NewMemoryStore()
	require.NoError(t, base.Insert(ctx, &domain.Task{Title: "a"}))

	idx := newFakeIndex()
	idx.failing = true
	s := NewIndexedStore(base, idx)

	_, err := s.Reindex(ctx)
	assert.ErrorIs(t, err, errIndexDown)
	assert.True(t, s.Stale())
}

func TestIndexedStore_SkipsStaleHits(t *testing.T) {
	ctx := context.Background()
	idx := newFakeIndex()
	idx.docs["gone"] = domain.Task{ID: "gone", Title: "ghost"}
	s := NewIndexedStore(store.NewMemoryStore(), idx)

	found, err := s.Find(ctx, store.Query{Keyword: "ghost"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestIndexedStore_NonKeywordQueriesUseStore(t *testing.T) {
	ctx := context.Background()
	idx := newFakeIndex()
	idx.failing = true
	s := NewIndexedStore(store.NewMemoryStore(), idx)

	require.NoError(t, s.Insert(ctx, &domain.Task{Title: "a"}))
	require.NoError(t, s.Insert(ctx, &domain.Task{Title: "b"}))

	all, err := s.Find(ctx, store.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
