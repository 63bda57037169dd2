package store

import (
	"context"
	"testing"
	"time"

	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	task := &domain.Task{
		Title:    "Plan sprint",
		DateTime: domain.DateTime{StartTime: "10:00", EndTime: "11:00"},
		Priority: domain.PriorityLow,
		Status:   domain.StatusInProgress,
	}
	require.NoError(t, s.Insert(ctx, task))
	require.NotEmpty(t, task.ID)

	got, err := s.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plan sprint", got.Title)

	got.Title = "Plan sprint 42"
	require.NoError(t, s.Replace(ctx, got))

	again, err := s.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plan sprint 42", again.Title)

	require.NoError(t, s.Delete(ctx, task.ID))

	_, err = s.Get(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, task.ID), domain.ErrNotFound)
	assert.ErrorIs(t, s.Replace(ctx, task), domain.ErrNotFound)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	task := &domain.Task{Title: "original"}
	require.NoError(t, s.Insert(ctx, task))

	got, err := s.Get(ctx, task.ID)
	require.NoError(t, err)
	got.Title = "mutated"

	stored, err := s.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Title)
}

func TestQuery_Matches(t *testing.T) {
	created := time.Date(2026, 10, 20, 12, 0, 0, 0, time.UTC)
	task := &domain.Task{Title: "Foobar", Description: "Weekly Sync", CreatedAt: created}

	assert.True(t, Query{}.Matches(task))
	assert.True(t, Query{Keyword: "foo"}.Matches(task))
	assert.True(t, Query{Keyword: "SYNC"}.Matches(task))
	assert.False(t, Query{Keyword: "baz"}.Matches(task))
	assert.False(t, Query{Keyword: "f.o"}.Matches(task), "keyword is literal, not a pattern")

	assert.True(t, Query{CreatedFrom: created, CreatedTo: created}.Matches(task))
	assert.False(t, Query{CreatedFrom: created.Add(time.Second)}.Matches(task))
	assert.False(t, Query{CreatedTo: created.Add(-time.Second)}.Matches(task))
}
