package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/locvowork/task_management_sample/apigateway/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) now() time.Time { return c.t }

func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestRepository() (*TaskRepository, *fixedClock) {
	clock := &fixedClock{t: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
	return NewTaskRepository(store.NewMemoryStore(), WithClock(clock.now)), clock
}

func input(title, start, end string) domain.NewTaskInput {
	return domain.NewTaskInput{
		Title:    title,
		DateTime: domain.DateTime{StartTime: start, EndTime: end},
	}
}

func TestCreate_AppliesDefaults(t *testing.T) {
	repo, clock := newTestRepository()

	task, err := repo.Create(context.Background(), input("Write report", "09:00", "10:00"))
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, domain.PriorityLow, task.Priority)
	assert.Equal(t, domain.StatusInProgress, task.Status)
	assert.Equal(t, clock.t, task.CreatedAt)
	assert.Equal(t, clock.t, task.UpdatedAt)
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	repo, _ := newTestRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, input("", "09:00", "10:00"))
	assert.True(t, domain.IsValidationError(err))
	assert.Equal(t, domain.MsgMandatoryFields, err.Error())

	bad := input("x", "09:00", "10:00")
	bad.Priority = "Urgent"
	_, err = repo.Create(ctx, bad)
	assert.True(t, domain.IsValidationError(err))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListAll_OrdersByDateTime(t *testing.T) {
	repo, clock := newTestRepository()
	ctx := context.Background()

	for _, in := range []domain.NewTaskInput{
		input("late", "14:00", "15:00"),
		input("early", "08:00", "09:00"),
		input("early-long", "08:00", "12:00"),
	} {
		_, err := repo.Create(ctx, in)
		require.NoError(t, err)
		clock.advance(time.Second)
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "early", all[0].Title)
	assert.Equal(t, "early-long", all[1].Title)
	assert.Equal(t, "late", all[2].Title)
}

func TestListAll_EmptyIsNotNil(t *testing.T) {
	repo, _ := newTestRepository()

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Len(t, all, 0)
}

func TestUpdate_MergesPresentFieldsOnly(t *testing.T) {
	repo, clock := newTestRepository()
	ctx := context.Background()

	in := input("Original", "09:00", "10:00")
	in.Description = "keep me"
	created, err := repo.Create(ctx, in)
	require.NoError(t, err)

	clock.advance(time.Minute)
	updated, err := repo.Update(ctx, created.ID, domain.TaskPatch{
		Title:    domain.Some("Renamed"),
		Priority: domain.Some(domain.PriorityHigh),
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	assert.Equal(t, domain.PriorityHigh, updated.Priority)
	assert.Equal(t, created.DateTime, updated.DateTime)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, clock.t, updated.UpdatedAt)

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestUpdate_Errors(t *testing.T) {
	repo, _ := newTestRepository()
	ctx := context.Background()

	_, err := repo.Update(ctx, "missing", domain.TaskPatch{Title: domain.Some("x")})
	assert.True(t, domain.IsNotFound(err))

	_, err = repo.Update(ctx, "missing", domain.TaskPatch{Priority: domain.Some(domain.Priority("Urgent"))})
	assert.True(t, domain.IsValidationError(err), "input is validated before lookup")

	created, err := repo.Create(ctx, input("t", "09:00", "10:00"))
	require.NoError(t, err)

	_, err = repo.Update(ctx, created.ID, domain.TaskPatch{Title: domain.Some("  ")})
	assert.True(t, domain.IsValidationError(err))

	_, err = repo.Update(ctx, created.ID, domain.TaskPatch{Status: domain.Some(domain.Status("Done"))})
	assert.True(t, domain.IsValidationError(err))
	assert.Equal(t, domain.MsgInvalidStatus, err.Error())

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", stored.Title)
	assert.Equal(t, domain.StatusInProgress, stored.Status)
}

func TestDelete(t *testing.T) {
	repo, _ := newTestRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, input("t", "09:00", "10:00"))
	require.NoError(t, err)

	id, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, id)

	_, err = repo.FindByID(ctx, created.ID)
	assert.True(t, domain.IsNotFound(err))

	_, err = repo.Delete(ctx, created.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestSearch(t *testing.T) {
	repo, _ := newTestRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, input("Foobar", "10:00", "11:00"))
	require.NoError(t, err)
	withDesc := input("Lunch", "09:00", "09:30")
	withDesc.Description = "with the FOO team"
	_, err = repo.Create(ctx, withDesc)
	require.NoError(t, err)
	_, err = repo.Create(ctx, input("Gym", "07:00", "08:00"))
	require.NoError(t, err)

	found, err := repo.Search(ctx, "foo")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Lunch", found[0].Title)
	assert.Equal(t, "Foobar", found[1].Title)

	found, err = repo.Search(ctx, ".*")
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = repo.Search(ctx, "   ")
	assert.True(t, domain.IsValidationError(err))
	assert.Equal(t, domain.MsgKeywordRequired, err.Error())
}

func TestListCreatedBetween(t *testing.T) {
	repo, clock := newTestRepository()
	ctx := context.Background()

	first, err := repo.Create(ctx, input("first", "09:00", "10:00"))
	require.NoError(t, err)
	clock.advance(48 * time.Hour)
	_, err = repo.Create(ctx, input("second", "09:00", "10:00"))
	require.NoError(t, err)

	tasks, err := repo.ListCreatedBetween(ctx, first.CreatedAt, first.CreatedAt.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "first", tasks[0].Title)
}

type failingStore struct {
	store.Store
}

var errUnavailable = errors.New("connection refused")

func (failingStore) Find(context.Context, store.Query) ([]domain.Task, error) {
	return nil, errUnavailable
}

func (failingStore) Insert(context.Context, *domain.Task) error {
	return errUnavailable
}

func (failingStore) Get(context.Context, string) (*domain.Task, error) {
	return nil, errUnavailable
}

func TestStoreFailuresAreStorageErrors(t *testing.T) {
	repo := NewTaskRepository(failingStore{})
	ctx := context.Background()

	var storageErr *domain.StorageError

	_, err := repo.ListAll(ctx)
	require.ErrorAs(t, err, &storageErr)
	assert.ErrorIs(t, err, errUnavailable)

	_, err = repo.Create(ctx, input("t", "09:00", "10:00"))
	require.ErrorAs(t, err, &storageErr)

	_, err = repo.FindByID(ctx, "x")
	require.ErrorAs(t, err, &storageErr)
	assert.False(t, domain.IsNotFound(err))
}
