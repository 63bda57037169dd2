// Package repository implements domain.TaskRepository over a document store.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/locvowork/task_management_sample/apigateway/internal/store"
)

// TaskRepository validates, defaults and orders tasks kept in a store.Store.
type TaskRepository struct {
	store store.Store
	now   func() time.Time
}

// Option configures a TaskRepository.
type Option func(*TaskRepository)

// WithClock replaces the clock used for createdAt and updatedAt.
func WithClock(now func() time.Time) Option {
	return func(r *TaskRepository) {
		r.now = now
	}
}

// NewTaskRepository creates a repository backed by s.
func NewTaskRepository(s store.Store, opts ...Option) *TaskRepository {
	r := &TaskRepository{
		store: s,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ domain.TaskRepository = (*TaskRepository)(nil)

func (r *TaskRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

func (r *TaskRepository) ListAll(ctx context.Context) ([]domain.Task, error) {
	return r.find(ctx, "list", store.Query{})
}

func (r *TaskRepository) Create(ctx context.Context, in domain.NewTaskInput) (*domain.Task, error) {
	if err := domain.ValidateNewTask(in); err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityLow
	}
	now := r.timestamp()
	task := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		DateTime:    in.DateTime,
		Priority:    priority,
		Status:      domain.StatusInProgress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.store.Insert(ctx, task); err != nil {
		return nil, &domain.StorageError{Op: "insert", Err: err}
	}
	return task, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	task, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, wrap("get", err)
	}
	return task, nil
}

func (r *TaskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := domain.ValidatePatch(patch); err != nil {
		return nil, err
	}
	task, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, wrap("get", err)
	}
	if patch.IsEmpty() {
		return task, nil
	}

	patch.Apply(task)
	task.UpdatedAt = r.timestamp()
	if err := r.store.Replace(ctx, task); err != nil {
		return nil, wrap("replace", err)
	}
	return task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) (string, error) {
	if err := r.store.Delete(ctx, id); err != nil {
		return "", wrap("delete", err)
	}
	return id, nil
}

func (r *TaskRepository) Search(ctx context.Context, keyword string) ([]domain.Task, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, &domain.ValidationError{Message: domain.MsgKeywordRequired}
	}
	return r.find(ctx, "search", store.Query{Keyword: keyword})
}

func (r *TaskRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Task, error) {
	return r.find(ctx, "list created", store.Query{CreatedFrom: from, CreatedTo: to})
}

func (r *TaskRepository) find(ctx context.Context, op string, q store.Query) ([]domain.Task, error) {
	tasks, err := r.store.Find(ctx, q)
	if err != nil {
		return nil, &domain.StorageError{Op: op, Err: err}
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	domain.SortByDateTime(tasks)
	return tasks, nil
}

// wrap keeps not-found errors classifiable and marks everything else as a
// storage failure.
func wrap(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return &domain.StorageError{Op: op, Err: err}
}
