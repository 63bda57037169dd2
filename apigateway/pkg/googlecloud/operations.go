package googlecloud

import (
	"context"
	"time"

	"cloud.google.com/go/datastore"
)

// KindTask is the datastore kind holding task entities.
const KindTask = "tasks"

// CreateTask stores a new task entity and sets its auto-generated ID.
func (c *Client) CreateTask(ctx context.Context, task *TaskEntity) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	// IncompleteKey will auto-generate an int64 ID
	key := datastore.IncompleteKey(KindTask, nil)

	newKey, err := c.ds.Put(ctx, key, task)
	if err != nil {
		return err
	}
	task.ID = newKey.ID
	return nil
}

// GetTask retrieves a task entity by ID.
func (c *Client) GetTask(ctx context.Context, id int64) (*TaskEntity, error) {
	key := datastore.IDKey(KindTask, id, nil)
	var task TaskEntity
	if err := c.ds.Get(ctx, key, &task); err != nil {
		return nil, WrapDatastoreError(err)
	}
	task.ID = id
	return &task, nil
}

// ListTasks retrieves every task entity ordered by creation time.
func (c *Client) ListTasks(ctx context.Context) ([]TaskEntity, error) {
	query := datastore.NewQuery(KindTask).Order("created_at")
	return c.getAll(ctx, query)
}

// ListTasksCreatedBetween retrieves task entities created within [from, to].
func (c *Client) ListTasksCreatedBetween(ctx context.Context, from, to time.Time) ([]TaskEntity, error) {
	query := datastore.NewQuery(KindTask).
		Filter("created_at >=", from).
		Filter("created_at <=", to).
		Order("created_at")
	return c.getAll(ctx, query)
}

func (c *Client) getAll(ctx context.Context, query *datastore.Query) ([]TaskEntity, error) {
	var tasks []TaskEntity
	keys, err := c.ds.GetAll(ctx, query, &tasks)
	if err != nil {
		return nil, err
	}

	for i, key := range keys {
		tasks[i].ID = key.ID
	}

	return tasks, nil
}
