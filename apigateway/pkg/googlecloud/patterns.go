package googlecloud

import (
	"context"
	"errors"

	"cloud.google.com/go/datastore"
)

// Common Datastore errors for easier handling in services.
var (
	ErrNotFound   = errors.New("entity not found")
	ErrInvalidKey = errors.New("invalid key")
)

// WrapDatastoreError converts Datastore-specific errors to package errors.
func WrapDatastoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		return ErrNotFound
	}
	return err
}

// IsNotFoundError checks if an error is a not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, datastore.ErrNoSuchEntity)
}

// ReplaceTask overwrites an existing task entity. The creation time of the
// stored entity is preserved. Missing entities yield ErrNotFound.
func (c *Client) ReplaceTask(ctx context.Context, task *TaskEntity) error {
	if task.ID == 0 {
		return ErrInvalidKey
	}
	key := datastore.IDKey(KindTask, task.ID, nil)

	_, err := c.ds.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var existing TaskEntity
		if err := tx.Get(key, &existing); err != nil {
			return WrapDatastoreError(err)
		}
		task.CreatedAt = existing.CreatedAt

		_, err := tx.Put(key, task)
		return err
	})

	return err
}

// DeleteTask removes a task entity. Missing entities yield ErrNotFound.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	key := datastore.IDKey(KindTask, id, nil)

	_, err := c.ds.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var existing TaskEntity
		if err := tx.Get(key, &existing); err != nil {
			return WrapDatastoreError(err)
		}
		return tx.Delete(key)
	})

	return err
}
