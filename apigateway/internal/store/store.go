// Package store holds the document store backends that persist tasks.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
)

// CollectionName is the collection (kind, table) tasks are stored in.
const CollectionName = "tasks"

// Query filters a Find call. Zero values do not filter.
type Query struct {
	// Keyword matches title or description, case-insensitive, as a literal substring.
	Keyword     string
	CreatedFrom time.Time
	CreatedTo   time.Time
}

// Matches reports whether t satisfies the query.
func (q Query) Matches(t *domain.Task) bool {
	if q.Keyword != "" {
		kw := strings.ToLower(q.Keyword)
		if !strings.Contains(strings.ToLower(t.Title), kw) &&
			!strings.Contains(strings.ToLower(t.Description), kw) {
			return false
		}
	}
	if !q.CreatedFrom.IsZero() && t.CreatedAt.Before(q.CreatedFrom) {
		return false
	}
	if !q.CreatedTo.IsZero() && t.CreatedAt.After(q.CreatedTo) {
		return false
	}
	return true
}

// Store is a persistent collection of task documents. Implementations return
// an error wrapping domain.ErrNotFound when an id has no document.
type Store interface {
	// Insert assigns t.ID and persists t.
	Insert(ctx context.Context, t *domain.Task) error
	Get(ctx context.Context, id string) (*domain.Task, error)
	// Replace overwrites the document with id t.ID.
	Replace(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	// Find returns matching documents in no particular order.
	Find(ctx context.Context, q Query) ([]domain.Task, error)
	Close() error
}

func notFound(id string) error {
	return &notFoundError{id: id}
}

type notFoundError struct {
	id string
}

func (e *notFoundError) Error() string {
	return "task " + e.id + ": " + domain.ErrNotFound.Error()
}

func (e *notFoundError) Unwrap() error {
	return domain.ErrNotFound
}
