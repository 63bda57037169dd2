package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/locvowork/task_management_sample/apigateway/internal/logger"
	"github.com/locvowork/task_management_sample/apigateway/internal/store"
)

// Index is a keyword index over tasks.
type Index interface {
	Index(ctx context.Context, t *domain.Task) error
	Remove(ctx context.Context, id string) error
	SearchIDs(ctx context.Context, keyword string) ([]string, error)
	Close() error
}

// IndexedStore decorates a store.Store so that writes are mirrored into an
// Index and keyword queries are answered by it. Index failures on write are
// logged, do not fail the write, and mark the index stale. While stale,
// keyword queries rebuild the index first and fall back to the store when
// the rebuild fails.
type IndexedStore struct {
	store.Store
	index Index

	mu       sync.Mutex
	stale    bool
	failures uint64
}

// NewIndexedStore wraps s with idx. The index starts stale because s may
// already hold documents written before the index existed.
func NewIndexedStore(s store.Store, idx Index) *IndexedStore {
	return &IndexedStore{Store: s, index: idx, stale: true}
}

func (s *IndexedStore) markStale() {
	s.mu.Lock()
	s.stale = true
	s.failures++
	s.mu.Unlock()
}

// Stale reports whether the index may be missing documents.
func (s *IndexedStore) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}

// Reindex copies every stored task into the index. The index is marked fresh
// only if no write failed while the copy was running.
func (s *IndexedStore) Reindex(ctx context.Context) (int, error) {
	s.mu.Lock()
	gen := s.failures
	s.mu.Unlock()

	tasks, err := s.Store.Find(ctx, store.Query{})
	if err != nil {
		return 0, fmt.Errorf("failed to list tasks for reindex: %w", err)
	}
	for i := range tasks {
		if err := s.index.Index(ctx, &tasks[i]); err != nil {
			s.markStale()
			return i, fmt.Errorf("failed to reindex task %s: %w", tasks[i].ID, err)
		}
	}

	s.mu.Lock()
	if s.failures == gen {
		s.stale = false
	}
	s.mu.Unlock()
	return len(tasks), nil
}

func (s *IndexedStore) Insert(ctx context.Context, t *domain.Task) error {
	if err := s.Store.Insert(ctx, t); err != nil {
		return err
	}
	if err := s.index.Index(ctx, t); err != nil {
		logger.WarnLog(ctx, "failed to index task %s: %v", t.ID, err)
		s.markStale()
	}
	return nil
}

func (s *IndexedStore) Replace(ctx context.Context, t *domain.Task) error {
	if err := s.Store.Replace(ctx, t); err != nil {
		return err
	}
	if err := s.index.Index(ctx, t); err != nil {
		logger.WarnLog(ctx, "failed to reindex task %s: %v", t.ID, err)
		s.markStale()
	}
	return nil
}

func (s *IndexedStore) Delete(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.index.Remove(ctx, id); err != nil {
		logger.WarnLog(ctx, "failed to remove task %s from index: %v", id, err)
	}
	return nil
}

// Find resolves keyword queries through the index and loads the matching
// documents from the store. Other queries, and keyword queries while the
// index cannot be brought up to date, go straight to the store.
func (s *IndexedStore) Find(ctx context.Context, q store.Query) ([]domain.Task, error) {
	if q.Keyword == "" {
		return s.Store.Find(ctx, q)
	}

	if s.Stale() {
		if _, err := s.Reindex(ctx); err != nil {
			logger.WarnLog(ctx, "search index behind, serving keyword query from the store: %v", err)
			return s.Store.Find(ctx, q)
		}
	}

	ids, err := s.index.SearchIDs(ctx, q.Keyword)
	if err != nil {
		logger.WarnLog(ctx, "search index query failed, serving keyword query from the store: %v", err)
		s.markStale()
		return s.Store.Find(ctx, q)
	}

	tasks := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		t, err := s.Store.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if q.Matches(t) {
			tasks = append(tasks, *t)
		}
	}
	return tasks, nil
}

func (s *IndexedStore) Close() error {
	return errors.Join(s.index.Close(), s.Store.Close())
}
