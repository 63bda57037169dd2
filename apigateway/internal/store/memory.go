package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
)

// MemoryStore keeps tasks in a process-local map.
type MemoryStore struct {
	tasks map[string]domain.Task
	mu    sync.RWMutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[string]domain.Task),
	}
}

func (s *MemoryStore) Insert(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = uuid.New().String()
	s.tasks[t.ID] = *t
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, found := s.tasks[id]
	if !found {
		return nil, notFound(id)
	}
	return &t, nil
}

func (s *MemoryStore) Replace(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.tasks[t.ID]; !found {
		return notFound(t.ID)
	}
	s.tasks[t.ID] = *t
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.tasks[id]; !found {
		return notFound(id)
	}
	delete(s.tasks, id)
	return nil
}

func (s *MemoryStore) Find(_ context.Context, q Query) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if q.Matches(&t) {
			result = append(result, t)
		}
	}
	return result, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
