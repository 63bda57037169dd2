package store

import (
	"context"
	"strconv"

	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/locvowork/task_management_sample/apigateway/pkg/googlecloud"
)

// DatastoreStore persists tasks as Cloud Datastore entities.
type DatastoreStore struct {
	client *googlecloud.Client
}

// NewDatastoreStore wraps an open datastore client.
func NewDatastoreStore(client *googlecloud.Client) *DatastoreStore {
	return &DatastoreStore{client: client}
}

func (s *DatastoreStore) Insert(ctx context.Context, t *domain.Task) error {
	entity := toEntity(t)
	if err := s.client.CreateTask(ctx, entity); err != nil {
		return err
	}
	t.ID = strconv.FormatInt(entity.ID, 10)
	return nil
}

func (s *DatastoreStore) Get(ctx context.Context, id string) (*domain.Task, error) {
	key, ok := parseEntityID(id)
	if !ok {
		return nil, notFound(id)
	}
	entity, err := s.client.GetTask(ctx, key)
	if googlecloud.IsNotFoundError(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, err
	}
	t := fromEntity(entity)
	return &t, nil
}

func (s *DatastoreStore) Replace(ctx context.Context, t *domain.Task) error {
	key, ok := parseEntityID(t.ID)
	if !ok {
		return notFound(t.ID)
	}
	entity := toEntity(t)
	entity.ID = key
	err := s.client.ReplaceTask(ctx, entity)
	if googlecloud.IsNotFoundError(err) {
		return notFound(t.ID)
	}
	return err
}

func (s *DatastoreStore) Delete(ctx context.Context, id string) error {
	key, ok := parseEntityID(id)
	if !ok {
		return notFound(id)
	}
	err := s.client.DeleteTask(ctx, key)
	if googlecloud.IsNotFoundError(err) {
		return notFound(id)
	}
	return err
}

// Find pushes the creation range down to datastore. Datastore has no
// substring index, so keywords are matched on the fetched entities.
func (s *DatastoreStore) Find(ctx context.Context, q Query) ([]domain.Task, error) {
	var (
		entities []googlecloud.TaskEntity
		err      error
	)
	if !q.CreatedFrom.IsZero() && !q.CreatedTo.IsZero() {
		entities, err = s.client.ListTasksCreatedBetween(ctx, q.CreatedFrom, q.CreatedTo)
	} else {
		entities, err = s.client.ListTasks(ctx)
	}
	if err != nil {
		return nil, err
	}

	result := make([]domain.Task, 0, len(entities))
	for i := range entities {
		t := fromEntity(&entities[i])
		if q.Matches(&t) {
			result = append(result, t)
		}
	}
	return result, nil
}

func (s *DatastoreStore) Close() error {
	return s.client.Close()
}

func parseEntityID(id string) (int64, bool) {
	key, err := strconv.ParseInt(id, 10, 64)
	if err != nil || key <= 0 {
		return 0, false
	}
	return key, true
}

func toEntity(t *domain.Task) *googlecloud.TaskEntity {
	return &googlecloud.TaskEntity{
		Title:       t.Title,
		Description: t.Description,
		Schedule: googlecloud.ScheduleEntity{
			StartTime: t.DateTime.StartTime,
			EndTime:   t.DateTime.EndTime,
			Date:      t.DateTime.Date,
		},
		Priority:  string(t.Priority),
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func fromEntity(e *googlecloud.TaskEntity) domain.Task {
	return domain.Task{
		ID:          strconv.FormatInt(e.ID, 10),
		Title:       e.Title,
		Description: e.Description,
		DateTime: domain.DateTime{
			StartTime: e.Schedule.StartTime,
			EndTime:   e.Schedule.EndTime,
			Date:      e.Schedule.Date,
		},
		Priority:  domain.Priority(e.Priority),
		Status:    domain.Status(e.Status),
		CreatedAt: e.CreatedAt.UTC(),
		UpdatedAt: e.UpdatedAt.UTC(),
	}
}
