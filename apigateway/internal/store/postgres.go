package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id          UUID PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	start_time  TEXT NOT NULL,
	end_time    TEXT NOT NULL,
	task_date   TEXT NOT NULL DEFAULT '',
	priority    TEXT NOT NULL,
	status      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS tasks_created_at_idx ON tasks (created_at);
`

const taskColumns = `id, title, description, start_time, end_time, task_date, priority, status, created_at, updated_at`

// PostgresStore persists tasks as rows of the tasks table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the tasks table when it is missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, postgresSchema)
	return err
}

func (s *PostgresStore) Insert(ctx context.Context, t *domain.Task) error {
	id := uuid.New().String()
	query := `INSERT INTO tasks (` + taskColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := s.db.ExecContext(ctx, query,
		id, t.Title, t.Description, t.DateTime.StartTime, t.DateTime.EndTime, t.DateTime.Date,
		string(t.Priority), string(t.Status), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, notFound(id)
	}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	t, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *PostgresStore) Replace(ctx context.Context, t *domain.Task) error {
	if _, err := uuid.Parse(t.ID); err != nil {
		return notFound(t.ID)
	}
	query := `UPDATE tasks SET title = $1, description = $2, start_time = $3, end_time = $4,
              task_date = $5, priority = $6, status = $7, updated_at = $8 WHERE id = $9`
	result, err := s.db.ExecContext(ctx, query,
		t.Title, t.Description, t.DateTime.StartTime, t.DateTime.EndTime, t.DateTime.Date,
		string(t.Priority), string(t.Status), t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	return expectRow(result, t.ID)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notFound(id)
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(result, id)
}

func (s *PostgresStore) Find(ctx context.Context, q Query) ([]domain.Task, error) {
	where, args := postgresWhere(q)
	query := `SELECT ` + taskColumns + ` FROM tasks` + where
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t                domain.Task
		priority, status string
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DateTime.StartTime, &t.DateTime.EndTime,
		&t.DateTime.Date, &priority, &status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Priority = domain.Priority(priority)
	t.Status = domain.Status(status)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

func expectRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound(id)
	}
	return nil
}

func postgresWhere(q Query) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if q.Keyword != "" {
		args = append(args, "%"+escapeLike(q.Keyword)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if !q.CreatedFrom.IsZero() {
		args = append(args, q.CreatedFrom)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !q.CreatedTo.IsZero() {
		args = append(args, q.CreatedTo)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
