// Package summary aggregates tasks into weekly buckets.
package summary

import (
	"context"
	"sort"
	"time"

	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
)

// BucketTask is the projection of a task listed inside a bucket.
type BucketTask struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	DateTime    domain.DateTime `json:"dateTime"`
	Priority    domain.Priority `json:"priority"`
	Status      domain.Status   `json:"status"`
}

// Bucket groups the tasks of one week. Week is nil for tasks without a
// derivable date.
type Bucket struct {
	Week           *time.Time   `json:"week"`
	OpenTasks      int          `json:"openTasks"`
	CompletedTasks int          `json:"completedTasks"`
	TotalTasks     int          `json:"totalTasks"`
	Tasks          []BucketTask `json:"tasks"`
}

// Report is a weekly summary computed for a reference year.
type Report struct {
	Year    int      `json:"year"`
	Buckets []Bucket `json:"buckets"`
}

// StatusWeek counts tasks created in the current Sunday week.
type StatusWeek struct {
	Week           string `json:"week"`
	OpenTasks      int    `json:"openTasks"`
	CompletedTasks int    `json:"completedTasks"`
}

// Build groups tasks by the Monday of their derived date. Buckets are
// ascending by week with the undated bucket first; tasks keep input order.
func Build(tasks []domain.Task, year int, loc *time.Location) []Bucket {
	index := make(map[int64]int)
	undated := -1
	buckets := make([]Bucket, 0)

	for _, t := range tasks {
		var pos int
		if d, ok := DeriveDate(t.DateTime, year, loc); ok {
			week := WeekStartMonday(d)
			key := week.Unix()
			i, found := index[key]
			if !found {
				buckets = append(buckets, Bucket{Week: &week, Tasks: []BucketTask{}})
				i = len(buckets) - 1
				index[key] = i
			}
			pos = i
		} else {
			if undated < 0 {
				buckets = append(buckets, Bucket{Tasks: []BucketTask{}})
				undated = len(buckets) - 1
			}
			pos = undated
		}

		b := &buckets[pos]
		b.TotalTasks++
		switch t.Status {
		case domain.StatusCompleted:
			b.CompletedTasks++
		case domain.StatusInProgress:
			b.OpenTasks++
		}
		b.Tasks = append(b.Tasks, BucketTask{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			DateTime:    t.DateTime,
			Priority:    t.Priority,
			Status:      t.Status,
		})
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		a, b := buckets[i].Week, buckets[j].Week
		if a == nil || b == nil {
			return a == nil && b != nil
		}
		return a.Before(*b)
	})
	return buckets
}

// Source is the read side of the task repository the engine needs.
type Source interface {
	ListAll(ctx context.Context) ([]domain.Task, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Task, error)
}

// Engine computes summaries against a clock and a location.
type Engine struct {
	source Source
	now    func() time.Time
	loc    *time.Location
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the engine clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLocation sets the location weeks are computed in.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// NewEngine creates an Engine reading from source. It defaults to the wall
// clock and UTC.
func NewEngine(source Source, opts ...Option) *Engine {
	e := &Engine{
		source: source,
		now:    time.Now,
		loc:    time.UTC,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ReferenceYear is the year pseudo-dates are composed in.
func (e *Engine) ReferenceYear() int {
	return e.now().In(e.loc).Year()
}

// Weekly buckets every task by week.
func (e *Engine) Weekly(ctx context.Context) (*Report, error) {
	year := e.ReferenceYear()
	tasks, err := e.source.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &Report{Year: year, Buckets: Build(tasks, year, e.loc)}, nil
}

// CurrentWeek counts tasks created between Sunday 00:00 and Saturday
// 23:59:59.999 of the current week. Anything not Completed is open.
func (e *Engine) CurrentWeek(ctx context.Context) (*StatusWeek, error) {
	start := WeekStartSunday(e.now().In(e.loc))
	end := start.AddDate(0, 0, 7).Add(-time.Millisecond)

	tasks, err := e.source.ListCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	sw := &StatusWeek{
		Week: start.Format(LabelLayout) + " - " + end.Format(LabelLayout),
	}
	for _, t := range tasks {
		if t.Status == domain.StatusCompleted {
			sw.CompletedTasks++
		} else {
			sw.OpenTasks++
		}
	}
	return sw, nil
}
