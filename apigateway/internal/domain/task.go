package domain

import (
	"context"
	"time"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status is the progress state of a task.
type Status string

const (
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusInProgress || s == StatusCompleted
}

// DateTime is the schedule of a task. StartTime and EndTime are times of day
// (HH:MM). Date is an optional calendar day (YYYY-MM-DD).
type DateTime struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Date      string `json:"date,omitempty"`
}

// Task is a unit of work with a schedule, a priority and a status.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DateTime    DateTime  `json:"dateTime"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTaskInput carries the client supplied fields of a task being created.
type NewTaskInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DateTime    DateTime `json:"dateTime"`
	Priority    Priority `json:"priority"`
}

// TaskRepository is the persistence contract used by the service layer.
type TaskRepository interface {
	ListAll(ctx context.Context) ([]Task, error)
	Create(ctx context.Context, in NewTaskInput) (*Task, error)
	FindByID(ctx context.Context, id string) (*Task, error)
	Update(ctx context.Context, id string, patch TaskPatch) (*Task, error)
	Delete(ctx context.Context, id string) (string, error)
	Search(ctx context.Context, keyword string) ([]Task, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]Task, error)
}
