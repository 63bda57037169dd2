package googlecloud

import (
	"time"
)

// ScheduleEntity is the nested schedule of a task entity.
type ScheduleEntity struct {
	StartTime string `datastore:"start_time"`
	EndTime   string `datastore:"end_time"`
	Date      string `datastore:"date"`
}

// TaskEntity is the datastore representation of a task. Free text is
// unindexed: indexed strings are capped at 1500 bytes and no query filters
// on title or description.
type TaskEntity struct {
	ID          int64          `datastore:"-"` // Key ID (Auto-generated int64)
	Title       string         `datastore:"title,noindex"`
	Description string         `datastore:"description,noindex"`
	Schedule    ScheduleEntity `datastore:"schedule"`
	Priority    string         `datastore:"priority"`
	Status      string         `datastore:"status"`
	CreatedAt   time.Time      `datastore:"created_at"`
	UpdatedAt   time.Time      `datastore:"updated_at"`
}
