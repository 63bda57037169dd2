package domain

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// Messages returned to clients for invalid input.
const (
	MsgMandatoryFields = "Title, start time and end time are mandatory fields"
	MsgEmptyEditFields = "Title and dateTime cannot be empty"
	MsgInvalidPriority = "Invalid priority. Must be 'Low', 'Medium' or 'High'"
	MsgInvalidStatus   = "Invalid status. Must be 'In Progress' or 'Completed'"
	MsgKeywordRequired = "Search keyword is required"
)

// DateLayout is the layout of DateTime.Date.
const DateLayout = "2006-01-02"

var timeOfDay = regexp.MustCompile(`^\d{2}:\d{2}$`)

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// ValidateDateTime checks that both times are present and shaped HH:MM, and
// that the optional date parses.
func ValidateDateTime(dt DateTime, missingMsg string) error {
	if strings.TrimSpace(dt.StartTime) == "" || strings.TrimSpace(dt.EndTime) == "" {
		return invalid(missingMsg)
	}
	if !timeOfDay.MatchString(dt.StartTime) {
		return NewValidationError("startTime %q must use the HH:MM format", dt.StartTime)
	}
	if !timeOfDay.MatchString(dt.EndTime) {
		return NewValidationError("endTime %q must use the HH:MM format", dt.EndTime)
	}
	if dt.Date != "" {
		if _, err := time.Parse(DateLayout, dt.Date); err != nil {
			return NewValidationError("date %q must use the YYYY-MM-DD format", dt.Date)
		}
	}
	return nil
}

// ValidateNewTask checks the fields required to create a task.
func ValidateNewTask(in NewTaskInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return invalid(MsgMandatoryFields)
	}
	if err := ValidateDateTime(in.DateTime, MsgMandatoryFields); err != nil {
		return err
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return invalid(MsgInvalidPriority)
	}
	return nil
}

// ValidatePatch checks that applying p cannot break the task invariants.
func ValidatePatch(p TaskPatch) error {
	if p.Title.Set && strings.TrimSpace(p.Title.Value) == "" {
		return invalid(MsgEmptyEditFields)
	}
	if p.DateTime.Set {
		if err := ValidateDateTime(p.DateTime.Value, MsgEmptyEditFields); err != nil {
			return err
		}
	}
	if p.Priority.Set && !p.Priority.Value.Valid() {
		return invalid(MsgInvalidPriority)
	}
	if p.Status.Set && !p.Status.Value.Valid() {
		return invalid(MsgInvalidStatus)
	}
	return nil
}

// SortByDateTime orders tasks by start time, then end time. Ties keep creation
// order, then id order.
func SortByDateTime(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.DateTime.StartTime != b.DateTime.StartTime {
			return a.DateTime.StartTime < b.DateTime.StartTime
		}
		if a.DateTime.EndTime != b.DateTime.EndTime {
			return a.DateTime.EndTime < b.DateTime.EndTime
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
