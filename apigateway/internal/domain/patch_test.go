package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskPatch_Unmarshal(t *testing.T) {
	t.Run("absent fields stay unset", func(t *testing.T) {
		var p TaskPatch
		require.NoError(t, json.Unmarshal([]byte(`{"status":"Completed"}`), &p))

		assert.True(t, p.Status.Set)
		assert.Equal(t, StatusCompleted, p.Status.Value)
		assert.False(t, p.Title.Set)
		assert.False(t, p.Description.Set)
		assert.False(t, p.DateTime.Set)
		assert.False(t, p.Priority.Set)
	})

	t.Run("empty string is present", func(t *testing.T) {
		var p TaskPatch
		require.NoError(t, json.Unmarshal([]byte(`{"description":""}`), &p))

		assert.True(t, p.Description.Set)
		assert.Equal(t, "", p.Description.Value)
	})

	t.Run("empty object", func(t *testing.T) {
		var p TaskPatch
		require.NoError(t, json.Unmarshal([]byte(`{}`), &p))
		assert.True(t, p.IsEmpty())
	})
}

func TestTaskPatch_Apply(t *testing.T) {
	task := Task{
		ID:          "1",
		Title:       "Write report",
		Description: "quarterly",
		DateTime:    DateTime{StartTime: "09:00", EndTime: "10:00"},
		Priority:    PriorityHigh,
		Status:      StatusInProgress,
	}

	TaskPatch{Status: Some(StatusCompleted)}.Apply(&task)

	assert.Equal(t, StatusCompleted, task.Status)
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, "quarterly", task.Description)
	assert.Equal(t, DateTime{StartTime: "09:00", EndTime: "10:00"}, task.DateTime)
	assert.Equal(t, PriorityHigh, task.Priority)
}
