package handler

import (
	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/locvowork/task_management_sample/apigateway/internal/summary"
)

const (
	MsgTasksRetrieved    = "Tasks retrieved successfully"
	MsgTaskRetrieved     = "Task retrieved successfully"
	MsgTaskCreated       = "Task created successfully"
	MsgTaskUpdated       = "Task updated successfully"
	MsgTaskDeleted       = "Task deleted successfully"
	MsgSearchRetrieved   = "Search results retrieved successfully"
	MsgStatusUpdated     = "Task status updated successfully"
	MsgPriorityUpdated   = "Task priority updated successfully"
	MsgSummaryRetrieved  = "Weekly summary retrieved successfully"
	MsgTaskNotFound      = "Task not found"
	MsgInvalidBody       = "Invalid request body"
	MsgErrRetrieving     = "Error retrieving tasks"
	MsgErrRetrievingTask = "Error retrieving task"
	MsgErrCreating       = "Error creating task"
	MsgErrUpdating       = "Error updating task"
	MsgErrDeleting       = "Error deleting task"
	MsgErrSearching      = "Error searching tasks"
	MsgErrStatus         = "Error updating task status"
	MsgErrPriority       = "Error updating task priority"
	MsgErrSummary        = "Error retrieving weekly summary"
	MsgErrExport         = "Error exporting weekly summary"
)

type TasksResponse struct {
	Message string        `json:"message"`
	Tasks   []domain.Task `json:"tasks"`
}

type TaskResponse struct {
	Message string       `json:"message"`
	Task    *domain.Task `json:"task"`
}

type DeleteResponse struct {
	Message string `json:"message"`
	TaskID  string `json:"taskId"`
}

type SearchResponse struct {
	Message string        `json:"message"`
	Count   int           `json:"count"`
	Tasks   []domain.Task `json:"tasks"`
}

type StatusResponse struct {
	Message       string              `json:"message"`
	Task          *domain.Task        `json:"task"`
	WeeklySummary *summary.StatusWeek `json:"weeklySummary"`
}

type WeeklySummaryResponse struct {
	Message       string           `json:"message"`
	WeeklySummary []summary.Bucket `json:"weeklySummary"`
}

type statusRequest struct {
	Status domain.Status `json:"status"`
}

type priorityRequest struct {
	Priority domain.Priority `json:"priority"`
}
