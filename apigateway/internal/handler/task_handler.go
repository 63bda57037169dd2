package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/locvowork/task_management_sample/apigateway/internal/logger"
	"github.com/locvowork/task_management_sample/apigateway/internal/service"
	"github.com/locvowork/task_management_sample/apigateway/internal/service/serviceutils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type TaskHandler struct {
	svc service.TaskService
}

func NewTaskHandler(svc service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

func (h *TaskHandler) ListHandler(c echo.Context) error {
	tasks, err := h.svc.ListAll(c.Request().Context())
	if err != nil {
		return h.fail(c, err, MsgErrRetrieving)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, TasksResponse{Message: MsgTasksRetrieved, Tasks: tasks})
}

func (h *TaskHandler) CreateHandler(c echo.Context) error {
	var in domain.NewTaskInput
	if err := c.Bind(&in); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, MsgInvalidBody, nil)
	}

	task, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return h.fail(c, err, MsgErrCreating)
	}
	logger.InfoLog(c.Request().Context(), "created task %s", task.ID)
	return serviceutils.ResponseSuccess(c, http.StatusCreated, TaskResponse{Message: MsgTaskCreated, Task: task})
}

func (h *TaskHandler) GetHandler(c echo.Context) error {
	task, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err, MsgErrRetrievingTask)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, TaskResponse{Message: MsgTaskRetrieved, Task: task})
}

func (h *TaskHandler) EditHandler(c echo.Context) error {
	var patch domain.TaskPatch
	if err := c.Bind(&patch); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, MsgInvalidBody, nil)
	}

	task, err := h.svc.Edit(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return h.fail(c, err, MsgErrUpdating)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, TaskResponse{Message: MsgTaskUpdated, Task: task})
}

func (h *TaskHandler) UpdateHandler(c echo.Context) error {
	var patch domain.TaskPatch
	if err := c.Bind(&patch); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, MsgInvalidBody, nil)
	}

	task, err := h.svc.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return h.fail(c, err, MsgErrUpdating)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, TaskResponse{Message: MsgTaskUpdated, Task: task})
}

func (h *TaskHandler) DeleteHandler(c echo.Context) error {
	id, err := h.svc.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err, MsgErrDeleting)
	}
	logger.InfoLog(c.Request().Context(), "deleted task %s", id)
	return serviceutils.ResponseSuccess(c, http.StatusOK, DeleteResponse{Message: MsgTaskDeleted, TaskID: id})
}

func (h *TaskHandler) SearchHandler(c echo.Context) error {
	tasks, err := h.svc.Search(c.Request().Context(), c.QueryParam("keyword"))
	if err != nil {
		return h.fail(c, err, MsgErrSearching)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, SearchResponse{
		Message: MsgSearchRetrieved,
		Count:   len(tasks),
		Tasks:   tasks,
	})
}

func (h *TaskHandler) UpdateStatusHandler(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, MsgInvalidBody, nil)
	}

	task, week, err := h.svc.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return h.fail(c, err, MsgErrStatus)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, StatusResponse{
		Message:       MsgStatusUpdated,
		Task:          task,
		WeeklySummary: week,
	})
}

func (h *TaskHandler) UpdatePriorityHandler(c echo.Context) error {
	var req priorityRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, MsgInvalidBody, nil)
	}

	task, err := h.svc.UpdatePriority(c.Request().Context(), c.Param("id"), req.Priority)
	if err != nil {
		return h.fail(c, err, MsgErrPriority)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, TaskResponse{Message: MsgPriorityUpdated, Task: task})
}

func (h *TaskHandler) WeeklySummaryHandler(c echo.Context) error {
	buckets, err := h.svc.WeeklySummary(c.Request().Context())
	if err != nil {
		return h.fail(c, err, MsgErrSummary)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, WeeklySummaryResponse{
		Message:       MsgSummaryRetrieved,
		WeeklySummary: buckets,
	})
}

func (h *TaskHandler) ExportWeeklySummaryHandler(c echo.Context) error {
	data, err := h.svc.ExportWeeklySummary(c.Request().Context())
	if err != nil {
		return h.fail(c, err, MsgErrExport)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="weekly_summary.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

// fail maps service errors to responses: invalid input is 400, unknown ids
// are 404, anything else is logged and reported as 500 with msg.
func (h *TaskHandler) fail(c echo.Context, err error, msg string) error {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return serviceutils.ResponseError(c, http.StatusBadRequest, vErr.Message, nil)
	case domain.IsNotFound(err):
		return serviceutils.ResponseError(c, http.StatusNotFound, MsgTaskNotFound, nil)
	default:
		logger.ErrorLog(c.Request().Context(), "%s: %v", msg, err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, msg, err)
	}
}
