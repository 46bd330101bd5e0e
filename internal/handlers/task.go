package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kawasin/task-tracker/internal/dto"
	apierrors "github.com/kawasin/task-tracker/internal/errors"
	"github.com/kawasin/task-tracker/internal/middleware"
	"github.com/kawasin/task-tracker/internal/models"
	"github.com/kawasin/task-tracker/internal/services"
	"github.com/kawasin/task-tracker/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the caller's tasks with optional status, priority and
// project_id filters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params, err := utils.GetPaginationParams(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid pagination parameters")
		return
	}

	input := services.ListTasksInput{
		OwnerID:  userID,
		Page:     params.Page,
		PageSize: params.Limit,
	}
	if !bindTaskFilters(c, &input) {
		return
	}

	if projectIDStr := c.Query("project_id"); projectIDStr != "" {
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project_id")
			return
		}
		input.ProjectID = &projectID
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	apierrors.Respond(c, http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns one of the caller's tasks by ID.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task for the caller.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string  `json:"title" binding:"required,max=255"`
		Description string  `json:"description"`
		Status      string  `json:"status" binding:"omitempty,oneof=todo in_progress completed blocked"`
		Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
		DueDate     *string `json:"due_date"`
		ProjectID   *uint64 `json:"project_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, err := parseDueDate(*req.DueDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid due_date, expected YYYY-MM-DD")
			return
		}
		dueDate = parsed
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
		DueDate:     dueDate,
		ProjectID:   req.ProjectID,
		OwnerID:     userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to one of the caller's tasks. The raw
// body is inspected so an explicit null (clear the field) can be told apart
// from an omitted key.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateTaskInput

	if title, ok := rawReq["title"]; ok {
		titleStr, ok := title.(string)
		if !ok || titleStr == "" || len(titleStr) > 255 {
			apierrors.BadRequest(c, "Invalid title")
			return
		}
		input.Title = &titleStr
	}
	if description, ok := rawReq["description"]; ok {
		// null clears the description
		descStr := ""
		if description != nil {
			s, ok := description.(string)
			if !ok {
				apierrors.BadRequest(c, "Invalid description")
				return
			}
			descStr = s
		}
		input.Description = &descStr
	}
	if status, ok := rawReq["status"]; ok {
		statusStr, ok := status.(string)
		if !ok || !models.ValidTaskStatus(statusStr) {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		taskStatus := models.TaskStatus(statusStr)
		input.Status = &taskStatus
	}
	if priority, ok := rawReq["priority"]; ok {
		priorityStr, ok := priority.(string)
		if !ok || !models.ValidTaskPriority(priorityStr) {
			apierrors.BadRequest(c, "Invalid priority")
			return
		}
		taskPriority := models.TaskPriority(priorityStr)
		input.Priority = &taskPriority
	}
	if dueDate, ok := rawReq["due_date"]; ok {
		if dueDate == nil {
			input.ClearDueDate = true
		} else {
			dueDateStr, ok := dueDate.(string)
			if !ok {
				apierrors.BadRequest(c, "Invalid due_date, expected YYYY-MM-DD")
				return
			}
			parsed, err := parseDueDate(dueDateStr)
			if err != nil {
				apierrors.BadRequest(c, "Invalid due_date, expected YYYY-MM-DD")
				return
			}
			input.DueDate = parsed
		}
	}
	if projectID, ok := rawReq["project_id"]; ok {
		if projectID == nil {
			input.ClearProject = true
		} else {
			idFloat, ok := projectID.(float64)
			if !ok || idFloat < 0 {
				apierrors.BadRequest(c, "Invalid project_id")
				return
			}
			id := uint64(idFloat)
			input.ProjectID = &id
		}
	}

	task, err := h.taskService.UpdateTask(taskID, userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// SetTaskStatus is the narrow fast path that changes only a task's status.
func (h *TaskHandler) SetTaskStatus(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type SetStatusRequest struct {
		Status string `json:"status" binding:"required,oneof=todo in_progress completed blocked"`
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid status")
		return
	}

	task, err := h.taskService.SetStatus(taskID, userID, models.TaskStatus(req.Status))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes one of the caller's tasks.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// bindTaskFilters reads the status and priority query filters into input,
// responding with 400 on an unknown enum value. It reports whether binding
// succeeded.
func bindTaskFilters(c *gin.Context, input *services.ListTasksInput) bool {
	if statusStr := c.Query("status"); statusStr != "" {
		if !models.ValidTaskStatus(statusStr) {
			apierrors.BadRequest(c, fmt.Sprintf("Invalid status: %s", statusStr))
			return false
		}
		status := models.TaskStatus(statusStr)
		input.Status = &status
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		if !models.ValidTaskPriority(priorityStr) {
			apierrors.BadRequest(c, fmt.Sprintf("Invalid priority: %s", priorityStr))
			return false
		}
		priority := models.TaskPriority(priorityStr)
		input.Priority = &priority
	}
	return true
}

// parseIDParam parses the :id path parameter, responding with 400 on garbage.
func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid ID")
		return 0, false
	}
	return id, true
}

// parseDueDate accepts a calendar date (YYYY-MM-DD) or an RFC3339 timestamp
// and truncates it to the day.
func parseDueDate(value string) (*time.Time, error) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, err
		}
	}
	day := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	return &day, nil
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrInvalidProjectReference):
		apierrors.InvalidReference(c, err.Error())
	case errors.Is(err, services.ErrTitleEmpty):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
