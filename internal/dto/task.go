package dto

import (
	"time"

	"github.com/kawasin/task-tracker/internal/models"
)

// TaskDTO represents a task in API responses. Project is the lightweight
// reference of the assigned project, or null for unassigned tasks.
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
	ProjectID   *uint64             `json:"project_id"`
	Project     *ProjectRefDTO      `json:"project"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks []TaskDTO `json:"tasks"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
	Total int64     `json:"total"`
	Pages int       `json:"pages"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		ProjectID:   task.ProjectID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include project reference if preloaded
	if task.Project != nil && task.Project.ID != 0 {
		ref := ToProjectRefDTO(*task.Project)
		dto.Project = &ref
	}

	return dto
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, limit int, total int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	pages := int(total) / limit
	if int(total)%limit > 0 {
		pages++
	}

	return TaskListResponse{
		Tasks: items,
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}
