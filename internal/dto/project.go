package dto

import (
	"time"

	"github.com/kawasin/task-tracker/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectRefDTO is the lightweight project context attached to tasks.
type ProjectRefDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TaskSummaryDTO holds per-status task counts for one project. The four
// status buckets always sum to Total.
type TaskSummaryDTO struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Blocked    int `json:"blocked"`
}

// ProjectWithSummaryDTO is a project as returned by the list endpoint: the
// raw task list is replaced by its status summary.
type ProjectWithSummaryDTO struct {
	ProjectDTO
	TaskSummary TaskSummaryDTO `json:"task_summary"`
}

// ProjectDetailDTO is a project with its full task list.
type ProjectDetailDTO struct {
	ProjectDTO
	Tasks []TaskDTO `json:"tasks"`
}

// SummarizeTasks counts a task collection per status. Summaries are computed
// fresh on every read, never cached on the project row.
func SummarizeTasks(tasks []models.Task) TaskSummaryDTO {
	summary := TaskSummaryDTO{Total: len(tasks)}
	for _, task := range tasks {
		switch task.Status {
		case models.TaskStatusTodo:
			summary.Todo++
		case models.TaskStatusInProgress:
			summary.InProgress++
		case models.TaskStatusCompleted:
			summary.Completed++
		case models.TaskStatusBlocked:
			summary.Blocked++
		}
	}
	return summary
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Color:       project.Color,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// ToProjectRefDTO converts a Project model to its task-embedded reference
func ToProjectRefDTO(project models.Project) ProjectRefDTO {
	return ProjectRefDTO{
		ID:    project.ID,
		Name:  project.Name,
		Color: project.Color,
	}
}

// ToProjectWithSummaryDTO converts a project and its loaded tasks to the
// list representation
func ToProjectWithSummaryDTO(project models.Project) ProjectWithSummaryDTO {
	return ProjectWithSummaryDTO{
		ProjectDTO:  ToProjectDTO(project),
		TaskSummary: SummarizeTasks(project.Tasks),
	}
}

// ToProjectDetailDTO converts a project and its ordered tasks to the detail
// representation
func ToProjectDetailDTO(project models.Project, tasks []models.Task) ProjectDetailDTO {
	taskDTOs := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		taskDTOs[i] = ToTaskDTO(task)
		// Tasks fetched through their project carry its reference even
		// without a preload.
		if taskDTOs[i].Project == nil {
			ref := ToProjectRefDTO(project)
			taskDTOs[i].Project = &ref
		}
	}

	return ProjectDetailDTO{
		ProjectDTO: ToProjectDTO(project),
		Tasks:      taskDTOs,
	}
}
