package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kawasin/task-tracker/internal/models"
	"github.com/kawasin/task-tracker/internal/repository"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidProjectReference is returned when a task points at a project
	// that does not exist or belongs to another user. The two cases are not
	// distinguished.
	ErrInvalidProjectReference = errors.New("project does not exist or is not yours")
	ErrTitleEmpty              = errors.New("title cannot be empty")
)

// TaskService handles task business logic. Every operation is scoped to the
// owner passed in; a task ID owned by someone else yields ErrTaskNotFound.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	OwnerID   uint64
	Status    *models.TaskStatus
	Priority  *models.TaskPriority
	ProjectID *uint64
	Page      int
	PageSize  int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
	ProjectID   *uint64
	OwnerID     uint64
}

// UpdateTaskInput represents input for updating a task. Nil pointers leave
// the field untouched; the Clear flags encode an explicit null.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	DueDate      *time.Time
	ClearDueDate bool
	ProjectID    *uint64
	ClearProject bool
}

// ListTasks returns the owner's tasks matching the provided filters
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		OwnerID:   input.OwnerID,
		Status:    input.Status,
		Priority:  input.Priority,
		ProjectID: input.ProjectID,
		Page:      input.Page,
		PageSize:  input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns an owned task with its project reference
func (s *TaskService) GetTask(taskID, ownerID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, ownerID, "Project")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask creates a new task, verifying that any referenced project
// belongs to the same owner before anything is persisted.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleEmpty
	}

	if input.ProjectID != nil {
		if err := s.ensureOwnProject(*input.ProjectID, input.OwnerID); err != nil {
			return nil, err
		}
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
		OwnerID:     input.OwnerID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, input.OwnerID, "Project")
}

// UpdateTask updates an existing owned task. Only supplied fields change; a
// changed project reference is re-validated against the owner.
func (s *TaskService) UpdateTask(taskID, ownerID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearProject {
		task.ProjectID = nil
	} else if input.ProjectID != nil {
		if err := s.ensureOwnProject(*input.ProjectID, ownerID); err != nil {
			return nil, err
		}
		task.ProjectID = input.ProjectID
	}

	// Drop a stale preloaded association so Save only writes the task row.
	task.Project = nil

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, ownerID, "Project")
}

// DeleteTask deletes an owned task
func (s *TaskService) DeleteTask(taskID, ownerID uint64) error {
	if err := s.taskRepo.Delete(taskID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// SetStatus is the narrow fast path that mutates status alone. The status
// value is validated upstream.
func (s *TaskService) SetStatus(taskID, ownerID uint64, status models.TaskStatus) (*models.Task, error) {
	if err := s.taskRepo.UpdateStatus(taskID, ownerID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return s.taskRepo.FindByID(taskID, ownerID, "Project")
}

// ensureOwnProject verifies that a project reference resolves within the
// owner's own projects.
func (s *TaskService) ensureOwnProject(projectID, ownerID uint64) error {
	_, err := s.projectRepo.FindByID(projectID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidProjectReference
		}
		return fmt.Errorf("failed to verify project: %w", err)
	}
	return nil
}
