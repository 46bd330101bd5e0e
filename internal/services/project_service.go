package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kawasin/task-tracker/internal/models"
	"github.com/kawasin/task-tracker/internal/repository"
)

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrProjectNameEmpty = errors.New("project name cannot be empty")
	// ErrProjectHasTasks is returned when deleting a project that tasks still
	// reference. The caller must reassign or delete those tasks first.
	ErrProjectHasTasks = errors.New("project still has tasks assigned to it")
)

// ProjectService provides business logic for project operations. Every
// operation is scoped to the owner passed in.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	Color       string
	OwnerID     uint64
}

// UpdateProjectInput represents input for updating a project. Nil pointers
// leave the field untouched.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Color       *string
}

// CreateProject creates a new project for the owner, applying the default
// color when none is given.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrProjectNameEmpty
	}

	color := input.Color
	if color == "" {
		color = models.DefaultProjectColor
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		Color:       color,
		OwnerID:     input.OwnerID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects returns all of the owner's projects, newest first, with their
// tasks loaded so callers can summarize them.
func (s *ProjectService) ListProjects(ownerID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns an owned project together with its full task list in the
// fixed listing order.
func (s *ProjectService) GetProject(projectID, ownerID uint64) (*models.Project, []models.Task, error) {
	project, err := s.projectRepo.FindByID(projectID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("failed to find project: %w", err)
	}

	tasks, err := s.taskRepo.ListByProject(projectID, ownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list project tasks: %w", err)
	}

	return project, tasks, nil
}

// UpdateProject updates the supplied fields of an owned project.
func (s *ProjectService) UpdateProject(projectID, ownerID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrProjectNameEmpty
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Color != nil {
		project.Color = *input.Color
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes an owned project. Deletion is refused while any task
// still references the project.
func (s *ProjectService) DeleteProject(projectID, ownerID uint64) error {
	if err := s.projectRepo.Delete(projectID, ownerID); err != nil {
		switch {
		case errors.Is(err, repository.ErrProjectHasTasks):
			return ErrProjectHasTasks
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrProjectNotFound
		default:
			return fmt.Errorf("failed to delete project: %w", err)
		}
	}

	return nil
}

// ListProjectTasks verifies project ownership, then lists its tasks through
// the same filtered query used for the global task listing.
func (s *ProjectService) ListProjectTasks(projectID, ownerID uint64, input ListTasksInput) ([]models.Task, int64, error) {
	if _, err := s.projectRepo.FindByID(projectID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrProjectNotFound
		}
		return nil, 0, fmt.Errorf("failed to find project: %w", err)
	}

	filter := repository.TaskFilter{
		OwnerID:   ownerID,
		Status:    input.Status,
		Priority:  input.Priority,
		ProjectID: &projectID,
		Page:      input.Page,
		PageSize:  input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list project tasks: %w", err)
	}

	return tasks, total, nil
}
