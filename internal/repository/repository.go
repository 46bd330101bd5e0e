package repository

import (
	"errors"

	"github.com/kawasin/task-tracker/internal/models"
)

// ErrProjectHasTasks is returned when a project delete is blocked because
// tasks still reference the project.
var ErrProjectHasTasks = errors.New("project repository: project still has tasks")

// TaskRepository defines the interface for task data access. Every read and
// write is scoped to an owner; an ID owned by someone else behaves exactly
// like a missing ID.
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task owned by ownerID, with optional preloading
	FindByID(id, ownerID uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination, in the fixed
	// due-date/priority/created-at ordering
	List(filter TaskFilter) ([]models.Task, int64, error)

	// ListByProject retrieves every task of one project, in the same fixed
	// ordering as List
	ListByProject(projectID, ownerID uint64) ([]models.Task, error)

	// Update persists all fields of a task
	Update(task *models.Task) error

	// UpdateStatus updates only the status column of an owned task
	UpdateStatus(id, ownerID uint64, status models.TaskStatus) error

	// Delete soft deletes an owned task
	Delete(id, ownerID uint64) error
}

// TaskFilter holds filtering and pagination options for listing tasks. Nil
// fields impose no constraint; present fields are AND-combined.
type TaskFilter struct {
	OwnerID   uint64
	Status    *models.TaskStatus
	Priority  *models.TaskPriority
	ProjectID *uint64
	Page      int
	PageSize  int
}

// ProjectRepository defines the interface for project data access, scoped to
// an owner the same way as TaskRepository.
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project owned by ownerID
	FindByID(id, ownerID uint64) (*models.Project, error)

	// ListByOwner lists all of an owner's projects, newest first, with their
	// tasks preloaded
	ListByOwner(ownerID uint64) ([]models.Project, error)

	// Update persists all fields of a project
	Update(project *models.Project) error

	// Delete soft deletes an owned project. It fails with ErrProjectHasTasks
	// while any task still references the project; the count and the delete
	// run in one transaction.
	Delete(id, ownerID uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}
