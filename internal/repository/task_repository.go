package repository

import (
	"gorm.io/gorm"

	"github.com/kawasin/task-tracker/internal/database"
	"github.com/kawasin/task-tracker/internal/models"
)

// taskOrderClause is the fixed listing order: nearest due date first with
// undated tasks last, then priority urgent > high > medium > low, then newest
// created first, then ID as a stable tiebreak.
const taskOrderClause = "CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC, " +
	"CASE tasks.priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END, " +
	"tasks.created_at DESC, tasks.id ASC"

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task owned by ownerID, with optional preloading
func (r *GormTaskRepository) FindByID(id, ownerID uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.Scopes(database.OwnedBy(ownerID))

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Scopes(database.OwnedBy(filter.OwnerID))

	// Apply filters
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.
		Order(taskOrderClause).
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("Project").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListByProject retrieves every task of one project in the fixed ordering
func (r *GormTaskRepository) ListByProject(projectID, ownerID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Scopes(database.OwnedBy(ownerID)).
		Where("tasks.project_id = ?", projectID).
		Order(taskOrderClause).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists all fields of a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// UpdateStatus updates only the status column so a concurrent update to other
// fields cannot be clobbered by the fast path.
func (r *GormTaskRepository) UpdateStatus(id, ownerID uint64, status models.TaskStatus) error {
	result := r.db.Model(&models.Task{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete soft deletes an owned task
func (r *GormTaskRepository) Delete(id, ownerID uint64) error {
	result := r.db.Scopes(database.OwnedBy(ownerID)).Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
