package repository

import (
	"gorm.io/gorm"

	"github.com/kawasin/task-tracker/internal/database"
	"github.com/kawasin/task-tracker/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project owned by ownerID
func (r *GormProjectRepository) FindByID(id, ownerID uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.Scopes(database.OwnedBy(ownerID)).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByOwner lists all of an owner's projects, newest first, with tasks
// preloaded for status summaries.
func (r *GormProjectRepository) ListByOwner(ownerID uint64) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Preload("Tasks").
		Scopes(database.OwnedBy(ownerID)).
		Order("created_at DESC, id DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// Update persists all fields of a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete soft deletes an owned project unless tasks still reference it. The
// count and the delete share a transaction so a task inserted in between
// cannot be orphaned.
func (r *GormProjectRepository) Delete(id, ownerID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Task{}).
			Where("project_id = ? AND owner_id = ?", id, ownerID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrProjectHasTasks
		}

		result := tx.Scopes(database.OwnedBy(ownerID)).Delete(&models.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
