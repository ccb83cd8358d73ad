package repository

import (
	"github.com/Emmanu-hec2a/bass42/app/models"
	"gorm.io/gorm"
)

// alumniRepository implements the AlumniRepository interface
type alumniRepository struct {
	db *gorm.DB
}

// NewAlumniRepository creates a new alumni repository instance
func NewAlumniRepository(db *gorm.DB) AlumniRepository {
	return &alumniRepository{db: db}
}

// Create creates a new alumni record in the database
func (r *alumniRepository) Create(a *models.Alumni) error {
	return r.db.Create(a).Error
}

// GetAll retrieves all alumni ordered by submission time
func (r *alumniRepository) GetAll() ([]models.Alumni, error) {
	var alumni []models.Alumni
	err := r.db.Order("created_at ASC").Find(&alumni).Error
	return alumni, err
}

// Count returns the total number of registered alumni
func (r *alumniRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Alumni{}).Count(&count).Error
	return count, err
}
