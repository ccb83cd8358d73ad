package repository

import (
	"github.com/Emmanu-hec2a/bass42/app/models"
	"gorm.io/gorm"
)

// announcementRepository implements the AnnouncementRepository interface
type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository creates a new announcement repository instance
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

// Create creates a new announcement in the database
func (r *announcementRepository) Create(a *models.Announcement) error {
	return r.db.Create(a).Error
}

// GetByID retrieves an announcement by its ID
func (r *announcementRepository) GetByID(id uint64) (*models.Announcement, error) {
	var a models.Announcement
	err := r.db.First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAll retrieves all announcements, newest first
func (r *announcementRepository) GetAll() ([]models.Announcement, error) {
	var announcements []models.Announcement
	err := r.db.Order("created_at DESC").Find(&announcements).Error
	return announcements, err
}

// Update updates an existing announcement in the database
func (r *announcementRepository) Update(a *models.Announcement) error {
	return r.db.Save(a).Error
}

// Delete soft deletes an announcement by its ID
func (r *announcementRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Announcement{}, id).Error
}

// Count returns the total number of announcements
func (r *announcementRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Announcement{}).Count(&count).Error
	return count, err
}
