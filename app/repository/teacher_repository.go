package repository

import (
	"strings"
	"time"

	"github.com/Emmanu-hec2a/bass42/app/models"
	"gorm.io/gorm"
)

// teacherRepository implements the TeacherRepository interface
type teacherRepository struct {
	db *gorm.DB
}

// NewTeacherRepository creates a new teacher repository instance
func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

// Create creates a new teacher account in the database
func (r *teacherRepository) Create(t *models.Teacher) error {
	return r.db.Create(t).Error
}

// GetByID retrieves a teacher by their ID
func (r *teacherRepository) GetByID(id uint) (*models.Teacher, error) {
	var t models.Teacher
	err := r.db.First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByEmail retrieves a teacher by their email address
func (r *teacherRepository) GetByEmail(email string) (*models.Teacher, error) {
	var t models.Teacher
	err := r.db.Where("email = ?", strings.ToLower(email)).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetPending retrieves teacher accounts awaiting admin approval
func (r *teacherRepository) GetPending() ([]models.Teacher, error) {
	var teachers []models.Teacher
	err := r.db.Where("is_approved = ?", false).Order("created_at ASC").Find(&teachers).Error
	return teachers, err
}

// GetApproved retrieves approved teacher accounts
func (r *teacherRepository) GetApproved() ([]models.Teacher, error) {
	var teachers []models.Teacher
	err := r.db.Where("is_approved = ?", true).Order("created_at ASC").Find(&teachers).Error
	return teachers, err
}

// Approve marks a teacher account as approved
func (r *teacherRepository) Approve(id uint) error {
	return r.db.Model(&models.Teacher{}).Where("id = ?", id).Update("is_approved", true).Error
}

// Delete soft deletes a teacher account (rejection)
func (r *teacherRepository) Delete(id uint) error {
	return r.db.Delete(&models.Teacher{}, id).Error
}

// EmailExists checks if an email address is already registered
func (r *teacherRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Teacher{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error
	return count > 0, err
}

// CreateCode stores a new registration code
func (r *teacherRepository) CreateCode(code *models.RegistrationCode) error {
	return r.db.Create(code).Error
}

// GetUnusedCodes retrieves registration codes that have not been redeemed
func (r *teacherRepository) GetUnusedCodes() ([]models.RegistrationCode, error) {
	var codes []models.RegistrationCode
	err := r.db.Where("is_used = ?", false).Order("created_at DESC").Find(&codes).Error
	return codes, err
}

// CodeIsValid checks whether a registration code exists and is unused
func (r *teacherRepository) CodeIsValid(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.RegistrationCode{}).
		Where("code = ? AND is_used = ?", code, false).
		Count(&count).Error
	return count > 0, err
}

// UseCode atomically redeems a registration code for a teacher. The is_used
// predicate prevents two concurrent registrations from sharing one code.
func (r *teacherRepository) UseCode(code string, teacherID uint) error {
	now := time.Now()
	tx := r.db.Model(&models.RegistrationCode{}).
		Where("code = ? AND is_used = ?", code, false).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_by": teacherID,
			"used_at": &now,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
