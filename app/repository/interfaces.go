package repository

import (
	"github.com/Emmanu-hec2a/bass42/app/models"
	"gorm.io/gorm"
)

// AnnouncementRepository defines the interface for announcement operations
type AnnouncementRepository interface {
	Create(a *models.Announcement) error
	GetByID(id uint64) (*models.Announcement, error)
	GetAll() ([]models.Announcement, error)
	Update(a *models.Announcement) error
	Delete(id uint64) error
	Count() (int64, error)
}

// AlumniRepository defines the interface for alumni registry operations
type AlumniRepository interface {
	Create(a *models.Alumni) error
	GetAll() ([]models.Alumni, error)
	Count() (int64, error)
}

// TeacherRepository defines the interface for staff account operations
type TeacherRepository interface {
	Create(t *models.Teacher) error
	GetByID(id uint) (*models.Teacher, error)
	GetByEmail(email string) (*models.Teacher, error)
	GetPending() ([]models.Teacher, error)
	GetApproved() ([]models.Teacher, error)
	Approve(id uint) error
	Delete(id uint) error
	EmailExists(email string) (bool, error)

	// Registration codes
	CreateCode(code *models.RegistrationCode) error
	GetUnusedCodes() ([]models.RegistrationCode, error)
	CodeIsValid(code string) (bool, error)
	UseCode(code string, teacherID uint) error
}

// MessageRepository defines the interface for staff chat operations
type MessageRepository interface {
	Create(m *models.Message) error
	GetByID(id uint) (*models.Message, error)
	GetAll() ([]models.Message, error)
	DeleteOwned(id, senderID uint) (bool, error)
	ToggleReaction(messageID, teacherID uint, reaction string) error
	ReactionCounts(messageID uint) (map[string]int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Announcement AnnouncementRepository
	Alumni       AlumniRepository
	Teacher      TeacherRepository
	Message      MessageRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Announcement: NewAnnouncementRepository(db),
		Alumni:       NewAlumniRepository(db),
		Teacher:      NewTeacherRepository(db),
		Message:      NewMessageRepository(db),
	}
}
