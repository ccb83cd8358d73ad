package models

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// School mail domains whose owners are approved automatically on registration.
var schoolMailDomains = []string{
	"@bishopabiero.ac.ke",
	"@bishopabiero.edu",
	"@bishopabiero.sch.ke",
}

// Teacher represents a staff member with access to the staff chat
type Teacher struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	FirstName        string         `gorm:"type:varchar(150);not null" json:"first_name" validate:"required,min=2,max=150"`
	Email            string         `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,min=5,max=200"`
	Password         string         `gorm:"type:text" json:"-" validate:"required,min=6"`
	RegistrationCode string         `gorm:"type:varchar(50);default:null" json:"-"`
	IsApproved       bool           `gorm:"type:tinyint(1);default:0;index" json:"is_approved"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Teacher model
func (Teacher) TableName() string {
	return "teachers"
}

func (t *Teacher) Validate() error {
	v := validator.New()

	return v.Struct(t)
}

// CreateTeacher builds a teacher account with a hashed password. Accounts on
// a school mail domain or carrying a valid registration code start approved.
func CreateTeacher(firstName, email, password, registrationCode string, approved bool) (*Teacher, error) {
	// The stored field holds the hash, so the raw password length is
	// checked here rather than by the struct validator.
	if len(password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	t := &Teacher{
		FirstName:        firstName,
		Email:            strings.ToLower(email),
		Password:         pw,
		RegistrationCode: registrationCode,
		IsApproved:       approved,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// IsSchoolEmail reports whether the address belongs to a school mail domain.
func IsSchoolEmail(email string) bool {
	lower := strings.ToLower(strings.TrimSpace(email))
	for _, domain := range schoolMailDomains {
		if strings.HasSuffix(lower, domain) {
			return true
		}
	}
	return false
}
