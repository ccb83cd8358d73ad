package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Announcement represents a school announcement shown on the public site
type Announcement struct {
	ID        uint64         `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"type:varchar(255)" json:"title" validate:"required,min=3,max=255"`
	Content   string         `gorm:"type:text" json:"content" validate:"required"`
	Emoji     string         `gorm:"type:varchar(16);default:'📢'" json:"emoji"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Announcement model
func (Announcement) TableName() string {
	return "announcements"
}

func (a *Announcement) Validate() error {
	v := validator.New()

	return v.Struct(a)
}
