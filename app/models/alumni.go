package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Alumni represents a former student registered through the public form
type Alumni struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Phone        string    `gorm:"type:varchar(20);not null" json:"phone" validate:"required"`
	YearStarted  int       `gorm:"not null" json:"year_started" validate:"required,gte=1950,lte=2030"`
	YearFinished int       `gorm:"not null" json:"year_finished" validate:"required,gte=1950,lte=2030,gtefield=YearStarted"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"submitted_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"-"`
}

// TableName specifies the table name for the Alumni model
func (Alumni) TableName() string {
	return "alumni"
}

func (a *Alumni) Validate() error {
	v := validator.New()

	return v.Struct(a)
}
