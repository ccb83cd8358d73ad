package models

import "time"

// RegistrationCode is a single-use invite code that lets staff without a
// school mail address register for the staff area.
type RegistrationCode struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Code      string     `gorm:"uniqueIndex;type:varchar(50);not null" json:"code"`
	IsUsed    bool       `gorm:"type:tinyint(1);default:0;index" json:"is_used"`
	CreatedBy string     `gorm:"type:varchar(150)" json:"created_by"`
	UsedBy    *uint      `gorm:"default:null" json:"used_by,omitempty"`
	UsedAt    *time.Time `gorm:"type:timestamp;default:null" json:"used_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the RegistrationCode model
func (RegistrationCode) TableName() string {
	return "registration_codes"
}
