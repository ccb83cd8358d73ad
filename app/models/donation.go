package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DonationStatusPending   = "pending"
	DonationStatusCompleted = "completed"
	DonationStatusFailed    = "failed"
)

// Donation represents one attempt to collect a supporter payment via
// an M-Pesa STK push. Records are append-only: a row is created when the
// push is initiated and only its status fields change afterwards.
type Donation struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Reference         string     `gorm:"uniqueIndex;type:varchar(64);not null" json:"reference"`
	CheckoutRequestID string     `gorm:"uniqueIndex:ux_donations_checkout_request_id;type:varchar(100);default:null" json:"checkout_request_id,omitempty"`
	Name              string     `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Phone             string     `gorm:"index:idx_donations_phone_amount,priority:1;type:varchar(15);not null" json:"phone" validate:"required,len=12,numeric"`
	Amount            float64    `gorm:"index:idx_donations_phone_amount,priority:2;type:decimal(12,2);not null" json:"amount" validate:"required,gte=1"`
	Status            string     `gorm:"type:varchar(20);default:'pending';index" json:"status" validate:"oneof=pending completed failed"`
	MpesaReceipt      string     `gorm:"type:varchar(50);default:null" json:"mpesa_receipt,omitempty"`
	ErrorDetail       string     `gorm:"type:text" json:"error_detail,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	CompletedAt       *time.Time `gorm:"type:timestamp;default:null" json:"completed_at,omitempty"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Donation model
func (Donation) TableName() string {
	return "donations"
}

func (d *Donation) Validate() error {
	v := validator.New()

	return v.Struct(d)
}

// IsTerminal reports whether the donation has reached a final state.
// Completed and failed are terminal; no edge leads out of them.
func (d *Donation) IsTerminal() bool {
	return d.Status == DonationStatusCompleted || d.Status == DonationStatusFailed
}
