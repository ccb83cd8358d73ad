package models

import "time"

// MpesaCallbackEvent stores raw provider callback payloads with deduplication
// metadata for idempotent processing.
type MpesaCallbackEvent struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Provider          string     `gorm:"type:varchar(20);not null;index:ux_mpesa_callback_events_provider_event,unique,priority:1" json:"provider"`
	CheckoutRequestID string     `gorm:"type:varchar(191);not null;default:'';index:ux_mpesa_callback_events_provider_event,unique,priority:2" json:"checkout_request_id"`
	ResultCode        int        `gorm:"not null;index" json:"result_code"`
	PayloadJSON       string     `gorm:"type:longtext;not null" json:"payload_json"`
	ProcessedAt       *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	ProcessingError   string     `gorm:"type:text" json:"processing_error"`
	CreatedAt         time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the MpesaCallbackEvent model
func (MpesaCallbackEvent) TableName() string {
	return "mpesa_callback_events"
}
