package donation

import (
	"errors"
	"time"

	"github.com/Emmanu-hec2a/bass42/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the persistence contract the orchestrator depends on.
// Implementations must make Insert atomic with respect to reference
// uniqueness and the conditional updates atomic with respect to the
// pending-status check, so concurrent callback deliveries cannot
// double-complete an intent.
type Repository interface {
	Insert(d *models.Donation) error
	GetByReference(reference string) (*models.Donation, error)
	GetByCheckoutRequestID(checkoutRequestID string) (*models.Donation, error)
	SetCheckoutRequestID(reference, checkoutRequestID string) error
	FindOldestPendingMatch(phone string, amount float64) (*models.Donation, error)
	CompletePending(reference, receipt string, completedAt time.Time) (bool, error)
	FailPending(reference, errorDetail string) (bool, error)
	ListAll() ([]models.Donation, error)
	Stats() (*Stats, error)
	RecordCallbackEvent(event *models.MpesaCallbackEvent) (bool, *models.MpesaCallbackEvent, error)
	MarkCallbackProcessed(id uint, processingError string) error
}

// Stats aggregates donation records for the admin dashboard.
type Stats struct {
	TotalAmount    float64 `json:"total_amount"`
	CompletedCount int64   `json:"completed_count"`
	PendingCount   int64   `json:"pending_count"`
	FailedCount    int64   `json:"failed_count"`
	TotalAttempts  int64   `json:"total_attempts"`
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a donation repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Insert(d *models.Donation) error {
	err := r.db.Create(d).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateReference
	}
	return err
}

func (r *gormRepository) GetByReference(reference string) (*models.Donation, error) {
	var d models.Donation
	err := r.db.Where("reference = ?", reference).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *gormRepository) GetByCheckoutRequestID(checkoutRequestID string) (*models.Donation, error) {
	var d models.Donation
	err := r.db.Where("checkout_request_id = ?", checkoutRequestID).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// SetCheckoutRequestID persists the provider's correlation id on the freshly
// created intent so later callbacks can be matched exactly.
func (r *gormRepository) SetCheckoutRequestID(reference, checkoutRequestID string) error {
	return r.db.Model(&models.Donation{}).
		Where("reference = ? AND status = ?", reference, models.DonationStatusPending).
		Update("checkout_request_id", checkoutRequestID).Error
}

// FindOldestPendingMatch returns the oldest pending intent for the given
// phone and amount. This is the legacy approximation for callbacks without
// a usable CheckoutRequestID; two concurrent intents with the same pair are
// ambiguous under it.
func (r *gormRepository) FindOldestPendingMatch(phone string, amount float64) (*models.Donation, error) {
	var d models.Donation
	err := r.db.
		Where("phone = ? AND amount = ? AND status = ?", phone, amount, models.DonationStatusPending).
		Order("created_at ASC").
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CompletePending transitions pending -> completed with a single conditional
// UPDATE. The status predicate in the WHERE clause is the compare-and-swap:
// a concurrent transition wins the race and this call reports false.
func (r *gormRepository) CompletePending(reference, receipt string, completedAt time.Time) (bool, error) {
	tx := r.db.Model(&models.Donation{}).
		Where("reference = ? AND status = ?", reference, models.DonationStatusPending).
		Updates(map[string]interface{}{
			"status":        models.DonationStatusCompleted,
			"mpesa_receipt": receipt,
			"completed_at":  completedAt,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// FailPending transitions pending -> failed under the same CAS guarantee.
// Failed intents never carry a receipt.
func (r *gormRepository) FailPending(reference, errorDetail string) (bool, error) {
	tx := r.db.Model(&models.Donation{}).
		Where("reference = ? AND status = ?", reference, models.DonationStatusPending).
		Updates(map[string]interface{}{
			"status":       models.DonationStatusFailed,
			"error_detail": errorDetail,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *gormRepository) ListAll() ([]models.Donation, error) {
	var donations []models.Donation
	err := r.db.Order("created_at ASC").Find(&donations).Error
	return donations, err
}

func (r *gormRepository) Stats() (*Stats, error) {
	var stats Stats
	err := r.db.Model(&models.Donation{}).
		Where("status = ?", models.DonationStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.TotalAmount).Error
	if err != nil {
		return nil, err
	}

	counts := []struct {
		status string
		target *int64
	}{
		{models.DonationStatusCompleted, &stats.CompletedCount},
		{models.DonationStatusPending, &stats.PendingCount},
		{models.DonationStatusFailed, &stats.FailedCount},
	}
	for _, c := range counts {
		if err := r.db.Model(&models.Donation{}).Where("status = ?", c.status).Count(c.target).Error; err != nil {
			return nil, err
		}
	}

	if err := r.db.Model(&models.Donation{}).Count(&stats.TotalAttempts).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecordCallbackEvent persists a callback payload idempotently, keyed by
// provider and CheckoutRequestID. Returns false when the event was already
// recorded, which makes retransmitted callbacks no-ops.
func (r *gormRepository) RecordCallbackEvent(event *models.MpesaCallbackEvent) (bool, *models.MpesaCallbackEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "checkout_request_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.MpesaCallbackEvent
	if err := r.db.Where("provider = ? AND checkout_request_id = ?", event.Provider, event.CheckoutRequestID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkCallbackProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.MpesaCallbackEvent{}).Where("id = ?", id).Updates(updates).Error
}
