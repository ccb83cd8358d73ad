package donation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Emmanu-hec2a/bass42/app/models"
	"github.com/Emmanu-hec2a/bass42/internal/pkg/mpesa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryRepository implements Repository with the same atomicity guarantees
// the GORM implementation provides, so service tests exercise the real
// compare-and-swap semantics without a database.
type memoryRepository struct {
	mu         sync.Mutex
	byRef      map[string]*models.Donation
	events     map[string]*models.MpesaCallbackEvent
	nextID     uint
	nextEvent  uint
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		byRef:  make(map[string]*models.Donation),
		events: make(map[string]*models.MpesaCallbackEvent),
	}
}

func (r *memoryRepository) Insert(d *models.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byRef[d.Reference]; exists {
		return ErrDuplicateReference
	}
	r.nextID++
	d.ID = r.nextID
	d.CreatedAt = time.Now()
	clone := *d
	r.byRef[d.Reference] = &clone
	return nil
}

func (r *memoryRepository) GetByReference(reference string) (*models.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byRef[reference]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *d
	return &clone, nil
}

func (r *memoryRepository) GetByCheckoutRequestID(checkoutRequestID string) (*models.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.byRef {
		if d.CheckoutRequestID == checkoutRequestID && checkoutRequestID != "" {
			clone := *d
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepository) SetCheckoutRequestID(reference, checkoutRequestID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.byRef[reference]; ok && d.Status == models.DonationStatusPending {
		d.CheckoutRequestID = checkoutRequestID
	}
	return nil
}

func (r *memoryRepository) FindOldestPendingMatch(phone string, amount float64) (*models.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var oldest *models.Donation
	for _, d := range r.byRef {
		if d.Phone != phone || d.Amount != amount || d.Status != models.DonationStatusPending {
			continue
		}
		if oldest == nil || d.CreatedAt.Before(oldest.CreatedAt) || (d.CreatedAt.Equal(oldest.CreatedAt) && d.ID < oldest.ID) {
			oldest = d
		}
	}
	if oldest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *oldest
	return &clone, nil
}

func (r *memoryRepository) CompletePending(reference, receipt string, completedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byRef[reference]
	if !ok || d.Status != models.DonationStatusPending {
		return false, nil
	}
	d.Status = models.DonationStatusCompleted
	d.MpesaReceipt = receipt
	d.CompletedAt = &completedAt
	return true, nil
}

func (r *memoryRepository) FailPending(reference, errorDetail string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byRef[reference]
	if !ok || d.Status != models.DonationStatusPending {
		return false, nil
	}
	d.Status = models.DonationStatusFailed
	d.ErrorDetail = errorDetail
	return true, nil
}

func (r *memoryRepository) ListAll() ([]models.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Donation, 0, len(r.byRef))
	for _, d := range r.byRef {
		out = append(out, *d)
	}
	return out, nil
}

func (r *memoryRepository) Stats() (*Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &Stats{}
	for _, d := range r.byRef {
		stats.TotalAttempts++
		switch d.Status {
		case models.DonationStatusCompleted:
			stats.CompletedCount++
			stats.TotalAmount += d.Amount
		case models.DonationStatusPending:
			stats.PendingCount++
		case models.DonationStatusFailed:
			stats.FailedCount++
		}
	}
	return stats, nil
}

func (r *memoryRepository) RecordCallbackEvent(event *models.MpesaCallbackEvent) (bool, *models.MpesaCallbackEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := event.Provider + ":" + event.CheckoutRequestID
	if stored, exists := r.events[key]; exists {
		clone := *stored
		return false, &clone, nil
	}
	r.nextEvent++
	event.ID = r.nextEvent
	clone := *event
	r.events[key] = &clone
	return true, event, nil
}

func (r *memoryRepository) MarkCallbackProcessed(id uint, processingError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID == id {
			now := time.Now()
			e.ProcessedAt = &now
			e.ProcessingError = processingError
		}
	}
	return nil
}

// stubPusher fabricates provider acks or failures.
type stubPusher struct {
	mu      sync.Mutex
	counter int
	err     error
}

func (p *stubPusher) InitiateSTKPush(ctx context.Context, phone string, amount float64, reference, description string) (*mpesa.STKPushAck, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.mu.Lock()
	p.counter++
	id := fmt.Sprintf("ws_CO_%06d", p.counter)
	p.mu.Unlock()
	return &mpesa.STKPushAck{
		CheckoutRequestID:   id,
		ResponseDescription: "Success. Request accepted for processing",
	}, nil
}

func successCallback(checkoutRequestID, phone string, amount float64, receipt string) (*mpesa.StkCallback, []byte) {
	payload := fmt.Sprintf(`{"Body":{"stkCallback":{"MerchantRequestID":"m-1","CheckoutRequestID":%q,"ResultCode":0,"ResultDesc":"The service request is processed successfully.","CallbackMetadata":{"Item":[{"Name":"Amount","Value":%v},{"Name":"MpesaReceiptNumber","Value":%q},{"Name":"PhoneNumber","Value":%s}]}}}}`,
		checkoutRequestID, amount, receipt, phone)
	envelope, err := mpesa.ParseCallback([]byte(payload))
	if err != nil {
		panic(err)
	}
	return &envelope.Body.StkCallback, []byte(payload)
}

func failureCallback(checkoutRequestID string) (*mpesa.StkCallback, []byte) {
	payload := fmt.Sprintf(`{"Body":{"stkCallback":{"MerchantRequestID":"m-1","CheckoutRequestID":%q,"ResultCode":1032,"ResultDesc":"Request cancelled by user"}}}`, checkoutRequestID)
	envelope, err := mpesa.ParseCallback([]byte(payload))
	if err != nil {
		panic(err)
	}
	return &envelope.Body.StkCallback, []byte(payload)
}

func TestInitiateStoresCanonicalPhone(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, &stubPusher{})

	res, err := svc.Initiate(context.Background(), InitiateRequest{Name: "Jane", Phone: "0712345678", Amount: 50})
	require.NoError(t, err)
	require.NotEmpty(t, res.Reference)
	require.NotEmpty(t, res.CheckoutRequestID)

	d, err := repo.GetByReference(res.Reference)
	require.NoError(t, err)
	assert.Equal(t, "254712345678", d.Phone)
	assert.Equal(t, models.DonationStatusPending, d.Status)
	assert.Equal(t, res.CheckoutRequestID, d.CheckoutRequestID)
	assert.Empty(t, d.MpesaReceipt)
}

func TestInitiateRejectsBeforePersisting(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, &stubPusher{})

	cases := []InitiateRequest{
		{Name: "", Phone: "0712345678", Amount: 50},
		{Name: "Jane", Phone: "12345", Amount: 50},
		{Name: "Jane", Phone: "0712345678", Amount: 0.5},
		{Name: "Jane", Phone: "0712345678", Amount: 0},
	}
	for _, in := range cases {
		_, err := svc.Initiate(context.Background(), in)
		require.Error(t, err, "request %+v should be rejected", in)
	}

	all, err := repo.ListAll()
	require.NoError(t, err)
	assert.Empty(t, all, "rejected requests must not create records")
}

func TestInitiateProviderFailure(t *testing.T) {
	repo := newMemoryRepository()
	pusher := &stubPusher{err: fmt.Errorf("%w: credential endpoint returned 503", mpesa.ErrUnavailable)}
	svc := NewService(repo, pusher)

	_, err := svc.Initiate(context.Background(), InitiateRequest{Name: "Jane", Phone: "0712345678", Amount: 50})
	require.Error(t, err)
	assert.True(t, errors.Is(err, mpesa.ErrUnavailable))

	all, listErr := repo.ListAll()
	require.NoError(t, listErr)
	require.Len(t, all, 1, "a synchronous failure leaves exactly one intent")
	assert.Equal(t, models.DonationStatusFailed, all[0].Status)
	assert.Empty(t, all[0].MpesaReceipt)
	assert.NotEmpty(t, all[0].ErrorDetail)
}

func TestCallbackCompletesIntent(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, &stubPusher{})

	res, err := svc.Initiate(context.Background(), InitiateRequest{Name: "Jane", Phone: "0712345678", Amount: 50})
	require.NoError(t, err)

	cb, raw := successCallback(res.CheckoutRequestID, "254712345678", 50, "QK12XYZ89P")
	require.NoError(t, svc.HandleCallback(context.Background(), cb, raw))

	d, err := repo.GetByReference(res.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusCompleted, d.Status)
	assert.Equal(t, "QK12XYZ89P", d.MpesaReceipt)
	require.NotNil(t, d.CompletedAt)
}

func TestCallbackIsIdempotent(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, &stubPusher{})

	res, err := svc.Initiate(context.Background(), InitiateRequest{Name: "Jane", Phone: "0712345678", Amount: 50})
	require.NoError(t, err)

	cb, raw := successCallback(res.CheckoutRequestID, "254712345678", 50, "QK12XYZ89P")
	require.NoError(t, svc.HandleCallback(context.Background(), cb, raw))

	first, err := repo.GetByReference(res.Reference)
	require.NoError(t, err)

	// Retransmitted delivery must be a silent no-op.
	require.NoError(t, svc.HandleCallback(context.Background(), cb, raw))

	second, err := repo.GetByReference(res.Reference)
	require.NoError(t, err)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.MpesaReceipt, second.MpesaReceipt)
	assert.Equal(t, first.CompletedAt.Unix(), second.CompletedAt.Unix())
}

func TestCallbackResolvesExactIntentForIdenticalPairs(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, &stubPusher{})

	// Two concurrent intents with the same phone and amount: only the
	// persisted checkout request id disambiguates them.
	first, err := svc.Initiate(context.Background(), InitiateRequest{Name: "Jane", Phone: "0712345678", Amount: 50})
	require.NoError(t, err)
	second, err := svc.Initiate(context.Background(), InitiateRequest{Name: "Jane", Phone: "0712345678", Amount: 50})
	require.NoError(t, err)

	cb, raw := successCallback(second.CheckoutRequestID, "254712345678", 50, "QK12XYZ89P")
	require.NoError(t, svc.HandleCallback(context.Background(), cb, raw))

	d1, err := repo.GetByReference(first.Reference)
	require.NoError(t, err)
	d2, err := repo.GetByReference(second.Reference)
	require.NoError(t, err)

	assert.Equal(t, models.DonationStatusPending, d1.Status, "the untargeted intent stays pending")
	assert.Equal(t, models.DonationStatusCompleted, d2.Status, "the targeted intent completes")
}

func TestFailureCallbackMarksIntentFailed(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, &stubPusher{})

	res, err := svc.Initiate(context.Background(), InitiateRequest{Name: "Jane", Phone: "0712345678", Amount: 50})
	require.NoError(t, err)

	cb, raw := failureCallback(res.CheckoutRequestID)
	require.NoError(t, svc.HandleCallback(context.Background(), cb, raw))

	d, err := repo.GetByReference(res.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusFailed, d.Status)
	assert.Empty(t, d.MpesaReceipt, "failed intents never carry a receipt")
	assert.Equal(t, "Request cancelled by user", d.ErrorDetail)
}

func TestCallbackReconciliationMiss(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, &stubPusher{})

	cb, raw := successCallback("ws_CO_unknown", "254700000000", 10, "RCPT1")
	err := svc.HandleCallback(context.Background(), cb, raw)
	assert.True(t, errors.Is(err, ErrReconciliationMiss))

	all, listErr := repo.ListAll()
	require.NoError(t, listErr)
	assert.Empty(t, all, "a miss must not create or mutate state")
}

func TestConcurrentCallbacksCompleteOnce(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, &stubPusher{})

	res, err := svc.Initiate(context.Background(), InitiateRequest{Name: "Jane", Phone: "0712345678", Amount: 50})
	require.NoError(t, err)

	// Distinct payloads bypass the event-level dedup so both deliveries race
	// on the status compare-and-swap itself.
	cb1, raw1 := successCallback(res.CheckoutRequestID, "254712345678", 50, "RCPT-A")
	var altEnvelope mpesa.CallbackEnvelope
	require.NoError(t, json.Unmarshal(raw1, &altEnvelope))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = svc.HandleCallback(context.Background(), cb1, raw1)
	}()
	go func() {
		defer wg.Done()
		_ = svc.HandleCallback(context.Background(), &altEnvelope.Body.StkCallback, raw1)
	}()
	wg.Wait()

	d, err := repo.GetByReference(res.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusCompleted, d.Status)
	assert.Equal(t, "RCPT-A", d.MpesaReceipt, "exactly one delivery wins the swap")
}
