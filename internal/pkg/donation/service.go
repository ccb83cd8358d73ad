package donation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Emmanu-hec2a/bass42/app/models"
	"github.com/Emmanu-hec2a/bass42/internal/pkg/mpesa"
	"gorm.io/gorm"
)

// ProviderMpesa tags stored callback events with their origin.
const ProviderMpesa = "mpesa"

// Initiator is the provider-client contract the orchestrator depends on.
type Initiator interface {
	InitiateSTKPush(ctx context.Context, phone string, amount float64, reference, description string) (*mpesa.STKPushAck, error)
}

// Service is the payment-intent orchestrator: it creates pending intents,
// dispatches the push prompt, and reconciles provider callbacks against the
// stored records. It is the only writer of donation state.
type Service struct {
	repo   Repository
	pusher Initiator
}

// NewService creates an orchestrator from an injected repository and
// provider client.
func NewService(repo Repository, pusher Initiator) *Service {
	return &Service{repo: repo, pusher: pusher}
}

// NewServiceFromDB creates an orchestrator from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, pusher Initiator) *Service {
	return NewService(NewRepository(db), pusher)
}

// InitiateRequest is a validated donor-facing donation request.
type InitiateRequest struct {
	Name   string
	Phone  string
	Amount float64
}

// InitiateResult reports the initiation outcome. It says nothing about the
// final payment status; that arrives later through the provider callback.
type InitiateResult struct {
	Reference         string
	CheckoutRequestID string
	Message           string
}

// Initiate validates the request, persists a pending intent and dispatches
// the push prompt. A provider failure at this point transitions the freshly
// created intent to failed synchronously.
func (s *Service) Initiate(ctx context.Context, in InitiateRequest) (*InitiateResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	phone, err := NormalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}

	if in.Amount < 1 {
		return nil, ErrInvalidAmount
	}

	d := &models.Donation{
		Reference: GenerateReference(),
		Name:      name,
		Phone:     phone,
		Amount:    in.Amount,
		Status:    models.DonationStatusPending,
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.repo.Insert(d); err != nil {
		return nil, err
	}

	ack, err := s.pusher.InitiateSTKPush(ctx, phone, in.Amount, d.Reference, "School Support - "+name)
	if err != nil {
		// Synchronous failure path: the intent exists and must not stay
		// pending forever waiting for a callback that will never come.
		if _, failErr := s.repo.FailPending(d.Reference, err.Error()); failErr != nil {
			log.Printf("donation %s: failed to mark initiation failure: %v", d.Reference, failErr)
		}
		return nil, fmt.Errorf("payment initiation failed: %w", err)
	}

	// Persist the provider's correlation id so the callback can be matched
	// exactly instead of by the ambiguous (phone, amount) pair.
	if err := s.repo.SetCheckoutRequestID(d.Reference, ack.CheckoutRequestID); err != nil {
		log.Printf("donation %s: failed to store checkout request id %s: %v", d.Reference, ack.CheckoutRequestID, err)
	}

	return &InitiateResult{
		Reference:         d.Reference,
		CheckoutRequestID: ack.CheckoutRequestID,
		Message:           "Payment request sent to your phone. Please complete the transaction.",
	}, nil
}

// HandleCallback applies a provider callback to the matching intent. It is
// idempotent: retransmitted callbacks and callbacks for already-terminal
// intents are no-ops. The returned error is internal observability only;
// the HTTP handler acknowledges the provider regardless.
func (s *Service) HandleCallback(ctx context.Context, cb *mpesa.StkCallback, rawPayload []byte) error {
	_ = ctx

	event := &models.MpesaCallbackEvent{
		Provider:          ProviderMpesa,
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        cb.ResultCode,
		PayloadJSON:       string(rawPayload),
	}
	created, stored, err := s.repo.RecordCallbackEvent(event)
	if err != nil {
		return err
	}
	if !created {
		// Retransmission of an already-recorded delivery.
		return nil
	}

	var procErr error
	if cb.Succeeded() {
		procErr = s.reconcileSuccess(cb)
	} else {
		procErr = s.reconcileFailure(cb)
	}

	errMsg := ""
	if procErr != nil {
		errMsg = procErr.Error()
	}
	if markErr := s.repo.MarkCallbackProcessed(stored.ID, errMsg); markErr != nil {
		log.Printf("callback %s: failed to mark processed: %v", cb.CheckoutRequestID, markErr)
	}
	return procErr
}

func (s *Service) reconcileSuccess(cb *mpesa.StkCallback) error {
	amount, receipt, phone := cb.Metadata()

	d, err := s.locateIntent(cb.CheckoutRequestID, phone, amount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("callback %s: no matching pending intent (phone=%s amount=%.2f)", cb.CheckoutRequestID, phone, amount)
			return ErrReconciliationMiss
		}
		return err
	}
	if d.IsTerminal() {
		return nil
	}

	ok, err := s.repo.CompletePending(d.Reference, receipt, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		// A concurrent delivery won the compare-and-swap; nothing to redo.
		log.Printf("callback %s: intent %s already finalized concurrently", cb.CheckoutRequestID, d.Reference)
	}
	return nil
}

func (s *Service) reconcileFailure(cb *mpesa.StkCallback) error {
	if cb.CheckoutRequestID == "" {
		log.Printf("failure callback without checkout request id: %s", cb.ResultDesc)
		return ErrReconciliationMiss
	}

	d, err := s.repo.GetByCheckoutRequestID(cb.CheckoutRequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("failure callback %s: no matching intent", cb.CheckoutRequestID)
			return ErrReconciliationMiss
		}
		return err
	}
	if d.IsTerminal() {
		return nil
	}

	detail := cb.ResultDesc
	if detail == "" {
		detail = "Payment was cancelled or failed"
	}
	ok, err := s.repo.FailPending(d.Reference, detail)
	if err != nil {
		return err
	}
	if !ok {
		log.Printf("failure callback %s: intent %s already finalized concurrently", cb.CheckoutRequestID, d.Reference)
	}
	return nil
}

// locateIntent matches a success callback to its intent: exact match on the
// persisted CheckoutRequestID first, oldest pending (phone, amount) match as
// the fallback for intents initiated before the correlation id was stored.
func (s *Service) locateIntent(checkoutRequestID, phone string, amount float64) (*models.Donation, error) {
	if checkoutRequestID != "" {
		d, err := s.repo.GetByCheckoutRequestID(checkoutRequestID)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if phone == "" || amount <= 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return s.repo.FindOldestPendingMatch(phone, amount)
}
