package controllers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Emmanu-hec2a/bass42/internal/pkg/database"
	"github.com/Emmanu-hec2a/bass42/internal/pkg/donation"
	"github.com/Emmanu-hec2a/bass42/internal/pkg/mpesa"
	"github.com/gofiber/fiber/v2"
)

// initiationTimeout bounds the outbound provider calls for one donation
// request (token fetch + push submit).
const initiationTimeout = 45 * time.Second

// SupportController handles the donor-facing donation flow
type SupportController struct {
	svc *donation.Service
}

var supportController *SupportController

// NewSupportController creates a support controller from an orchestrator
func NewSupportController(svc *donation.Service) *SupportController {
	return &SupportController{svc: svc}
}

// InitializeSupportController wires the provider client and orchestrator.
// Missing provider configuration aborts startup; a half-configured client
// would only fail later with malformed requests.
func InitializeSupportController() {
	cfg, err := mpesa.LoadConfig()
	if err != nil {
		log.Fatalf("support controller: %v", err)
	}
	client := mpesa.NewClient(cfg)
	supportController = NewSupportController(donation.NewServiceFromDB(database.GetDB(), client))
}

type supportRequest struct {
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	Amount float64 `json:"amount"`
}

type supportResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	CheckoutRequestID string `json:"checkout_request_id,omitempty"`
}

// HandleSupport processes a donation request. The response reflects only
// the initiation outcome; final payment status arrives via the provider
// callback.
func HandleSupport(c *fiber.Ctx) error {
	var req supportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.JSON(supportResponse{Success: false, Message: "Invalid request body"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), initiationTimeout)
	defer cancel()

	result, err := supportController.svc.Initiate(ctx, donation.InitiateRequest{
		Name:   req.Name,
		Phone:  req.Phone,
		Amount: req.Amount,
	})
	if err != nil {
		return c.JSON(supportResponse{Success: false, Message: supportErrorMessage(err)})
	}

	return c.JSON(supportResponse{
		Success:           true,
		Message:           result.Message,
		CheckoutRequestID: result.CheckoutRequestID,
	})
}

func supportErrorMessage(err error) string {
	switch {
	case errors.Is(err, donation.ErrInvalidPhone):
		return "Invalid phone number format"
	case errors.Is(err, donation.ErrInvalidAmount):
		return "Amount must be at least KES 1"
	case errors.Is(err, donation.ErrValidation):
		return "All fields are required"
	default:
		return err.Error()
	}
}
