package controllers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Emmanu-hec2a/bass42/internal/pkg/donation"
	"github.com/Emmanu-hec2a/bass42/internal/pkg/mpesa"
	"github.com/gofiber/fiber/v2"
)

const callbackTimeout = 15 * time.Second

type callbackAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

// HandleMpesaCallback receives the provider's asynchronous payment result.
// Every parseable delivery is acknowledged with ResultCode 0, including
// replays and callbacks we cannot match to an intent; rejecting those would
// only make the provider retry a delivery we can never use.
func HandleMpesaCallback(c *fiber.Ctx) error {
	body := c.Body()

	envelope, err := mpesa.ParseCallback(body)
	if err != nil {
		log.Printf("[MpesaCallback] unparseable payload: %v", err)
		return c.JSON(callbackAck{ResultCode: 1, ResultDesc: "Failed"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), callbackTimeout)
	defer cancel()

	cb := &envelope.Body.StkCallback
	if err := supportController.svc.HandleCallback(ctx, cb, body); err != nil {
		if errors.Is(err, donation.ErrReconciliationMiss) {
			log.Printf("[MpesaCallback] no matching pending donation for %s", cb.CheckoutRequestID)
		} else {
			log.Printf("[MpesaCallback] processing %s failed: %v", cb.CheckoutRequestID, err)
		}
	}

	return c.JSON(callbackAck{ResultCode: 0, ResultDesc: "Accepted"})
}
