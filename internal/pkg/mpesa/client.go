package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnavailable marks credential or transport failures talking to the
// provider. Callers treat it like any other initiation failure; it never
// propagates past the client boundary as a panic or raw transport error.
var ErrUnavailable = errors.New("mpesa: provider unavailable")

// Client talks to the Daraja sandbox/production API. It holds no local
// state beyond its configuration; access tokens are fetched fresh for each
// payment initiation.
type Client struct {
	cfg        *Config
	HTTPClient *http.Client

	// now is swappable for tests so password/timestamp generation is stable.
	now func() time.Time
}

// NewClient creates a provider client from a validated configuration.
func NewClient(cfg *Config) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		cfg: cfg,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

// FetchAccessToken requests a short-lived bearer token using the static
// consumer credentials. Any failure collapses into ErrUnavailable.
func (c *Client) FetchAccessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.AuthURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	credentials := base64.StdEncoding.EncodeToString([]byte(c.cfg.ConsumerKey + ":" + c.cfg.ConsumerSecret))
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: credential endpoint returned %d", ErrUnavailable, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: credential response missing access_token", ErrUnavailable)
	}
	return token.AccessToken, nil
}

// InitiateSTKPush submits a push-payment request for the given phone and
// amount. On success the returned ack carries the CheckoutRequestID the
// provider will echo back in its callback; the ack only means the prompt
// was dispatched, not that the payment went through.
func (c *Client) InitiateSTKPush(ctx context.Context, phone string, amount float64, reference, description string) (*STKPushAck, error) {
	token, err := c.FetchAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := c.now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString([]byte(c.cfg.ShortCode + c.cfg.Passkey + timestamp))

	payload := stkPushRequest{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            int(amount),
		PartyA:            phone,
		PartyB:            c.cfg.ShortCode,
		PhoneNumber:       phone,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  reference,
		TransactionDesc:   description,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal stkpush request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.STKPushURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		// Timeouts and transport errors follow the synchronous failure path.
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return decodeSTKPushResponse(raw)
}
