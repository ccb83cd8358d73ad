package mpesa

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Emmanu-hec2a/bass42/internal/pkg/env"
)

const (
	defaultAuthURL    = "https://sandbox.safaricom.co.ke/oauth/v1/generate?grant_type=client_credentials"
	defaultSTKPushURL = "https://sandbox.safaricom.co.ke/mpesa/stkpush/v1/processrequest"

	defaultRequestTimeout = 30 * time.Second
)

// Config carries the Daraja credentials and endpoints. It is built once at
// startup and passed to the client; business code never reads the
// environment directly.
type Config struct {
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string

	AuthURL    string
	STKPushURL string

	RequestTimeout time.Duration
}

// LoadConfig reads the provider configuration from the environment.
// Missing required values fail fast instead of producing malformed requests
// at payment time.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ConsumerKey:    strings.TrimSpace(env.GetEnv("MPESA_CONSUMER_KEY", "")),
		ConsumerSecret: strings.TrimSpace(env.GetEnv("MPESA_CONSUMER_SECRET", "")),
		ShortCode:      strings.TrimSpace(env.GetEnv("MPESA_SHORTCODE", "")),
		Passkey:        strings.TrimSpace(env.GetEnv("MPESA_PASSKEY", "")),
		CallbackURL:    strings.TrimSpace(env.GetEnv("MPESA_CALLBACK_URL", "")),
		AuthURL:        strings.TrimSpace(env.GetEnv("MPESA_AUTH_URL", defaultAuthURL)),
		STKPushURL:     strings.TrimSpace(env.GetEnv("MPESA_STKPUSH_URL", defaultSTKPushURL)),
		RequestTimeout: defaultRequestTimeout,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every required field is present.
func (c *Config) Validate() error {
	var missing []string
	if c.ConsumerKey == "" {
		missing = append(missing, "MPESA_CONSUMER_KEY")
	}
	if c.ConsumerSecret == "" {
		missing = append(missing, "MPESA_CONSUMER_SECRET")
	}
	if c.ShortCode == "" {
		missing = append(missing, "MPESA_SHORTCODE")
	}
	if c.Passkey == "" {
		missing = append(missing, "MPESA_PASSKEY")
	}
	if c.CallbackURL == "" {
		missing = append(missing, "MPESA_CALLBACK_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("mpesa config: missing %s", strings.Join(missing, ", "))
	}
	if c.AuthURL == "" || c.STKPushURL == "" {
		return errors.New("mpesa config: auth and stkpush endpoints are required")
	}
	return nil
}
