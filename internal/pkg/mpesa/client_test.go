package mpesa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonDecode(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func testConfig(authURL, stkPushURL string) *Config {
	return &Config{
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		Passkey:        "passkey",
		CallbackURL:    "https://example.test/mpesa/callback",
		AuthURL:        authURL,
		STKPushURL:     stkPushURL,
		RequestTimeout: 2 * time.Second,
	}
}

func TestFetchAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok, "credential request must carry basic auth")
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"token-123","expires_in":"3599"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, srv.URL))
	token, err := client.FetchAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-123", token)
}

func TestFetchAccessTokenUnavailable(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"non-2xx": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		},
		"missing field": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"expires_in":"3599"}`))
		},
		"garbage body": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			client := NewClient(testConfig(srv.URL, srv.URL))
			_, err := client.FetchAccessToken(context.Background())
			assert.True(t, errors.Is(err, ErrUnavailable), "got %v", err)
		})
	}
}

func TestInitiateSTKPushAck(t *testing.T) {
	var gotBody map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"token-123"}`))
	})
	mux.HandleFunc("/stkpush", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		require.NoError(t, jsonDecode(r, &gotBody))
		w.Write([]byte(`{
			"MerchantRequestID":"29115-34620561-1",
			"CheckoutRequestID":"ws_CO_191220191020363925",
			"ResponseCode":"0",
			"ResponseDescription":"Success. Request accepted for processing",
			"CustomerMessage":"Success. Request accepted for processing"
		}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(testConfig(srv.URL+"/auth", srv.URL+"/stkpush"))
	client.now = func() time.Time { return time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC) }

	ack, err := client.InitiateSTKPush(context.Background(), "254712345678", 50, "SCH20240301102030AB12CD34", "School Support - Jane")
	require.NoError(t, err)
	assert.Equal(t, "ws_CO_191220191020363925", ack.CheckoutRequestID)

	assert.Equal(t, "174379", gotBody["BusinessShortCode"])
	assert.Equal(t, "CustomerPayBillOnline", gotBody["TransactionType"])
	assert.Equal(t, float64(50), gotBody["Amount"])
	assert.Equal(t, "254712345678", gotBody["PartyA"])
	assert.Equal(t, "254712345678", gotBody["PhoneNumber"])
	assert.Equal(t, "20240301102030", gotBody["Timestamp"])
	assert.Equal(t, "https://example.test/mpesa/callback", gotBody["CallBackURL"])
	assert.Equal(t, "SCH20240301102030AB12CD34", gotBody["AccountReference"])
	// base64(shortcode + passkey + timestamp)
	assert.Equal(t, "MTc0Mzc5cGFzc2tleTIwMjQwMzAxMTAyMDMw", gotBody["Password"])
}

func TestInitiateSTKPushProviderError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"token-123"}`))
	})
	mux.HandleFunc("/stkpush", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"requestId":"1234","errorCode":"500.001.1001","errorMessage":"Unable to lock subscriber"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(testConfig(srv.URL+"/auth", srv.URL+"/stkpush"))
	_, err := client.InitiateSTKPush(context.Background(), "254712345678", 50, "SCHREF", "desc")
	require.Error(t, err)

	var providerErr *ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, "500.001.1001", providerErr.Code)
	assert.Contains(t, providerErr.Message, "Unable to lock subscriber")
}

func TestInitiateSTKPushTimeout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"token-123"}`))
	})
	mux.HandleFunc("/stkpush", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"ResponseCode":"0"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := testConfig(srv.URL+"/auth", srv.URL+"/stkpush")
	cfg.RequestTimeout = 100 * time.Millisecond
	client := NewClient(cfg)

	_, err := client.InitiateSTKPush(context.Background(), "254712345678", 50, "SCHREF", "desc")
	assert.True(t, errors.Is(err, ErrUnavailable), "a timed-out push follows the unavailable path, got %v", err)
}
