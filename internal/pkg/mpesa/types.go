package mpesa

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// tokenResponse is the credential endpoint payload.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// stkPushRequest is the Daraja process-request body.
type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int    `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// stkPushResponse is the raw wire shape of the process-request response.
// Daraja returns either the acknowledgment fields or the error fields,
// never both; decodeSTKPushResponse splits it into the tagged variants.
type stkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
	RequestID           string `json:"requestId"`
	ErrorCode           string `json:"errorCode"`
	ErrorMessage        string `json:"errorMessage"`
}

// STKPushAck is the provider's acknowledgment that the push prompt was
// dispatched to the payer's device. It does not indicate payment success.
type STKPushAck struct {
	MerchantRequestID   string
	CheckoutRequestID   string
	ResponseDescription string
	CustomerMessage     string
}

// ProviderError is a structured rejection from the provider.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("mpesa: %s", e.Message)
	}
	return fmt.Sprintf("mpesa: %s (%s)", e.Message, e.Code)
}

func decodeSTKPushResponse(raw []byte) (*STKPushAck, error) {
	var resp stkPushResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode stkpush response: %w", err)
	}
	if resp.ResponseCode == "0" {
		return &STKPushAck{
			MerchantRequestID:   resp.MerchantRequestID,
			CheckoutRequestID:   resp.CheckoutRequestID,
			ResponseDescription: resp.ResponseDescription,
			CustomerMessage:     resp.CustomerMessage,
		}, nil
	}

	msg := resp.ErrorMessage
	if msg == "" {
		msg = resp.ResponseDescription
	}
	if msg == "" {
		msg = "unknown provider error"
	}
	code := resp.ErrorCode
	if code == "" {
		code = resp.ResponseCode
	}
	return nil, &ProviderError{Code: code, Message: msg}
}

// CallbackEnvelope is the provider-defined callback body:
// Body.stkCallback.{ResultCode, CheckoutRequestID, CallbackMetadata.Item[]}.
type CallbackEnvelope struct {
	Body struct {
		StkCallback StkCallback `json:"stkCallback"`
	} `json:"Body"`
}

type StkCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        int               `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

type CallbackMetadata struct {
	Item []CallbackItem `json:"Item"`
}

// CallbackItem values arrive as mixed JSON types (amount is a number,
// receipt is a string, phone may be either).
type CallbackItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value"`
}

// Succeeded reports whether the callback carries the provider success code.
func (c *StkCallback) Succeeded() bool {
	return c.ResultCode == 0
}

// Metadata extracts the typed transaction details from the callback items.
func (c *StkCallback) Metadata() (amount float64, receipt string, phone string) {
	if c.CallbackMetadata == nil {
		return 0, "", ""
	}
	for _, item := range c.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			_ = json.Unmarshal(item.Value, &amount)
		case "MpesaReceiptNumber":
			_ = json.Unmarshal(item.Value, &receipt)
		case "PhoneNumber":
			phone = rawToString(item.Value)
		}
	}
	return amount, receipt, phone
}

func rawToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return ""
}

// ParseCallback decodes a callback request body. A payload that cannot be
// parsed is the only condition under which the HTTP handler rejects the
// provider's delivery.
func ParseCallback(body []byte) (*CallbackEnvelope, error) {
	var envelope CallbackEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("parse callback: %w", err)
	}
	if envelope.Body.StkCallback.CheckoutRequestID == "" && envelope.Body.StkCallback.ResultDesc == "" {
		return nil, fmt.Errorf("parse callback: missing stkCallback body")
	}
	return &envelope, nil
}
