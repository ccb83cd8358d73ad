package mpesa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallbackSuccess(t *testing.T) {
	body := []byte(`{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResultCode": 0,
				"ResultDesc": "The service request is processed successfully.",
				"CallbackMetadata": {
					"Item": [
						{"Name": "Amount", "Value": 50.00},
						{"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
						{"Name": "TransactionDate", "Value": 20191219102115},
						{"Name": "PhoneNumber", "Value": 254712345678}
					]
				}
			}
		}
	}`)

	envelope, err := ParseCallback(body)
	require.NoError(t, err)

	cb := envelope.Body.StkCallback
	assert.True(t, cb.Succeeded())
	assert.Equal(t, "ws_CO_191220191020363925", cb.CheckoutRequestID)

	amount, receipt, phone := cb.Metadata()
	assert.Equal(t, 50.0, amount)
	assert.Equal(t, "NLJ7RT61SV", receipt)
	assert.Equal(t, "254712345678", phone, "numeric phone values are normalized to strings")
}

func TestParseCallbackFailure(t *testing.T) {
	body := []byte(`{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResultCode": 1032,
				"ResultDesc": "Request cancelled by user"
			}
		}
	}`)

	envelope, err := ParseCallback(body)
	require.NoError(t, err)

	cb := envelope.Body.StkCallback
	assert.False(t, cb.Succeeded())

	amount, receipt, phone := cb.Metadata()
	assert.Zero(t, amount)
	assert.Empty(t, receipt)
	assert.Empty(t, phone)
}

func TestParseCallbackMalformed(t *testing.T) {
	for _, body := range []string{
		``,
		`not json`,
		`{"Body":{}}`,
		`{"unexpected":"shape"}`,
	} {
		_, err := ParseCallback([]byte(body))
		assert.Error(t, err, "payload %q must be rejected", body)
	}
}

func TestDecodeSTKPushResponseVariants(t *testing.T) {
	ack, err := decodeSTKPushResponse([]byte(`{"CheckoutRequestID":"ws_CO_1","ResponseCode":"0","ResponseDescription":"ok"}`))
	require.NoError(t, err)
	assert.Equal(t, "ws_CO_1", ack.CheckoutRequestID)

	_, err = decodeSTKPushResponse([]byte(`{"errorCode":"404.001.03","errorMessage":"Invalid Access Token"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Access Token")
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig("https://auth.test", "https://push.test")
	require.NoError(t, cfg.Validate())

	cfg.Passkey = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MPESA_PASSKEY")
}
