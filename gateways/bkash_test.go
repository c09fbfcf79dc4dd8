package gateways

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

func newBkashTestClient(t *testing.T, handler http.Handler) (*BkashClient, *memoryTokenCache, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cache := &memoryTokenCache{}
	client := NewBkashClient(BkashConfig{
		BaseURL:   server.URL,
		AppKey:    "test-app-key",
		AppSecret: "test-app-secret",
		Username:  "sandbox",
		Password:  "sandbox",
	}, cache)
	return client, cache, server
}

func bkashGrantHandler(mux *http.ServeMux, calls *int) {
	mux.HandleFunc("/tokenized/checkout/token/grant", func(w http.ResponseWriter, r *http.Request) {
		*calls++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode": "0000",
			"id_token":   "test-token",
			"expires_in": 3600,
		})
	})
}

func TestBkashVerifyPaymentCompleted(t *testing.T) {
	mux := http.NewServeMux()
	grantCalls := 0
	bkashGrantHandler(mux, &grantCalls)
	mux.HandleFunc("/tokenized/checkout/execute", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "test-app-key", r.Header.Get("X-APP-Key"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode":        "0000",
			"paymentID":         "TR0011abc",
			"trxID":             "9HX2B4C7",
			"transactionStatus": "Completed",
			"amount":            "2500.00",
		})
	})

	client, _, _ := newBkashTestClient(t, mux)
	result, err := client.VerifyPayment(context.Background(), "TR0011abc")

	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, "9HX2B4C7", result.TransactionID)
	assert.Equal(t, 2500.00, result.Amount)
	assert.Equal(t, 1, grantCalls)
}

func TestBkashVerifyPaymentInitiatedIsPending(t *testing.T) {
	mux := http.NewServeMux()
	grantCalls := 0
	bkashGrantHandler(mux, &grantCalls)
	mux.HandleFunc("/tokenized/checkout/execute", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode":        "0000",
			"transactionStatus": "Initiated",
		})
	})

	client, _, _ := newBkashTestClient(t, mux)
	result, err := client.VerifyPayment(context.Background(), "TR0011abc")

	require.NoError(t, err)
	assert.Equal(t, OutcomePending, result.Outcome)
	assert.Empty(t, result.TransactionID)
}

func TestBkashVerifyPaymentRejectedIsFailed(t *testing.T) {
	mux := http.NewServeMux()
	grantCalls := 0
	bkashGrantHandler(mux, &grantCalls)
	mux.HandleFunc("/tokenized/checkout/execute", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode":    "2023",
			"statusMessage": "Insufficient balance",
		})
	})
	mux.HandleFunc("/tokenized/checkout/payment/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode":        "0000",
			"transactionStatus": "Failed",
		})
	})

	client, _, _ := newBkashTestClient(t, mux)
	result, err := client.VerifyPayment(context.Background(), "TR0011abc")

	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, result.Outcome)
}

// A retried callback can hit execute after an earlier call already completed
// the payment; the rejection code must not turn a completed payment into a
// failed donation.
func TestBkashExecuteAlreadyCompletedResolvesViaStatusQuery(t *testing.T) {
	mux := http.NewServeMux()
	grantCalls := 0
	bkashGrantHandler(mux, &grantCalls)
	mux.HandleFunc("/tokenized/checkout/execute", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode":    "2062",
			"statusMessage": "The payment has already been completed",
		})
	})
	mux.HandleFunc("/tokenized/checkout/payment/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode":        "0000",
			"trxID":             "9HX2B4C7",
			"transactionStatus": "Completed",
			"amount":            "2500.00",
		})
	})

	client, _, _ := newBkashTestClient(t, mux)
	result, err := client.VerifyPayment(context.Background(), "TR0011abc")

	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, "9HX2B4C7", result.TransactionID)
}

func TestBkashExecuteRejectionWithStatusDownIsIndeterminate(t *testing.T) {
	mux := http.NewServeMux()
	grantCalls := 0
	bkashGrantHandler(mux, &grantCalls)
	mux.HandleFunc("/tokenized/checkout/execute", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode":    "2062",
			"statusMessage": "The payment has already been completed",
		})
	})
	mux.HandleFunc("/tokenized/checkout/payment/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	client, _, _ := newBkashTestClient(t, mux)
	result, err := client.VerifyPayment(context.Background(), "TR0011abc")

	require.Error(t, err)
	assert.Nil(t, result)
	var verr *VerificationError
	require.True(t, errors.As(err, &verr))
}

func TestBkashExecuteFallsBackToStatusQuery(t *testing.T) {
	mux := http.NewServeMux()
	grantCalls := 0
	bkashGrantHandler(mux, &grantCalls)
	mux.HandleFunc("/tokenized/checkout/execute", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	})
	mux.HandleFunc("/tokenized/checkout/payment/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode":        "0000",
			"trxID":             "9HX2B4C7",
			"transactionStatus": "Completed",
			"amount":            "500.00",
		})
	})

	client, _, _ := newBkashTestClient(t, mux)
	result, err := client.VerifyPayment(context.Background(), "TR0011abc")

	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, "9HX2B4C7", result.TransactionID)
}

func TestBkashVerifyTransportFailureIsIndeterminate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tokenized/checkout/execute", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/tokenized/checkout/payment/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	client, cache, _ := newBkashTestClient(t, mux)
	cache.token = "test-token" // skip the grant call

	result, err := client.VerifyPayment(context.Background(), "TR0011abc")

	require.Error(t, err)
	assert.Nil(t, result)
	var verr *VerificationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "bkash", verr.Gateway)
}

func TestBkashGrantTokenUsesCache(t *testing.T) {
	mux := http.NewServeMux()
	grantCalls := 0
	bkashGrantHandler(mux, &grantCalls)
	mux.HandleFunc("/tokenized/checkout/execute", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode":        "0000",
			"transactionStatus": "Completed",
			"trxID":             "TRX1",
		})
	})

	client, cache, _ := newBkashTestClient(t, mux)

	_, err := client.VerifyPayment(context.Background(), "TR0011abc")
	require.NoError(t, err)
	assert.Equal(t, 1, grantCalls)
	assert.Equal(t, "test-token", cache.token)
	assert.Equal(t, 3600*time.Second-tokenTTLMargin, cache.ttl)

	_, err = client.VerifyPayment(context.Background(), "TR0011abc")
	require.NoError(t, err)
	assert.Equal(t, 1, grantCalls, "second call should reuse the cached token")
}

func TestBkashInitiatePayment(t *testing.T) {
	mux := http.NewServeMux()
	grantCalls := 0
	bkashGrantHandler(mux, &grantCalls)
	mux.HandleFunc("/tokenized/checkout/create", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sale", body["intent"])
		assert.Equal(t, "1200.00", body["amount"])
		assert.Equal(t, "DON-TEST", body["merchantInvoiceNumber"])
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode": "0000",
			"paymentID":  "TR0011abc",
			"bkashURL":   "https://sandbox.payment.bkash.com/redirect",
		})
	})

	client, _, _ := newBkashTestClient(t, mux)
	result, err := client.InitiatePayment(context.Background(), PaymentRequest{
		Amount:      1200,
		Currency:    "BDT",
		Reference:   "DON-TEST",
		CallbackURL: "https://example.org/v1/payments/bkash/callback",
	})

	require.NoError(t, err)
	assert.Equal(t, "TR0011abc", result.PaymentID)
	assert.Equal(t, "https://sandbox.payment.bkash.com/redirect", result.PaymentURL)
}
