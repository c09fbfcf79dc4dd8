package gateways

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShurjoPayTestClient(t *testing.T, handler http.Handler) (*ShurjoPayClient, *memoryTokenCache) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cache := &memoryTokenCache{}
	client := NewShurjoPayClient(ShurjoPayConfig{
		BaseURL:  server.URL,
		Username: "sp_sandbox",
		Password: "pyyk97hu&6u6",
		Prefix:   "GBD",
	}, cache)
	return client, cache
}

func shurjopayTokenHandler(mux *http.ServeMux, calls *int) {
	mux.HandleFunc("/api/get_token", func(w http.ResponseWriter, r *http.Request) {
		*calls++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token":      "sp-test-token",
			"token_type": "Bearer",
			"store_id":   1,
			"expires_in": 3600,
			"sp_code":    200,
		})
	})
}

// sp_code arrives as a bare number on some endpoints and a quoted string on
// others; the verification mapping must handle both.
func TestShurjoPayVerifyOutcomes(t *testing.T) {
	cases := []struct {
		name    string
		spCode  interface{}
		outcome Outcome
	}{
		{"numeric success", 1000, OutcomeSuccess},
		{"string success", "1000", OutcomeSuccess},
		{"cancelled", "1002", OutcomeCancelled},
		{"failed", 1001, OutcomeFailed},
		{"unknown is pending", "1011", OutcomePending},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mux := http.NewServeMux()
			tokenCalls := 0
			shurjopayTokenHandler(mux, &tokenCalls)
			mux.HandleFunc("/api/verification", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer sp-test-token", r.Header.Get("Authorization"))
				fmt.Fprintf(w, `[{"sp_code": %v, "order_id": "SP11223344", "amount": 2500, "bank_trx_id": "BTRX77"}]`,
					jsonValue(tc.spCode))
			})

			client, _ := newShurjoPayTestClient(t, mux)
			result, err := client.VerifyPayment(context.Background(), "SP11223344")

			require.NoError(t, err)
			assert.Equal(t, tc.outcome, result.Outcome)
			if tc.outcome == OutcomeSuccess {
				assert.Equal(t, "BTRX77", result.TransactionID)
				assert.Equal(t, 2500.0, result.Amount)
			}
		})
	}
}

func jsonValue(v interface{}) string {
	raw, _ := json.Marshal(v)
	return string(raw)
}

func TestShurjoPayVerifyTransportFailureIsIndeterminate(t *testing.T) {
	mux := http.NewServeMux()
	tokenCalls := 0
	shurjopayTokenHandler(mux, &tokenCalls)
	mux.HandleFunc("/api/verification", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	client, _ := newShurjoPayTestClient(t, mux)
	result, err := client.VerifyPayment(context.Background(), "SP11223344")

	require.Error(t, err)
	assert.Nil(t, result)
	var verr *VerificationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "shurjopay", verr.Gateway)
}

func TestShurjoPayInitiatePayment(t *testing.T) {
	mux := http.NewServeMux()
	tokenCalls := 0
	shurjopayTokenHandler(mux, &tokenCalls)
	var orderIDs []string
	mux.HandleFunc("/api/secret-pay", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "GBD", body["prefix"])
		assert.Equal(t, float64(1), body["store_id"])
		orderID, _ := body["order_id"].(string)
		orderIDs = append(orderIDs, orderID)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"checkout_url": "https://sandbox.shurjopayment.com/spaycheckout/SP11223344",
			"sp_order_id":  "SP11223344",
		})
	})

	client, cache := newShurjoPayTestClient(t, mux)

	result, err := client.InitiatePayment(context.Background(), PaymentRequest{
		Amount:      500,
		Currency:    "BDT",
		Reference:   "DON-TEST",
		CallbackURL: "https://example.org/v1/payments/shurjopay/return",
		CancelURL:   "https://example.org/v1/payments/shurjopay/cancel",
	})

	require.NoError(t, err)
	assert.Equal(t, "SP11223344", result.PaymentID)
	assert.Equal(t, "https://sandbox.shurjopayment.com/spaycheckout/SP11223344", result.PaymentURL)
	assert.Equal(t, 1, tokenCalls)
	assert.NotEmpty(t, cache.token, "token with store id should be cached")

	// second initiation reuses the cached token
	_, err = client.InitiatePayment(context.Background(), PaymentRequest{
		Amount: 700, Currency: "BDT", Reference: "DON-TEST2",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, tokenCalls)
	assert.Equal(t, []string{"DON-TEST", "DON-TEST2"}, orderIDs)
}
