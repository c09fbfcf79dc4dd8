package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ShurjoPayConfig holds shurjoPay merchant credentials.
type ShurjoPayConfig struct {
	BaseURL  string
	Username string
	Password string
	Prefix   string
}

// ShurjoPayClient implements the secret-pay flow: bearer token, payment
// creation, and verification by sp_order_id.
type ShurjoPayClient struct {
	cfg    ShurjoPayConfig
	http   *http.Client
	tokens TokenCache
}

func NewShurjoPayClient(cfg ShurjoPayConfig, tokens TokenCache) *ShurjoPayClient {
	return &ShurjoPayClient{cfg: cfg, http: newHTTPClient(), tokens: tokens}
}

type shurjopayTokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	StoreID   int    `json:"store_id"`
	ExpiresIn int    `json:"expires_in"`
	SPCode    spCode `json:"sp_code"`
	Message   string `json:"message"`
}

type shurjopayPaymentResponse struct {
	CheckoutURL string `json:"checkout_url"`
	SPOrderID   string `json:"sp_order_id"`
}

type shurjopayVerification struct {
	SPCode    spCode  `json:"sp_code"`
	SPMessage string  `json:"sp_message"`
	OrderID   string  `json:"order_id"`
	Amount    float64 `json:"amount"`
	BankTrxID string  `json:"bank_trx_id"`
	Method    string  `json:"method"`
}

// spCode tolerates the API returning sp_code as either a JSON number or a
// quoted string, which differs between endpoints and API versions.
type spCode string

func (c *spCode) UnmarshalJSON(data []byte) error {
	*c = spCode(strings.Trim(string(data), `"`))
	return nil
}

// cached token is stored together with the store id the provider issued it
// for, since secret-pay requires both
type shurjopayTokenData struct {
	Token   string `json:"token"`
	StoreID int    `json:"store_id"`
}

func (c *ShurjoPayClient) token(ctx context.Context) (*shurjopayTokenData, error) {
	if cached, err := c.tokens.Get(ctx); err == nil && cached != "" {
		var data shurjopayTokenData
		if err := json.Unmarshal([]byte(cached), &data); err == nil && data.Token != "" {
			return &data, nil
		}
	}

	var tokenResp shurjopayTokenResponse
	err := c.postJSON(ctx, "", "/api/get_token", map[string]string{
		"username": c.cfg.Username,
		"password": c.cfg.Password,
	}, &tokenResp)
	if err != nil {
		return nil, err
	}
	if tokenResp.Token == "" {
		return nil, fmt.Errorf("token rejected: %s %s", tokenResp.SPCode, tokenResp.Message)
	}

	data := &shurjopayTokenData{Token: tokenResp.Token, StoreID: tokenResp.StoreID}
	if raw, err := json.Marshal(data); err == nil {
		ttl := time.Duration(tokenResp.ExpiresIn)*time.Second - tokenTTLMargin
		_ = c.tokens.Set(ctx, string(raw), ttl)
	}
	return data, nil
}

// InitiatePayment creates a secret-pay payment and returns the hosted
// checkout URL together with the sp_order_id used later for verification.
func (c *ShurjoPayClient) InitiatePayment(ctx context.Context, preq PaymentRequest) (*InitiationResult, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("shurjopay token failed: %w", err)
	}

	payload := map[string]interface{}{
		"prefix":           c.cfg.Prefix,
		"token":            token.Token,
		"store_id":         token.StoreID,
		"return_url":       preq.CallbackURL,
		"cancel_url":       preq.CancelURL,
		"amount":           preq.Amount,
		"order_id":         preq.Reference,
		"currency":         preq.Currency,
		"customer_name":    preq.CustomerName,
		"customer_email":   preq.CustomerEmail,
		"customer_phone":   preq.CustomerPhone,
		"customer_address": "Dhaka",
		"customer_city":    "Dhaka",
		"client_ip":        "0.0.0.0",
	}
	var payResp shurjopayPaymentResponse
	if err := c.postJSON(ctx, token.Token, "/api/secret-pay", payload, &payResp); err != nil {
		return nil, fmt.Errorf("shurjopay payment create failed: %w", err)
	}
	if payResp.CheckoutURL == "" || payResp.SPOrderID == "" {
		return nil, fmt.Errorf("shurjopay payment create rejected")
	}

	return &InitiationResult{PaymentID: payResp.SPOrderID, PaymentURL: payResp.CheckoutURL}, nil
}

// VerifyPayment checks an sp_order_id against the verification endpoint.
func (c *ShurjoPayClient) VerifyPayment(ctx context.Context, spOrderID string) (*VerificationResult, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, &VerificationError{Gateway: "shurjopay", Err: err}
	}

	var results []shurjopayVerification
	err = c.postJSON(ctx, token.Token, "/api/verification", map[string]string{"order_id": spOrderID}, &results)
	if err != nil {
		return nil, &VerificationError{Gateway: "shurjopay", Err: err}
	}
	if len(results) == 0 {
		return nil, &VerificationError{Gateway: "shurjopay",
			Err: fmt.Errorf("empty verification response for %s", spOrderID)}
	}

	v := results[0]
	return &VerificationResult{
		Outcome:       mapShurjoPayOutcome(string(v.SPCode)),
		TransactionID: v.BankTrxID,
		Amount:        v.Amount,
	}, nil
}

func mapShurjoPayOutcome(spCode string) Outcome {
	switch spCode {
	case "1000":
		return OutcomeSuccess
	case "1002":
		return OutcomeCancelled
	case "1001", "1068", "1069":
		return OutcomeFailed
	default:
		return OutcomePending
	}
}

func (c *ShurjoPayClient) postJSON(ctx context.Context, bearer, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
