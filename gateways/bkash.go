package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// BkashConfig holds bKash tokenized checkout credentials.
type BkashConfig struct {
	BaseURL   string
	AppKey    string
	AppSecret string
	Username  string
	Password  string
}

// BkashClient implements the tokenized checkout flow: grant token, create
// payment, execute payment, and a query fallback when execute times out.
type BkashClient struct {
	cfg    BkashConfig
	http   *http.Client
	tokens TokenCache
}

// NewBkashClient creates a bKash client. The token cache is required; bKash
// grant tokens are valid for an hour and must not be re-requested per call.
func NewBkashClient(cfg BkashConfig, tokens TokenCache) *BkashClient {
	return &BkashClient{cfg: cfg, http: newHTTPClient(), tokens: tokens}
}

type bkashTokenResponse struct {
	StatusCode string `json:"statusCode"`
	StatusMsg  string `json:"statusMessage"`
	IDToken    string `json:"id_token"`
	ExpiresIn  int    `json:"expires_in"`
}

type bkashCreateResponse struct {
	StatusCode string `json:"statusCode"`
	StatusMsg  string `json:"statusMessage"`
	PaymentID  string `json:"paymentID"`
	BkashURL   string `json:"bkashURL"`
}

type bkashPaymentResponse struct {
	StatusCode        string `json:"statusCode"`
	StatusMsg         string `json:"statusMessage"`
	PaymentID         string `json:"paymentID"`
	TrxID             string `json:"trxID"`
	TransactionStatus string `json:"transactionStatus"`
	Amount            string `json:"amount"`
}

func (c *BkashClient) grantToken(ctx context.Context) (string, error) {
	if token, err := c.tokens.Get(ctx); err == nil && token != "" {
		return token, nil
	}

	body, _ := json.Marshal(map[string]string{
		"app_key":    c.cfg.AppKey,
		"app_secret": c.cfg.AppSecret,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/tokenized/checkout/token/grant", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("username", c.cfg.Username)
	req.Header.Set("password", c.cfg.Password)

	var tokenResp bkashTokenResponse
	if err := c.do(req, &tokenResp); err != nil {
		return "", err
	}
	if tokenResp.IDToken == "" {
		return "", fmt.Errorf("token grant rejected: %s %s", tokenResp.StatusCode, tokenResp.StatusMsg)
	}

	ttl := time.Duration(tokenResp.ExpiresIn)*time.Second - tokenTTLMargin
	if err := c.tokens.Set(ctx, tokenResp.IDToken, ttl); err != nil {
		// a cold cache only costs an extra grant call next time
		return tokenResp.IDToken, nil
	}
	return tokenResp.IDToken, nil
}

// InitiatePayment creates a tokenized checkout payment and returns the
// bKash-hosted payment URL.
func (c *BkashClient) InitiatePayment(ctx context.Context, preq PaymentRequest) (*InitiationResult, error) {
	token, err := c.grantToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("bkash token grant failed: %w", err)
	}

	payload := map[string]string{
		"mode":                  "0011",
		"payerReference":        preq.CustomerPhone,
		"callbackURL":           preq.CallbackURL,
		"amount":                fmt.Sprintf("%.2f", preq.Amount),
		"currency":              preq.Currency,
		"intent":                "sale",
		"merchantInvoiceNumber": preq.Reference,
	}
	var createResp bkashCreateResponse
	if err := c.post(ctx, token, "/tokenized/checkout/create", payload, &createResp); err != nil {
		return nil, fmt.Errorf("bkash create payment failed: %w", err)
	}
	if createResp.StatusCode != "0000" || createResp.PaymentID == "" {
		return nil, fmt.Errorf("bkash create payment rejected: %s %s", createResp.StatusCode, createResp.StatusMsg)
	}

	return &InitiationResult{PaymentID: createResp.PaymentID, PaymentURL: createResp.BkashURL}, nil
}

// VerifyPayment executes the payment identified by the callback paymentID
// and maps the result to a canonical outcome. Execute is not authoritative
// on its own: it can time out after the payment completed, and it rejects
// payments that an earlier execute already completed. In both cases the
// client falls back to the payment status query before giving up with a
// VerificationError.
func (c *BkashClient) VerifyPayment(ctx context.Context, paymentID string) (*VerificationResult, error) {
	token, err := c.grantToken(ctx)
	if err != nil {
		return nil, &VerificationError{Gateway: "bkash", Err: err}
	}

	payload := map[string]string{"paymentID": paymentID}
	var execResp bkashPaymentResponse
	execErr := c.post(ctx, token, "/tokenized/checkout/execute", payload, &execResp)
	if execErr != nil {
		var queryResp bkashPaymentResponse
		if err := c.post(ctx, token, "/tokenized/checkout/payment/status", payload, &queryResp); err != nil {
			return nil, &VerificationError{Gateway: "bkash", Err: execErr}
		}
		execResp = queryResp
	} else if execResp.StatusCode != "0000" {
		// e.g. "2062: The payment has already been completed" after a
		// callback whose settlement never landed
		var queryResp bkashPaymentResponse
		if err := c.post(ctx, token, "/tokenized/checkout/payment/status", payload, &queryResp); err != nil {
			return nil, &VerificationError{Gateway: "bkash",
				Err: fmt.Errorf("execute rejected (%s %s) and status query failed: %w",
					execResp.StatusCode, execResp.StatusMsg, err)}
		}
		execResp = queryResp
	}

	return &VerificationResult{
		Outcome:       mapBkashOutcome(execResp.StatusCode, execResp.TransactionStatus),
		TransactionID: execResp.TrxID,
		Amount:        parseAmount(execResp.Amount),
	}, nil
}

func mapBkashOutcome(statusCode, transactionStatus string) Outcome {
	if statusCode != "0000" {
		return OutcomeFailed
	}
	switch transactionStatus {
	case "Completed":
		return OutcomeSuccess
	case "Cancelled", "Failed":
		return OutcomeFailed
	default:
		// Initiated, or a status this client does not know; never settle
		// terminally on an unrecognized state
		return OutcomePending
	}
}

func (c *BkashClient) post(ctx context.Context, token, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	req.Header.Set("X-APP-Key", c.cfg.AppKey)
	return c.do(req, out)
}

func (c *BkashClient) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func parseAmount(s string) float64 {
	amount, _ := strconv.ParseFloat(s, 64)
	return amount
}
