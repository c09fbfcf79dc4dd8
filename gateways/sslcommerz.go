package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// SSLCommerzConfig holds SSLCommerz store credentials.
type SSLCommerzConfig struct {
	BaseURL       string
	StoreID       string
	StorePassword string
}

// SSLCommerzClient creates hosted payment sessions and validates callbacks
// through the server-side validator API.
type SSLCommerzClient struct {
	cfg  SSLCommerzConfig
	http *http.Client
}

func NewSSLCommerzClient(cfg SSLCommerzConfig) *SSLCommerzClient {
	return &SSLCommerzClient{cfg: cfg, http: newHTTPClient()}
}

type sslcommerzSessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

type sslcommerzValidationResponse struct {
	Status      string `json:"status"`
	TranID      string `json:"tran_id"`
	ValID       string `json:"val_id"`
	Amount      string `json:"amount"`
	BankTranID  string `json:"bank_tran_id"`
	CardType    string `json:"card_type"`
	RiskLevel   string `json:"risk_level"`
	CurrencyAmt string `json:"currency_amount"`
}

// InitiatePayment creates a payment session and returns the gateway page URL.
func (c *SSLCommerzClient) InitiatePayment(ctx context.Context, preq PaymentRequest) (*InitiationResult, error) {
	form := url.Values{}
	form.Set("store_id", c.cfg.StoreID)
	form.Set("store_passwd", c.cfg.StorePassword)
	form.Set("total_amount", fmt.Sprintf("%.2f", preq.Amount))
	form.Set("currency", preq.Currency)
	form.Set("tran_id", preq.Reference)
	form.Set("success_url", preq.CallbackURL+"/success")
	form.Set("fail_url", preq.CallbackURL+"/fail")
	form.Set("cancel_url", preq.CancelURL)
	form.Set("ipn_url", preq.CallbackURL+"/ipn")
	form.Set("emi_option", "0")
	form.Set("cus_name", preq.CustomerName)
	form.Set("cus_email", preq.CustomerEmail)
	form.Set("cus_phone", preq.CustomerPhone)
	form.Set("cus_add1", "Dhaka")
	form.Set("cus_city", "Dhaka")
	form.Set("cus_country", "Bangladesh")
	form.Set("shipping_method", "NO")
	form.Set("product_name", "Donation")
	form.Set("product_category", "Donation")
	form.Set("product_profile", "non-physical-goods")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/gwprocess/v4/api.php", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sslcommerz session create failed: %w", err)
	}
	defer resp.Body.Close()

	var session sslcommerzSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("sslcommerz session create failed: %w", err)
	}
	if !strings.EqualFold(session.Status, "SUCCESS") || session.GatewayPageURL == "" {
		return nil, fmt.Errorf("sslcommerz session rejected: %s", session.FailedReason)
	}

	return &InitiationResult{PaymentID: session.SessionKey, PaymentURL: session.GatewayPageURL}, nil
}

// VerifyPayment validates the val_id received at callback time against the
// validator API. Callback payloads can be spoofed client-side; only the
// validator response decides the outcome.
func (c *SSLCommerzClient) VerifyPayment(ctx context.Context, valID string) (*VerificationResult, error) {
	query := url.Values{}
	query.Set("val_id", valID)
	query.Set("store_id", c.cfg.StoreID)
	query.Set("store_passwd", c.cfg.StorePassword)
	query.Set("format", "json")
	query.Set("v", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+"/validator/api/validationserverAPI.php?"+query.Encode(), nil)
	if err != nil {
		return nil, &VerificationError{Gateway: "sslcommerz", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &VerificationError{Gateway: "sslcommerz", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &VerificationError{Gateway: "sslcommerz",
			Err: fmt.Errorf("unexpected status %d from validator", resp.StatusCode)}
	}

	var validation sslcommerzValidationResponse
	if err := json.NewDecoder(resp.Body).Decode(&validation); err != nil {
		return nil, &VerificationError{Gateway: "sslcommerz", Err: err}
	}

	return &VerificationResult{
		Outcome:       mapSSLCommerzOutcome(validation.Status),
		TransactionID: validation.BankTranID,
		Amount:        parseAmount(validation.Amount),
	}, nil
}

func mapSSLCommerzOutcome(status string) Outcome {
	switch strings.ToUpper(status) {
	case "VALID", "VALIDATED":
		return OutcomeSuccess
	case "FAILED", "INVALID_TRANSACTION":
		return OutcomeFailed
	case "CANCELLED":
		return OutcomeCancelled
	default:
		return OutcomePending
	}
}
