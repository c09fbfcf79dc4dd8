package gateways

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Outcome is the gateway-agnostic result of a payment verification.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomePending   Outcome = "pending"
)

// PaymentRequest carries the fields the providers need to start a payment.
type PaymentRequest struct {
	Amount        float64
	Currency      string
	Reference     string // merchant transaction reference, unique per donation
	CallbackURL   string
	CancelURL     string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// InitiationResult is returned after a payment session has been created
// with the provider.
type InitiationResult struct {
	PaymentID  string // provider payment/session id
	PaymentURL string // where the customer completes the payment
}

// VerificationResult is the canonical outcome of a server-side verification
// call. TransactionID is the provider transaction id, empty unless the
// payment completed.
type VerificationResult struct {
	Outcome       Outcome
	TransactionID string
	Amount        float64
}

// VerificationError reports that the verification call itself failed
// (network, credentials, malformed response). The payment state is
// indeterminate: callers must not settle the donation as failed, only an
// explicit negative outcome from the provider may do that.
type VerificationError struct {
	Gateway string
	Err     error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s verification failed: %v", e.Gateway, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// Gateway is the common interface implemented by all payment providers.
// VerifyPayment takes the provider reference received at callback time
// (bKash paymentID, SSLCommerz val_id, shurjoPay sp_order_id) and always
// re-checks with the provider's verification endpoint rather than trusting
// the callback payload.
type Gateway interface {
	InitiatePayment(ctx context.Context, req PaymentRequest) (*InitiationResult, error)
	VerifyPayment(ctx context.Context, ref string) (*VerificationResult, error)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
