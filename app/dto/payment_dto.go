package dto

// CreateCheckoutSessionResponse carries the Stripe Checkout redirect URL
type CreateCheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// CreatePortalSessionResponse carries the Stripe billing portal redirect URL
type CreatePortalSessionResponse struct {
	URL string `json:"url"`
}

// CreatePayPalOrderResponse carries the PayPal approval redirect URL
type CreatePayPalOrderResponse struct {
	OrderID string `json:"order_id"`
	URL     string `json:"approve_url"`
}

// CapturePayPalOrderRequest carries the order reference approved by the payer
type CapturePayPalOrderRequest struct {
	OrderID string `json:"order_id" validate:"required" query:"token"`
	PayerID string `json:"payer_id" query:"PayerID"`
}

// CapturePayPalOrderResponse reports the outcome of a capture attempt
type CapturePayPalOrderResponse struct {
	Status string `json:"status"`
	Plan   string `json:"plan"`
}

// CreateCryptoInvoiceResponse carries the NOWPayments hosted invoice URL
type CreateCryptoInvoiceResponse struct {
	InvoiceID  string `json:"invoice_id"`
	InvoiceURL string `json:"invoice_url"`
}

// WebhookAckResponse acknowledges a provider webhook. Providers only look at
// the HTTP status, the body is for operators reading logs.
type WebhookAckResponse struct {
	Received bool `json:"received"`

	// PlanUpgraded is set when the event moved a profile to the pro plan
	PlanUpgraded bool `json:"-"`
}

// BillingStatusResponse is the owner-facing billing summary
type BillingStatusResponse struct {
	Plan               string  `json:"plan"`
	PaymentCustomerRef *string `json:"payment_customer_ref,omitempty"`
}

// Common error codes for payment operations
const (
	ErrorInvalidWebhookSignature = "INVALID_WEBHOOK_SIGNATURE"
	ErrorPaymentProviderFailure  = "PAYMENT_PROVIDER_FAILURE"
	ErrorAlreadyPro              = "ALREADY_PRO"
	ErrorPaymentNotCompleted     = "PAYMENT_NOT_COMPLETED"
)
