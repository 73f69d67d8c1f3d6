package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Stripe client error constants
var (
	ErrStripeSignatureInvalid = errors.New("stripe signature verification failed")
	ErrStripeSignatureExpired = errors.New("stripe signature timestamp outside tolerance")
)

// StripeWebhookTolerance bounds the age of a signed webhook payload
const StripeWebhookTolerance = 5 * time.Minute

// StripeClient talks to the Stripe REST API with form-encoded requests
type StripeClient struct {
	BaseURL       string
	SecretKey     string
	WebhookSecret string
	PriceID       string
	HTTPClient    *http.Client
}

func NewStripeClient(baseURL, secretKey, webhookSecret, priceID string, timeout time.Duration) *StripeClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	return &StripeClient{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		SecretKey:     secretKey,
		WebhookSecret: webhookSecret,
		PriceID:       priceID,
		HTTPClient:    &http.Client{Timeout: timeout},
	}
}

func (c *StripeClient) Name() string { return "stripe" }

// StripeCheckoutSession is the subset of the Checkout Session object we use
type StripeCheckoutSession struct {
	ID                string `json:"id"`
	URL               string `json:"url"`
	Customer          string `json:"customer"`
	ClientReferenceID string `json:"client_reference_id"`
	PaymentStatus     string `json:"payment_status"`
	Subscription      string `json:"subscription"`
}

// CreateCheckoutSession opens a subscription checkout for the Pro plan.
// clientReferenceID carries the profile UUID back on the webhook.
func (c *StripeClient) CreateCheckoutSession(ctx context.Context, customerEmail, clientReferenceID, successURL, cancelURL string) (*StripeCheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", c.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("customer_email", customerEmail)
	form.Set("client_reference_id", clientReferenceID)
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)

	var session StripeCheckoutSession
	if err := c.postForm(ctx, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	if session.ID == "" || session.URL == "" {
		return nil, errors.New("stripe: empty checkout session response")
	}
	return &session, nil
}

type stripePortalSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreatePortalSession opens the billing portal for an existing customer
func (c *StripeClient) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	form := url.Values{}
	form.Set("customer", customerID)
	form.Set("return_url", returnURL)

	var session stripePortalSession
	if err := c.postForm(ctx, "/v1/billing_portal/sessions", form, &session); err != nil {
		return "", err
	}
	if session.URL == "" {
		return "", errors.New("stripe: empty portal session response")
	}
	return session.URL, nil
}

// StripeEvent is the outer webhook envelope
type StripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// ConstructWebhookEvent verifies the Stripe-Signature header and unmarshals
// the payload. The header carries a timestamp and one or more v1 signatures,
// each an HMAC-SHA256 of "<timestamp>.<payload>" under the endpoint secret.
func (c *StripeClient) ConstructWebhookEvent(payload []byte, sigHeader string) (*StripeEvent, error) {
	timestamp, signatures, err := parseStripeSigHeader(sigHeader)
	if err != nil {
		return nil, err
	}

	ts := time.Unix(timestamp, 0)
	if time.Since(ts) > StripeWebhookTolerance {
		return nil, ErrStripeSignatureExpired
	}

	mac := hmac.New(sha256.New, []byte(c.WebhookSecret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	verified := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			verified = true
			break
		}
	}
	if !verified {
		return nil, ErrStripeSignatureInvalid
	}

	var event StripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("stripe: invalid event payload: %w", err)
	}
	return &event, nil
}

func parseStripeSigHeader(header string) (timestamp int64, signatures []string, err error) {
	if header == "" {
		return 0, nil, ErrStripeSignatureInvalid
	}
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp, err = strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, ErrStripeSignatureInvalid
			}
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	if timestamp == 0 || len(signatures) == 0 {
		return 0, nil, ErrStripeSignatureInvalid
	}
	return timestamp, signatures, nil
}

func (c *StripeClient) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.SecretKey, "")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stripe: status %d for %s", resp.StatusCode, path)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
