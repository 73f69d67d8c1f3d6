package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// NOWPaymentsClient talks to the NOWPayments invoice API
type NOWPaymentsClient struct {
	BaseURL    string
	APIKey     string
	IPNSecret  string
	HTTPClient *http.Client
}

func NewNOWPaymentsClient(baseURL, apiKey, ipnSecret string, timeout time.Duration) *NOWPaymentsClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.nowpayments.io"
	}
	return &NOWPaymentsClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		IPNSecret:  ipnSecret,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (c *NOWPaymentsClient) Name() string { return "nowpayments" }

type nowInvoiceReq struct {
	PriceAmount      float64 `json:"price_amount"`
	PriceCurrency    string  `json:"price_currency"`
	OrderID          string  `json:"order_id"`
	OrderDescription string  `json:"order_description,omitempty"`
	IPNCallbackURL   string  `json:"ipn_callback_url,omitempty"`
	SuccessURL       string  `json:"success_url,omitempty"`
	CancelURL        string  `json:"cancel_url,omitempty"`
}

type nowInvoiceResp struct {
	ID         json.Number `json:"id"`
	InvoiceURL string      `json:"invoice_url"`
	OrderID    string      `json:"order_id"`
}

// NOWInvoice is the subset of an invoice we hand back to flows
type NOWInvoice struct {
	ID         string
	InvoiceURL string
	OrderID    string
}

// CreateInvoice opens a hosted crypto invoice denominated in USD. orderID
// carries the profile UUID back on the IPN callback.
func (c *NOWPaymentsClient) CreateInvoice(ctx context.Context, amountUSD float64, orderID, description, ipnCallbackURL, successURL, cancelURL string) (*NOWInvoice, error) {
	body := nowInvoiceReq{
		PriceAmount:      amountUSD,
		PriceCurrency:    "usd",
		OrderID:          orderID,
		OrderDescription: description,
		IPNCallbackURL:   ipnCallbackURL,
		SuccessURL:       successURL,
		CancelURL:        cancelURL,
	}

	var out nowInvoiceResp
	if err := c.postJSON(ctx, "/v1/invoice", body, &out); err != nil {
		return nil, err
	}
	if out.InvoiceURL == "" {
		return nil, errors.New("nowpayments: empty invoice response")
	}
	return &NOWInvoice{
		ID:         out.ID.String(),
		InvoiceURL: out.InvoiceURL,
		OrderID:    out.OrderID,
	}, nil
}

func (c *NOWPaymentsClient) postJSON(ctx context.Context, path string, payload any, out any) error {
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("nowpayments: status %d for %s", resp.StatusCode, path)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
