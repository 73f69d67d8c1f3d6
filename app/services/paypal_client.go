package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// PayPal order statuses we act on
const (
	PayPalStatusCompleted = "COMPLETED"
	PayPalStatusApproved  = "APPROVED"
)

// PayPalClient talks to the PayPal Orders v2 API
type PayPalClient struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewPayPalClient(baseURL, clientID, clientSecret string, timeout time.Duration) *PayPalClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api-m.paypal.com"
	}
	return &PayPalClient{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		HTTPClient:   &http.Client{Timeout: timeout},
	}
}

func (c *PayPalClient) Name() string { return "paypal" }

type paypalTokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// getAccessToken fetches a client-credentials token, caching it until expiry
func (c *PayPalClient) getAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.ClientID, c.ClientSecret)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal: status %d for oauth2/token", resp.StatusCode)
	}

	var out paypalTokenResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("paypal: empty access token")
	}

	c.accessToken = out.AccessToken
	// Refresh one minute early
	c.tokenExpiry = time.Now().Add(time.Duration(out.ExpiresIn)*time.Second - time.Minute)
	return c.accessToken, nil
}

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalPurchaseUnit struct {
	ReferenceID string       `json:"reference_id,omitempty"`
	Description string       `json:"description,omitempty"`
	CustomID    string       `json:"custom_id,omitempty"`
	Amount      paypalAmount `json:"amount"`
}

type paypalOrderReq struct {
	Intent             string               `json:"intent"`
	PurchaseUnits      []paypalPurchaseUnit `json:"purchase_units"`
	ApplicationContext struct {
		ReturnURL string `json:"return_url"`
		CancelURL string `json:"cancel_url"`
	} `json:"application_context"`
}

type paypalLink struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type paypalOrderResp struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Links  []paypalLink `json:"links"`
}

// PayPalOrder is the subset of an order we hand back to flows
type PayPalOrder struct {
	ID         string
	Status     string
	ApproveURL string
}

// CreateOrder opens a one-time capture order. customID carries the profile
// UUID back through capture.
func (c *PayPalClient) CreateOrder(ctx context.Context, amountUSD float64, customID, returnURL, cancelURL string) (*PayPalOrder, error) {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	body := paypalOrderReq{Intent: "CAPTURE"}
	body.PurchaseUnits = []paypalPurchaseUnit{{
		Description: "Pro plan upgrade",
		CustomID:    customID,
		Amount: paypalAmount{
			CurrencyCode: "USD",
			Value:        fmt.Sprintf("%.2f", amountUSD),
		},
	}}
	body.ApplicationContext.ReturnURL = returnURL
	body.ApplicationContext.CancelURL = cancelURL

	var out paypalOrderResp
	if err := c.postJSON(ctx, token, "/v2/checkout/orders", body, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("paypal: empty order response")
	}

	order := &PayPalOrder{ID: out.ID, Status: out.Status}
	for _, l := range out.Links {
		if l.Rel == "approve" {
			order.ApproveURL = l.Href
			break
		}
	}
	if order.ApproveURL == "" {
		return nil, errors.New("paypal: order response has no approve link")
	}
	return order, nil
}

type paypalCaptureResp struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID       string `json:"id"`
				Status   string `json:"status"`
				CustomID string `json:"custom_id"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// PayPalCapture reports the outcome of capturing an approved order
type PayPalCapture struct {
	OrderID   string
	Status    string
	CaptureID string
	CustomID  string
}

// CaptureOrder captures an approved order
func (c *PayPalClient) CaptureOrder(ctx context.Context, orderID string) (*PayPalCapture, error) {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var out paypalCaptureResp
	if err := c.postJSON(ctx, token, "/v2/checkout/orders/"+orderID+"/capture", struct{}{}, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("paypal: empty capture response")
	}

	capture := &PayPalCapture{OrderID: out.ID, Status: out.Status}
	for _, pu := range out.PurchaseUnits {
		for _, pc := range pu.Payments.Captures {
			capture.CaptureID = pc.ID
			capture.CustomID = pc.CustomID
			break
		}
	}
	return capture, nil
}

func (c *PayPalClient) postJSON(ctx context.Context, token, path string, payload any, out any) error {
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("paypal: status %d for %s", resp.StatusCode, path)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
