package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stripeSign(timestamp int64, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestConstructWebhookEvent(t *testing.T) {
	secret := "whsec_test"
	client := NewStripeClient("", "sk_test", secret, "price_test", 0)
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`)

	t.Run("valid signature", func(t *testing.T) {
		ts := time.Now().Unix()
		header := fmt.Sprintf("t=%d,v1=%s", ts, stripeSign(ts, payload, secret))

		event, err := client.ConstructWebhookEvent(payload, header)
		require.NoError(t, err)
		assert.Equal(t, "evt_1", event.ID)
		assert.Equal(t, "checkout.session.completed", event.Type)
		assert.JSONEq(t, `{"id":"cs_1"}`, string(event.Data.Object))
	})

	t.Run("one valid signature among several", func(t *testing.T) {
		ts := time.Now().Unix()
		header := fmt.Sprintf("t=%d,v1=%s,v1=%s", ts, "deadbeef", stripeSign(ts, payload, secret))

		_, err := client.ConstructWebhookEvent(payload, header)
		assert.NoError(t, err)
	})

	t.Run("forged signature", func(t *testing.T) {
		ts := time.Now().Unix()
		header := fmt.Sprintf("t=%d,v1=%s", ts, stripeSign(ts, payload, "whsec_other"))

		_, err := client.ConstructWebhookEvent(payload, header)
		assert.ErrorIs(t, err, ErrStripeSignatureInvalid)
	})

	t.Run("tampered payload", func(t *testing.T) {
		ts := time.Now().Unix()
		header := fmt.Sprintf("t=%d,v1=%s", ts, stripeSign(ts, payload, secret))

		_, err := client.ConstructWebhookEvent([]byte(`{"id":"evt_2"}`), header)
		assert.ErrorIs(t, err, ErrStripeSignatureInvalid)
	})

	t.Run("timestamp outside tolerance", func(t *testing.T) {
		ts := time.Now().Add(-StripeWebhookTolerance - time.Minute).Unix()
		header := fmt.Sprintf("t=%d,v1=%s", ts, stripeSign(ts, payload, secret))

		_, err := client.ConstructWebhookEvent(payload, header)
		assert.ErrorIs(t, err, ErrStripeSignatureExpired)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := client.ConstructWebhookEvent(payload, "")
		assert.ErrorIs(t, err, ErrStripeSignatureInvalid)
	})

	t.Run("header without v1 signature", func(t *testing.T) {
		_, err := client.ConstructWebhookEvent(payload, fmt.Sprintf("t=%d", time.Now().Unix()))
		assert.ErrorIs(t, err, ErrStripeSignatureInvalid)
	})
}

func TestCreateCheckoutSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)

		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "sk_test", user)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "subscription", r.PostForm.Get("mode"))
		assert.Equal(t, "price_test", r.PostForm.Get("line_items[0][price]"))
		assert.Equal(t, "owner@example.com", r.PostForm.Get("customer_email"))
		assert.Equal(t, "profile-uuid", r.PostForm.Get("client_reference_id"))

		json.NewEncoder(w).Encode(map[string]string{
			"id":  "cs_123",
			"url": "https://checkout.stripe.com/pay/cs_123",
		})
	}))
	defer server.Close()

	client := NewStripeClient(server.URL, "sk_test", "whsec_test", "price_test", 5*time.Second)

	session, err := client.CreateCheckoutSession(context.Background(),
		"owner@example.com", "profile-uuid",
		"https://app.example.com/billing?ok=1", "https://app.example.com/billing")
	require.NoError(t, err)
	assert.Equal(t, "cs_123", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_123", session.URL)
}

func TestCreateCheckoutSession_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer server.Close()

	client := NewStripeClient(server.URL, "sk_test", "whsec_test", "price_test", 5*time.Second)

	_, err := client.CreateCheckoutSession(context.Background(), "owner@example.com", "profile-uuid", "https://s", "https://c")
	assert.Error(t, err)
}
