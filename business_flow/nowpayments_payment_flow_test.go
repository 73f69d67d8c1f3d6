package businessflow

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signIPN(message, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyNOWPaymentsSignature(t *testing.T) {
	secret := "ipn-secret"
	payload := []byte(`{"payment_status":"finished","payment_id":123,"order_id":"abc","price_amount":49.5}`)

	// Top-level fields sorted by key, rendered as key=value, joined with "&".
	// Numbers keep their literal form.
	message := "order_id=abc&payment_id=123&payment_status=finished&price_amount=49.5"

	t.Run("valid signature", func(t *testing.T) {
		sig := signIPN(message, secret)
		assert.True(t, verifyNOWPaymentsSignature(payload, sig, secret))
	})

	t.Run("hex case is ignored", func(t *testing.T) {
		sig := strings.ToUpper(signIPN(message, secret))
		assert.True(t, verifyNOWPaymentsSignature(payload, sig, secret))
	})

	t.Run("forged signature", func(t *testing.T) {
		sig := signIPN(message, "some-other-secret")
		assert.False(t, verifyNOWPaymentsSignature(payload, sig, secret))
	})

	t.Run("tampered payload", func(t *testing.T) {
		sig := signIPN(message, secret)
		tampered := []byte(`{"payment_status":"finished","payment_id":999,"order_id":"abc","price_amount":49.5}`)
		assert.False(t, verifyNOWPaymentsSignature(tampered, sig, secret))
	})

	t.Run("empty signature header", func(t *testing.T) {
		assert.False(t, verifyNOWPaymentsSignature(payload, "", secret))
	})

	t.Run("empty secret", func(t *testing.T) {
		sig := signIPN(message, secret)
		assert.False(t, verifyNOWPaymentsSignature(payload, sig, ""))
	})

	t.Run("payload is not an object", func(t *testing.T) {
		sig := signIPN(message, secret)
		assert.False(t, verifyNOWPaymentsSignature([]byte(`[1,2,3]`), sig, secret))
	})
}
