package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
)

// WebhookVerifier checks Shopify webhook signatures. Shopify signs the raw
// request bytes; callers must pass the body exactly as received.
type WebhookVerifier struct {
	secret string
}

// NewWebhookVerifier creates a verifier for a shared webhook secret.
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

// Verify returns an error unless the signature equals
// base64(HMAC-SHA256(secret, payload)).
func (v *WebhookVerifier) Verify(payload []byte, signature string) error {
	if v.secret == "" {
		return fmt.Errorf("webhook secret not configured")
	}
	if signature == "" {
		return fmt.Errorf("missing webhook signature")
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature))) {
		return fmt.Errorf("webhook signature mismatch")
	}
	return nil
}
