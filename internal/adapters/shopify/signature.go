package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// SignatureHeader carries the base64 HMAC-SHA256 digest of the raw body.
const SignatureHeader = "X-Shopify-Hmac-Sha256"

// Verifier checks that a webhook payload was signed with the shared secret.
// The secret is mandatory; with an empty secret Verify always fails.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify computes the digest over the exact raw bytes received on the wire.
// A parsed-then-reserialized body produces a different digest, so callers
// must hold on to the original request body.
func (v *Verifier) Verify(body []byte, headerValue string) bool {
	if len(v.secret) == 0 || headerValue == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(string(v.secret), body)), []byte(headerValue))
}

// Sign returns the base64 HMAC-SHA256 digest of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
