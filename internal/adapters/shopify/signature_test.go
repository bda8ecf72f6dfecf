package shopify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyRoundTrip(t *testing.T) {
	secret := "shpss_test_secret"
	body := []byte(`{"id":123,"email":"a@x.com","line_items":[]}`)

	v := NewVerifier(secret)
	assert.True(t, v.Verify(body, Sign(secret, body)))
}

func TestVerifyRejectsFlippedByte(t *testing.T) {
	secret := "shpss_test_secret"
	body := []byte(`{"id":123,"email":"a@x.com","line_items":[]}`)
	sig := Sign(secret, body)

	v := NewVerifier(secret)
	for i := range body {
		mutated := append([]byte(nil), body...)
		mutated[i] ^= 0x01
		assert.False(t, v.Verify(mutated, sig), "byte %d", i)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	body := []byte(`{"id":1}`)
	sig := Sign("secret-a", body)

	v := NewVerifier("secret-b")
	assert.False(t, v.Verify(body, sig))
}

func TestVerifyFailsClosedWithoutSecret(t *testing.T) {
	body := []byte(`{"id":1}`)

	v := NewVerifier("")
	assert.False(t, v.Verify(body, Sign("", body)))
}

func TestVerifyRejectsMissingHeader(t *testing.T) {
	v := NewVerifier("secret")
	assert.False(t, v.Verify([]byte(`{"id":1}`), ""))
}
