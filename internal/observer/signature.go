package observer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign computes the signature header value for a payload:
// "sha256=" + hex(HMAC-SHA256(secret, payload)).
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a received signature in constant time. An empty
// secret skips verification.
func VerifySignature(payload []byte, signature, secret string) bool {
	if secret == "" {
		return true
	}
	return hmac.Equal([]byte(Sign(payload, secret)), []byte(signature))
}
