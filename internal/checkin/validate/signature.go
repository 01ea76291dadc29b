package validate

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// RequestSignature is the shared-secret signature a reader attaches to a
// check-in: SHA-256 over the concatenation of the card ID, the gym ID as
// transmitted, the timestamp as transmitted, and the API key.
func RequestSignature(cardID, locationID, timestamp, apiKey string) string {
	sum := sha256.Sum256([]byte(cardID + locationID + timestamp + apiKey))
	return hex.EncodeToString(sum[:])
}

// ResponseSignature signs the server's response: SHA-256 over the card ID,
// the timestamp string, and the API key.
func ResponseSignature(cardID, timestamp, apiKey string) string {
	sum := sha256.Sum256([]byte(cardID + timestamp + apiKey))
	return hex.EncodeToString(sum[:])
}

// signatureEqual compares two hex signatures in constant time.
func signatureEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
