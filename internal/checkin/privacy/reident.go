package privacy

import (
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrPadMismatch is returned when a decrypted pseudonym does not end with
// the expected pad, meaning the token was produced with a different key or
// pad (or is not a pseudonym at all).
var ErrPadMismatch = errors.New("privacy: decrypted plaintext does not carry the expected pad")

// Reidentify recovers the original card ID from a pseudonym using the
// private half of the key pair. It is the inverse of Pseudonymize and is
// only ever called from the offline keytool — the serving process does not
// hold the private key.
func Reidentify(token string, key *rsa.PrivateKey, pad string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("privacy: decode pseudonym: %w", err)
	}

	c := new(big.Int).SetBytes(raw)
	if c.Cmp(key.N) >= 0 {
		return "", fmt.Errorf("privacy: ciphertext out of range for key modulus")
	}

	// Raw RSA decryption: m = c^d mod n.
	m := new(big.Int).Exp(c, key.D, key.N)

	plaintext := string(m.Bytes())
	if !strings.HasSuffix(plaintext, pad) {
		return "", ErrPadMismatch
	}
	return strings.TrimSuffix(plaintext, pad), nil
}
