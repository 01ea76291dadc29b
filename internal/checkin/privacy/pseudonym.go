// Package privacy holds the two privacy transforms the check-in pipeline
// applies before anything is persisted: pseudonymization of card IDs and
// k-anonymity generalization of member data.
package privacy

import (
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"math/big"
)

// ErrMessageTooLong is returned when the padded card ID encodes to an
// integer that is not strictly below the RSA modulus. Encrypting such a
// value would wrap around the modulus and produce an ambiguous ciphertext,
// so the pseudonymizer refuses instead.
var ErrMessageTooLong = errors.New("privacy: padded card id too long for key modulus")

// Pseudonymizer maps a card ID to a stable opaque token using raw RSA
// (m^e mod n, no randomized padding). Determinism is the point: the same
// card must always yield the same token so repeat visits are recognizable
// without a server-side lookup table. The pad fixes the plaintext block at
// a non-trivial length so the 6-character card space cannot be brute-forced
// against the ciphertext directly. The decryption key is never held by the
// serving process; reversing a token requires the offline keytool.
type Pseudonymizer struct {
	key *rsa.PublicKey
	pad string
}

func NewPseudonymizer(key *rsa.PublicKey, pad string) *Pseudonymizer {
	return &Pseudonymizer{key: key, pad: pad}
}

// Pseudonymize returns the URL-safe base64 token for cardID.
// Pure function of the card ID plus the process-wide key and pad.
func (p *Pseudonymizer) Pseudonymize(cardID string) (string, error) {
	plaintext := []byte(cardID + p.pad)
	m := new(big.Int).SetBytes(plaintext)

	if m.Cmp(p.key.N) >= 0 {
		return "", ErrMessageTooLong
	}

	e := big.NewInt(int64(p.key.E))
	c := new(big.Int).Exp(m, e, p.key.N)

	return base64.URLEncoding.EncodeToString(c.Bytes()), nil
}
