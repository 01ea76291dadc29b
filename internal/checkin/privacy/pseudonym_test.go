package privacy_test

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/IIBendyII/ProjectWork2025/internal/checkin/privacy"
)

const testPad = "gTx0:pQ!7eLm9@Zw"

// testKey generates a small throwaway key. Production uses 2048 bits; the
// tests only need enough room for the padded plaintext.
func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

// ── Pseudonymization ─────────────────────────────────────────────────────────

func TestPseudonymize_Deterministic(t *testing.T) {
	key := testKey(t)
	p := privacy.NewPseudonymizer(&key.PublicKey, testPad)

	first, err := p.Pseudonymize("A1B2C3")
	if err != nil {
		t.Fatalf("Pseudonymize: %v", err)
	}
	second, err := p.Pseudonymize("A1B2C3")
	if err != nil {
		t.Fatalf("Pseudonymize: %v", err)
	}

	if first != second {
		t.Errorf("expected identical tokens for repeated card, got %q and %q", first, second)
	}
}

func TestPseudonymize_DistinctCardsDistinctTokens(t *testing.T) {
	key := testKey(t)
	p := privacy.NewPseudonymizer(&key.PublicKey, testPad)

	a, err := p.Pseudonymize("A1B2C3")
	if err != nil {
		t.Fatalf("Pseudonymize: %v", err)
	}
	b, err := p.Pseudonymize("A1B2C4")
	if err != nil {
		t.Fatalf("Pseudonymize: %v", err)
	}

	if a == b {
		t.Error("expected different tokens for different cards")
	}
}

func TestPseudonymize_PadChangesToken(t *testing.T) {
	key := testKey(t)
	withPad := privacy.NewPseudonymizer(&key.PublicKey, testPad)
	otherPad := privacy.NewPseudonymizer(&key.PublicKey, "another-pad-value")

	a, err := withPad.Pseudonymize("A1B2C3")
	if err != nil {
		t.Fatalf("Pseudonymize: %v", err)
	}
	b, err := otherPad.Pseudonymize("A1B2C3")
	if err != nil {
		t.Fatalf("Pseudonymize: %v", err)
	}

	if a == b {
		t.Error("expected pad change to change the token")
	}
}

func TestPseudonymize_TokenIsURLSafeBase64(t *testing.T) {
	key := testKey(t)
	p := privacy.NewPseudonymizer(&key.PublicKey, testPad)

	token, err := p.Pseudonymize("FFFFFF")
	if err != nil {
		t.Fatalf("Pseudonymize: %v", err)
	}

	if _, err := base64.URLEncoding.DecodeString(token); err != nil {
		t.Errorf("token is not URL-safe base64: %v", err)
	}
	if strings.ContainsAny(token, "+/") {
		t.Errorf("token contains standard-alphabet characters: %q", token)
	}
}

func TestPseudonymize_PlaintextAboveModulusRefused(t *testing.T) {
	key := testKey(t)
	// A pad longer than the 128-byte modulus guarantees overflow.
	p := privacy.NewPseudonymizer(&key.PublicKey, strings.Repeat("x", 256))

	_, err := p.Pseudonymize("A1B2C3")
	if !errors.Is(err, privacy.ErrMessageTooLong) {
		t.Fatalf("expected ErrMessageTooLong, got %v", err)
	}
}

// ── Re-identification ────────────────────────────────────────────────────────

func TestReidentify_RoundTrip(t *testing.T) {
	key := testKey(t)
	p := privacy.NewPseudonymizer(&key.PublicKey, testPad)

	for _, cardID := range []string{"000000", "A1B2C3", "FFFFFF", "0F9BD2"} {
		token, err := p.Pseudonymize(cardID)
		if err != nil {
			t.Fatalf("Pseudonymize(%s): %v", cardID, err)
		}
		got, err := privacy.Reidentify(token, key, testPad)
		if err != nil {
			t.Fatalf("Reidentify(%s): %v", cardID, err)
		}
		if got != cardID {
			t.Errorf("round trip: got %q, want %q", got, cardID)
		}
	}
}

func TestReidentify_WrongPadRejected(t *testing.T) {
	key := testKey(t)
	p := privacy.NewPseudonymizer(&key.PublicKey, testPad)

	token, err := p.Pseudonymize("A1B2C3")
	if err != nil {
		t.Fatalf("Pseudonymize: %v", err)
	}

	_, err = privacy.Reidentify(token, key, "some-other-pad")
	if !errors.Is(err, privacy.ErrPadMismatch) {
		t.Fatalf("expected ErrPadMismatch, got %v", err)
	}
}

func TestReidentify_GarbageTokenRejected(t *testing.T) {
	key := testKey(t)

	if _, err := privacy.Reidentify("not base64 at all!", key, testPad); err == nil {
		t.Error("expected error for undecodable token")
	}
}

// ── Key material ─────────────────────────────────────────────────────────────

func TestGenerateKeyPair_PEMRoundTrip(t *testing.T) {
	pubPEM, privPEM, err := privacy.GenerateKeyPair(1024)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	pub, err := privacy.ParsePublicKey(pubPEM)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	priv, err := privacy.ParsePrivateKey(privPEM)
	if err != nil {
		t.Fatalf("ParsePrivateKey: %v", err)
	}

	if pub.N.Cmp(priv.N) != 0 {
		t.Error("public and private halves do not share a modulus")
	}

	// Tokens issued under the parsed public key must reverse under the
	// parsed private key.
	p := privacy.NewPseudonymizer(pub, testPad)
	token, err := p.Pseudonymize("A1B2C3")
	if err != nil {
		t.Fatalf("Pseudonymize: %v", err)
	}
	got, err := privacy.Reidentify(token, priv, testPad)
	if err != nil {
		t.Fatalf("Reidentify: %v", err)
	}
	if got != "A1B2C3" {
		t.Errorf("round trip through PEM: got %q", got)
	}
}

func TestParsePublicKey_BadPEM(t *testing.T) {
	if _, err := privacy.ParsePublicKey([]byte("not pem")); err == nil {
		t.Error("expected error for invalid PEM")
	}
}
