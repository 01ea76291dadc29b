// checkin-keytool is the privileged offline companion to the check-in
// server: it generates the pseudonymization key pair and re-identifies
// pseudonyms with the private key. It is never deployed next to the
// serving process — the server only ever holds the public half.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/IIBendyII/ProjectWork2025/internal/checkin/privacy"
	"github.com/IIBendyII/ProjectWork2025/internal/config"
)

const keyBits = 2048

func main() {
	mode := flag.String("mode", "", "genkeys | reidentify")
	secretsDir := flag.String("secrets", "secrets", "directory holding key and pad files")
	token := flag.String("token", "", "pseudonym to re-identify (reidentify mode)")
	flag.Parse()

	switch *mode {
	case "genkeys":
		if err := generateKeys(*secretsDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "reidentify":
		if err := reidentify(*secretsDir, *token); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func generateKeys(dir string) error {
	encPath := filepath.Join(dir, "encrypt_key")
	decPath := filepath.Join(dir, "decrypt_key")

	// Refuse to clobber existing key material: losing the private key
	// makes every stored pseudonym permanently unrecoverable.
	for _, p := range []string{encPath, decPath} {
		if _, err := os.Stat(p); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", p)
		}
	}

	pubPEM, privPEM, err := privacy.GenerateKeyPair(keyBits)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(encPath, pubPEM, 0o600); err != nil {
		return err
	}
	if err := os.WriteFile(decPath, privPEM, 0o600); err != nil {
		return err
	}

	fmt.Printf("Key pair written to %s and %s\n", encPath, decPath)
	return nil
}

func reidentify(dir, token string) error {
	if token == "" {
		return fmt.Errorf("-token is required in reidentify mode")
	}

	keyPEM, err := config.ReadSecret(dir, "decrypt_key")
	if err != nil {
		return err
	}
	key, err := privacy.ParsePrivateKey([]byte(keyPEM))
	if err != nil {
		return err
	}
	pad, err := config.ReadSecret(dir, "pseudo_pad")
	if err != nil {
		return err
	}

	cardID, err := privacy.Reidentify(token, key, pad)
	if err != nil {
		return err
	}

	fmt.Printf("Original card ID: %s\n", cardID)
	return nil
}
