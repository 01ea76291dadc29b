// checkin-client is a proof-of-concept reader: it signs and posts one
// check-in against a running server and prints the response. Useful for
// exercising a dev deployment end to end.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/IIBendyII/ProjectWork2025/internal/checkin/validate"
	"github.com/IIBendyII/ProjectWork2025/internal/config"
)

func main() {
	addr := flag.String("addr", "http://localhost:8000", "server base URL")
	gymID := flag.String("gym", "1", "gym ID")
	cardID := flag.String("card", "", "smart card ID (6 uppercase hex chars)")
	secretsDir := flag.String("secrets", "secrets", "directory holding the api_key file")
	flag.Parse()

	if *cardID == "" {
		fmt.Fprintln(os.Stderr, "Error: -card is required")
		os.Exit(2)
	}

	apiKey, err := config.ReadSecret(*secretsDir, "api_key")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	timestamp := time.Now().UTC().Format(validate.TimestampLayout)
	body, err := json.Marshal(map[string]string{
		"IDSmartCard": *cardID,
		"IDPalestra":  *gymID,
		"Timestamp":   timestamp,
		"Signature":   validate.RequestSignature(*cardID, *gymID, timestamp, apiKey),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	resp, err := http.Post(*addr+"/", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	fmt.Printf("HTTP %d: %s", resp.StatusCode, out)
}
