package types

import (
	"encoding/json"
	"fmt"
)

// CheckInRequest is the wire body posted by a card reader. Field names are
// part of the deployed reader contract and must not change.
type CheckInRequest struct {
	CardID    string        `json:"IDSmartCard"`
	Location  LocationField `json:"IDPalestra"`
	Timestamp string        `json:"Timestamp"` // "YYYY-MM-DD HH:MM:SS"
	Signature string        `json:"Signature"` // hex SHA-256
}

// CheckInResponse is returned with HTTP 200 for both accepted and rejected
// check-ins. The signature covers the card ID and timestamp exactly as they
// arrived, so readers can verify it even for malformed submissions.
type CheckInResponse struct {
	Valid     bool   `json:"valido"`
	Signature string `json:"signature"`
}

// LocationField accepts the gym ID as either a JSON number or a JSON
// string — deployed readers send both. Raw keeps the exact text the client
// signed over; the integer parse happens later in the shape pre-check.
type LocationField struct {
	Raw string
}

func (f *LocationField) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("IDPalestra: %w", err)
		}
		f.Raw = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("IDPalestra: %w", err)
	}
	f.Raw = n.String()
	return nil
}

func (f LocationField) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Raw)
}
