package httpapi_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/IIBendyII/ProjectWork2025/internal/checkin/privacy"
	"github.com/IIBendyII/ProjectWork2025/internal/checkin/service"
	"github.com/IIBendyII/ProjectWork2025/internal/checkin/store"
	"github.com/IIBendyII/ProjectWork2025/internal/checkin/store/memory"
	"github.com/IIBendyII/ProjectWork2025/internal/checkin/validate"
	"github.com/IIBendyII/ProjectWork2025/internal/httpapi"
)

const (
	testAPIKey = "wire-test-api-key"
	testCard   = "A1B2C3"
)

var testNow = time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC)

// newTestServer stands up the full HTTP stack over memory stores: gym 1,
// one client holding testCard, and an active subscription.
func newTestServer(t *testing.T) (*httptest.Server, *memory.VisitStore) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mgmt := memory.NewManagementStore()
	mgmt.AddLocation(store.Location{ID: 1, Name: "Main Gym"})
	mgmt.AddClient(store.Client{ID: 1, CardID: testCard, Sex: "F",
		BirthDate: time.Date(1995, time.March, 3, 0, 0, 0, 0, time.UTC)})
	mgmt.AddSubscription(store.Subscription{
		ClientID:  1,
		ValidFrom: testNow.AddDate(0, -1, 0),
		ValidTo:   testNow.AddDate(1, 0, 0),
	})

	visits := memory.NewVisitStore()

	svc := service.New(service.Options{
		Management:    mgmt,
		Visits:        visits,
		Validator:     validate.NewValidator(mgmt, testAPIKey, logger),
		Pseudonymizer: privacy.NewPseudonymizer(&key.PublicKey, "wire-test-pad"),
		APIKey:        testAPIKey,
		Logger:        logger,
		Clock:         func() time.Time { return testNow },
	})

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:  logger,
		Addr:    ":0",
		CheckIn: svc,
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, visits
}

func postJSON(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, out
}

// signedBody builds a wire payload with the canonical field names. gymID is
// inserted verbatim, so callers can pass `"1"` (string) or `1` (number).
func signedBody(gymID string) string {
	ts := testNow.Add(-5 * time.Second).Format(validate.TimestampLayout)
	gymRaw := strings.Trim(gymID, `"`)
	sig := validate.RequestSignature(testCard, gymRaw, ts, testAPIKey)
	return fmt.Sprintf(`{"IDSmartCard":%q,"IDPalestra":%s,"Timestamp":%q,"Signature":%q}`,
		testCard, gymID, ts, sig)
}

// ── Wire behavior ────────────────────────────────────────────────────────────

func TestCheckInEndpoint_Accepted(t *testing.T) {
	ts, visits := newTestServer(t)

	resp, out := postJSON(t, ts.URL+"/", signedBody(`"1"`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200; body: %s", resp.StatusCode, out)
	}

	var body struct {
		Valid     bool   `json:"valido"`
		Signature string `json:"signature"`
	}
	if err := json.Unmarshal(out, &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Valid {
		t.Fatalf("expected valido=true, body: %s", out)
	}
	if len(body.Signature) != 64 {
		t.Errorf("signature length %d, want 64 hex chars", len(body.Signature))
	}
	if len(visits.Logs()) != 1 {
		t.Errorf("expected 1 log write, got %d", len(visits.Logs()))
	}
}

func TestCheckInEndpoint_NumericGymID(t *testing.T) {
	// Some readers serialize IDPalestra as a JSON number. The signature is
	// computed over the digits either way.
	ts, _ := newTestServer(t)

	resp, out := postJSON(t, ts.URL+"/", signedBody(`1`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200; body: %s", resp.StatusCode, out)
	}
	if !bytes.Contains(out, []byte(`"valido":true`)) {
		t.Errorf("expected valido=true, body: %s", out)
	}
}

func TestCheckInEndpoint_RejectionIsStill200(t *testing.T) {
	ts, visits := newTestServer(t)

	// Well-formed JSON, bad signature: an application-level rejection, not
	// a transport error.
	stamp := testNow.Add(-5 * time.Second).Format(validate.TimestampLayout)
	body := fmt.Sprintf(`{"IDSmartCard":%q,"IDPalestra":"1","Timestamp":%q,"Signature":"bogus"}`,
		testCard, stamp)

	resp, out := postJSON(t, ts.URL+"/", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200; body: %s", resp.StatusCode, out)
	}
	if !bytes.Contains(out, []byte(`"valido":false`)) {
		t.Errorf("expected valido=false, body: %s", out)
	}
	if !bytes.Contains(out, []byte(`"signature":"`)) {
		t.Errorf("rejection must carry a signature, body: %s", out)
	}
	if len(visits.Logs()) != 0 {
		t.Error("rejected request must not be logged")
	}
}

func TestCheckInEndpoint_UndecodableJSONIs400(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, out := postJSON(t, ts.URL+"/", `{"IDSmartCard": `)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400; body: %s", resp.StatusCode, out)
	}
	if !bytes.Contains(out, []byte(`"bad_json"`)) {
		t.Errorf("expected bad_json error code, body: %s", out)
	}
}

func TestCheckInEndpoint_GetNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status %d, want 405", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status %d, want 200", resp.StatusCode)
	}
	out, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(out, []byte(`"ok":true`)) {
		t.Errorf("unexpected body: %s", out)
	}
}
