// Package validate implements the request-authentication pipeline: the
// input-shape pre-check and the four ordered authenticity/freshness/
// existence checks that gate every check-in.
package validate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/IIBendyII/ProjectWork2025/internal/checkin/store"
	"github.com/IIBendyII/ProjectWork2025/internal/checkin/types"
)

// TimestampLayout is the canonical wire format for timestamps. Client and
// server must format identically or signature verification breaks, so this
// is a hard contract constant.
const TimestampLayout = "2006-01-02 15:04:05"

// MaxClockSkew bounds how far behind the server clock a client timestamp
// may be. The difference is signed, not absolute: future-dated timestamps
// pass, matching the deployed reader fleet's behavior.
const MaxClockSkew = 10 * time.Second

var cardIDPattern = regexp.MustCompile(`^[0-9A-F]{6}$`)

// ErrMalformed marks shape pre-check failures. Callers reject the request
// but still sign the response over the raw submitted fields.
var ErrMalformed = errors.New("validate: malformed request")

// Request is the parsed, request-scoped view of one check-in. Every field
// lives here and travels by value; nothing about an in-flight request is
// ever stored process-wide.
type Request struct {
	CardID       string
	LocationID   int
	RawLocation  string // gym ID exactly as transmitted (signed material)
	Timestamp    time.Time
	RawTimestamp string // timestamp exactly as transmitted (signed material)
	Signature    string
	ReceivedAt   time.Time // server clock at receipt
}

// ParseRequest runs the input-shape pre-check: card ID must be exactly six
// uppercase hex characters, the gym ID must parse as an integer, and the
// timestamp must parse under the canonical layout.
func ParseRequest(req types.CheckInRequest, receivedAt time.Time) (Request, error) {
	if !cardIDPattern.MatchString(req.CardID) {
		return Request{}, fmt.Errorf("%w: card id must be 6 uppercase hex chars", ErrMalformed)
	}

	locationID, err := strconv.Atoi(req.Location.Raw)
	if err != nil {
		return Request{}, fmt.Errorf("%w: gym id is not an integer", ErrMalformed)
	}

	ts, err := time.Parse(TimestampLayout, req.Timestamp)
	if err != nil {
		return Request{}, fmt.Errorf("%w: timestamp not in canonical format", ErrMalformed)
	}

	return Request{
		CardID:       req.CardID,
		LocationID:   locationID,
		RawLocation:  req.Location.Raw,
		Timestamp:    ts,
		RawTimestamp: req.Timestamp,
		Signature:    req.Signature,
		ReceivedAt:   receivedAt,
	}, nil
}

// Validator runs the four-stage check cascade against the management store.
type Validator struct {
	mgmt   store.ManagementStore
	apiKey string
	logger *logrus.Logger
}

func NewValidator(mgmt store.ManagementStore, apiKey string, logger *logrus.Logger) *Validator {
	return &Validator{mgmt: mgmt, apiKey: apiKey, logger: logger}
}

// check is one named stage. A returned error means the stage could not be
// evaluated (store failure); the cascade treats that as a failure too.
type check struct {
	name string
	fn   func(ctx context.Context, req Request) (bool, error)
}

// Validate runs freshness, signature, location existence and card existence
// strictly in that order, stopping at the first failure so later store
// queries are never issued. It returns whether all stages passed and, on
// failure, the failing stage's name — for operator logs only, never for the
// wire response.
func (v *Validator) Validate(ctx context.Context, req Request) (bool, string) {
	checks := []check{
		{"freshness", v.checkFreshness},
		{"signature", v.checkSignature},
		{"location", v.checkLocation},
		{"card", v.checkCard},
	}

	for _, c := range checks {
		ok, err := c.fn(ctx, req)
		if err != nil {
			// Existence could not be confirmed: fail closed.
			v.logger.WithError(err).WithField("check", c.name).Warn("check could not be evaluated")
			return false, c.name
		}
		if !ok {
			v.logger.WithField("check", c.name).Debug("check failed")
			return false, c.name
		}
		v.logger.WithField("check", c.name).Debug("check passed")
	}
	return true, ""
}

func (v *Validator) checkFreshness(_ context.Context, req Request) (bool, error) {
	return req.ReceivedAt.Sub(req.Timestamp) <= MaxClockSkew, nil
}

func (v *Validator) checkSignature(_ context.Context, req Request) (bool, error) {
	expected := RequestSignature(req.CardID, req.RawLocation, req.RawTimestamp, v.apiKey)
	return signatureEqual(expected, req.Signature), nil
}

func (v *Validator) checkLocation(ctx context.Context, req Request) (bool, error) {
	_, err := v.mgmt.LocationByID(ctx, req.LocationID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (v *Validator) checkCard(ctx context.Context, req Request) (bool, error) {
	_, err := v.mgmt.ClientByCard(ctx, req.CardID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
