// Package service drives one check-in end-to-end: validation, subscription
// evaluation, privacy transforms, and the best-effort visit writes.
package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/IIBendyII/ProjectWork2025/internal/checkin/privacy"
	"github.com/IIBendyII/ProjectWork2025/internal/checkin/store"
	"github.com/IIBendyII/ProjectWork2025/internal/checkin/types"
	"github.com/IIBendyII/ProjectWork2025/internal/checkin/validate"
)

const defaultStoreTimeout = 5 * time.Second

type Options struct {
	Management    store.ManagementStore
	Visits        store.VisitStore
	Validator     *validate.Validator
	Pseudonymizer *privacy.Pseudonymizer
	APIKey        string
	Logger        *logrus.Logger

	// Clock defaults to time.Now in UTC. Overridable for tests.
	Clock func() time.Time
	// StoreTimeout bounds every store interaction for one request.
	StoreTimeout time.Duration
}

type CheckInService struct {
	mgmt         store.ManagementStore
	visits       store.VisitStore
	validator    *validate.Validator
	pseudo       *privacy.Pseudonymizer
	apiKey       string
	logger       *logrus.Logger
	clock        func() time.Time
	storeTimeout time.Duration
}

func New(opts Options) *CheckInService {
	clock := opts.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	timeout := opts.StoreTimeout
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return &CheckInService{
		mgmt:         opts.Management,
		visits:       opts.Visits,
		validator:    opts.Validator,
		pseudo:       opts.Pseudonymizer,
		apiKey:       opts.APIKey,
		logger:       opts.Logger,
		clock:        clock,
		storeTimeout: timeout,
	}
}

// CheckIn processes one attendance event. It always returns a signed
// response; validation failures and missing subscriptions are reported
// uniformly as valid=false with no indication of which check failed.
func (s *CheckInService) CheckIn(ctx context.Context, req types.CheckInRequest) types.CheckInResponse {
	receivedAt := s.clock()

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	parsed, err := validate.ParseRequest(req, receivedAt)
	if err != nil {
		// The response signature still covers the raw submitted fields so
		// the reader can verify it came from us.
		s.logger.WithError(err).Debug("check-in rejected by shape pre-check")
		return s.reject(req.CardID, req.Timestamp)
	}

	if ok, failed := s.validator.Validate(ctx, parsed); !ok {
		s.logger.WithField("check", failed).Debug("check-in rejected")
		return s.reject(parsed.CardID, parsed.RawTimestamp)
	}

	// The validator confirmed the card exists moments ago; a failure here
	// is a store fault and fails closed like any unconfirmed existence.
	client, err := s.mgmt.ClientByCard(ctx, parsed.CardID)
	if err != nil {
		s.logger.WithError(err).Warn("fetch client after validation")
		return s.reject(parsed.CardID, parsed.RawTimestamp)
	}

	subs, err := s.mgmt.SubscriptionsByClient(ctx, client.ID)
	if err != nil {
		s.logger.WithError(err).Warn("fetch subscriptions")
		return s.reject(parsed.CardID, parsed.RawTimestamp)
	}

	valid := anySubscriptionActive(subs, receivedAt)
	if valid {
		s.recordVisit(ctx, client, parsed)
	}

	return types.CheckInResponse{
		Valid:     valid,
		Signature: validate.ResponseSignature(parsed.CardID, parsed.RawTimestamp, s.apiKey),
	}
}

// anySubscriptionActive reports whether any window strictly contains
// today's date: validFrom < today < validTo. A subscription starting or
// ending exactly today does not count.
func anySubscriptionActive(subs []store.Subscription, now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	for _, sub := range subs {
		if sub.ValidFrom.Before(today) && today.Before(sub.ValidTo) {
			return true
		}
	}
	return false
}

// recordVisit writes the pseudonymized log entry and the anonymized stat
// row. Both writes are best-effort: failures are logged for operators and
// never change the already-decided response. A pseudonymization failure
// suppresses the whole write path — a malformed token must not be stored.
func (s *CheckInService) recordVisit(ctx context.Context, client store.Client, req validate.Request) {
	token, err := s.pseudo.Pseudonymize(req.CardID)
	if err != nil {
		s.logger.WithError(err).Error("pseudonymization failed, visit not recorded")
		return
	}

	if err := s.visits.InsertLog(ctx, store.LogEntry{
		PseudonymCardID: token,
		LocationID:      req.LocationID,
		Timestamp:       req.Timestamp,
	}); err != nil {
		s.logger.WithError(err).Warn("insert log entry")
	}

	tuple, err := privacy.Anonymize(privacy.PersonalRecord{
		Sex:        client.Sex,
		BirthDate:  client.BirthDate,
		LocationID: req.LocationID,
		Timestamp:  req.Timestamp,
	}, s.clock())
	if err != nil {
		// Fail closed on the stats side: better a missing row than a
		// malformed bracket.
		s.logger.WithError(err).Error("anonymization failed, stat not recorded")
		return
	}

	if err := s.visits.InsertStat(ctx, store.StatRecord{
		Sex:         tuple.Sex,
		AgeBracket:  tuple.AgeBracket,
		LocationID:  tuple.LocationID,
		EntryDate:   tuple.EntryDate,
		TimeBracket: tuple.TimeBracket,
	}); err != nil {
		s.logger.WithError(err).Warn("insert stat record")
	}
}

func (s *CheckInService) reject(cardID, timestamp string) types.CheckInResponse {
	return types.CheckInResponse{
		Valid:     false,
		Signature: validate.ResponseSignature(cardID, timestamp, s.apiKey),
	}
}
