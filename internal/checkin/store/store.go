package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned by lookup methods when no row matches.
// Callers must treat it as "existence not confirmed" and reject.
var ErrNotFound = errors.New("store: not found")

// Client is a member record from the management database. Only the fields
// the check-in pipeline needs are carried; the rest of the member's identity
// stays in the management system.
type Client struct {
	ID        int64
	CardID    string
	Sex       string // single char, e.g. "M"/"F"
	BirthDate time.Time
}

// Subscription is a membership validity window. A client may hold any
// number of them, including zero.
type Subscription struct {
	ClientID  int64
	ValidFrom time.Time
	ValidTo   time.Time
}

// Location is a gym site. Existence is all the check-in pipeline needs.
type Location struct {
	ID   int
	Name string
}

// LogEntry records one accepted check-in in the visit database.
// The card identifier is the pseudonymized token, never the raw card ID.
type LogEntry struct {
	PseudonymCardID string
	LocationID      int
	Timestamp       time.Time
}

// StatRecord is the k-anonymous tuple written for each accepted check-in
// with a valid subscription. It carries no direct identifier.
type StatRecord struct {
	Sex         string
	AgeBracket  string
	LocationID  int
	EntryDate   time.Time // date only; time-of-day is generalized away
	TimeBracket string
}
