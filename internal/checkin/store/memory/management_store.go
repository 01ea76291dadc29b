package memory

import (
	"context"
	"sync"

	"github.com/IIBendyII/ProjectWork2025/internal/checkin/store"
)

// ManagementStore is an in-memory management database for tests and the
// dev profile. Lookup counters let tests verify that the validator
// short-circuits before touching the store.
type ManagementStore struct {
	mu        sync.RWMutex
	clients   map[string]store.Client // keyed by card ID
	subs      map[int64][]store.Subscription
	locations map[int]store.Location

	locationLookups int
	clientLookups   int
	lookupErr       error
}

func NewManagementStore() *ManagementStore {
	return &ManagementStore{
		clients:   make(map[string]store.Client),
		subs:      make(map[int64][]store.Subscription),
		locations: make(map[int]store.Location),
	}
}

func (s *ManagementStore) AddClient(c store.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.CardID] = c
}

func (s *ManagementStore) AddSubscription(sub store.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.ClientID] = append(s.subs[sub.ClientID], sub)
}

func (s *ManagementStore) AddLocation(l store.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[l.ID] = l
}

// SetLookupError makes every subsequent lookup fail with err.
// Test-only helper for fail-closed behavior.
func (s *ManagementStore) SetLookupError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookupErr = err
}

func (s *ManagementStore) ClientByCard(_ context.Context, cardID string) (store.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientLookups++
	if s.lookupErr != nil {
		return store.Client{}, s.lookupErr
	}
	c, ok := s.clients[cardID]
	if !ok {
		return store.Client{}, store.ErrNotFound
	}
	return c, nil
}

func (s *ManagementStore) SubscriptionsByClient(_ context.Context, clientID int64) ([]store.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	out := make([]store.Subscription, len(s.subs[clientID]))
	copy(out, s.subs[clientID])
	return out, nil
}

func (s *ManagementStore) LocationByID(_ context.Context, id int) (store.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locationLookups++
	if s.lookupErr != nil {
		return store.Location{}, s.lookupErr
	}
	l, ok := s.locations[id]
	if !ok {
		return store.Location{}, store.ErrNotFound
	}
	return l, nil
}

// LocationLookups returns how many location lookups were issued.
// Test-only helper.
func (s *ManagementStore) LocationLookups() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locationLookups
}

// ClientLookups returns how many card lookups were issued.
// Test-only helper.
func (s *ManagementStore) ClientLookups() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientLookups
}
