package memory

import (
	"context"
	"sync"

	"github.com/IIBendyII/ProjectWork2025/internal/checkin/store"
)

// VisitStore is an in-memory append-only visit database for tests and the
// dev profile.
type VisitStore struct {
	mu        sync.Mutex
	logs      []store.LogEntry
	stats     []store.StatRecord
	insertErr error
}

func NewVisitStore() *VisitStore {
	return &VisitStore{}
}

func (s *VisitStore) InsertLog(_ context.Context, entry store.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	s.logs = append(s.logs, entry)
	return nil
}

func (s *VisitStore) InsertStat(_ context.Context, rec store.StatRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	s.stats = append(s.stats, rec)
	return nil
}

// SetInsertError makes every subsequent insert fail with err.
// Test-only helper for best-effort write behavior.
func (s *VisitStore) SetInsertError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertErr = err
}

// Logs returns a copy of all recorded log entries. Test-only helper.
func (s *VisitStore) Logs() []store.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.LogEntry, len(s.logs))
	copy(out, s.logs)
	return out
}

// Stats returns a copy of all recorded stat rows. Test-only helper.
func (s *VisitStore) Stats() []store.StatRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.StatRecord, len(s.stats))
	copy(out, s.stats)
	return out
}
