package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	dbpkg "github.com/IIBendyII/ProjectWork2025/internal/db"

	"github.com/IIBendyII/ProjectWork2025/internal/checkin/store"
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02 15:04:05"
)

// VisitStore appends to the logs/stats database. All writes funnel through
// the shared write worker.
type VisitStore struct {
	writer *dbpkg.Worker
}

func NewVisitStore(writer *dbpkg.Worker) *VisitStore {
	return &VisitStore{writer: writer}
}

func (s *VisitStore) InsertLog(ctx context.Context, entry store.LogEntry) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO Logs(SmartCardId, PalestraId, Timestamp) VALUES (?, ?, ?);
`, entry.PseudonymCardID, entry.LocationID, entry.Timestamp.Format(datetimeLayout)); err != nil {
			return fmt.Errorf("InsertLog: %w", err)
		}
		return nil
	})
}

func (s *VisitStore) InsertStat(ctx context.Context, rec store.StatRecord) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO Statistiche(Sesso, FasciaEta, PalestraId, DataIngresso, FasciaOraria)
VALUES (?, ?, ?, ?, ?);
`, rec.Sex, rec.AgeBracket, rec.LocationID, rec.EntryDate.Format(dateLayout), rec.TimeBracket); err != nil {
			return fmt.Errorf("InsertStat: %w", err)
		}
		return nil
	})
}
