package store

import "context"

// VisitStore persists check-in traces in the logs/stats database.
// Both tables are append-only; rows are never updated or deleted here.
type VisitStore interface {
	InsertLog(ctx context.Context, entry LogEntry) error
	InsertStat(ctx context.Context, rec StatRecord) error
}
