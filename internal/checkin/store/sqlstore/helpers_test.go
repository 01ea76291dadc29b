package sqlstore_test

import (
	"context"
	"database/sql"
	"testing"

	dbpkg "github.com/IIBendyII/ProjectWork2025/internal/db"
)

// openTestDB opens an in-memory SQLite database with the full embedded
// schema applied. The single-connection pool keeps the memory database
// alive for the life of the test.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := dbpkg.Open(context.Background(), dbpkg.Config{
		Driver: "sqlite",
		DSN:    ":memory:",
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := dbpkg.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func mustExec(t *testing.T, conn *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := conn.ExecContext(context.Background(), query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
