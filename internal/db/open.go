package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

type Config struct {
	Driver string // "sqlite" | "mysql"
	DSN    string // mysql DSN, or a sqlite file path / file: URI
}

// Open connects to one of the two backing databases. The production
// profile talks to external MySQL servers; the dev/test profile runs on
// local SQLite files with the same schema.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	var dsn string

	switch cfg.Driver {
	case "sqlite":
		dsn = sqliteDSN(cfg.DSN)
		if err := ensureParentDir(cfg.DSN); err != nil {
			return nil, err
		}
	case "mysql":
		dsn = cfg.DSN
	default:
		return nil, fmt.Errorf("db: unknown driver %q", cfg.Driver)
	}

	conn, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// Strong safety for SQLite in servers: single connection.
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(0)
	} else {
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	return conn, nil
}

// sqliteDSN wraps a plain file path with the per-connection PRAGMAs we want
// (foreign keys, WAL, busy timeout). A DSN that is already a file: URI is
// passed through untouched.
func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		path,
	)
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("db: mkdir %s: %w", dir, err)
	}
	return nil
}
