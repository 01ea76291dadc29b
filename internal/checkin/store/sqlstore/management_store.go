// Package sqlstore implements the store interfaces over database/sql.
// Queries are written in portable SQL so the same code runs against the
// production MySQL databases and the dev/test SQLite databases.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/IIBendyII/ProjectWork2025/internal/checkin/store"
)

// ManagementStore reads the externally-owned gym management database.
type ManagementStore struct {
	db *sql.DB
}

func NewManagementStore(db *sql.DB) *ManagementStore {
	return &ManagementStore{db: db}
}

func (s *ManagementStore) ClientByCard(ctx context.Context, cardID string) (store.Client, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT Id, Sesso, DataNascita, SmartCardId FROM Clienti WHERE SmartCardId = ?;
`, cardID)

	var (
		c     store.Client
		sex   sql.NullString
		birth sql.NullString
	)
	err := row.Scan(&c.ID, &sex, &birth, &c.CardID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Client{}, store.ErrNotFound
	}
	if err != nil {
		return store.Client{}, fmt.Errorf("ClientByCard: %w", err)
	}

	c.Sex = sex.String
	if birth.Valid {
		c.BirthDate, err = parseDate(birth.String)
		if err != nil {
			return store.Client{}, fmt.Errorf("ClientByCard birth date: %w", err)
		}
	}
	return c, nil
}

func (s *ManagementStore) SubscriptionsByClient(ctx context.Context, clientID int64) ([]store.Subscription, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT IdCliente, ValidoDal, ValidoAl FROM Abbonamenti WHERE IdCliente = ?;
`, clientID)
	if err != nil {
		return nil, fmt.Errorf("SubscriptionsByClient: %w", err)
	}
	defer rows.Close()

	var subs []store.Subscription
	for rows.Next() {
		var (
			sub      store.Subscription
			from, to string
		)
		if err := rows.Scan(&sub.ClientID, &from, &to); err != nil {
			return nil, fmt.Errorf("SubscriptionsByClient scan: %w", err)
		}
		if sub.ValidFrom, err = parseDate(from); err != nil {
			return nil, fmt.Errorf("SubscriptionsByClient ValidoDal: %w", err)
		}
		if sub.ValidTo, err = parseDate(to); err != nil {
			return nil, fmt.Errorf("SubscriptionsByClient ValidoAl: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *ManagementStore) LocationByID(ctx context.Context, id int) (store.Location, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT Id, Nome FROM Palestre WHERE Id = ?;
`, id)

	var (
		l    store.Location
		name sql.NullString
	)
	err := row.Scan(&l.ID, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Location{}, store.ErrNotFound
	}
	if err != nil {
		return store.Location{}, fmt.Errorf("LocationByID: %w", err)
	}
	l.Name = name.String
	return l, nil
}

// parseDate accepts the date and datetime encodings the two drivers hand
// back for DATE columns.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
