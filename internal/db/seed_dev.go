package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SeedDev inserts a starter gym, member and active subscription into a
// dev management database so a freshly started server can accept a
// hand-rolled check-in. Idempotent.
func SeedDev(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO Palestre(Id, Nome, Indirizzo, Luogo, Stato)
VALUES (1, 'Dev Gym', 'Via Roma 1', 'Dev', 'IT');`); err != nil {
		return fmt.Errorf("seed gym: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO Clienti(Id, Cognome, Nome, Sesso, DataNascita, SmartCardId)
VALUES (1, 'Rossi', 'Mario', 'M', '1990-04-12', 'A1B2C3');`); err != nil {
		return fmt.Errorf("seed client: %w", err)
	}

	// One subscription window strictly containing today.
	from := time.Now().UTC().AddDate(0, -1, 0).Format("2006-01-02")
	to := time.Now().UTC().AddDate(1, 0, 0).Format("2006-01-02")
	if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO Abbonamenti(Id, IdCliente, ValidoDal, ValidoAl)
VALUES (1, 1, ?, ?);`, from, to); err != nil {
		return fmt.Errorf("seed subscription: %w", err)
	}

	return nil
}
