package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chris/expense-ledger/pkg/storage"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Store implements the Storage interface on PostgreSQL.
// Money columns are NUMERIC(14,2) and are scanned as text.
type Store struct {
	db *sql.DB
}

// New creates a Store over an open database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to the database, verifies the connection and applies migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return New(db), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// mapError translates driver errors into storage sentinels.
func mapError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%s: %w", pqErr.Message, storage.ErrAlreadyExists)
	case codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("%s: %w", pqErr.Message, storage.ErrConflict)
	}
	return err
}

func parseMoney(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q: %w", field, value, storage.ErrMalformedRecord)
	}
	return d, nil
}

func nullDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
