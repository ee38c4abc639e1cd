package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/storage"
)

func (s *Store) CreateFriendship(ctx context.Context, userID, friendID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO friend_entries (owner_id, friend_id, net_amount, version) VALUES ($1, $2, 0, 0), ($2, $1, 0, 0)`,
		userID, friendID,
	)
	if err != nil {
		return fmt.Errorf("failed to create friendship %s/%s: %w", userID, friendID, mapError(err))
	}
	return nil
}

const friendColumns = `owner_id, friend_id, net_amount::text, version`

func scanFriendEntry(row scanner) (*models.FriendLedgerEntry, error) {
	var e models.FriendLedgerEntry
	var net string
	if err := row.Scan(&e.OwnerID, &e.FriendID, &net, &e.Version); err != nil {
		return nil, err
	}
	n, err := parseMoney("net_amount", net)
	if err != nil {
		return nil, fmt.Errorf("friend entry %s/%s: %w", e.OwnerID, e.FriendID, err)
	}
	e.NetAmount = n
	return &e, nil
}

func (s *Store) GetFriendEntry(ctx context.Context, ownerID, friendID string) (*models.FriendLedgerEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+friendColumns+` FROM friend_entries WHERE owner_id = $1 AND friend_id = $2`, ownerID, friendID,
	)
	e, err := scanFriendEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("friend entry %s/%s: %w", ownerID, friendID, storage.ErrNotFound)
		}
		if errors.Is(err, storage.ErrMalformedRecord) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get friend entry %s/%s: %w", ownerID, friendID, err)
	}
	return e, nil
}

func (s *Store) ListFriendEntries(ctx context.Context, ownerID string) ([]models.FriendLedgerEntry, error) {
	return s.listFriendEntries(ctx,
		`SELECT `+friendColumns+` FROM friend_entries WHERE owner_id = $1 ORDER BY friend_id`, ownerID)
}

func (s *Store) ListAllFriendEntries(ctx context.Context) ([]models.FriendLedgerEntry, error) {
	return s.listFriendEntries(ctx,
		`SELECT `+friendColumns+` FROM friend_entries ORDER BY owner_id, friend_id`)
}

func (s *Store) listFriendEntries(ctx context.Context, query string, args ...any) ([]models.FriendLedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend entries: %w", err)
	}
	defer rows.Close()

	var entries []models.FriendLedgerEntry
	for rows.Next() {
		e, err := scanFriendEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}
