package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/storage"
)

func (s *Store) CreateGroup(ctx context.Context, group *models.Group) (*models.Group, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, created_by, created_at) VALUES ($1, $2, $3, $4)`,
		group.ID, group.Name, group.CreatedBy, group.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert group %s: %w", group.ID, mapError(err))
	}

	for i := range group.Members {
		m := &group.Members[i]
		m.GroupID = group.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO members (group_id, member_id, display_name, balance, is_admin, version) VALUES ($1, $2, $3, $4, $5, $6)`,
			group.ID, m.ID, m.DisplayName, m.Balance.StringFixed(2), m.IsAdmin, m.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert member %s: %w", m.ID, mapError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit group %s: %w", group.ID, mapError(err))
	}
	return group, nil
}

func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	var group models.Group
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_by, created_at FROM groups WHERE id = $1`, groupID,
	).Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get group %s: %w", groupID, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT group_id, member_id, display_name, balance::text, is_admin, version
		 FROM members WHERE group_id = $1 ORDER BY member_id`, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of group %s: %w", groupID, err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		group.Members = append(group.Members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read members of group %s: %w", groupID, err)
	}

	return &group, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(row scanner) (*models.Member, error) {
	var m models.Member
	var balance string
	if err := row.Scan(&m.GroupID, &m.ID, &m.DisplayName, &balance, &m.IsAdmin, &m.Version); err != nil {
		return nil, err
	}
	b, err := parseMoney("balance", balance)
	if err != nil {
		return nil, fmt.Errorf("member %s of group %s: %w", m.ID, m.GroupID, err)
	}
	m.Balance = b
	return &m, nil
}

func (s *Store) GetMember(ctx context.Context, groupID, memberID string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT group_id, member_id, display_name, balance::text, is_admin, version
		 FROM members WHERE group_id = $1 AND member_id = $2`, groupID, memberID,
	)
	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("member %s of group %s: %w", memberID, groupID, storage.ErrNotFound)
		}
		if errors.Is(err, storage.ErrMalformedRecord) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get member %s of group %s: %w", memberID, groupID, err)
	}
	return m, nil
}

func (s *Store) ListGroupIDsForMember(ctx context.Context, memberID string) ([]string, error) {
	return s.listIDs(ctx, `SELECT group_id FROM members WHERE member_id = $1 ORDER BY group_id`, memberID)
}

func (s *Store) ListGroupIDs(ctx context.Context) ([]string, error) {
	return s.listIDs(ctx, `SELECT id FROM groups ORDER BY id`)
}

func (s *Store) listIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list group IDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
