package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/storage"
	"github.com/lib/pq"
)

const dateLayout = "2006-01-02"

func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	var (
		e                 models.Expense
		amount, method    string
		groupID, friendID sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, description, amount::text, paid_by_id, split_method, category, date, group_id, friend_id, created_by, created_at
		 FROM expenses WHERE id = $1`, expenseID,
	).Scan(&e.ID, &e.Description, &amount, &e.PaidByID, &method, &e.Category, &e.Date, &groupID, &friendID, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get expense %s: %w", expenseID, err)
	}
	if e.Amount, err = parseMoney("amount", amount); err != nil {
		return nil, fmt.Errorf("expense %s: %w", expenseID, err)
	}
	e.SplitMethod = models.SplitMethod(method)
	e.GroupID = groupID.String
	e.FriendID = friendID.String
	e.Date = utcDate(e.Date)

	rows, err := s.db.QueryContext(ctx,
		`SELECT member_id, amount::text, percentage::text, shares::text
		 FROM expense_splits WHERE expense_id = $1 ORDER BY position`, expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits of expense %s: %w", expenseID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sp                 models.SplitEntry
			splitAmount        string
			percentage, shares sql.NullString
		)
		if err := rows.Scan(&sp.MemberID, &splitAmount, &percentage, &shares); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if sp.Amount, err = parseMoney("split amount", splitAmount); err != nil {
			return nil, fmt.Errorf("expense %s: %w", expenseID, err)
		}
		if percentage.Valid {
			p, err := parseMoney("percentage", percentage.String)
			if err != nil {
				return nil, fmt.Errorf("expense %s: %w", expenseID, err)
			}
			sp.Percentage = &p
		}
		if shares.Valid {
			sh, err := parseMoney("shares", shares.String)
			if err != nil {
				return nil, fmt.Errorf("expense %s: %w", expenseID, err)
			}
			sp.Shares = &sh
		}
		e.SplitWith = append(e.SplitWith, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read splits of expense %s: %w", expenseID, err)
	}

	return &e, nil
}

func (s *Store) ListTransactionLog(ctx context.Context, contextKey string) ([]models.TransactionLogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT context_key, id, expense_id, description, amount::text, paid_by, split_with, category, date, created_at
		 FROM transaction_log WHERE context_key = $1 ORDER BY created_at, id`, contextKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction log %s: %w", contextKey, err)
	}
	defer rows.Close()

	var entries []models.TransactionLogEntry
	for rows.Next() {
		var (
			e      models.TransactionLogEntry
			amount string
		)
		err := rows.Scan(&e.ContextKey, &e.ID, &e.ExpenseID, &e.Description, &amount, &e.PaidBy,
			pq.Array(&e.SplitWith), &e.Category, &e.Date, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		if e.Amount, err = parseMoney("amount", amount); err != nil {
			return nil, fmt.Errorf("log entry %s: %w", e.ID, err)
		}
		e.Date = utcDate(e.Date)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// utcDate drops any zone the driver attached to a DATE column.
func utcDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
