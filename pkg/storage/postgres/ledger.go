package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/storage"
	"github.com/lib/pq"
)

// CommitGroupExpense writes every balance update, the expense and its log entry in one
// SQL transaction. An update whose version moved affects no row and aborts the commit.
func (s *Store) CommitGroupExpense(ctx context.Context, commit *models.GroupCommit) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, u := range commit.Updates {
			res, err := tx.ExecContext(ctx,
				`UPDATE members SET balance = $1, version = version + 1
				 WHERE group_id = $2 AND member_id = $3 AND version = $4`,
				u.Balance.StringFixed(2), commit.GroupID, u.MemberID, u.ExpectedVersion,
			)
			if err != nil {
				return fmt.Errorf("failed to update balance of %s: %w", u.MemberID, mapError(err))
			}
			if err := requireOneRow(res, "member "+u.MemberID); err != nil {
				return err
			}
		}
		return insertExpense(ctx, tx, commit.Expense, commit.LogEntry)
	})
}

// CommitFriendExpense writes both sides of the pair, the expense and its log entry in
// one SQL transaction.
func (s *Store) CommitFriendExpense(ctx context.Context, commit *models.FriendCommit) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, u := range commit.Entries {
			res, err := tx.ExecContext(ctx,
				`UPDATE friend_entries SET net_amount = $1, version = version + 1
				 WHERE owner_id = $2 AND friend_id = $3 AND version = $4`,
				u.NetAmount.StringFixed(2), u.OwnerID, u.FriendID, u.ExpectedVersion,
			)
			if err != nil {
				return fmt.Errorf("failed to update friend entry %s/%s: %w", u.OwnerID, u.FriendID, mapError(err))
			}
			if err := requireOneRow(res, "friend entry "+u.OwnerID+"/"+u.FriendID); err != nil {
				return err
			}
		}
		return insertExpense(ctx, tx, commit.Expense, commit.LogEntry)
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", mapError(err))
	}
	return nil
}

// requireOneRow turns a versioned update that matched nothing into a conflict.
func requireOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("%s changed since it was read: %w", what, storage.ErrConflict)
	}
	return nil
}

func insertExpense(ctx context.Context, tx *sql.Tx, e *models.Expense, entry *models.TransactionLogEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (id, description, amount, paid_by_id, split_method, category, date, group_id, friend_id, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.Description, e.Amount.StringFixed(2), e.PaidByID, string(e.SplitMethod), e.Category,
		e.Date.Format(dateLayout), nullString(e.GroupID), nullString(e.FriendID), e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense %s: %w", e.ID, mapError(err))
	}

	for i, sp := range e.SplitWith {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expense_splits (expense_id, position, member_id, amount, percentage, shares)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			e.ID, i, sp.MemberID, sp.Amount.StringFixed(2), nullDecimal(sp.Percentage), nullDecimal(sp.Shares),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split of %s: %w", sp.MemberID, mapError(err))
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transaction_log (context_key, id, expense_id, description, amount, paid_by, split_with, category, date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ContextKey, entry.ID, entry.ExpenseID, entry.Description, entry.Amount.StringFixed(2), entry.PaidBy,
		pq.Array(entry.SplitWith), entry.Category, entry.Date.Format(dateLayout), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert log entry %s: %w", entry.ID, mapError(err))
	}
	return nil
}
