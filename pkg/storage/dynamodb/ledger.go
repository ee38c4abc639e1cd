package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/storage"
	"github.com/shopspring/decimal"
)

// CommitGroupExpense atomically sets every member's new balance, provided each member is
// still at the version it was read at, and writes the expense and its log entry.
func (s *Store) CommitGroupExpense(ctx context.Context, commit *models.GroupCommit) error {
	if len(commit.Updates)+2 > maxTransactItems {
		return fmt.Errorf("group expense touching %d members: %w", len(commit.Updates), storage.ErrTooManyItems)
	}

	items := make([]types.TransactWriteItem, 0, len(commit.Updates)+2)
	for _, u := range commit.Updates {
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(s.MembersTableName),
				Key: map[string]types.AttributeValue{
					"group_id":  &types.AttributeValueMemberS{Value: commit.GroupID},
					"member_id": &types.AttributeValueMemberS{Value: u.MemberID},
				},
				UpdateExpression:          aws.String("SET balance = :balance, version = version + :inc"),
				ConditionExpression:       aws.String("version = :version"),
				ExpressionAttributeValues: versionedValues(":balance", u.Balance, u.ExpectedVersion),
			},
		})
	}

	records, err := s.expenseWrites(commit.Expense, commit.LogEntry)
	if err != nil {
		return err
	}
	items = append(items, records...)

	if err := s.transact(ctx, items, len(commit.Updates)); err != nil {
		slog.WarnContext(ctx, "group expense commit rejected",
			"group_id", commit.GroupID,
			"expense_id", commit.Expense.ID,
			"error", err)
		return err
	}
	return nil
}

// CommitFriendExpense atomically sets both sides of a friend pair, provided neither moved
// since it was read, and writes the expense and its log entry.
func (s *Store) CommitFriendExpense(ctx context.Context, commit *models.FriendCommit) error {
	items := make([]types.TransactWriteItem, 0, len(commit.Entries)+2)
	for _, u := range commit.Entries {
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(s.FriendsTableName),
				Key: map[string]types.AttributeValue{
					"owner_id":  &types.AttributeValueMemberS{Value: u.OwnerID},
					"friend_id": &types.AttributeValueMemberS{Value: u.FriendID},
				},
				UpdateExpression:          aws.String("SET net_amount = :net, version = version + :inc"),
				ConditionExpression:       aws.String("version = :version"),
				ExpressionAttributeValues: versionedValues(":net", u.NetAmount, u.ExpectedVersion),
			},
		})
	}

	records, err := s.expenseWrites(commit.Expense, commit.LogEntry)
	if err != nil {
		return err
	}
	items = append(items, records...)

	if err := s.transact(ctx, items, len(commit.Entries)); err != nil {
		slog.WarnContext(ctx, "friend expense commit rejected",
			"context_key", commit.LogEntry.ContextKey,
			"expense_id", commit.Expense.ID,
			"error", err)
		return err
	}
	return nil
}

func versionedValues(name string, amount decimal.Decimal, version int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name:       &types.AttributeValueMemberS{Value: amount.StringFixed(2)},
		":version": &types.AttributeValueMemberN{Value: strconv.FormatInt(version, 10)},
		":inc":     &types.AttributeValueMemberN{Value: "1"},
	}
}

// expenseWrites builds the write-once puts of an expense and its log entry.
func (s *Store) expenseWrites(expense *models.Expense, entry *models.TransactionLogEntry) ([]types.TransactWriteItem, error) {
	expenseAV, err := attributevalue.MarshalMap(newExpenseRecord(expense))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expense: %w", err)
	}
	logAV, err := attributevalue.MarshalMap(newLogRecord(entry))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction log entry: %w", err)
	}

	return []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(s.ExpensesTableName),
				Item:                expenseAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		},
		{
			Put: &types.Put{
				TableName:           aws.String(s.TransactionLogTableName),
				Item:                logAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		},
	}, nil
}

// transact executes the items as one transaction. The first versioned items are balance
// updates; a failed condition on one of them is a lost race, on the rest a duplicate id.
func (s *Store) transact(ctx context.Context, items []types.TransactWriteItem, versioned int) error {
	_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err == nil {
		return nil
	}

	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		for i, reason := range canceled.CancellationReasons {
			code := aws.ToString(reason.Code)
			switch {
			case code == "TransactionConflict":
				return fmt.Errorf("%s: %w", aws.ToString(canceled.Message), storage.ErrConflict)
			case code == "ConditionalCheckFailed" && i < versioned:
				return fmt.Errorf("stale version on item %d: %w", i, storage.ErrConflict)
			case code == "ConditionalCheckFailed":
				return fmt.Errorf("write-once item %d exists: %w", i, storage.ErrAlreadyExists)
			}
		}
		return fmt.Errorf("failed to execute ledger transaction: %w", err)
	}

	var conflict *types.TransactionConflictException
	if errors.As(err, &conflict) {
		return fmt.Errorf("%s: %w", conflict.ErrorMessage(), storage.ErrConflict)
	}
	return fmt.Errorf("failed to execute ledger transaction: %w", err)
}

func hasReason(canceled *types.TransactionCanceledException, code string) bool {
	for _, reason := range canceled.CancellationReasons {
		if aws.ToString(reason.Code) == code {
			return true
		}
	}
	return false
}
