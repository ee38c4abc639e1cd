package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/storage"
)

// GetExpense retrieves an expense from DynamoDB by its ID.
func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": expenseID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expense ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.ExpensesTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get expense from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}

	var record expenseRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal expense: %w", err)
	}
	return record.toModel()
}

// ListTransactionLog queries every log entry of a group or friend pair.
func (s *Store) ListTransactionLog(ctx context.Context, contextKey string) ([]models.TransactionLogEntry, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionLogTableName),
		KeyConditionExpression: aws.String("context_key = :key"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":key": &types.AttributeValueMemberS{Value: contextKey},
		},
	}

	var entries []models.TransactionLogEntry
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query transaction log %s: %w", contextKey, err)
		}

		var records []logRecord
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &records); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transaction log: %w", err)
		}
		for i := range records {
			e, err := records[i].toModel()
			if err != nil {
				return nil, err
			}
			entries = append(entries, *e)
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return entries, nil
}
