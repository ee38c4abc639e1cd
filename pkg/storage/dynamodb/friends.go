package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/storage"
)

// CreateFriendship writes both zero-balance entries of a friendship in one transaction.
func (s *Store) CreateFriendship(ctx context.Context, userID, friendID string) error {
	var items []types.TransactWriteItem
	for _, pair := range [][2]string{{userID, friendID}, {friendID, userID}} {
		av, err := attributevalue.MarshalMap(friendRecord{
			OwnerID:   pair[0],
			FriendID:  pair[1],
			NetAmount: "0.00",
		})
		if err != nil {
			return fmt.Errorf("failed to marshal friend entry: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.FriendsTableName),
				Item:                av,
				ConditionExpression: aws.String("attribute_not_exists(owner_id)"),
			},
		})
	}

	_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) && hasReason(canceled, "ConditionalCheckFailed") {
			return fmt.Errorf("friendship %s/%s: %w", userID, friendID, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create friendship in DynamoDB: %w", err)
	}
	return nil
}

// GetFriendEntry retrieves the owner's entry versus one friend.
func (s *Store) GetFriendEntry(ctx context.Context, ownerID, friendID string) (*models.FriendLedgerEntry, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"owner_id": ownerID, "friend_id": friendID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal friend entry key: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.FriendsTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get friend entry from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("friend entry %s/%s: %w", ownerID, friendID, storage.ErrNotFound)
	}

	var record friendRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal friend entry: %w", err)
	}
	return record.toModel()
}

// ListFriendEntries queries every entry owned by the user.
func (s *Store) ListFriendEntries(ctx context.Context, ownerID string) ([]models.FriendLedgerEntry, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.FriendsTableName),
		KeyConditionExpression: aws.String("owner_id = :ownerID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ownerID": &types.AttributeValueMemberS{Value: ownerID},
		},
	}

	var entries []models.FriendLedgerEntry
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query friend entries for %s: %w", ownerID, err)
		}
		page, err := unmarshalFriendEntries(result.Items)
		if err != nil {
			return nil, err
		}
		entries = append(entries, page...)

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return entries, nil
}

// ListAllFriendEntries scans the friends table.
func (s *Store) ListAllFriendEntries(ctx context.Context) ([]models.FriendLedgerEntry, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.FriendsTableName),
	}

	var entries []models.FriendLedgerEntry
	for {
		result, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friends table: %w", err)
		}
		page, err := unmarshalFriendEntries(result.Items)
		if err != nil {
			return nil, err
		}
		entries = append(entries, page...)

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return entries, nil
}

func unmarshalFriendEntries(items []map[string]types.AttributeValue) ([]models.FriendLedgerEntry, error) {
	var records []friendRecord
	if err := attributevalue.UnmarshalListOfMaps(items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal friend entries: %w", err)
	}
	entries := make([]models.FriendLedgerEntry, 0, len(records))
	for i := range records {
		e, err := records[i].toModel()
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, nil
}
