package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/storage"
)

// CreateGroup writes the group and every member record in one transaction.
// Existing records are never overwritten.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) (*models.Group, error) {
	if len(group.Members)+1 > maxTransactItems {
		return nil, fmt.Errorf("group %s with %d members: %w", group.ID, len(group.Members), storage.ErrTooManyItems)
	}

	groupAV, err := attributevalue.MarshalMap(groupRecord{
		ID:        group.ID,
		Name:      group.Name,
		CreatedBy: group.CreatedBy,
		CreatedAt: group.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal group: %w", err)
	}

	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(s.GroupsTableName),
				Item:                groupAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		},
	}
	for i := range group.Members {
		m := &group.Members[i]
		m.GroupID = group.ID
		memberAV, err := attributevalue.MarshalMap(newMemberRecord(m))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal member %s: %w", m.ID, err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.MembersTableName),
				Item:                memberAV,
				ConditionExpression: aws.String("attribute_not_exists(member_id)"),
			},
		})
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) && hasReason(canceled, "ConditionalCheckFailed") {
			return nil, fmt.Errorf("group %s: %w", group.ID, storage.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create group in DynamoDB: %w", err)
	}

	return group, nil
}

// GetGroup retrieves a group and all of its members.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": groupID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal group ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.GroupsTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get group from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}

	var record groupRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group: %w", err)
	}

	members, err := s.listMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return &models.Group{
		ID:        record.ID,
		Name:      record.Name,
		CreatedBy: record.CreatedBy,
		CreatedAt: record.CreatedAt,
		Members:   members,
	}, nil
}

// listMembers reads every member of a group with a strongly consistent query, so that the
// versions returned are the latest committed ones.
func (s *Store) listMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.MembersTableName),
		KeyConditionExpression: aws.String("group_id = :groupID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":groupID": &types.AttributeValueMemberS{Value: groupID},
		},
		ConsistentRead: aws.Bool(true),
	}

	var members []models.Member
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query members of group %s: %w", groupID, err)
		}

		var records []memberRecord
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &records); err != nil {
			return nil, fmt.Errorf("failed to unmarshal members: %w", err)
		}
		for i := range records {
			m, err := records[i].toModel()
			if err != nil {
				return nil, err
			}
			members = append(members, *m)
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

// GetMember retrieves a single member's balance.
func (s *Store) GetMember(ctx context.Context, groupID, memberID string) (*models.Member, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"group_id": groupID, "member_id": memberID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal member key: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.MembersTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get member from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("member %s of group %s: %w", memberID, groupID, storage.ErrNotFound)
	}

	var record memberRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal member: %w", err)
	}
	return record.toModel()
}

// ListGroupIDsForMember queries the member index for every group the member belongs to.
func (s *Store) ListGroupIDsForMember(ctx context.Context, memberID string) ([]string, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.MembersTableName),
		IndexName:              aws.String(memberGroupsIndex),
		KeyConditionExpression: aws.String("member_id = :memberID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":memberID": &types.AttributeValueMemberS{Value: memberID},
		},
		ProjectionExpression: aws.String("group_id"),
	}

	var ids []string
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query groups for member %s: %w", memberID, err)
		}

		var records []memberRecord
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &records); err != nil {
			return nil, fmt.Errorf("failed to unmarshal group IDs: %w", err)
		}
		for _, r := range records {
			ids = append(ids, r.GroupID)
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	sort.Strings(ids)
	return ids, nil
}

// ListGroupIDs scans the groups table for every group id.
func (s *Store) ListGroupIDs(ctx context.Context) ([]string, error) {
	input := &dynamodb.ScanInput{
		TableName:            aws.String(s.GroupsTableName),
		ProjectionExpression: aws.String("id"),
	}

	var ids []string
	for {
		result, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan groups table: %w", err)
		}

		var records []groupRecord
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &records); err != nil {
			return nil, fmt.Errorf("failed to unmarshal groups: %w", err)
		}
		for _, r := range records {
			ids = append(ids, r.ID)
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	sort.Strings(ids)
	return ids, nil
}
