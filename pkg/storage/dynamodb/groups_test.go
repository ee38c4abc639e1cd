package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/expense-ledger/pkg/models"
	"github.com/chris/expense-ledger/pkg/storage"
	"github.com/chris/expense-ledger/pkg/storage/dynamodb/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testTables() Tables {
	return Tables{
		Groups:         "groups",
		Members:        "members",
		Friends:        "friends",
		Expenses:       "expenses",
		TransactionLog: "transaction-log",
	}
}

func memberItem(t *testing.T, groupID, memberID, balance string, version int64) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(memberRecord{GroupID: groupID, MemberID: memberID, Balance: balance, Version: version})
	require.NoError(t, err)
	return av
}

func TestCreateGroup(t *testing.T) {
	group := &models.Group{
		ID:        "g1",
		Name:      "Flat",
		CreatedBy: "alice",
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Members: []models.Member{
			{ID: "alice", IsAdmin: true, Balance: decimal.Zero},
			{ID: "bob", Balance: decimal.Zero},
		},
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			return len(in.TransactItems) == 3 &&
				aws.ToString(in.TransactItems[0].Put.TableName) == "groups" &&
				aws.ToString(in.TransactItems[1].Put.TableName) == "members" &&
				aws.ToString(in.TransactItems[1].Put.ConditionExpression) == "attribute_not_exists(member_id)"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		store := New(mockClient, testTables())
		created, err := store.CreateGroup(context.Background(), group)

		assert.NoError(t, err)
		assert.Equal(t, "g1", created.Members[1].GroupID)
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Exists", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, &types.TransactionCanceledException{
			CancellationReasons: []types.CancellationReason{{Code: aws.String("ConditionalCheckFailed")}, {Code: aws.String("None")}},
		}).Once()

		store := New(mockClient, testTables())
		_, err := store.CreateGroup(context.Background(), group)

		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
		mockClient.AssertExpectations(t)
	})

	t.Run("Too Many Members", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		big := &models.Group{ID: "big", Members: make([]models.Member, maxTransactItems)}

		store := New(mockClient, testTables())
		_, err := store.CreateGroup(context.Background(), big)

		assert.ErrorIs(t, err, storage.ErrTooManyItems)
		mockClient.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
	})
}

func TestGetGroup(t *testing.T) {
	groupAV, err := attributevalue.MarshalMap(groupRecord{ID: "g1", Name: "Flat", CreatedBy: "alice"})
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: groupAV}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return in.ExclusiveStartKey == nil && aws.ToBool(in.ConsistentRead)
		})).Return(&dynamodb.QueryOutput{
			Items:            []map[string]types.AttributeValue{memberItem(t, "g1", "bob", "-5.00", 2)},
			LastEvaluatedKey: map[string]types.AttributeValue{"member_id": &types.AttributeValueMemberS{Value: "bob"}},
		}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return in.ExclusiveStartKey != nil
		})).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{memberItem(t, "g1", "alice", "5.00", 3)},
		}, nil).Once()

		store := New(mockClient, testTables())
		group, err := store.GetGroup(context.Background(), "g1")

		require.NoError(t, err)
		require.Len(t, group.Members, 2)
		assert.Equal(t, "alice", group.Members[0].ID)
		assert.Equal(t, "5", group.Members[0].Balance.String())
		assert.Equal(t, int64(3), group.Members[0].Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil).Once()

		store := New(mockClient, testTables())
		_, err := store.GetGroup(context.Background(), "g1")

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Malformed Balance", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: groupAV}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{memberItem(t, "g1", "bob", "five", 1)},
		}, nil).Once()

		store := New(mockClient, testTables())
		_, err := store.GetGroup(context.Background(), "g1")

		assert.ErrorIs(t, err, storage.ErrMalformedRecord)
		mockClient.AssertExpectations(t)
	})

	t.Run("DynamoDB Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("dynamodb error")).Once()

		store := New(mockClient, testTables())
		_, err := store.GetGroup(context.Background(), "g1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get group from DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestGetMember(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
			return aws.ToString(in.TableName) == "members" && len(in.Key) == 2
		})).Return(&dynamodb.GetItemOutput{Item: memberItem(t, "g1", "bob", "-12.34", 4)}, nil).Once()

		store := New(mockClient, testTables())
		m, err := store.GetMember(context.Background(), "g1", "bob")

		require.NoError(t, err)
		assert.Equal(t, "-12.34", m.Balance.StringFixed(2))
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()

		store := New(mockClient, testTables())
		_, err := store.GetMember(context.Background(), "g1", "bob")

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestListGroupIDsForMember(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return aws.ToString(in.IndexName) == memberGroupsIndex
	})).Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{
			{"group_id": &types.AttributeValueMemberS{Value: "g2"}},
			{"group_id": &types.AttributeValueMemberS{Value: "g1"}},
		},
	}, nil).Once()

	store := New(mockClient, testTables())
	ids, err := store.ListGroupIDsForMember(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g2"}, ids)
	mockClient.AssertExpectations(t)
}

func TestListGroupIDs(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Scan", mock.Anything, mock.Anything).Return(&dynamodb.ScanOutput{
			Items: []map[string]types.AttributeValue{
				{"id": &types.AttributeValueMemberS{Value: "g1"}},
			},
		}, nil).Once()

		store := New(mockClient, testTables())
		ids, err := store.ListGroupIDs(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"g1"}, ids)
		mockClient.AssertExpectations(t)
	})

	t.Run("DynamoDB Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Scan", mock.Anything, mock.Anything).Return(nil, errors.New("dynamodb error")).Once()

		store := New(mockClient, testTables())
		_, err := store.ListGroupIDs(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to scan groups table")
	})
}
