package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/expense-ledger/pkg/storage"
)

// memberGroupsIndex is the members table GSI keyed by member_id, projecting group_id.
const memberGroupsIndex = "member_id-index"

// maxTransactItems is the DynamoDB limit on items in one TransactWriteItems call.
const maxTransactItems = 100

// DynamoDBAPI is the subset of the DynamoDB client used by the Store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client                  DynamoDBAPI
	GroupsTableName         string
	MembersTableName        string
	FriendsTableName        string
	ExpensesTableName       string
	TransactionLogTableName string
}

// Tables names the five tables backing the Store.
type Tables struct {
	Groups         string
	Members        string
	Friends        string
	Expenses       string
	TransactionLog string
}

// New creates a new Store.
func New(client DynamoDBAPI, tables Tables) *Store {
	return &Store{
		Client:                  client,
		GroupsTableName:         tables.Groups,
		MembersTableName:        tables.Members,
		FriendsTableName:        tables.Friends,
		ExpensesTableName:       tables.Expenses,
		TransactionLogTableName: tables.TransactionLog,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)
