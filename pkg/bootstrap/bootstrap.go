// Package bootstrap builds the storage backend and event publisher selected by configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/expense-ledger/pkg/config"
	"github.com/chris/expense-ledger/pkg/events"
	"github.com/chris/expense-ledger/pkg/storage"
	"github.com/chris/expense-ledger/pkg/storage/dynamodb"
	"github.com/chris/expense-ledger/pkg/storage/memory"
	"github.com/chris/expense-ledger/pkg/storage/postgres"
)

// CloseFunc releases a resource opened by this package.
type CloseFunc func() error

func noClose() error { return nil }

// OpenStore opens the configured storage backend.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Storage, CloseFunc, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		slog.WarnContext(ctx, "using in-memory store, balances are lost on restart")
		return memory.New(), noClose, nil

	case config.BackendDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to load SDK config: %w", err)
		}
		store := dynamodb.New(awsdynamodb.NewFromConfig(awsCfg), dynamodb.Tables{
			Groups:         cfg.GroupsTable,
			Members:        cfg.MembersTable,
			Friends:        cfg.FriendsTable,
			Expenses:       cfg.ExpensesTable,
			TransactionLog: cfg.TransactionLogTable,
		})
		return store, noClose, nil

	case config.BackendPostgres:
		store, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// NewPublisher builds the configured publisher for committed-expense events.
func NewPublisher(ctx context.Context, cfg *config.Config) (events.Publisher, CloseFunc, error) {
	switch cfg.EventsBackend {
	case config.EventsNone:
		return &events.NoOpPublisher{}, noClose, nil

	case config.EventsSQS:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to load SDK config: %w", err)
		}
		return events.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL), noClose, nil

	case config.EventsAMQP:
		publisher, err := events.DialAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return nil, nil, err
		}
		return publisher, publisher.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown events backend %q", cfg.EventsBackend)
}
