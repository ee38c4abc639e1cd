package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/expense-ledger/pkg/audit"
	"github.com/chris/expense-ledger/pkg/bootstrap"
	"github.com/chris/expense-ledger/pkg/config"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	slog.SetDefault(cfg.NewLogger(os.Stdout))

	store, _, err := bootstrap.OpenStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("unable to open %s store: %v", cfg.StoreBackend, err)
	}
	handler := &Handler{Auditor: audit.New(store)}

	lambda.Start(handler.HandleRequest)
}
