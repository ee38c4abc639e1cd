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
	// Load environment variables from .env file (useful for local testing).
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	slog.SetDefault(cfg.NewLogger(os.Stdout))

	// Initialize dependencies once per container.
	store, _, err := bootstrap.OpenStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("unable to open %s store: %v", cfg.StoreBackend, err)
	}
	handler := &Handler{Auditor: audit.New(store)}

	lambda.Start(handler.HandleRequest)
}
