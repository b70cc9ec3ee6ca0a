// Command ingest enqueues the two spreadsheet ingestion jobs and prints
// their job handles. The actual loading happens in the worker.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"credit-approval/internal/config"
	"credit-approval/internal/event"
	"credit-approval/internal/infrastructure/logging"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logging.NewLogger(cfg.Logger)

	conn, err := event.NewRabbitMQConnection(cfg.RabbitMQ)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", slog.Any("error", err))
		os.Exit(1)
	}
	defer conn.Close()

	publisher, err := event.NewRabbitMQIngestionPublisher(conn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to create ingestion publisher", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	customerJobID, err := publisher.EnqueueCustomerIngestion(ctx, cfg.Ingestion.CustomerFile)
	if err != nil {
		logger.Error("Failed to enqueue customer ingestion", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Printf("customer ingestion enqueued: job %s (%s)\n", customerJobID, cfg.Ingestion.CustomerFile)

	loanJobID, err := publisher.EnqueueLoanIngestion(ctx, cfg.Ingestion.LoanFile)
	if err != nil {
		logger.Error("Failed to enqueue loan ingestion", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Printf("loan ingestion enqueued: job %s (%s)\n", loanJobID, cfg.Ingestion.LoanFile)
}
