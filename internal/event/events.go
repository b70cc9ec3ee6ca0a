package event

import (
	"fmt"
	"time"

	"credit-approval/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	RoutingKeyIngestCustomers = "ingestion.customers"
	RoutingKeyIngestLoans     = "ingestion.loans"
)

// IngestionJobEvent asks a worker to load one spreadsheet into the
// database. JobID is the handle callers can correlate results with.
type IngestionJobEvent struct {
	JobID       string    `json:"jobId"`
	FilePath    string    `json:"filePath"`
	RequestedAt time.Time `json:"requestedAt"`
}

func NewRabbitMQConnection(cfg config.RabbitMQConfig) (*amqp.Connection, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%d/", cfg.Username, cfg.Password, cfg.Host, cfg.Port)
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ at %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return conn, nil
}
