package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publisherAppID = "credit-approval"

type IngestionPublisher interface {
	// EnqueueCustomerIngestion schedules a customer spreadsheet load and
	// returns the job handle.
	EnqueueCustomerIngestion(ctx context.Context, filePath string) (string, error)

	// EnqueueLoanIngestion schedules a loan spreadsheet load and returns
	// the job handle.
	EnqueueLoanIngestion(ctx context.Context, filePath string) (string, error)
}

type RabbitMQIngestionPublisher struct {
	conn         *amqp.Connection
	exchangeName string
	logger       *slog.Logger
}

var _ IngestionPublisher = (*RabbitMQIngestionPublisher)(nil)

func NewRabbitMQIngestionPublisher(conn *amqp.Connection, exchangeName string, logger *slog.Logger) (*RabbitMQIngestionPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection cannot be nil")
	}
	if exchangeName == "" {
		return nil, fmt.Errorf("RabbitMQ exchange name cannot be empty")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	tempCh, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open temporary channel for exchange declaration: %w", err)
	}
	defer tempCh.Close()

	err = tempCh.ExchangeDeclare(
		exchangeName,
		amqp.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange '%s': %w", exchangeName, err)
	}
	logger.Info("Ensured RabbitMQ exchange exists", "exchange", exchangeName, "type", amqp.ExchangeTopic)

	return &RabbitMQIngestionPublisher{
		conn:         conn,
		exchangeName: exchangeName,
		logger:       logger.With("component", "RabbitMQIngestionPublisher", "exchange", exchangeName),
	}, nil
}

func (p *RabbitMQIngestionPublisher) EnqueueCustomerIngestion(ctx context.Context, filePath string) (string, error) {
	return p.enqueue(ctx, RoutingKeyIngestCustomers, filePath)
}

func (p *RabbitMQIngestionPublisher) EnqueueLoanIngestion(ctx context.Context, filePath string) (string, error) {
	return p.enqueue(ctx, RoutingKeyIngestLoans, filePath)
}

func (p *RabbitMQIngestionPublisher) enqueue(ctx context.Context, routingKey, filePath string) (string, error) {
	jobEvent := IngestionJobEvent{
		JobID:       uuid.NewString(),
		FilePath:    filePath,
		RequestedAt: time.Now().UTC(),
	}
	if err := p.publish(ctx, routingKey, jobEvent); err != nil {
		return "", err
	}
	return jobEvent.JobID, nil
}

func (p *RabbitMQIngestionPublisher) publish(ctx context.Context, routingKey string, payload interface{}) error {
	logCtx := p.logger.With(slog.String("routingKey", routingKey))

	channel, err := p.conn.Channel()
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to open RabbitMQ channel", slog.Any("error", err))
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer channel.Close()

	body, err := json.Marshal(payload)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to marshal event payload to JSON", slog.Any("error", err))
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = channel.PublishWithContext(
		ctx,
		p.exchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
			AppId:        publisherAppID,
		},
	)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to publish message to RabbitMQ", slog.Any("error", err))
		return fmt.Errorf("failed to publish message: %w", err)
	}

	logCtx.InfoContext(ctx, "Successfully published message")
	return nil
}
