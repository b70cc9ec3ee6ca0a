package ingest

import (
	"context"
	"encoding/json"
	"log/slog"

	"credit-approval/internal/event"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EventHandler turns queued ingestion job events into service calls.
type EventHandler struct {
	service Service
	logger  *slog.Logger
}

func NewEventHandler(service Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger.With("component", "IngestionEventHandler"),
	}
}

func (h *EventHandler) HandleDelivery(ctx context.Context, d amqp.Delivery) {
	logCtx := h.logger.With(slog.Uint64("deliveryTag", d.DeliveryTag), slog.String("routingKey", d.RoutingKey))
	processed := false

	defer func() {
		if !processed {
			logCtx.WarnContext(ctx, "Message processing ended without explicit Ack/Nack")
			_ = d.Nack(false, false)
		}
	}()

	var job event.IngestionJobEvent
	if err := json.Unmarshal(d.Body, &job); err != nil {
		logCtx.ErrorContext(ctx, "Failed to unmarshal ingestion job event", "error", err, "body", string(d.Body))
		_ = d.Nack(false, false)
		processed = true
		return
	}
	logCtx = logCtx.With(slog.String("jobId", job.JobID), slog.String("file", job.FilePath))

	var summary string
	var err error
	switch d.RoutingKey {
	case event.RoutingKeyIngestCustomers:
		summary, err = h.service.IngestCustomers(ctx, job.FilePath)
	case event.RoutingKeyIngestLoans:
		summary, err = h.service.IngestLoans(ctx, job.FilePath)
	default:
		logCtx.WarnContext(ctx, "Received message with unknown routing key. Discarding.")
		_ = d.Reject(false)
		processed = true
		return
	}

	if err != nil {
		logCtx.ErrorContext(ctx, "Ingestion job failed", slog.Any("error", err))
		_ = d.Nack(false, false)
		processed = true
		return
	}

	logCtx.InfoContext(ctx, "Ingestion job finished", slog.String("summary", summary))
	_ = d.Ack(false)
	processed = true
}
