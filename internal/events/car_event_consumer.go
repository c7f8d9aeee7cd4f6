package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/wheelshare/service-rental/internal/domain/car"
)

// CacheInvalidator drops cached read-side entries for a car.
type CacheInvalidator interface {
	InvalidateCar(id car.CarID)
}

// CarEventConsumer listens to car events and invalidates the car cache,
// so replicas serving cached reads converge after a write.
type CarEventConsumer struct {
	consumer *Consumer
	cache    CacheInvalidator
	logger   *zap.Logger
}

// NewCarEventConsumer creates a CarEventConsumer.
func NewCarEventConsumer(brokers []string, groupID string, cache CacheInvalidator, logger *zap.Logger) *CarEventConsumer {
	consumer := NewConsumer(brokers, groupID, TopicCarEvents, logger)
	return &CarEventConsumer{
		consumer: consumer,
		cache:    cache,
		logger:   logger,
	}
}

// Start begins consuming car events. Blocks until the context is cancelled.
func (c *CarEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *CarEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *CarEventConsumer) handleMessage(_ context.Context, msg kafkago.Message) error {
	ce, err := ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from car topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // don't retry malformed messages
	}

	if ce.Type != CarUpdated {
		c.logger.Debug("ignoring unhandled car event type", zap.String("type", ce.Type))
		return nil
	}

	var evt CarUpdatedEvent
	if err := ce.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse CarUpdatedEvent data", zap.Error(err))
		return nil
	}

	c.cache.InvalidateCar(evt.CarID)
	c.logger.Debug("car cache invalidated", zap.Int64("car_id", int64(evt.CarID)))
	return nil
}
