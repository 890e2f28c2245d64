package kafka

import (
	"context"
	"errors"
	"time"

	"habitlog-service/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// HabitLoggedHandler processes a decoded habit.logged event
type HabitLoggedHandler func(ctx context.Context, event *HabitLoggedEvent) error

// Consumer reads habit events from Kafka
type Consumer struct {
	reader  *kafka.Reader
	handler HabitLoggedHandler
	logger  *zap.Logger
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(cfg config.KafkaConfig, handler HabitLoggedHandler, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})

	return &Consumer{
		reader:  reader,
		handler: handler,
		logger:  logger,
	}
}

// Start consumes messages until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("starting kafka consumer", zap.String("topic", c.reader.Config().Topic))

	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.logger.Info("stopping kafka consumer")
				return nil
			}
			c.logger.Error("failed to read message", zap.Error(err))
			continue
		}

		if err := c.processMessage(ctx, message); err != nil {
			// Continue processing other messages even if one fails
			c.logger.Error("failed to process message",
				zap.Int64("offset", message.Offset),
				zap.Int("partition", message.Partition),
				zap.Error(err),
			)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, message kafka.Message) error {
	event, err := DecodeHabitLogged(message.Value)
	if err != nil {
		return err
	}

	c.logger.Debug("received event",
		zap.String("event_id", event.EventID),
		zap.String("user_habit_id", event.UserHabitID.String()),
		zap.Int("streak", event.Streak),
	)

	return c.handler(ctx, event)
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}
