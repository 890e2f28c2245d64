package kafka

import (
	"context"
	"fmt"
	"time"

	"habitlog-service/internal/config"
	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/service"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var _ service.HabitEventPublisher = (*Producer)(nil)

// Producer handles publishing events to Kafka
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg config.KafkaConfig, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    10,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warn("failed to deliver events", zap.Int("count", len(messages)), zap.Error(err))
			}
		},
	}

	return &Producer{
		writer: writer,
		logger: logger,
	}
}

// PublishHabitLogged publishes a habit.logged event keyed by subscription
func (p *Producer) PublishHabitLogged(ctx context.Context, update *entity.StreakUpdate) error {
	data, err := EncodeHabitLogged(update, time.Now())
	if err != nil {
		return err
	}

	message := kafka.Message{
		Key:   []byte(update.UserHabitID.String()),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to publish habit logged event: %w", err)
	}

	p.logger.Debug("published habit logged event",
		zap.String("user_habit_id", update.UserHabitID.String()),
		zap.Int("streak", update.CurrentStreak),
	)
	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
