package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"habitlog-service/internal/config"
	"habitlog-service/internal/infrastructure/kafka"
	"habitlog-service/internal/infrastructure/smtp"
	"habitlog-service/internal/service"

	"go.uber.org/zap"
)

// Notifier consumes habit.logged events and emails streak milestones
type Notifier struct {
	config   *config.Config
	logger   *zap.Logger
	store    Store
	consumer *kafka.Consumer
}

// NewNotifier creates the milestone notifier application
func NewNotifier() (*Notifier, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Kafka.Enabled {
		return nil, errors.New("notifier requires kafka.enabled")
	}

	log, err := NewLogger(cfg, cfg.Service.Name+"-notifier")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := OpenStore(context.Background(), cfg.Database)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	mailer, err := smtp.NewMailer(cfg.SMTP)
	if err != nil {
		store.Close()
		_ = log.Sync()
		return nil, fmt.Errorf("failed to create mailer: %w", err)
	}

	milestones := service.NewMilestoneNotifier(store, mailer, cfg.Notifier.Milestones, log)

	handler := func(ctx context.Context, event *kafka.HabitLoggedEvent) error {
		_, err := milestones.Notify(ctx, event.UserID, event.HabitID, event.Streak)
		return err
	}

	return &Notifier{
		config:   cfg,
		logger:   log,
		store:    store,
		consumer: kafka.NewConsumer(cfg.Kafka, handler, log),
	}, nil
}

// Run consumes events until a shutdown signal
func (n *Notifier) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	n.logger.Info("notifier started",
		zap.Strings("brokers", n.config.Kafka.Brokers),
		zap.String("topic", n.config.Kafka.Topic),
		zap.Ints("milestones", n.config.Notifier.Milestones),
	)

	err := n.consumer.Start(ctx)
	if err != nil {
		n.logger.Error("kafka consumer failed", zap.Error(err))
	}

	if cerr := n.consumer.Close(); cerr != nil {
		n.logger.Warn("failed to close kafka consumer", zap.Error(cerr))
	}
	n.store.Close()
	n.logger.Info("notifier stopped")
	_ = n.logger.Sync()

	return err
}
