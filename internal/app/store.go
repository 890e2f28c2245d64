package app

import (
	"context"
	"fmt"

	"habitlog-service/internal/config"
	"habitlog-service/internal/domain/repository"
	"habitlog-service/internal/infrastructure/postgres"
	"habitlog-service/internal/infrastructure/sqlite"

	"go.uber.org/zap"
)

// Store is a repository.Store that can apply its own schema migrations
type Store interface {
	repository.Store
	Migrate(ctx context.Context, logger *zap.Logger) (int, error)
}

// OpenStore connects the backend selected by cfg.Driver
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath, cfg.TxTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite: %w", err)
		}
		return store, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return postgres.NewStore(pool, cfg.TxTimeout), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
