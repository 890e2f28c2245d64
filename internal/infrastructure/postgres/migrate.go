package postgres

import (
	"context"

	"habitlog-service/internal/infrastructure/migrate"
	"habitlog-service/migrations"

	"go.uber.org/zap"
)

// Migrate applies the embedded PostgreSQL migrations
func (s *Store) Migrate(ctx context.Context, logger *zap.Logger) (int, error) {
	return migrate.NewRunner(migrate.NewPgxDriver(s.pool), migrations.Postgres(), logger).Up(ctx)
}
