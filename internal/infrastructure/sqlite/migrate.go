package sqlite

import (
	"context"

	"habitlog-service/internal/infrastructure/migrate"
	"habitlog-service/migrations"

	"go.uber.org/zap"
)

// Migrate applies the embedded SQLite migrations
func (s *Store) Migrate(ctx context.Context, logger *zap.Logger) (int, error) {
	return migrate.NewRunner(migrate.NewSQLDriver(s.db), migrations.SQLite(), logger).Up(ctx)
}
