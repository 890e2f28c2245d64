// Package migrate applies versioned SQL migrations and tracks them in a
// schema_version table.
package migrate

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Driver executes migrations against one database backend
type Driver interface {
	// EnsureVersionTable creates the schema_version table if it doesn't exist
	EnsureVersionTable(ctx context.Context) error

	// CurrentVersion returns 0 for a fresh database
	CurrentVersion(ctx context.Context) (int, error)

	// Apply runs the migration SQL and records its version in one transaction
	Apply(ctx context.Context, m Migration) error
}

// Runner manages database schema migrations
type Runner struct {
	driver Driver
	fs     fs.FS
	logger *zap.Logger
}

// NewRunner creates a new migration runner
func NewRunner(driver Driver, migrationFS fs.FS, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		driver: driver,
		fs:     migrationFS,
		logger: logger,
	}
}

// ReadMigrations parses NNN_name.sql files sorted by version
func (r *Runner) ReadMigrations() ([]Migration, error) {
	files, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		parts := strings.SplitN(file.Name(), "_", 2)
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid migration filename format: %s (expected NNN_name.sql)", file.Name())
		}

		version, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid version number in filename %s: %w", file.Name(), err)
		}
		if version < 1 {
			return nil, fmt.Errorf("invalid version number in filename %s: version must be at least 1", file.Name())
		}

		content, err := fs.ReadFile(r.fs, file.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", file.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    strings.TrimSuffix(parts[1], ".sql"),
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", migrations[i].Version)
		}
	}

	return migrations, nil
}

// Up applies all pending migrations and returns how many were applied
func (r *Runner) Up(ctx context.Context) (int, error) {
	if err := r.driver.EnsureVersionTable(ctx); err != nil {
		return 0, fmt.Errorf("failed to ensure schema_version table: %w", err)
	}

	current, err := r.driver.CurrentVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}

	migrations, err := r.ReadMigrations()
	if err != nil {
		return 0, err
	}
	if len(migrations) == 0 {
		r.logger.Info("no migration files found")
		return 0, nil
	}

	latest := migrations[len(migrations)-1].Version
	if current > latest {
		return 0, fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}

	startTime := time.Now()
	applied := 0
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		if err := r.driver.Apply(ctx, m); err != nil {
			return applied, fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
		}
		applied++

		r.logger.Info("migration applied", zap.Int("version", m.Version), zap.String("name", m.Name))
	}

	if applied == 0 {
		r.logger.Info("database schema is up to date", zap.Int("version", current))
	} else {
		r.logger.Info("migrations complete",
			zap.Int("applied", applied),
			zap.Int("version", latest),
			zap.Duration("duration", time.Since(startTime)),
		)
	}

	return applied, nil
}
