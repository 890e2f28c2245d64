// Package sqlite implements the store on an embedded SQLite database.
// Writers are serialized on a single connection.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"habitlog-service/internal/domain/repository"

	_ "modernc.org/sqlite"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type repositories struct {
	users         repository.UserRepository
	habits        repository.HabitRepository
	subscriptions repository.SubscriptionRepository
	logs          repository.HabitLogRepository
}

func newRepositories(db DBTX) repositories {
	return repositories{
		users:         NewUserRepository(db),
		habits:        NewHabitRepository(db),
		subscriptions: NewSubscriptionRepository(db),
		logs:          NewHabitLogRepository(db),
	}
}

func (r repositories) Users() repository.UserRepository                 { return r.users }
func (r repositories) Habits() repository.HabitRepository               { return r.habits }
func (r repositories) Subscriptions() repository.SubscriptionRepository { return r.subscriptions }
func (r repositories) Logs() repository.HabitLogRepository              { return r.logs }

var _ repository.Store = (*Store)(nil)

// Store is the SQLite implementation of repository.Store
type Store struct {
	repositories
	db        *sql.DB
	txTimeout time.Duration
}

// Open opens (creating if needed) the database file at path
func Open(path string, txTimeout time.Duration) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: the streak read-modify-write relies on serialized writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		repositories: newRepositories(db),
		db:           db,
		txTimeout:    txTimeout,
	}, nil
}

// DB returns the underlying handle
func (s *Store) DB() *sql.DB {
	return s.db
}

// Transaction runs fn in a transaction detached from caller cancellation and
// bounded by the tx timeout
func (s *Store) Transaction(ctx context.Context, fn repository.TxFunc) (err error) {
	txCtx := context.WithoutCancel(ctx)
	if s.txTimeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(txCtx, s.txTimeout)
		defer cancel()
	}

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(txCtx, newRepositories(tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() {
	_ = s.db.Close()
}
