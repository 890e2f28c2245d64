package postgres

import (
	"context"
	"fmt"
	"time"

	"habitlog-service/internal/domain/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
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

// Store is the PostgreSQL implementation of repository.Store
type Store struct {
	repositories
	pool      *pgxpool.Pool
	txTimeout time.Duration
}

// NewStore creates a store on an existing pool
func NewStore(pool *pgxpool.Pool, txTimeout time.Duration) *Store {
	return &Store{
		repositories: newRepositories(pool),
		pool:         pool,
		txTimeout:    txTimeout,
	}
}

// Pool returns the underlying pool
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Transaction runs fn in a READ COMMITTED transaction. The transaction is
// detached from caller cancellation and bounded by the tx timeout so a client
// disconnect cannot abort it halfway through.
func (s *Store) Transaction(ctx context.Context, fn repository.TxFunc) (err error) {
	txCtx := context.WithoutCancel(ctx)
	if s.txTimeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(txCtx, s.txTimeout)
		defer cancel()
	}

	tx, err := s.pool.BeginTx(txCtx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(txCtx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(txCtx)
		}
	}()

	if err = fn(txCtx, newRepositories(tx)); err != nil {
		return err
	}

	if err = tx.Commit(txCtx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}
