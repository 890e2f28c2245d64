package repository

import "context"

// Repositories groups the entity repositories bound to one connection or transaction
type Repositories interface {
	Users() UserRepository
	Habits() HabitRepository
	Subscriptions() SubscriptionRepository
	Logs() HabitLogRepository
}

// TxFunc is executed inside a store transaction
type TxFunc func(ctx context.Context, tx Repositories) error

// Store is the transactional persistence boundary.
//
// Transaction runs fn inside a single transaction: it commits when fn returns
// nil and rolls back on any error or panic. The underlying connection is
// always returned to the pool.
type Store interface {
	Repositories

	Transaction(ctx context.Context, fn TxFunc) error

	// Ping verifies connectivity
	Ping(ctx context.Context) error

	// Close releases the pool
	Close()
}
