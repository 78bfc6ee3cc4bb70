package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command or per batch item.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a transaction boundary. Repositories obtained from it join the
// transaction started by Begin.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit returns an error when no transaction is active.
	Commit(ctx context.Context) error

	// Rollback returns an error when no transaction is active. Calling it after
	// Commit is safe to ignore.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository

	ConfigRepository() ConfigRepository
}
