// Package commands contains the operations that change pickup orders:
// creating, cancelling and modifying them through the gateway, and the two
// sync operations that pull remote state into local storage.
//
// Every handler follows the same shape: validate the command, make the
// remote call outside any transaction, then persist in a short unit of work
// guarded by the order's version.
package commands

import (
	"context"

	"pickup/internal/core/ports"
)

// Unit of Work interfaces narrowed to what the handlers use.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	ConfigRepoFactory interface {
		ConfigRepository() ports.ConfigRepository
	}

	// UoW gives handlers transactional access to orders and provider configs.
	UoW interface {
		TxManager
		OrderRepoFactory
		ConfigRepoFactory
	}

	// UoWFactory creates a new UoW per command or per batch item.
	UoWFactory interface {
		Create() UoW
	}
)
