package commands

import (
	"errors"
	"strings"

	"pickup/internal/pkg/guard"
)

// ErrSyncOrderDetailCommandIsNotConstructed is returned by Validate for a zero value.
var ErrSyncOrderDetailCommandIsNotConstructed = errors.New(
	"SyncOrderDetailCommand must be created via NewSyncOrderDetailCommand constructor",
)

// SyncOrderDetailCommand pulls remote order details. An empty order code
// selects batch mode over all unfinished orders.
type SyncOrderDetailCommand struct { //nolint:recvcheck //using for validation
	orderCode string

	guard guard.ConstructorGuard
}

// NewSyncOrderDetailCommand trims orderCode; an empty code selects batch mode.
func NewSyncOrderDetailCommand(orderCode string) SyncOrderDetailCommand {
	return SyncOrderDetailCommand{
		orderCode: strings.TrimSpace(orderCode),
		guard:     guard.NewConstructorGuard(),
	}
}

// Validate reports whether the command was built by NewSyncOrderDetailCommand.
func (c SyncOrderDetailCommand) Validate() error {
	return c.guard.Validate(ErrSyncOrderDetailCommandIsNotConstructed)
}

func (c SyncOrderDetailCommand) OrderCode() string { return c.orderCode }
func (c SyncOrderDetailCommand) IsBatch() bool     { return c.orderCode == "" }
