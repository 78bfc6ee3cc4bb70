package commands

import (
	"errors"
	"strings"

	"pickup/internal/pkg/guard"
)

// ErrSyncLogisticsCommandIsNotConstructed is returned by Validate for a zero value.
var ErrSyncLogisticsCommandIsNotConstructed = errors.New(
	"SyncLogisticsCommand must be created via NewSyncLogisticsCommand constructor",
)

// SyncLogisticsCommand refreshes tracking trails. An empty order code
// selects batch mode over all orders shipped from the warehouse.
type SyncLogisticsCommand struct { //nolint:recvcheck //using for validation
	orderCode string

	guard guard.ConstructorGuard
}

// NewSyncLogisticsCommand trims orderCode; an empty code selects batch mode.
func NewSyncLogisticsCommand(orderCode string) SyncLogisticsCommand {
	return SyncLogisticsCommand{
		orderCode: strings.TrimSpace(orderCode),
		guard:     guard.NewConstructorGuard(),
	}
}

// Validate reports whether the command was built by NewSyncLogisticsCommand.
func (c SyncLogisticsCommand) Validate() error {
	return c.guard.Validate(ErrSyncLogisticsCommandIsNotConstructed)
}

func (c SyncLogisticsCommand) OrderCode() string { return c.orderCode }
func (c SyncLogisticsCommand) IsBatch() bool     { return c.orderCode == "" }
