package ports

import (
	"context"
	"fmt"
	"strings"

	"pickup/internal/core/domain/model/order"
	"pickup/internal/pkg/errs"
)

// ErrConcurrentModification is matched (errors.Is) by the error Update returns
// when the stored version no longer equals the aggregate's version.
var ErrConcurrentModification = errs.ErrVersionIsInvalid

// OrderRepository defines the persistence contract for order aggregates,
// including their logistics trail.
type OrderRepository interface {
	// Add persists a new order. The stored version starts at 1.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes guarded by the aggregate's version. When the
	// aggregate replaced its logistics events, the stored trail is deleted and
	// re-inserted in the same transaction.
	Update(ctx context.Context, aggregate *order.Order) error

	// GetByCode loads an order and its logistics events by the local order code.
	// Returns an errs.ObjectNotFoundError when no such order exists.
	GetByCode(ctx context.Context, orderCode string) (*order.Order, error)

	// FindByStatuses returns all orders whose status is in the given set,
	// oldest first. An empty result is not an error. Rows that cannot be
	// restored are left out of the slice and reported through an
	// *UnreadableOrdersError returned next to the orders that did load.
	FindByStatuses(ctx context.Context, statuses []order.Status) ([]*order.Order, error)
}

// UnreadableOrder is a stored order row that could not be turned back into an
// aggregate.
type UnreadableOrder struct {
	OrderCode        string
	CainiaoOrderCode string
	Err              error
}

// UnreadableOrdersError accompanies a partial FindByStatuses result. Callers
// that process orders one by one should record each failure and carry on.
type UnreadableOrdersError struct {
	Orders []UnreadableOrder
}

// Error lists the codes of the orders that could not be restored.
func (e *UnreadableOrdersError) Error() string {
	codes := make([]string, 0, len(e.Orders))
	for _, o := range e.Orders {
		codes = append(codes, o.OrderCode)
	}
	return fmt.Sprintf("%d stored orders cannot be restored: %s", len(e.Orders), strings.Join(codes, ", "))
}

// Unwrap exposes each restore error to errors.Is and errors.As.
func (e *UnreadableOrdersError) Unwrap() []error {
	out := make([]error, 0, len(e.Orders))
	for _, o := range e.Orders {
		out = append(out, o.Err)
	}
	return out
}
