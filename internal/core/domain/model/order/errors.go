package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrder                  = errors.New("order error")
	ErrOrderCannotBeCancelled = errors.New("order cannot be cancelled")
	ErrOrderModification      = errors.New("order modification failed")
	ErrUnknownStatus          = errors.New("unknown order status")
)

// OrderError reports a violated precondition, for example a logistics sync
// on an order without a mail number.
type OrderError struct {
	OrderCode string
	Reason    string
}

// NewOrderError reports a local precondition that failed for orderCode.
func NewOrderError(orderCode, reason string) *OrderError {
	return &OrderError{OrderCode: orderCode, Reason: reason}
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("%s: order %s: %s", ErrOrder, e.OrderCode, e.Reason)
}

func (e *OrderError) Unwrap() error {
	return ErrOrder
}

// CannotBeCancelledError is returned when cancelling outside CREATE and WAREHOUSE_ACCEPT.
type CannotBeCancelledError struct {
	OrderCode string
	Status    Status
}

func (e *CannotBeCancelledError) Error() string {
	if e.OrderCode == "" {
		return fmt.Sprintf("%s in status %s", ErrOrderCannotBeCancelled, e.Status)
	}
	return fmt.Sprintf("%s: order %s is in status %s", ErrOrderCannotBeCancelled, e.OrderCode, e.Status)
}

func (e *CannotBeCancelledError) Unwrap() error {
	return ErrOrderCannotBeCancelled
}

// ModificationFailedError is returned when a change is rejected locally.
type ModificationFailedError struct {
	OrderCode string
	Status    Status
	Reason    string
}

func (e *ModificationFailedError) Error() string {
	return fmt.Sprintf("%s: order %s (status %s): %s", ErrOrderModification, e.OrderCode, e.Status, e.Reason)
}

func (e *ModificationFailedError) Unwrap() error {
	return ErrOrderModification
}

// UnknownStatusError reports a status code outside the known set.
type UnknownStatusError struct {
	Code string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownStatus, e.Code)
}

func (e *UnknownStatusError) Unwrap() error {
	return ErrUnknownStatus
}
