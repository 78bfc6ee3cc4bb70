package commands

import (
	"errors"
	"strings"

	"pickup/internal/pkg/errs"
	"pickup/internal/pkg/guard"
)

// ErrCancelOrderCommandIsNotConstructed is returned by Validate for a zero value.
var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand cancels an order that has not been processed by the warehouse yet.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderCode string
	reason    string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand requires both an order code and a non-blank reason.
func NewCancelOrderCommand(orderCode, reason string) (CancelOrderCommand, error) {
	c := CancelOrderCommand{
		orderCode: strings.TrimSpace(orderCode),
		reason:    strings.TrimSpace(reason),
		guard:     guard.NewConstructorGuard(),
	}

	var codeErr, reasonErr error
	if c.orderCode == "" {
		codeErr = errs.NewValueIsRequiredError("orderCode")
	}
	if c.reason == "" {
		reasonErr = errs.NewValueIsRequiredError("reason")
	}
	if err := errors.Join(codeErr, reasonErr); err != nil {
		return CancelOrderCommand{}, err
	}

	return c, nil
}

// Validate reports whether the command was built by NewCancelOrderCommand.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderCode() string { return c.orderCode }
func (c CancelOrderCommand) Reason() string    { return c.reason }
