package commands

import (
	"errors"
	"strings"

	"pickup/internal/core/domain/model/order"
	"pickup/internal/pkg/errs"
	"pickup/internal/pkg/guard"
)

// ErrModifyOrderCommandIsNotConstructed is returned by Validate for a zero value.
var ErrModifyOrderCommandIsNotConstructed = errors.New(
	"ModifyOrderCommand must be created via NewModifyOrderCommand constructor",
)

// ModifyOrderCommand changes sender, receiver or package data of an order
// that is still in CREATE or WAREHOUSE_ACCEPT.
type ModifyOrderCommand struct { //nolint:recvcheck //using for validation
	orderCode string
	changes   order.OrderChanges

	guard guard.ConstructorGuard
}

// NewModifyOrderCommand validates the change set up front so that the
// gateway is never asked for a change the order would then reject.
func NewModifyOrderCommand(orderCode string, changes order.OrderChanges) (ModifyOrderCommand, error) {
	c := ModifyOrderCommand{
		orderCode: strings.TrimSpace(orderCode),
		changes:   changes,
		guard:     guard.NewConstructorGuard(),
	}

	var errList []error
	if c.orderCode == "" {
		errList = append(errList, errs.NewValueIsRequiredError("orderCode"))
	}
	if changes.IsEmpty() {
		errList = append(errList, errs.NewValueIsRequiredError("changes"))
	}
	if changes.Sender != nil {
		errList = append(errList, wrapAddress("sender", *changes.Sender))
	}
	if changes.Receiver != nil {
		errList = append(errList, wrapAddress("receiver", *changes.Receiver))
	}
	if changes.Weight != nil && !changes.Weight.IsPositive() {
		errList = append(errList, errs.NewValueIsInvalidError("weight"))
	}
	if changes.ItemType != nil && strings.TrimSpace(*changes.ItemType) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("itemType"))
	}
	if changes.ItemValue != nil && changes.ItemValue.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidError("itemValue"))
	}

	if err := errors.Join(errList...); err != nil {
		return ModifyOrderCommand{}, err
	}
	return c, nil
}

// Validate reports whether the command was built by NewModifyOrderCommand.
func (c ModifyOrderCommand) Validate() error {
	return c.guard.Validate(ErrModifyOrderCommandIsNotConstructed)
}

func (c ModifyOrderCommand) OrderCode() string           { return c.orderCode }
func (c ModifyOrderCommand) Changes() order.OrderChanges { return c.changes }
