package commands

import (
	"errors"
	"strings"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/errs"
	"pickup/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrCreatePickupOrderCommandIsNotConstructed is returned by Validate for a zero value.
var ErrCreatePickupOrderCommandIsNotConstructed = errors.New(
	"CreatePickupOrderCommand must be created via NewCreatePickupOrderCommand constructor",
)

// CreatePickupOrderParams are the raw inputs of a new pickup request.
type CreatePickupOrderParams struct {
	OrderCode string
	Sender    kernel.Address
	Receiver  kernel.Address
	Weight    decimal.Decimal
	ItemType  string
	ItemValue decimal.Decimal
	Remark    string
}

// CreatePickupOrderCommand submits a new pickup order to the gateway and
// stores it once the gateway has accepted it.
//
// Example:
//
//	cmd, err := NewCreatePickupOrderCommand(CreatePickupOrderParams{
//	    OrderCode: "PO-1001",
//	    Sender:    sender,
//	    Receiver:  receiver,
//	    Weight:    decimal.RequireFromString("1.2"),
//	    ItemType:  "document",
//	})
type CreatePickupOrderCommand struct { //nolint:recvcheck //using for validation
	params CreatePickupOrderParams

	guard guard.ConstructorGuard
}

// NewCreatePickupOrderCommand validates every field at once and joins the
// errors, so a caller sees all problems in one response. Weight must be
// positive and the item value must not be negative.
//
// Example:
//
//	cmd, err := NewCreatePickupOrderCommand(CreatePickupOrderParams{
//	    OrderCode: "PO-1001",
//	    Sender:    sender,
//	    Receiver:  receiver,
//	    Weight:    decimal.RequireFromString("1.5"),
//	    ItemType:  "document",
//	})
//	if errors.Is(err, errs.ErrValueIsRequired) {
//	    // a mandatory field is blank
//	}
func NewCreatePickupOrderCommand(p CreatePickupOrderParams) (CreatePickupOrderCommand, error) {
	p.OrderCode = strings.TrimSpace(p.OrderCode)
	p.ItemType = strings.TrimSpace(p.ItemType)

	var codeErr, weightErr, typeErr, valueErr error
	if p.OrderCode == "" {
		codeErr = errs.NewValueIsRequiredError("orderCode")
	}
	if !p.Weight.IsPositive() {
		weightErr = errs.NewValueIsInvalidError("weight")
	}
	if p.ItemType == "" {
		typeErr = errs.NewValueIsRequiredError("itemType")
	}
	if p.ItemValue.IsNegative() {
		valueErr = errs.NewValueIsInvalidError("itemValue")
	}

	if err := errors.Join(
		codeErr,
		wrapAddress("sender", p.Sender),
		wrapAddress("receiver", p.Receiver),
		weightErr,
		typeErr,
		valueErr,
	); err != nil {
		return CreatePickupOrderCommand{}, err
	}

	return CreatePickupOrderCommand{params: p, guard: guard.NewConstructorGuard()}, nil
}

func wrapAddress(param string, a kernel.Address) error {
	if err := a.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return nil
}

// Validate reports whether the command was built by NewCreatePickupOrderCommand.
func (c CreatePickupOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreatePickupOrderCommandIsNotConstructed)
}

func (c CreatePickupOrderCommand) OrderCode() string          { return c.params.OrderCode }
func (c CreatePickupOrderCommand) Sender() kernel.Address     { return c.params.Sender }
func (c CreatePickupOrderCommand) Receiver() kernel.Address   { return c.params.Receiver }
func (c CreatePickupOrderCommand) Weight() decimal.Decimal    { return c.params.Weight }
func (c CreatePickupOrderCommand) ItemType() string           { return c.params.ItemType }
func (c CreatePickupOrderCommand) ItemValue() decimal.Decimal { return c.params.ItemValue }
func (c CreatePickupOrderCommand) Remark() string             { return c.params.Remark }
