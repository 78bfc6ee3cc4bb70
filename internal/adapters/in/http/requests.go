package http

import (
	"errors"

	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type addressRequest struct {
	Name     string `json:"name"     validate:"required,max=64"`
	Phone    string `json:"phone"    validate:"required_without=Mobile,max=32"`
	Mobile   string `json:"mobile"   validate:"required_without=Phone,max=32"`
	Province string `json:"province" validate:"required,max=32"`
	City     string `json:"city"     validate:"required,max=32"`
	District string `json:"district" validate:"max=32"`
	Town     string `json:"town"     validate:"max=32"`
	Detail   string `json:"detail"   validate:"required,max=255"`
}

func (r addressRequest) toDomain() (kernel.Address, error) {
	return kernel.NewAddress(kernel.AddressParams{
		Name:     r.Name,
		Phone:    r.Phone,
		Mobile:   r.Mobile,
		Province: r.Province,
		City:     r.City,
		District: r.District,
		Town:     r.Town,
		Detail:   r.Detail,
	})
}

type createOrderRequest struct {
	OrderCode string         `json:"orderCode" validate:"required,max=64"`
	Sender    addressRequest `json:"sender"`
	Receiver  addressRequest `json:"receiver"`
	Weight    string         `json:"weight"    validate:"required,numeric"`
	ItemType  string         `json:"itemType"  validate:"required,max=64"`
	ItemValue string         `json:"itemValue" validate:"omitempty,numeric"`
	Remark    string         `json:"remark"    validate:"max=255"`
}

func (r createOrderRequest) toCommand() (commands.CreatePickupOrderCommand, error) {
	sender, senderErr := r.Sender.toDomain()
	receiver, receiverErr := r.Receiver.toDomain()
	weight, weightErr := parseDecimal("weight", r.Weight)

	itemValue := decimal.Zero
	var itemValueErr error
	if r.ItemValue != "" {
		itemValue, itemValueErr = parseDecimal("itemValue", r.ItemValue)
	}

	if err := errors.Join(
		wrapField("sender", senderErr),
		wrapField("receiver", receiverErr),
		weightErr,
		itemValueErr,
	); err != nil {
		return commands.CreatePickupOrderCommand{}, err
	}

	return commands.NewCreatePickupOrderCommand(commands.CreatePickupOrderParams{
		OrderCode: r.OrderCode,
		Sender:    sender,
		Receiver:  receiver,
		Weight:    weight,
		ItemType:  r.ItemType,
		ItemValue: itemValue,
		Remark:    r.Remark,
	})
}

type cancelOrderRequest struct {
	Reason string `json:"reason" validate:"required,max=255"`
}

type modifyOrderRequest struct {
	Sender    *addressRequest `json:"sender"`
	Receiver  *addressRequest `json:"receiver"`
	Weight    *string         `json:"weight"    validate:"omitempty,numeric"`
	ItemType  *string         `json:"itemType"  validate:"omitempty,max=64"`
	ItemValue *string         `json:"itemValue" validate:"omitempty,numeric"`
	Remark    *string         `json:"remark"    validate:"omitempty,max=255"`
}

func (r modifyOrderRequest) toChanges() (order.OrderChanges, error) {
	changes := order.OrderChanges{ItemType: r.ItemType, Remark: r.Remark}
	var errList []error

	if r.Sender != nil {
		a, err := r.Sender.toDomain()
		errList = append(errList, wrapField("sender", err))
		changes.Sender = &a
	}
	if r.Receiver != nil {
		a, err := r.Receiver.toDomain()
		errList = append(errList, wrapField("receiver", err))
		changes.Receiver = &a
	}
	if r.Weight != nil {
		d, err := parseDecimal("weight", *r.Weight)
		errList = append(errList, err)
		changes.Weight = &d
	}
	if r.ItemValue != nil {
		d, err := parseDecimal("itemValue", *r.ItemValue)
		errList = append(errList, err)
		changes.ItemValue = &d
	}

	if err := errors.Join(errList...); err != nil {
		return order.OrderChanges{}, err
	}
	return changes, nil
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errs.NewValueIsInvalidErrorWithCause(field, err)
	}
	return d, nil
}

func wrapField(field string, err error) error {
	if err == nil {
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause(field, err)
}
