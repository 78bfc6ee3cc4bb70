package commands

import (
	"context"

	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/domain/services"
	"pickup/internal/core/ports"

	"go.uber.org/zap"
)

// ModifyOrderCommandHandler forwards a change to the gateway and applies it
// locally once accepted.
type ModifyOrderCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.PickupGateway
	selector   services.GatewaySelector
	logger     *zap.Logger
}

// NewModifyOrderCommandHandler creates a handler for changing orders that
// have not been picked up yet.
func NewModifyOrderCommandHandler(
	uowFactory UoWFactory,
	gateway ports.PickupGateway,
	logger *zap.Logger,
) ModifyOrderCommandHandler {
	return ModifyOrderCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		selector:   services.NewGatewaySelector(),
		logger:     logger.Named("modify_order"),
	}
}

// Handle sends the change set to the gateway and applies it locally once the
// gateway accepted it. Orders outside CREATE and WAREHOUSE_ACCEPT, or without
// a remote code, fail before any remote call.
func (h *ModifyOrderCommandHandler) Handle(ctx context.Context, cmd ModifyOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	o, err := uow.OrderRepository().GetByCode(ctx, cmd.OrderCode())
	if err != nil {
		return nil, err
	}

	if err = o.ValidateModify(); err != nil {
		return nil, err
	}
	if err = o.RequireRemoteCode(); err != nil {
		return nil, err
	}

	cfg, err := selectGatewayConfig(ctx, uow, h.selector)
	if err != nil {
		return nil, err
	}

	if err = h.gateway.ModifyOrder(ctx, cfg, o.CainiaoOrderCode(), cmd.Changes()); err != nil {
		return nil, err
	}

	if err = o.Modify(cmd.Changes()); err != nil {
		return nil, err
	}

	if err = saveOrder(ctx, h.uowFactory, o, false); err != nil {
		return nil, err
	}

	h.logger.Info("order modified",
		zap.String("order_code", o.OrderCode()),
		zap.String("cainiao_order_code", o.CainiaoOrderCode()),
	)
	return o, nil
}
