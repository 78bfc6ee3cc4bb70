package commands

import (
	"context"
	"errors"
	"fmt"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/domain/services"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/errs"

	"go.uber.org/zap"
)

// CreatePickupOrderCommandHandler places a new order with the gateway. The
// order is only stored after the gateway returned its order code.
type CreatePickupOrderCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.PickupGateway
	publisher  ports.OrderEventPublisher
	selector   services.GatewaySelector
	logger     *zap.Logger
}

// NewCreatePickupOrderCommandHandler creates a handler for placing new pickup
// orders. The gateway config is chosen per call by a GatewaySelector.
func NewCreatePickupOrderCommandHandler(
	uowFactory UoWFactory,
	gateway ports.PickupGateway,
	publisher ports.OrderEventPublisher,
	logger *zap.Logger,
) CreatePickupOrderCommandHandler {
	return CreatePickupOrderCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		publisher:  publisher,
		selector:   services.NewGatewaySelector(),
		logger:     logger.Named("create_order"),
	}
}

// Handle builds the order, submits it to the gateway and stores it with the
// returned remote code. A duplicate order code fails before the gateway is
// called. Nothing is stored when the gateway rejects the order.
//
// Example:
//
//	handler := NewCreatePickupOrderCommandHandler(uowFactory, gateway, publisher, logger)
//	cmd, _ := NewCreatePickupOrderCommand(CreatePickupOrderParams{
//	    OrderCode: "PO-1001",
//	    Sender:    sender,
//	    Receiver:  receiver,
//	    Weight:    decimal.RequireFromString("1.5"),
//	    ItemType:  "document",
//	})
//
//	o, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("create pickup order: %w", err)
//	}
//	// o.CainiaoOrderCode() is now set
func (h *CreatePickupOrderCommandHandler) Handle(ctx context.Context, cmd CreatePickupOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	_, err := uow.OrderRepository().GetByCode(ctx, cmd.OrderCode())
	switch {
	case err == nil:
		return nil, errs.NewValueIsInvalidErrorWithCause("orderCode",
			fmt.Errorf("order %s already exists", cmd.OrderCode()))
	case !errors.Is(err, errs.ErrObjectNotFound):
		return nil, err
	}

	cfg, err := selectGatewayConfig(ctx, uow, h.selector)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(
		kernel.NewUUID(), cmd.OrderCode(), cmd.Sender(), cmd.Receiver(), cmd.Weight(), cmd.ItemType(),
		order.WithItemValue(cmd.ItemValue()),
		order.WithRemark(cmd.Remark()),
	)
	if err != nil {
		return nil, err
	}

	created, err := h.gateway.CreateOrder(ctx, cfg, o)
	if err != nil {
		h.logger.Error("gateway rejected order", zap.String("order_code", o.OrderCode()), zap.Error(err))
		return nil, err
	}

	if err = o.AssignRemoteCode(created.CainiaoOrderCode); err != nil {
		return nil, err
	}
	if created.MailNo != "" {
		if err = o.ApplyRemoteDetail(order.RemoteDetail{MailNo: &created.MailNo}); err != nil {
			return nil, err
		}
	}

	if err = saveOrder(ctx, h.uowFactory, o, true); err != nil {
		h.logger.Error("order created remotely but not stored",
			zap.String("order_code", o.OrderCode()),
			zap.String("cainiao_order_code", o.CainiaoOrderCode()),
			zap.Error(err),
		)
		return nil, err
	}

	h.logger.Info("order created",
		zap.String("order_code", o.OrderCode()),
		zap.String("cainiao_order_code", o.CainiaoOrderCode()),
	)
	publishDomainEvents(ctx, h.publisher, h.logger, o)
	return o, nil
}
