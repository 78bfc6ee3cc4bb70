package commands

import (
	"context"
	"time"

	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/domain/services"
	"pickup/internal/core/ports"

	"go.uber.org/zap"
)

// CancelOrderCommandHandler checks the cancel precondition locally, cancels
// at the gateway and then stores the CANCELLED state.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.PickupGateway
	publisher  ports.OrderEventPublisher
	selector   services.GatewaySelector
	logger     *zap.Logger
	now        func() time.Time
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
// Status changes are published through publisher after the commit.
func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	gateway ports.PickupGateway,
	publisher ports.OrderEventPublisher,
	logger *zap.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		publisher:  publisher,
		selector:   services.NewGatewaySelector(),
		logger:     logger.Named("cancel_order"),
		now:        time.Now,
	}
}

// Handle cancels the order identified by cmd.
//
// The cancel precondition is checked before any remote call, so an order in a
// terminal status returns CannotBeCancelledError without touching the gateway.
// An order that was never submitted is cancelled locally only.
//
// Example:
//
//	handler := NewCancelOrderCommandHandler(uowFactory, gateway, publisher, logger)
//	cmd, _ := NewCancelOrderCommand("PO-1001", "customer changed plans")
//
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrOrderCannotBeCancelled) {
//	    // already picked up or finished
//	}
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	o, err := uow.OrderRepository().GetByCode(ctx, cmd.OrderCode())
	if err != nil {
		return nil, err
	}

	if err = o.ValidateCancel(); err != nil {
		return nil, err
	}

	// Orders never accepted by the gateway are cancelled locally only.
	if o.IsSubmitted() {
		cfg, err := selectGatewayConfig(ctx, uow, h.selector)
		if err != nil {
			return nil, err
		}
		if err = h.gateway.CancelOrder(ctx, cfg, o.CainiaoOrderCode(), cmd.Reason()); err != nil {
			return nil, err
		}
	}

	if err = o.Cancel(cmd.Reason(), h.now().UTC()); err != nil {
		return nil, err
	}

	if err = saveOrder(ctx, h.uowFactory, o, false); err != nil {
		return nil, err
	}

	h.logger.Info("order cancelled",
		zap.String("order_code", o.OrderCode()),
		zap.String("cainiao_order_code", o.CainiaoOrderCode()),
		zap.String("reason", cmd.Reason()),
	)
	publishDomainEvents(ctx, h.publisher, h.logger, o)
	return o, nil
}
