package commands

import (
	"context"

	"pickup/internal/core/domain/model/apiconfig"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/domain/services"
	"pickup/internal/core/ports"

	"go.uber.org/zap"
)

func selectGatewayConfig(
	ctx context.Context,
	uow UoW,
	selector services.GatewaySelector,
) (*apiconfig.Config, error) {
	configs, err := uow.ConfigRepository().FindValid(ctx)
	if err != nil {
		return nil, err
	}
	return selector.Select(configs)
}

// saveOrder writes the order in its own transaction. The deferred rollback
// is a no-op once Commit succeeded.
func saveOrder(ctx context.Context, uowFactory UoWFactory, o *order.Order, isNew bool) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	if isNew {
		if err := repo.Add(ctx, o); err != nil {
			return err
		}
	} else if err := repo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// publishDomainEvents forwards committed status changes. A failed publish is
// logged only: the database already holds the new state.
func publishDomainEvents(ctx context.Context, publisher ports.OrderEventPublisher, logger *zap.Logger, o *order.Order) {
	events := o.DomainEvents()
	if len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("failed to publish order events",
			zap.String("order_code", o.OrderCode()),
			zap.Int("events", len(events)),
			zap.Error(err),
		)
	}
	o.ClearDomainEvents()
}
