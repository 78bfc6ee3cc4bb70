package ports

import (
	"context"
	"errors"

	"pickup/internal/core/domain/model/apiconfig"
	"pickup/internal/core/domain/model/order"
)

// ErrGateway is wrapped by every error a PickupGateway returns for a failed
// remote call.
var ErrGateway = errors.New("pickup gateway failure")

// CreatedOrder is what the gateway returns for a new pickup order.
type CreatedOrder struct {
	CainiaoOrderCode string
	MailNo           string
}

// PickupGateway is the remote logistics provider. Every call is a single
// attempt signed with cfg; failures are returned as-is for the caller to
// decide on.
type PickupGateway interface {
	CreateOrder(ctx context.Context, cfg *apiconfig.Config, o *order.Order) (CreatedOrder, error)

	CancelOrder(ctx context.Context, cfg *apiconfig.Config, cainiaoOrderCode, reason string) error

	ModifyOrder(ctx context.Context, cfg *apiconfig.Config, cainiaoOrderCode string, changes order.OrderChanges) error

	// QueryOrderDetail returns only the fields present in the remote response.
	QueryOrderDetail(ctx context.Context, cfg *apiconfig.Config, cainiaoOrderCode string) (order.RemoteDetail, error)

	// QueryLogistics returns the full tracking trail for a shipment.
	QueryLogistics(ctx context.Context, cfg *apiconfig.Config, cainiaoOrderCode, mailNo string) ([]order.LogisticsEvent, error)
}
