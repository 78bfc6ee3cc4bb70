package order

import (
	"time"

	"pickup/internal/core/domain/model/kernel"
)

// StatusChanged is recorded whenever an order moves to a different status.
type StatusChanged struct {
	OrderID          kernel.UUID
	OrderCode        string
	CainiaoOrderCode string
	From             Status
	To               Status
	OccurredAt       time.Time
}

// EventName identifies the event on the message bus.
func (StatusChanged) EventName() string {
	return "order.status_changed"
}
