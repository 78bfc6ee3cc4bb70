// Package queries holds read-side handlers that go straight to the database
// without loading aggregates.
package queries

import (
	"time"

	"pickup/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// OrderView is the flat read model of a pickup order.
type OrderView struct {
	ID               kernel.UUID
	OrderCode        string
	CainiaoOrderCode string
	MailNo           string
	StatusCode       string
	StatusName       string
	StatusLabel      string
	SenderName       string
	SenderCity       string
	ReceiverName     string
	ReceiverCity     string
	Weight           decimal.Decimal
	ItemType         string
	ItemValue        decimal.Decimal
	CourierName      string
	CourierPhone     string
	CpCode           string
	CpName           string
	CancelReason     string
	CancelTime       *time.Time
	LastUpdateTime   *time.Time
	Version          int
}

// LogisticsEventView is one stored tracking event.
type LogisticsEventView struct {
	MailNo       string
	Status       string
	Description  string
	OccurredAt   time.Time
	Province     string
	City         string
	District     string
	Address      string
	CourierName  string
	CourierPhone string
}
