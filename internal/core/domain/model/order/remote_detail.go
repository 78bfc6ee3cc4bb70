package order

import (
	"time"

	"pickup/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// RemoteDetail is the order detail returned by the gateway. A nil field was
// absent (or empty) in the response and must not overwrite local data.
type RemoteDetail struct {
	StatusCode     *string
	Weight         *decimal.Decimal
	ItemValue      *decimal.Decimal
	CourierName    *string
	CourierPhone   *string
	MailNo         *string
	CpCode         *string
	CpName         *string
	LastUpdateTime *time.Time
}

// OrderChanges describes a user-requested modification. Nil fields are left as they are.
type OrderChanges struct {
	Sender    *kernel.Address
	Receiver  *kernel.Address
	Weight    *decimal.Decimal
	ItemType  *string
	ItemValue *decimal.Decimal
	Remark    *string
}

// IsEmpty reports whether no field is set.
func (c OrderChanges) IsEmpty() bool {
	return c.Sender == nil && c.Receiver == nil && c.Weight == nil &&
		c.ItemType == nil && c.ItemValue == nil && c.Remark == nil
}
