package queries

import (
	"errors"
	"strings"

	"pickup/internal/pkg/errs"
	"pickup/internal/pkg/guard"
)

// ErrGetOrderQueryIsNotConstructed is returned by Validate for a zero value.
var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery loads one order with its logistics trail by merchant order code.
type GetOrderQuery struct {
	orderCode string
	guard     guard.ConstructorGuard
}

// NewGetOrderQuery requires a non-blank order code.
func NewGetOrderQuery(orderCode string) (GetOrderQuery, error) {
	orderCode = strings.TrimSpace(orderCode)
	if orderCode == "" {
		return GetOrderQuery{}, errs.NewValueIsRequiredError("orderCode")
	}
	return GetOrderQuery{orderCode: orderCode, guard: guard.NewConstructorGuard()}, nil
}

// OrderCode returns the trimmed order code.
func (q GetOrderQuery) OrderCode() string {
	return q.orderCode
}

// Validate reports whether the query was built by NewGetOrderQuery.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// GetOrderQueryResponse is one order with its tracking trail, oldest event first.
type GetOrderQueryResponse struct {
	Order  OrderView
	Events []LogisticsEventView
}
