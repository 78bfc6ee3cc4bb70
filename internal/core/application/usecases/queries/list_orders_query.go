package queries

import (
	"errors"

	"pickup/internal/core/domain/model/order"
	"pickup/internal/pkg/guard"
)

// ErrListOrdersQueryIsNotConstructed is returned by Validate for a zero value.
var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists orders whose status is in the given set. An empty set
// lists every order.
type ListOrdersQuery struct {
	statuses []order.Status
	guard    guard.ConstructorGuard
}

// NewListOrdersQuery rejects status codes the state machine does not know.
func NewListOrdersQuery(statuses ...order.Status) (ListOrdersQuery, error) {
	errList := make([]error, 0, len(statuses))
	for _, s := range statuses {
		if err := s.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if err := errors.Join(errList...); err != nil {
		return ListOrdersQuery{}, err
	}

	return ListOrdersQuery{
		statuses: append([]order.Status(nil), statuses...),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Statuses returns a copy of the filter. Empty means all statuses.
func (q ListOrdersQuery) Statuses() []order.Status {
	return append([]order.Status(nil), q.statuses...)
}

// Validate reports whether the query was built by NewListOrdersQuery.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}
