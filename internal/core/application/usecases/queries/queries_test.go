package queries_test

import (
	"testing"

	"pickup/internal/core/application/usecases/queries"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetOrderQuery(t *testing.T) {
	q, err := queries.NewGetOrderQuery("  PO-1 ")
	require.NoError(t, err)
	assert.Equal(t, "PO-1", q.OrderCode())
	assert.NoError(t, q.Validate())

	_, err = queries.NewGetOrderQuery(" ")
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestGetOrderQuery_NotConstructedViaConstructor(t *testing.T) {
	err := queries.GetOrderQuery{}.Validate()
	assert.ErrorIs(t, err, queries.ErrGetOrderQueryIsNotConstructed)
}

func TestNewListOrdersQuery(t *testing.T) {
	q, err := queries.NewListOrdersQuery(order.UnfinishedStatuses()...)
	require.NoError(t, err)
	assert.Equal(t, order.UnfinishedStatuses(), q.Statuses())

	_, err = queries.NewListOrdersQuery(order.Create, order.Status("9999"))
	assert.ErrorIs(t, err, order.ErrUnknownStatus)
}

func TestListOrdersQuery_NotConstructedViaConstructor(t *testing.T) {
	err := queries.ListOrdersQuery{}.Validate()
	assert.ErrorIs(t, err, queries.ErrListOrdersQueryIsNotConstructed)
}
