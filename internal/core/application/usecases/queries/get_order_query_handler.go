package queries

import (
	"context"

	"pickup/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads a single order straight from the database,
// bypassing the aggregate.
//
// Example:
//
//	handler := NewGetOrderQueryHandler(db)
//	query, _ := NewGetOrderQuery("PO-1001")
//	resp, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown order code
//	}
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler reading through db.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError when no order has the code.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	view, found, err := h.loadOrder(ctx, query.OrderCode())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if !found {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderCode", query.OrderCode())
	}

	events, err := h.loadEvents(ctx, view)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return GetOrderQueryResponse{Order: view, Events: events}, nil
}

func (h GetOrderQueryHandler) loadOrder(ctx context.Context, orderCode string) (OrderView, bool, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE order_code = ?
	`, orderCode).Rows()
	if err != nil {
		return OrderView{}, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return OrderView{}, false, rows.Err()
	}
	view, err := scanOrderView(rows)
	if err != nil {
		return OrderView{}, false, err
	}
	return view, true, nil
}

func (h GetOrderQueryHandler) loadEvents(ctx context.Context, view OrderView) ([]LogisticsEventView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			mail_no,
			status,
			description,
			occurred_at,
			province,
			city,
			district,
			address,
			courier_name,
			courier_phone
		FROM logistics_events
		WHERE order_id = ?
		ORDER BY seq
	`, view.ID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]LogisticsEventView, 0)
	for rows.Next() {
		var e LogisticsEventView
		if err := rows.Scan(
			&e.MailNo,
			&e.Status,
			&e.Description,
			&e.OccurredAt,
			&e.Province,
			&e.City,
			&e.District,
			&e.Address,
			&e.CourierName,
			&e.CourierPhone,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
