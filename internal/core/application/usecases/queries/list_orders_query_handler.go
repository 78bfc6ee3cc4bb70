package queries

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler lists orders, oldest first, without their trails.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

// NewListOrdersQueryHandler creates a handler reading through db.
func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle returns orders oldest first.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(query.Statuses()))
	for _, s := range query.Statuses() {
		codes = append(codes, s.Code())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE cardinality(?::text[]) = 0 OR status = ANY(?::text[])
		ORDER BY created_at, id
	`, pq.Array(codes), pq.Array(codes)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]OrderView, 0)
	for rows.Next() {
		view, err := scanOrderView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, rows.Err()
}
