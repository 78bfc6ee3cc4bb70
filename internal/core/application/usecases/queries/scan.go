package queries

import (
	"database/sql"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"

	"github.com/google/uuid"
)

const orderColumns = `
	id,
	order_code,
	cainiao_order_code,
	mail_no,
	status,
	sender_name,
	sender_city,
	receiver_name,
	receiver_city,
	weight,
	item_type,
	item_value,
	courier_name,
	courier_phone,
	cp_code,
	cp_name,
	cancel_reason,
	cancel_time,
	last_update_time,
	version`

func scanOrderView(rows *sql.Rows) (OrderView, error) {
	var (
		view        OrderView
		id          uuid.UUID
		cainiaoCode sql.NullString
		cancelTime  sql.NullTime
		lastUpdate  sql.NullTime
	)

	err := rows.Scan(
		&id,
		&view.OrderCode,
		&cainiaoCode,
		&view.MailNo,
		&view.StatusCode,
		&view.SenderName,
		&view.SenderCity,
		&view.ReceiverName,
		&view.ReceiverCity,
		&view.Weight,
		&view.ItemType,
		&view.ItemValue,
		&view.CourierName,
		&view.CourierPhone,
		&view.CpCode,
		&view.CpName,
		&view.CancelReason,
		&cancelTime,
		&lastUpdate,
		&view.Version,
	)
	if err != nil {
		return OrderView{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return OrderView{}, err
	}
	view.ID = orderID
	view.CainiaoOrderCode = cainiaoCode.String
	if cancelTime.Valid {
		view.CancelTime = &cancelTime.Time
	}
	if lastUpdate.Valid {
		view.LastUpdateTime = &lastUpdate.Time
	}

	// Rows written by an older release may carry a code this build does not
	// know; the raw code is still returned.
	status := order.Status(view.StatusCode)
	view.StatusName = status.String()
	view.StatusLabel = status.Label()

	return view, nil
}
