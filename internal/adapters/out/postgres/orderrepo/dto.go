package orderrepo

import (
	"time"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row. Addresses are embedded with sender_ and
// receiver_ column prefixes.
type OrderDTO struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderCode        string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	CainiaoOrderCode *string         `gorm:"type:varchar(64);uniqueIndex"`
	MailNo           string          `gorm:"type:varchar(64);index"`
	Status           string          `gorm:"type:varchar(16);not null;index"`
	Sender           AddressDTO      `gorm:"embedded;embeddedPrefix:sender_"`
	Receiver         AddressDTO      `gorm:"embedded;embeddedPrefix:receiver_"`
	Weight           decimal.Decimal `gorm:"type:numeric(12,3);not null"`
	ItemType         string          `gorm:"type:varchar(64);not null"`
	ItemValue        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Remark           string
	CourierName      string `gorm:"type:varchar(64)"`
	CourierPhone     string `gorm:"type:varchar(32)"`
	CpCode           string `gorm:"type:varchar(32)"`
	CpName           string `gorm:"type:varchar(64)"`
	CancelReason     string
	CancelTime       *time.Time
	LastUpdateTime   *time.Time
	Version          int       `gorm:"not null;default:1"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO holds the address columns embedded in OrderDTO.
type AddressDTO struct {
	Name     string `gorm:"type:varchar(64)"`
	Phone    string `gorm:"type:varchar(32)"`
	Mobile   string `gorm:"type:varchar(32)"`
	Province string `gorm:"type:varchar(32)"`
	City     string `gorm:"type:varchar(32)"`
	District string `gorm:"type:varchar(32)"`
	Town     string `gorm:"type:varchar(32)"`
	Detail   string `gorm:"type:varchar(255)"`
}

// LogisticsEventDTO is one tracking entry. Seq keeps the gateway's ordering.
type LogisticsEventDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;not null;index:idx_logistics_events_order_seq,priority:1"`
	Seq          int       `gorm:"not null;index:idx_logistics_events_order_seq,priority:2"`
	MailNo       string    `gorm:"type:varchar(64);not null"`
	Status       string    `gorm:"type:varchar(64)"`
	Description  string
	OccurredAt   time.Time `gorm:"not null"`
	Province     string    `gorm:"type:varchar(32)"`
	City         string    `gorm:"type:varchar(32)"`
	District     string    `gorm:"type:varchar(32)"`
	Address      string    `gorm:"type:varchar(255)"`
	CourierName  string    `gorm:"type:varchar(64)"`
	CourierPhone string    `gorm:"type:varchar(32)"`
}

func (LogisticsEventDTO) TableName() string {
	return "logistics_events"
}

func addressFromDomain(a kernel.Address) AddressDTO {
	p := a.Params()
	return AddressDTO(p)
}

func addressToDomain(dto AddressDTO) (kernel.Address, error) {
	return kernel.NewAddress(kernel.AddressParams(dto))
}

func fromDomain(o *order.Order) OrderDTO {
	var remote *string
	if code := o.CainiaoOrderCode(); code != "" {
		remote = &code
	}

	return OrderDTO{
		ID:               o.ID().Bytes(),
		OrderCode:        o.OrderCode(),
		CainiaoOrderCode: remote,
		MailNo:           o.MailNo(),
		Status:           o.Status().Code(),
		Sender:           addressFromDomain(o.Sender()),
		Receiver:         addressFromDomain(o.Receiver()),
		Weight:           o.Weight(),
		ItemType:         o.ItemType(),
		ItemValue:        o.ItemValue(),
		Remark:           o.Remark(),
		CourierName:      o.CourierName(),
		CourierPhone:     o.CourierPhone(),
		CpCode:           o.CpCode(),
		CpName:           o.CpName(),
		CancelReason:     o.CancelReason(),
		CancelTime:       o.CancelTime(),
		LastUpdateTime:   o.LastUpdateTime(),
		Version:          o.Version(),
	}
}

func eventsFromDomain(orderID uuid.UUID, events []order.LogisticsEvent) []LogisticsEventDTO {
	dtos := make([]LogisticsEventDTO, 0, len(events))
	for i, e := range events {
		dtos = append(dtos, LogisticsEventDTO{
			ID:           e.ID().Bytes(),
			OrderID:      orderID,
			Seq:          i,
			MailNo:       e.MailNo(),
			Status:       e.Status(),
			Description:  e.Description(),
			OccurredAt:   e.OccurredAt(),
			Province:     e.Province(),
			City:         e.City(),
			District:     e.District(),
			Address:      e.Address(),
			CourierName:  e.CourierName(),
			CourierPhone: e.CourierPhone(),
		})
	}
	return dtos
}

func eventToDomain(dto LogisticsEventDTO) (order.LogisticsEvent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.LogisticsEvent{}, err
	}
	return order.NewLogisticsEvent(order.LogisticsEventParams{
		ID:           id,
		MailNo:       dto.MailNo,
		Status:       dto.Status,
		Description:  dto.Description,
		OccurredAt:   dto.OccurredAt,
		Province:     dto.Province,
		City:         dto.City,
		District:     dto.District,
		Address:      dto.Address,
		CourierName:  dto.CourierName,
		CourierPhone: dto.CourierPhone,
	})
}

func toDomain(dto OrderDTO, eventDTOs []LogisticsEventDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	sender, err := addressToDomain(dto.Sender)
	if err != nil {
		return nil, err
	}
	receiver, err := addressToDomain(dto.Receiver)
	if err != nil {
		return nil, err
	}

	events := make([]order.LogisticsEvent, 0, len(eventDTOs))
	for _, e := range eventDTOs {
		event, eventErr := eventToDomain(e)
		if eventErr != nil {
			return nil, eventErr
		}
		events = append(events, event)
	}

	var remote string
	if dto.CainiaoOrderCode != nil {
		remote = *dto.CainiaoOrderCode
	}

	return order.RestoreOrder(order.Snapshot{
		ID:               id,
		OrderCode:        dto.OrderCode,
		CainiaoOrderCode: remote,
		MailNo:           dto.MailNo,
		Status:           order.Status(dto.Status),
		Sender:           sender,
		Receiver:         receiver,
		Weight:           dto.Weight,
		ItemType:         dto.ItemType,
		ItemValue:        dto.ItemValue,
		Remark:           dto.Remark,
		CourierName:      dto.CourierName,
		CourierPhone:     dto.CourierPhone,
		CpCode:           dto.CpCode,
		CpName:           dto.CpName,
		CancelReason:     dto.CancelReason,
		CancelTime:       dto.CancelTime,
		LastUpdateTime:   dto.LastUpdateTime,
		Version:          dto.Version,
		LogisticsEvents:  events,
	})
}
