package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository stores orders in the orders table and their tracking
// trail in logistics_events.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository reports every written aggregate to tracker.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order at version 1 together with its trail.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	dto := fromDomain(aggregate)
	dto.Version = 1
	if err := db.Create(&dto).Error; err != nil {
		return err
	}

	if err := r.insertEvents(db, dto.ID, aggregate.LogisticsEvents()); err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the order only if the stored version still matches; a
// mismatch returns errs.VersionIsInvalidError. A replaced trail is deleted
// and re-inserted.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	dto := fromDomain(aggregate)
	expected := dto.Version
	dto.Version = expected + 1

	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.OrderCode())
		}
		return errs.NewVersionIsInvalidError(aggregate.OrderCode(),
			fmt.Errorf("expected version %d was changed by another writer", expected))
	}

	if aggregate.LogisticsEventsReplaced() {
		if err := db.Where("order_id = ?", dto.ID).Delete(&LogisticsEventDTO{}).Error; err != nil {
			return err
		}
		if err := r.insertEvents(db, dto.ID, aggregate.LogisticsEvents()); err != nil {
			return err
		}
	}

	aggregate.MarkPersisted(dto.Version)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetByCode loads the order and its trail ordered by sequence. An unknown
// code returns errs.ObjectNotFoundError.
func (r *GormOrderRepository) GetByCode(ctx context.Context, orderCode string) (*order.Order, error) {
	db := r.db.WithContext(ctx)

	var dto OrderDTO
	if err := db.First(&dto, "order_code = ?", orderCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderCode", orderCode)
		}
		return nil, err
	}

	var events []LogisticsEventDTO
	if err := db.Where("order_id = ?", dto.ID).Order("seq").Find(&events).Error; err != nil {
		return nil, err
	}

	return toDomain(dto, events)
}

// FindByStatuses skips rows that fail to restore and lists them in a
// *ports.UnreadableOrdersError returned together with the loaded orders.
func (r *GormOrderRepository) FindByStatuses(ctx context.Context, statuses []order.Status) ([]*order.Order, error) {
	if len(statuses) == 0 {
		return []*order.Order{}, nil
	}

	codes := make([]string, 0, len(statuses))
	for _, s := range statuses {
		codes = append(codes, s.Code())
	}

	db := r.db.WithContext(ctx)
	var dtos []OrderDTO
	if err := db.Where("status IN ?", codes).Order("created_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return []*order.Order{}, nil
	}

	ids := make([]uuid.UUID, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.ID)
	}

	var eventDTOs []LogisticsEventDTO
	if err := db.Where("order_id IN ?", ids).Order("order_id, seq").Find(&eventDTOs).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[uuid.UUID][]LogisticsEventDTO, len(dtos))
	for _, e := range eventDTOs {
		byOrder[e.OrderID] = append(byOrder[e.OrderID], e)
	}

	orders := make([]*order.Order, 0, len(dtos))
	var unreadable []ports.UnreadableOrder
	for _, dto := range dtos {
		o, err := toDomain(dto, byOrder[dto.ID])
		if err != nil {
			item := ports.UnreadableOrder{OrderCode: dto.OrderCode, Err: err}
			if dto.CainiaoOrderCode != nil {
				item.CainiaoOrderCode = *dto.CainiaoOrderCode
			}
			unreadable = append(unreadable, item)
			continue
		}
		orders = append(orders, o)
	}

	if len(unreadable) > 0 {
		return orders, &ports.UnreadableOrdersError{Orders: unreadable}
	}
	return orders, nil
}

func (r *GormOrderRepository) insertEvents(db *gorm.DB, orderID uuid.UUID, events []order.LogisticsEvent) error {
	if len(events) == 0 {
		return nil
	}
	dtos := eventsFromDomain(orderID, events)
	return db.CreateInBatches(&dtos, 100).Error
}
