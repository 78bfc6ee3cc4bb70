package order

import (
	"errors"
	"strings"
	"time"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/errs"
)

// LogisticsEvent is one entry of a shipment's tracking trail. Events belong
// to exactly one order and are replaced wholesale on every logistics sync.
type LogisticsEvent struct {
	id           kernel.UUID
	mailNo       string
	status       string
	description  string
	occurredAt   time.Time
	province     string
	city         string
	district     string
	address      string
	courierName  string
	courierPhone string
}

// LogisticsEventParams holds the raw fields of a tracking entry.
type LogisticsEventParams struct {
	ID           kernel.UUID
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

// NewLogisticsEvent builds an event, generating an id when none is given.
func NewLogisticsEvent(p LogisticsEventParams) (LogisticsEvent, error) {
	if p.ID.IsZero() {
		p.ID = kernel.NewUUID()
	}

	var timeErr error
	if p.OccurredAt.IsZero() {
		timeErr = errs.NewValueIsRequiredError("occurredAt")
	}

	mailNo := strings.TrimSpace(p.MailNo)
	var mailErr error
	if mailNo == "" {
		mailErr = errs.NewValueIsRequiredError("mailNo")
	}

	if err := errors.Join(mailErr, timeErr); err != nil {
		return LogisticsEvent{}, err
	}

	return LogisticsEvent{
		id:           p.ID,
		mailNo:       mailNo,
		status:       p.Status,
		description:  p.Description,
		occurredAt:   p.OccurredAt,
		province:     p.Province,
		city:         p.City,
		district:     p.District,
		address:      p.Address,
		courierName:  p.CourierName,
		courierPhone: p.CourierPhone,
	}, nil
}

func (e LogisticsEvent) ID() kernel.UUID       { return e.id }
func (e LogisticsEvent) MailNo() string        { return e.mailNo }
func (e LogisticsEvent) Status() string        { return e.status }
func (e LogisticsEvent) Description() string   { return e.description }
func (e LogisticsEvent) OccurredAt() time.Time { return e.occurredAt }
func (e LogisticsEvent) Province() string      { return e.province }
func (e LogisticsEvent) City() string          { return e.city }
func (e LogisticsEvent) District() string      { return e.district }
func (e LogisticsEvent) Address() string       { return e.address }
func (e LogisticsEvent) CourierName() string   { return e.courierName }
func (e LogisticsEvent) CourierPhone() string  { return e.courierPhone }

// SameContent compares everything except the generated id.
func (e LogisticsEvent) SameContent(other LogisticsEvent) bool {
	a, b := e, other
	a.id, b.id = kernel.UUID{}, kernel.UUID{}
	return a.occurredAt.Equal(b.occurredAt) && a.withoutTime() == b.withoutTime()
}

func (e LogisticsEvent) withoutTime() LogisticsEvent {
	e.occurredAt = time.Time{}
	return e
}
