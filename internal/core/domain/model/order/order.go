package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrOrderIsNotConstructed is returned by Validate for an order that was not
// built by NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root for a pickup request. It is created locally,
// submitted to the gateway (which assigns cainiaoOrderCode) and afterwards
// follows whatever status the gateway reports.
//
// Invariants:
//   - cainiaoOrderCode never changes once assigned
//   - status is always one of the known statuses
//   - logistics events are only attached to orders with a mail number
type Order struct {
	id               kernel.UUID
	orderCode        string
	cainiaoOrderCode string
	mailNo           string
	status           Status

	sender   kernel.Address
	receiver kernel.Address

	weight    decimal.Decimal
	itemType  string
	itemValue decimal.Decimal
	remark    string

	courierName  string
	courierPhone string
	cpCode       string
	cpName       string

	cancelReason   string
	cancelTime     *time.Time
	lastUpdateTime *time.Time

	version int

	logisticsEvents []LogisticsEvent
	eventsReplaced  bool

	domainEvents []StatusChanged

	isConstructed bool
}

// Option sets an optional attribute on a new order.
type Option func(*Order)

// WithItemValue declares the goods value. A negative value makes NewOrder fail.
func WithItemValue(v decimal.Decimal) Option {
	return func(o *Order) { o.itemValue = v }
}

// WithRemark attaches a note for the courier. Surrounding spaces are dropped.
func WithRemark(remark string) Option {
	return func(o *Order) { o.remark = strings.TrimSpace(remark) }
}

// NewOrder creates a local order in status CREATE. It has no remote code yet.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), "PO-1001", sender, receiver,
//	    decimal.RequireFromString("1.5"), "document", order.WithRemark("fragile"))
func NewOrder(
	id kernel.UUID,
	orderCode string,
	sender, receiver kernel.Address,
	weight decimal.Decimal,
	itemType string,
	opts ...Option,
) (*Order, error) {
	o := &Order{
		status:        Create,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderCode(orderCode),
		o.setSender(sender),
		o.setReceiver(receiver),
		o.setWeight(weight),
		o.setItemType(itemType),
	); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(o)
	}

	if err := validateItemValue(o.itemValue); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot carries the persisted state of an order.
type Snapshot struct {
	ID               kernel.UUID
	OrderCode        string
	CainiaoOrderCode string
	MailNo           string
	Status           Status
	Sender           kernel.Address
	Receiver         kernel.Address
	Weight           decimal.Decimal
	ItemType         string
	ItemValue        decimal.Decimal
	Remark           string
	CourierName      string
	CourierPhone     string
	CpCode           string
	CpName           string
	CancelReason     string
	CancelTime       *time.Time
	LastUpdateTime   *time.Time
	Version          int
	LogisticsEvents  []LogisticsEvent
}

// RestoreOrder rebuilds an order from storage. It validates identity and
// status but trusts the remaining fields.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		cainiaoOrderCode: s.CainiaoOrderCode,
		mailNo:           s.MailNo,
		itemValue:        s.ItemValue,
		remark:           s.Remark,
		courierName:      s.CourierName,
		courierPhone:     s.CourierPhone,
		cpCode:           s.CpCode,
		cpName:           s.CpName,
		cancelReason:     s.CancelReason,
		cancelTime:       s.CancelTime,
		lastUpdateTime:   s.LastUpdateTime,
		version:          s.Version,
		logisticsEvents:  append([]LogisticsEvent(nil), s.LogisticsEvents...),
		isConstructed:    true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setOrderCode(s.OrderCode),
		s.Status.Validate(),
		o.setSender(s.Sender),
		o.setReceiver(s.Receiver),
		o.setWeight(s.Weight),
		o.setItemType(s.ItemType),
	); err != nil {
		return nil, fmt.Errorf("restore order %q: %w", s.OrderCode, err)
	}
	o.status = s.Status

	return o, nil
}

// Validate ensures the order was created through a constructor.
// Repositories call it before writing so a zero Order never reaches storage.
//
// Returns:
//   - nil if the order is valid
//   - ErrOrderIsNotConstructed for a nil or zero-value order
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual reports whether other is the same order, compared by ID.
// A nil other is never equal.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the local identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderCode returns the caller-supplied order code, unique per order.
func (o *Order) OrderCode() string {
	return o.orderCode
}

// CainiaoOrderCode returns the gateway's order code, or "" before submission.
func (o *Order) CainiaoOrderCode() string {
	return o.cainiaoOrderCode
}

// MailNo returns the carrier tracking number, or "" until the gateway assigns one.
func (o *Order) MailNo() string {
	return o.mailNo
}

// Status returns the current status.
func (o *Order) Status() Status {
	return o.status
}

// Sender returns the pickup address.
func (o *Order) Sender() kernel.Address {
	return o.sender
}

// Receiver returns the delivery address.
func (o *Order) Receiver() kernel.Address {
	return o.receiver
}

// Weight returns the parcel weight in kilograms. It is always positive.
func (o *Order) Weight() decimal.Decimal {
	return o.weight
}

// ItemType returns the declared goods category.
func (o *Order) ItemType() string {
	return o.itemType
}

// ItemValue returns the declared value. Zero means not declared.
func (o *Order) ItemValue() decimal.Decimal {
	return o.itemValue
}

// Remark returns the free-text note for the courier.
func (o *Order) Remark() string {
	return o.remark
}

// CourierName returns the assigned courier as reported by the gateway.
func (o *Order) CourierName() string {
	return o.courierName
}

// CourierPhone returns the assigned courier's phone number.
func (o *Order) CourierPhone() string {
	return o.courierPhone
}

// CpCode returns the carrier code.
func (o *Order) CpCode() string {
	return o.cpCode
}

// CpName returns the carrier name.
func (o *Order) CpName() string {
	return o.cpName
}

// CancelReason returns why the order was cancelled, or "".
func (o *Order) CancelReason() string {
	return o.cancelReason
}

// CancelTime returns when the order was cancelled. It is nil otherwise.
func (o *Order) CancelTime() *time.Time {
	return o.cancelTime
}

// LastUpdateTime returns the gateway's last update time, or nil before the
// first sync.
func (o *Order) LastUpdateTime() *time.Time {
	return o.lastUpdateTime
}

// Version returns the stored version used for optimistic locking. New
// orders are at 0 until first persisted.
func (o *Order) Version() int {
	return o.version
}

// LogisticsEventsReplaced reports whether the trail changed since the last persist.
func (o *Order) LogisticsEventsReplaced() bool {
	return o.eventsReplaced
}

// LogisticsEvents returns a copy of the tracking trail.
func (o *Order) LogisticsEvents() []LogisticsEvent {
	return append([]LogisticsEvent(nil), o.logisticsEvents...)
}

// IsSubmitted reports whether the gateway has assigned a remote code.
func (o *Order) IsSubmitted() bool {
	return o.cainiaoOrderCode != ""
}

// AssignRemoteCode stores the gateway's order code. Re-assigning the same
// code is a no-op; a different code is rejected.
func (o *Order) AssignRemoteCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errs.NewValueIsRequiredError("cainiaoOrderCode")
	}
	if o.cainiaoOrderCode != "" && o.cainiaoOrderCode != code {
		return NewOrderError(o.orderCode,
			fmt.Sprintf("remote code %s is already assigned, refusing %s", o.cainiaoOrderCode, code))
	}
	o.cainiaoOrderCode = code
	return nil
}

// RequireRemoteCode fails with OrderError when the order was never submitted.
func (o *Order) RequireRemoteCode() error {
	if !o.IsSubmitted() {
		return NewOrderError(o.orderCode, "order has no cainiao order code")
	}
	return nil
}

// RequireMailNo fails with OrderError when no mail number is known yet.
func (o *Order) RequireMailNo() error {
	if o.mailNo == "" {
		return NewOrderError(o.orderCode, "order has no mail number")
	}
	return nil
}

// ApplyRemoteDetail overwrites local fields with the gateway's view. The
// status is mapped first; an unknown code aborts before anything changes.
//
// The gateway reports a weight of 0 until the courier has weighed the parcel.
// A weight that is not positive, or a negative item value, is treated as
// absent so the order always stays restorable.
func (o *Order) ApplyRemoteDetail(d RemoteDetail) error {
	newStatus := o.status
	if d.StatusCode != nil {
		s, err := StatusFromCode(*d.StatusCode)
		if err != nil {
			return err
		}
		newStatus = s
	}

	if d.Weight != nil && d.Weight.IsPositive() {
		o.weight = *d.Weight
	}
	if d.ItemValue != nil && !d.ItemValue.IsNegative() {
		o.itemValue = *d.ItemValue
	}
	setIfPresent(&o.courierName, d.CourierName)
	setIfPresent(&o.courierPhone, d.CourierPhone)
	setIfPresent(&o.mailNo, d.MailNo)
	setIfPresent(&o.cpCode, d.CpCode)
	setIfPresent(&o.cpName, d.CpName)

	at := time.Now().UTC()
	if d.LastUpdateTime != nil {
		t := *d.LastUpdateTime
		o.lastUpdateTime = &t
		at = t
	}

	o.changeStatus(newStatus, at)
	return nil
}

func setIfPresent(dst *string, v *string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		*dst = s
	}
}

// ReplaceLogisticsEvents discards the current trail and stores events in its place.
func (o *Order) ReplaceLogisticsEvents(events []LogisticsEvent) error {
	if err := o.RequireMailNo(); err != nil {
		return err
	}
	o.logisticsEvents = append(make([]LogisticsEvent, 0, len(events)), events...)
	o.eventsReplaced = true
	return nil
}

// ValidateCancel checks the cancel precondition without changing the order.
func (o *Order) ValidateCancel() error {
	if _, err := o.status.Cancel(); err != nil {
		return &CannotBeCancelledError{OrderCode: o.orderCode, Status: o.status}
	}
	return nil
}

// Cancel moves the order to CANCELLED and records why and when.
func (o *Order) Cancel(reason string, at time.Time) error {
	if err := o.ValidateCancel(); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("cancelReason")
	}

	cancelled, _ := o.status.Cancel()
	o.cancelReason = reason
	o.cancelTime = &at
	o.changeStatus(cancelled, at)
	return nil
}

// ValidateModify checks the modify precondition without changing the order.
func (o *Order) ValidateModify() error {
	if !o.status.CanModify() {
		return &ModificationFailedError{
			OrderCode: o.orderCode,
			Status:    o.status,
			Reason:    "only orders in CREATE or WAREHOUSE_ACCEPT can be modified",
		}
	}
	return nil
}

// Modify applies user changes. The whole change set is validated before any field is written.
func (o *Order) Modify(c OrderChanges) error {
	if err := o.ValidateModify(); err != nil {
		return err
	}
	if c.IsEmpty() {
		return &ModificationFailedError{OrderCode: o.orderCode, Status: o.status, Reason: "nothing to change"}
	}

	next := *o
	var errList []error
	if c.Sender != nil {
		errList = append(errList, next.setSender(*c.Sender))
	}
	if c.Receiver != nil {
		errList = append(errList, next.setReceiver(*c.Receiver))
	}
	if c.Weight != nil {
		errList = append(errList, next.setWeight(*c.Weight))
	}
	if c.ItemType != nil {
		errList = append(errList, next.setItemType(*c.ItemType))
	}
	if c.ItemValue != nil {
		errList = append(errList, validateItemValue(*c.ItemValue))
		next.itemValue = *c.ItemValue
	}
	if c.Remark != nil {
		next.remark = strings.TrimSpace(*c.Remark)
	}
	if err := errors.Join(errList...); err != nil {
		return &ModificationFailedError{OrderCode: o.orderCode, Status: o.status, Reason: err.Error()}
	}

	*o = next
	return nil
}

// MarkPersisted is called by the repository after a successful write.
func (o *Order) MarkPersisted(version int) {
	o.version = version
	o.eventsReplaced = false
}

// DomainEvents returns a copy of the status changes recorded since the last
// ClearDomainEvents. Command handlers publish them after the order was
// committed.
//
// Example:
//
//	if err := o.ApplyRemoteDetail(detail); err != nil {
//	    return err
//	}
//	for _, e := range o.DomainEvents() {
//	    fmt.Println(e.From, "->", e.To)
//	}
func (o *Order) DomainEvents() []StatusChanged {
	return append([]StatusChanged(nil), o.domainEvents...)
}

// ClearDomainEvents drops the recorded status changes, typically once they
// were published.
func (o *Order) ClearDomainEvents() {
	o.domainEvents = nil
}

func (o *Order) changeStatus(to Status, at time.Time) {
	if o.status == to {
		return
	}
	o.domainEvents = append(o.domainEvents, StatusChanged{
		OrderID:          o.id,
		OrderCode:        o.orderCode,
		CainiaoOrderCode: o.cainiaoOrderCode,
		From:             o.status,
		To:               to,
		OccurredAt:       at,
	})
	o.status = to
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errs.NewValueIsRequiredError("orderCode")
	}
	o.orderCode = code
	return nil
}

func (o *Order) setSender(a kernel.Address) error {
	if err := a.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("sender", err)
	}
	o.sender = a
	return nil
}

func (o *Order) setReceiver(a kernel.Address) error {
	if err := a.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("receiver", err)
	}
	o.receiver = a
	return nil
}

func (o *Order) setWeight(w decimal.Decimal) error {
	if !w.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%s is not greater than 0", w))
	}
	o.weight = w
	return nil
}

func (o *Order) setItemType(itemType string) error {
	itemType = strings.TrimSpace(itemType)
	if itemType == "" {
		return errs.NewValueIsRequiredError("itemType")
	}
	o.itemType = itemType
	return nil
}

func validateItemValue(v decimal.Decimal) error {
	if v.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("itemValue", fmt.Errorf("%s is negative", v))
	}
	return nil
}
