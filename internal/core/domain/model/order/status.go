package order

import (
	"strings"
)

// Status mirrors the remote order status. Its value is the code the gateway
// reports ("0", "100", ...), except Cancelled which only exists locally.
//
// The remote system is authoritative: any known code may follow any other.
// The only local rules are that Cancelled is reachable from Create and
// WarehouseAccept, and that modification is allowed from those same states.
type Status string

const (
	Create             Status = "0"
	WarehouseAccept    Status = "100"
	WarehouseProcess   Status = "150"
	WarehouseConfirmed Status = "200"
	Consign            Status = "300"
	Accept             Status = "400"
	TransportAssigned  Status = "430"
	TransportDeparted  Status = "440"
	ImportDeclared     Status = "450"
	ImportCleared      Status = "460"
	ImportArrived      Status = "470"
	ImportHandedOver   Status = "475"
	Transport          Status = "500"
	Delivering         Status = "600"
	Failed             Status = "700"
	Reject             Status = "800"
	AgentSign          Status = "900"
	StaDelivering      Status = "901"
	OtherSign          Status = "950"
	Sign               Status = "1000"
	OrderTranser       Status = "1100"
	ReverseReturn      Status = "1200"
	Cancelled          Status = "cancelled"
)

type statusInfo struct {
	name  string
	label string
}

func statusTable() map[Status]statusInfo {
	return map[Status]statusInfo{
		Create:             {"CREATE", "Order created"},
		WarehouseAccept:    {"WAREHOUSE_ACCEPT", "Accepted by warehouse"},
		WarehouseProcess:   {"WAREHOUSE_PROCESS", "Warehouse processing"},
		WarehouseConfirmed: {"WAREHOUSE_CONFIRMED", "Shipped from warehouse"},
		Consign:            {"CONSIGN", "Handed to carrier"},
		Accept:             {"ACCEPT", "Picked up by courier"},
		TransportAssigned:  {"TRANSPORT_ASSIGNED", "Line haul assigned"},
		TransportDeparted:  {"TRANSPORT_DEPARTED", "Line haul departed"},
		ImportDeclared:     {"IMPORT_DECLARED", "Import declared"},
		ImportCleared:      {"IMPORT_CLEARED", "Import cleared"},
		ImportArrived:      {"IMPORT_ARRIVED", "Arrived at import hub"},
		ImportHandedOver:   {"IMPORT_HANDED_OVER", "Handed to domestic carrier"},
		Transport:          {"TRANSPORT", "In transit"},
		Delivering:         {"DELIVERING", "Out for delivery"},
		Failed:             {"FAILED", "Delivery failed"},
		Reject:             {"REJECT", "Rejected by receiver"},
		AgentSign:          {"AGENT_SIGN", "Signed by agent"},
		StaDelivering:      {"STA_DELIVERING", "Delivering from station"},
		OtherSign:          {"OTHER_SIGN", "Signed by other"},
		Sign:               {"SIGN", "Signed"},
		OrderTranser:       {"ORDER_TRANSER", "Order transferred"},
		ReverseReturn:      {"REVERSE_RETURN", "Returned to sender"},
		Cancelled:          {"CANCELLED", "Cancelled"},
	}
}

// StatusFromCode maps a remote status code onto a Status. Unknown codes are
// rejected so that a provider contract change surfaces instead of silently
// corrupting local state.
func StatusFromCode(code string) (Status, error) {
	s := Status(strings.TrimSpace(code))
	if _, ok := statusTable()[s]; !ok {
		return "", &UnknownStatusError{Code: code}
	}
	return s, nil
}

// AllStatuses returns every known status in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		Create, WarehouseAccept, WarehouseProcess, WarehouseConfirmed, Consign, Accept,
		TransportAssigned, TransportDeparted, ImportDeclared, ImportCleared, ImportArrived, ImportHandedOver,
		Transport, Delivering, Failed, Reject, AgentSign, StaDelivering, OtherSign, Sign,
		OrderTranser, ReverseReturn, Cancelled,
	}
}

// UnfinishedStatuses are the states polled by the order-detail sync.
func UnfinishedStatuses() []Status {
	return []Status{Create, WarehouseAccept, WarehouseProcess}
}

// LogisticsSyncStatuses are the states polled by the logistics sync.
func LogisticsSyncStatuses() []Status {
	return []Status{WarehouseConfirmed}
}

// Validate returns UnknownStatusError for a code outside the status table.
func (s Status) Validate() error {
	if _, ok := statusTable()[s]; !ok {
		return &UnknownStatusError{Code: string(s)}
	}
	return nil
}

// Code is the value exchanged with the gateway and stored in the database.
func (s Status) Code() string {
	return string(s)
}

// String returns the symbolic name, e.g. "WAREHOUSE_ACCEPT".
func (s Status) String() string {
	if info, ok := statusTable()[s]; ok {
		return info.name
	}
	return "UNKNOWN"
}

// Label returns a human-readable description.
func (s Status) Label() string {
	if info, ok := statusTable()[s]; ok {
		return info.label
	}
	return "Unknown"
}

// IsTerminal reports whether no further remote change is expected.
func (s Status) IsTerminal() bool {
	switch s {
	case Cancelled, Sign, ReverseReturn, OrderTranser:
		return true
	default:
		return false
	}
}

// CanCancel reports whether an order in s may still be cancelled.
func (s Status) CanCancel() bool {
	return s == Create || s == WarehouseAccept
}

// CanModify reports whether an order in s may still be changed.
func (s Status) CanModify() bool {
	return s == Create || s == WarehouseAccept
}

// Cancel returns the status that follows a successful cancellation.
func (s Status) Cancel() (Status, error) {
	if !s.CanCancel() {
		return s, &CannotBeCancelledError{Status: s}
	}
	return Cancelled, nil
}
