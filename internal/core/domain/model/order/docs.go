// Package order implements the pickup order aggregate and its status model.
//
// # Lifecycle
//
// An order is created locally in CREATE, submitted to the Cainiao gateway
// (which assigns the immutable cainiao order code) and from then on follows
// the status reported by the gateway:
//
//	CREATE(0) -> WAREHOUSE_ACCEPT(100) -> WAREHOUSE_PROCESS(150) -> WAREHOUSE_CONFIRMED(200)
//	  -> CONSIGN(300) -> ACCEPT(400) -> [430..475] -> TRANSPORT(500) -> DELIVERING(600)
//	  -> FAILED(700) | REJECT(800) -> AGENT_SIGN(900) | STA_DELIVERING(901) | OTHER_SIGN(950)
//	  -> SIGN(1000) -> ORDER_TRANSER(1100) | REVERSE_RETURN(1200)
//
// The sequence is descriptive only. Remote updates may jump to any known
// status and unknown codes are rejected with UnknownStatusError. CANCELLED is
// a local terminal state reachable from CREATE and WAREHOUSE_ACCEPT only;
// modification is limited to the same two states.
//
// # Logistics trail
//
// LogisticsEvent values are owned by one order and replaced as a whole on
// every logistics sync. The order must carry a mail number first.
//
// # Domain events
//
// Every status change records a StatusChanged event. Callers read them with
// DomainEvents after persisting and clear them with ClearDomainEvents.
package order
