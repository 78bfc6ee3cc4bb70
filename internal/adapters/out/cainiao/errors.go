package cainiao

import (
	"fmt"

	"pickup/internal/core/ports"
)

// ErrAPI matches every *APIError and, through it, ports.ErrGateway.
var ErrAPI = fmt.Errorf("cainiao api error: %w", ports.ErrGateway)

const (
	CodeTransport   = "TRANSPORT"
	CodeTimeout     = "TIMEOUT"
	CodeBadResponse = "BAD_RESPONSE"
)

// APIError is any failed gateway call: transport failure, a non-200 status, an
// unreadable body or an envelope with success=false. Code carries the remote
// errorCode when the gateway supplied one.
type APIError struct {
	MsgType string
	Code    string
	Message string
	Cause   error
}

// Error renders the message type, the code and the remote message.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("cainiao %s failed [%s] %s", e.MsgType, e.Code, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes ErrAPI and the underlying cause to errors.Is and errors.As.
func (e *APIError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrAPI}
	}
	return []error{ErrAPI, e.Cause}
}

// Transient reports failures worth retrying on a later run.
func (e *APIError) Transient() bool {
	return e.Code == CodeTransport || e.Code == CodeTimeout
}
