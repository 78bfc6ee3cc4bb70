package http

import (
	"errors"
	"net/http"

	"pickup/internal/core/domain/model/apiconfig"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// statusFor maps domain and adapter errors onto HTTP status codes. The most
// specific sentinels are checked first.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrOrderCannotBeCancelled),
		errors.Is(err, order.ErrOrderModification),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, order.ErrOrder):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apiconfig.ErrConfiguration):
		return http.StatusServiceUnavailable
	case errors.Is(err, ports.ErrGateway), errors.Is(err, order.ErrUnknownStatus):
		return http.StatusBadGateway
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		message = http.StatusText(status)
	}
	return c.JSON(status, errorResponse{Code: status, Message: message})
}

// errorHandler renders echo's own errors (routing, binding, validation) in
// the same shape as handler errors.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}

	_ = c.JSON(status, errorResponse{Code: status, Message: message})
}
