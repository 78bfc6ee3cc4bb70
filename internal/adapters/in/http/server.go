// Package http exposes the pickup use cases over a small JSON API on echo.
package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/application/usecases/queries"
	"pickup/internal/core/domain/model/order"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
)

// CreateOrderHandler is implemented by commands.CreatePickupOrderCommandHandler.
type CreateOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CreatePickupOrderCommand) (*order.Order, error)
}

// CancelOrderHandler is implemented by commands.CancelOrderCommandHandler.
type CancelOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error)
}

// ModifyOrderHandler is implemented by commands.ModifyOrderCommandHandler.
type ModifyOrderHandler interface {
	Handle(ctx context.Context, cmd commands.ModifyOrderCommand) (*order.Order, error)
}

// SyncOrderDetailHandler is implemented by commands.SyncOrderDetailCommandHandler.
type SyncOrderDetailHandler interface {
	Handle(ctx context.Context, cmd commands.SyncOrderDetailCommand) (commands.SyncReport, error)
}

// SyncLogisticsHandler is implemented by commands.SyncLogisticsCommandHandler.
type SyncLogisticsHandler interface {
	Handle(ctx context.Context, cmd commands.SyncLogisticsCommand) (commands.SyncReport, error)
}

// GetOrderHandler is implemented by queries.GetOrderQueryHandler.
type GetOrderHandler interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
}

// ListOrdersHandler is implemented by queries.ListOrdersQueryHandler.
type ListOrdersHandler interface {
	Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderView, error)
}

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	CreateOrder     CreateOrderHandler
	CancelOrder     CancelOrderHandler
	ModifyOrder     ModifyOrderHandler
	SyncOrderDetail SyncOrderDetailHandler
	SyncLogistics   SyncLogisticsHandler
	GetOrder        GetOrderHandler
	ListOrders      ListOrdersHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	handlers Handlers
	doc      *openapi3.T
	logger   *zap.Logger
}

// NewServer creates a server over the given handlers. doc is served at
// /api/openapi.json and may be nil, in which case that route answers 404.
//
// Example:
//
//	doc, err := http.LoadOpenAPI(ctx)
//	if err != nil {
//	    return err
//	}
//	e := http.NewServer(handlers, doc, logger).Echo()
//	go func() { _ = e.Start(":8080") }()
func NewServer(handlers Handlers, doc *openapi3.T, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{handlers: handlers, doc: doc, logger: logger.Named("http")}
}

// Echo builds the echo instance with middleware and routes registered.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.ERROR)
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				s.logger.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			s.logger.Info("request", fields...)
			return nil
		},
	}))

	s.RegisterRoutes(e)
	return e
}

// RegisterRoutes mounts the health check, the API description and the
// /api/v1 order routes on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/api/openapi.json", s.OpenAPI)

	v1 := e.Group("/api/v1")
	v1.GET("/orders", s.ListOrders)
	v1.POST("/orders", s.CreateOrder)
	v1.GET("/orders/:code", s.GetOrder)
	v1.PATCH("/orders/:code", s.ModifyOrder)
	v1.POST("/orders/:code/cancel", s.CancelOrder)
	v1.POST("/orders/:code/sync", s.SyncOrderDetail)
	v1.POST("/orders/:code/logistics/sync", s.SyncLogistics)
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}

// OpenAPI handles GET /api/openapi.json.
func (s *Server) OpenAPI(c echo.Context) error {
	if s.doc == nil {
		return echo.NewHTTPError(http.StatusNotFound, "API description is not loaded")
	}
	return c.JSON(http.StatusOK, s.doc)
}

// ListOrders handles GET /api/v1/orders?status=0&status=100 (or status=0,100).
func (s *Server) ListOrders(c echo.Context) error {
	var statuses []order.Status
	for _, raw := range c.QueryParams()["status"] {
		for _, code := range strings.Split(raw, ",") {
			if code = strings.TrimSpace(code); code != "" {
				statuses = append(statuses, order.Status(code))
			}
		}
	}

	query, err := queries.NewListOrdersQuery(statuses...)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Code: http.StatusBadRequest, Message: err.Error()})
	}

	views, err := s.handlers.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]orderResponse, 0, len(views))
	for _, v := range views {
		response = append(response, orderFromView(v))
	}
	return c.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/:code and includes the tracking trail.
func (s *Server) GetOrder(c echo.Context) error {
	query, err := queries.NewGetOrderQuery(c.Param("code"))
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, detailFromQuery(result))
}

// CreateOrder handles POST /api/v1/orders and answers 201 with the stored order.
func (s *Server) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cmd, err := req.toCommand()
	if err != nil {
		return s.fail(c, err)
	}

	o, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, orderFromAggregate(o))
}

// CancelOrder handles POST /api/v1/orders/:code/cancel. An order that can no
// longer be cancelled answers 409.
func (s *Server) CancelOrder(c echo.Context) error {
	var req cancelOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cmd, err := commands.NewCancelOrderCommand(c.Param("code"), req.Reason)
	if err != nil {
		return s.fail(c, err)
	}

	o, err := s.handlers.CancelOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, orderFromAggregate(o))
}

// ModifyOrder handles PATCH /api/v1/orders/:code with a partial change set.
func (s *Server) ModifyOrder(c echo.Context) error {
	var req modifyOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	changes, err := req.toChanges()
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewModifyOrderCommand(c.Param("code"), changes)
	if err != nil {
		return s.fail(c, err)
	}

	o, err := s.handlers.ModifyOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, orderFromAggregate(o))
}

// SyncOrderDetail handles POST /api/v1/orders/:code/sync for one order.
func (s *Server) SyncOrderDetail(c echo.Context) error {
	if strings.TrimSpace(c.Param("code")) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "order code is required")
	}
	report, err := s.handlers.SyncOrderDetail.Handle(c.Request().Context(),
		commands.NewSyncOrderDetailCommand(c.Param("code")))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, reportFromCommand(report))
}

// SyncLogistics handles POST /api/v1/orders/:code/logistics/sync for one order.
func (s *Server) SyncLogistics(c echo.Context) error {
	if strings.TrimSpace(c.Param("code")) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "order code is required")
	}
	report, err := s.handlers.SyncLogistics.Handle(c.Request().Context(),
		commands.NewSyncLogisticsCommand(c.Param("code")))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, reportFromCommand(report))
}

// Shutdown waits up to timeout for in-flight requests.
func Shutdown(e *echo.Echo, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return e.Shutdown(ctx)
}
