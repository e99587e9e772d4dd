package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// CommandHandler is a use case that only reports failure.
type CommandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// ResultHandler is a use case that returns a value.
type ResultHandler[C, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// Handlers groups the use cases the API exposes.
type Handlers struct {
	CreateOrder       ResultHandler[commands.CreateOrderCommand, kernel.UUID]
	RequestAssignment ResultHandler[commands.RequestAssignmentCommand, commands.AssignmentResult]
	UpdateOrderStatus CommandHandler[commands.UpdateOrderStatusCommand]
	AddTrackingLog    ResultHandler[commands.AddTrackingLogCommand, kernel.UUID]

	RegisterDriver        ResultHandler[commands.RegisterDriverCommand, kernel.UUID]
	ChangeDriverStatus    CommandHandler[commands.ChangeDriverStatusCommand]
	ReportDriverLocation  CommandHandler[commands.ReportDriverLocationCommand]
	PairDriverWithVehicle CommandHandler[commands.PairDriverWithVehicleCommand]
	RegisterVehicle       ResultHandler[commands.RegisterVehicleCommand, kernel.UUID]
	ChangeVehicleStatus   CommandHandler[commands.ChangeVehicleStatusCommand]

	RegisterCylinder     ResultHandler[commands.RegisterCylinderCommand, commands.RegisteredCylinder]
	ScanCylinder         ResultHandler[commands.ScanCylinderCommand, commands.ScanOutcome]
	UpdateCylinderStatus CommandHandler[commands.UpdateCylinderStatusCommand]
	AssignCylinder       CommandHandler[commands.AssignCylinderCommand]
	UnassignCylinder     CommandHandler[commands.UnassignCylinderCommand]
	FlagCylinderTamper   CommandHandler[commands.FlagCylinderTamperCommand]

	OrderHistory    ResultHandler[queries.GetOrderHistoryQuery, audit.Page[queries.OrderHistoryItem]]
	CylinderHistory ResultHandler[queries.GetCylinderHistoryQuery, audit.Page[queries.CylinderHistoryItem]]
	CylinderScans   ResultHandler[queries.GetCylinderScansQuery, audit.Page[queries.ScanItem]]
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	handlers Handlers
	auth     *Authenticator
	logger   *slog.Logger
}

func NewServer(handlers Handlers, auth *Authenticator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		handlers: handlers,
		auth:     auth,
		logger:   logger.With("component", "http"),
	}
}

// Echo builds the echo instance with middleware and every route mounted.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = newRequestValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency))
			return nil
		},
	}))
	e.Use(requestMetrics)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	s.Register(e.Group("/api/v1", s.auth.Middleware()))
	return e
}

// Register mounts the API routes on g.
func (s *Server) Register(g *echo.Group) {
	g.POST("/orders", s.CreateOrder)
	g.POST("/orders/:id/assignment", s.RequestAssignment)
	g.PATCH("/orders/:id/status", s.UpdateOrderStatus)
	g.GET("/orders/:id/history", s.GetOrderHistory)
	g.POST("/orders/:id/tracking", s.AddTrackingLog)

	g.POST("/drivers", s.RegisterDriver)
	g.PATCH("/drivers/:id/status", s.ChangeDriverStatus)
	g.PUT("/drivers/:id/location", s.ReportDriverLocation)
	g.PUT("/drivers/:id/vehicle", s.PairDriverWithVehicle)
	g.POST("/vehicles", s.RegisterVehicle)
	g.PATCH("/vehicles/:id/status", s.ChangeVehicleStatus)

	g.POST("/cylinders", s.RegisterCylinder)
	g.POST("/cylinders/scan", s.ScanCylinder)
	g.PATCH("/cylinders/:id/status", s.UpdateCylinderStatus)
	g.POST("/cylinders/:id/assignment", s.AssignCylinder)
	g.POST("/cylinders/:id/unassign", s.UnassignCylinder)
	g.POST("/cylinders/:id/tamper", s.FlagCylinderTamper)
	g.GET("/cylinders/:id/history", s.GetCylinderHistory)
	g.GET("/cylinders/:id/scans", s.GetCylinderScans)
}

func requestMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok { //nolint:errorlint // echo returns the concrete type
				status = he.Code
			}
		}
		path := c.Path()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTP(c.Request().Method, path, status, time.Since(start))
		return err
	}
}

// bindAndValidate decodes the JSON body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return c.Validate(req)
}
