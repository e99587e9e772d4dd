package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

func (s *Server) CreateOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}

	customerID := actor.ID()
	if req.CustomerID != "" {
		if customerID, err = kernel.UUIDFromString(req.CustomerID); err != nil {
			return s.fail(c, err)
		}
	}
	pickup, err := kernel.NewGeoPoint(*req.PickupLatitude, *req.PickupLongitude)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCreateOrderCommand(actor, customerID, order.Details{
		DeliveryAddress: req.DeliveryAddress,
		PickupAddress:   req.PickupAddress,
		PickupLocation:  pickup,
		QuantityKg:      req.QuantityKg,
		ScheduledAt:     req.ScheduledAt,
		Notes:           req.Notes,
	})
	if err != nil {
		return s.fail(c, err)
	}
	id, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, IDResponse{ID: id.String()})
}

// RequestAssignment assigns manually when both driver_id and vehicle_id are
// given, otherwise picks the nearest dispatchable driver.
func (s *Server) RequestAssignment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	orderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req AssignmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	driverID, err := optionalID(req.DriverID)
	if err != nil {
		return s.fail(c, err)
	}
	vehicleID, err := optionalID(req.VehicleID)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRequestAssignmentCommand(actor, orderID, driverID, vehicleID)
	if err != nil {
		return s.fail(c, err)
	}
	res, err := s.handlers.RequestAssignment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, AssignmentResponse{
		DeliveryID: res.DeliveryID.String(),
		DriverID:   res.DriverID.String(),
		VehicleID:  res.VehicleID.String(),
	})
}

func (s *Server) UpdateOrderStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	orderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req StatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(actor, orderID, status, req.Reason)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.handlers.UpdateOrderStatus.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) AddTrackingLog(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	orderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req TrackingLogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	location, err := kernel.NewGeoPoint(*req.Latitude, *req.Longitude)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAddTrackingLogCommand(actor, orderID, location, delivery.Telemetry{
		SpeedKmh:   req.SpeedKmh,
		HeadingDeg: req.HeadingDeg,
		AccuracyM:  req.AccuracyM,
	})
	if err != nil {
		return s.fail(c, err)
	}
	id, err := s.handlers.AddTrackingLog.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, IDResponse{ID: id.String()})
}

func (s *Server) GetOrderHistory(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	orderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	filter, page, err := historyParams(c)
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetOrderHistoryQuery(actor, orderID, filter, page)
	if err != nil {
		return s.fail(c, err)
	}
	res, err := s.handlers.OrderHistory.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, pageResponse(res, func(item queries.OrderHistoryItem) OrderHistoryResponse {
		return OrderHistoryResponse{
			ID:             item.ID.String(),
			OrderID:        item.OrderID.String(),
			ActorID:        item.ActorID.String(),
			EventType:      item.Event,
			PreviousStatus: item.PreviousStatus,
			NewStatus:      item.NewStatus,
			Notes:          item.Notes,
			RecordedAt:     item.RecordedAt,
		}
	}))
}
