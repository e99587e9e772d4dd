package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterDriver(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req RegisterDriverRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	userID, err := kernel.UUIDFromString(req.UserID)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRegisterDriverCommand(actor, userID, req.Name, req.LicenseNumber)
	if err != nil {
		return s.fail(c, err)
	}
	id, err := s.handlers.RegisterDriver.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, IDResponse{ID: id.String()})
}

func (s *Server) ChangeDriverStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	driverID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req DriverStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	status, err := fleet.ParseDriverStatus(req.Status)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewChangeDriverStatusCommand(actor, driverID, status, req.Available)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.handlers.ChangeDriverStatus.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) ReportDriverLocation(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	driverID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req LocationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	location, err := kernel.NewGeoPoint(*req.Latitude, *req.Longitude)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewReportDriverLocationCommand(actor, driverID, location)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.handlers.ReportDriverLocation.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) PairDriverWithVehicle(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	driverID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req PairVehicleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	vehicleID, err := kernel.UUIDFromString(req.VehicleID)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewPairDriverWithVehicleCommand(actor, driverID, vehicleID)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.handlers.PairDriverWithVehicle.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) RegisterVehicle(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req RegisterVehicleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRegisterVehicleCommand(actor, req.PlateNumber, req.Model, req.CapacityKg)
	if err != nil {
		return s.fail(c, err)
	}
	id, err := s.handlers.RegisterVehicle.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, IDResponse{ID: id.String()})
}

func (s *Server) ChangeVehicleStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	vehicleID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req StatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	status, err := fleet.ParseVehicleStatus(req.Status)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewChangeVehicleStatusCommand(actor, vehicleID, status)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.handlers.ChangeVehicleStatus.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
