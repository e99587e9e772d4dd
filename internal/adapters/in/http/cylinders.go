package http

import (
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/cylinder"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterCylinder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req RegisterCylinderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	registration, err := registrationOf(req)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRegisterCylinderCommand(actor, registration)
	if err != nil {
		return s.fail(c, err)
	}
	res, err := s.handlers.RegisterCylinder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, RegisteredCylinderResponse{
		ID:           res.CylinderID.String(),
		SerialNumber: res.SerialNumber,
		IdentityCode: res.IdentityCode,
		TagCode:      res.TagCode,
		AuthToken:    res.AuthToken,
	})
}

func registrationOf(req RegisterCylinderRequest) (cylinder.Registration, error) {
	kind, err := cylinder.ParseKind(req.Kind)
	if err != nil {
		return cylinder.Registration{}, err
	}
	manufactured, err := time.Parse(dateLayout, req.ManufacturedOn)
	if err != nil {
		return cylinder.Registration{}, errs.NewValueIsInvalidErrorWithCause("manufactured_on", err)
	}
	expires, err := time.Parse(dateLayout, req.ExpiresOn)
	if err != nil {
		return cylinder.Registration{}, errs.NewValueIsInvalidErrorWithCause("expires_on", err)
	}
	inspection, err := optionalDate("next_inspection_on", req.NextInspectionOn)
	if err != nil {
		return cylinder.Registration{}, err
	}
	return cylinder.Registration{
		SerialNumber:     req.SerialNumber,
		Kind:             kind,
		CapacityKg:       kind.CapacityKg(),
		Manufacturer:     req.Manufacturer,
		ManufacturedOn:   manufactured,
		ExpiresOn:        expires,
		NextInspectionOn: inspection,
	}, nil
}

// ScanCylinder always answers 200 with the verdict, including for codes that
// match no cylinder.
func (s *Server) ScanCylinder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req ScanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	scanType, err := audit.ParseScanType(req.ScanType)
	if err != nil {
		return s.fail(c, err)
	}
	location, err := kernel.NewGeoPoint(*req.Latitude, *req.Longitude)
	if err != nil {
		return s.fail(c, err)
	}
	origin := audit.Origin{
		NetworkAddress: c.RealIP(),
		Client:         c.Request().UserAgent(),
	}

	cmd, err := commands.NewScanCylinderCommand(actor, scanType, req.IdentityCode, req.TagCode, location, req.Address, origin)
	if err != nil {
		return s.fail(c, err)
	}
	out, err := s.handlers.ScanCylinder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	resp := ScanResponse{
		ScanID:       optionalString(out.ScanID),
		CylinderID:   optionalString(out.CylinderID),
		SerialNumber: out.SerialNumber,
		Result:       string(out.Result),
		Verified:     out.Verified,
		Suspicious:   out.Suspicious,
		Reasons:      out.Reasons,
		Message:      out.Message,
		ScannedAt:    out.ScannedAt,
	}
	if out.CylinderID != nil {
		resp.Status = out.Status.String()
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) UpdateCylinderStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	cylinderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req CylinderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	status, err := cylinder.ParseStatus(req.Status)
	if err != nil {
		return s.fail(c, err)
	}
	location, err := optionalPoint(req.Latitude, req.Longitude)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewUpdateCylinderStatusCommand(actor, cylinderID, status, location, req.Notes)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.handlers.UpdateCylinderStatus.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) AssignCylinder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	cylinderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req AssignCylinderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	orderID, err := optionalID(req.OrderID)
	if err != nil {
		return s.fail(c, err)
	}
	customerID, err := optionalID(req.CustomerID)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAssignCylinderCommand(actor, cylinderID, orderID, customerID)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.handlers.AssignCylinder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) UnassignCylinder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	cylinderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req NotesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewUnassignCylinderCommand(actor, cylinderID, req.Notes)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.handlers.UnassignCylinder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) FlagCylinderTamper(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	cylinderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req TamperRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewFlagCylinderTamperCommand(actor, cylinderID, req.Notes)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.handlers.FlagCylinderTamper.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) GetCylinderHistory(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	cylinderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	filter, page, err := historyParams(c)
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetCylinderHistoryQuery(actor, cylinderID, filter, page)
	if err != nil {
		return s.fail(c, err)
	}
	res, err := s.handlers.CylinderHistory.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, pageResponse(res, cylinderHistoryResponse))
}

func cylinderHistoryResponse(item queries.CylinderHistoryItem) CylinderHistoryResponse {
	resp := CylinderHistoryResponse{
		ID:             item.ID.String(),
		CylinderID:     item.CylinderID.String(),
		ActorID:        item.ActorID.String(),
		EventType:      item.Event,
		PreviousStatus: item.PreviousStatus,
		NewStatus:      item.NewStatus,
		Notes:          item.Notes,
		CustomerID:     optionalString(item.CustomerID),
		OrderID:        optionalString(item.OrderID),
		RecordedAt:     item.RecordedAt,
	}
	if item.Location != nil {
		resp.Location = &LocationResponse{Latitude: item.Location.Latitude(), Longitude: item.Location.Longitude()}
	}
	if v := item.Verification; v != nil {
		resp.Verification = &VerificationResponse{
			ScanResult:   string(v.ScanResult),
			IsSuspicious: v.IsSuspicious,
			Latitude:     v.Latitude,
			Longitude:    v.Longitude,
		}
	}
	return resp
}

func (s *Server) GetCylinderScans(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	cylinderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	filter, page, err := historyParams(c)
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetCylinderScansQuery(actor, cylinderID, filter, page)
	if err != nil {
		return s.fail(c, err)
	}
	res, err := s.handlers.CylinderScans.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, pageResponse(res, func(item queries.ScanItem) ScanLogResponse {
		return ScanLogResponse{
			ID:              item.ID.String(),
			CylinderID:      item.CylinderID.String(),
			ScanType:        item.ScanType,
			Result:          item.Result,
			ActorID:         item.ActorID.String(),
			ActorRole:       item.ActorRole,
			Location:        LocationResponse{Latitude: item.Location.Latitude(), Longitude: item.Location.Longitude()},
			Address:         item.Address,
			Message:         item.Message,
			IsSuspicious:    item.Suspicious,
			SuspicionReason: item.SuspicionReason,
			ScannedAt:       item.ScannedAt,
		}
	}))
}
