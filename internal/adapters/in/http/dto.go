package http

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// requestValidator plugs go-playground/validator into echo's c.Validate.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

type CreateOrderRequest struct {
	CustomerID      string    `json:"customer_id" validate:"omitempty,uuid"`
	DeliveryAddress string    `json:"delivery_address" validate:"required,max=500"`
	PickupAddress   string    `json:"pickup_address" validate:"required,max=500"`
	PickupLatitude  *float64  `json:"pickup_latitude" validate:"required,latitude"`
	PickupLongitude *float64  `json:"pickup_longitude" validate:"required,longitude"`
	QuantityKg      float64   `json:"quantity_kg" validate:"required,gt=0"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	Notes           string    `json:"notes" validate:"max=1000"`
}

type AssignmentRequest struct {
	DriverID  string `json:"driver_id" validate:"omitempty,uuid"`
	VehicleID string `json:"vehicle_id" validate:"omitempty,uuid"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason" validate:"max=500"`
}

type LocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

type TrackingLogRequest struct {
	LocationRequest
	SpeedKmh   *float64 `json:"speed_kmh" validate:"omitempty,gte=0"`
	HeadingDeg *float64 `json:"heading_deg" validate:"omitempty,gte=0,lt=360"`
	AccuracyM  *float64 `json:"accuracy_m" validate:"omitempty,gte=0"`
}

type RegisterDriverRequest struct {
	UserID        string `json:"user_id" validate:"required,uuid"`
	Name          string `json:"name" validate:"required,max=200"`
	LicenseNumber string `json:"license_number" validate:"required,max=64"`
}

type DriverStatusRequest struct {
	Status    string `json:"status" validate:"required"`
	Available *bool  `json:"available"`
}

type PairVehicleRequest struct {
	VehicleID string `json:"vehicle_id" validate:"required,uuid"`
}

type RegisterVehicleRequest struct {
	PlateNumber string  `json:"plate_number" validate:"required,max=32"`
	Model       string  `json:"model" validate:"max=100"`
	CapacityKg  float64 `json:"capacity_kg" validate:"required,gt=0"`
}

type RegisterCylinderRequest struct {
	SerialNumber     string `json:"serial_number" validate:"required,min=5,max=64"`
	Kind             string `json:"kind" validate:"required,oneof=6KG 13KG 50KG 6kg 13kg 50kg"`
	Manufacturer     string `json:"manufacturer" validate:"max=200"`
	ManufacturedOn   string `json:"manufactured_on" validate:"required,datetime=2006-01-02"`
	ExpiresOn        string `json:"expires_on" validate:"required,datetime=2006-01-02"`
	NextInspectionOn string `json:"next_inspection_on" validate:"omitempty,datetime=2006-01-02"`
}

type ScanRequest struct {
	ScanType     string   `json:"scan_type" validate:"required,oneof=IDENTITY_CODE TAG_CODE MANUAL"`
	IdentityCode string   `json:"identity_code" validate:"max=64"`
	TagCode      string   `json:"tag_code" validate:"max=64"`
	Latitude     *float64 `json:"latitude" validate:"required,latitude"`
	Longitude    *float64 `json:"longitude" validate:"required,longitude"`
	Address      string   `json:"address" validate:"max=500"`
}

type CylinderStatusRequest struct {
	Status    string   `json:"status" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required_with=Longitude,omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"required_with=Latitude,omitempty,longitude"`
	Notes     string   `json:"notes" validate:"max=1000"`
}

type AssignCylinderRequest struct {
	OrderID    string `json:"order_id" validate:"required_without=CustomerID,omitempty,uuid"`
	CustomerID string `json:"customer_id" validate:"required_without=OrderID,omitempty,uuid"`
}

type NotesRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

type TamperRequest struct {
	Notes string `json:"notes" validate:"required,max=1000"`
}

type IDResponse struct {
	ID string `json:"id"`
}

type AssignmentResponse struct {
	DeliveryID string `json:"delivery_id"`
	DriverID   string `json:"driver_id"`
	VehicleID  string `json:"vehicle_id"`
}

type RegisteredCylinderResponse struct {
	ID           string `json:"id"`
	SerialNumber string `json:"serial_number"`
	IdentityCode string `json:"identity_code"`
	TagCode      string `json:"tag_code"`
	AuthToken    string `json:"auth_token"`
}

type ScanResponse struct {
	ScanID       *string   `json:"scan_id,omitempty"`
	CylinderID   *string   `json:"cylinder_id,omitempty"`
	SerialNumber string    `json:"serial_number,omitempty"`
	Status       string    `json:"status,omitempty"`
	Result       string    `json:"result"`
	Verified     bool      `json:"verified"`
	Suspicious   bool      `json:"suspicious"`
	Reasons      []string  `json:"reasons,omitempty"`
	Message      string    `json:"message"`
	ScannedAt    time.Time `json:"scanned_at"`
}

type PageResponse[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type OrderHistoryResponse struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"order_id"`
	ActorID        string    `json:"actor_id"`
	EventType      string    `json:"event_type"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	NewStatus      string    `json:"new_status"`
	Notes          string    `json:"notes,omitempty"`
	RecordedAt     time.Time `json:"recorded_at"`
}

type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type VerificationResponse struct {
	ScanResult   string  `json:"scan_result"`
	IsSuspicious bool    `json:"is_suspicious"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

type CylinderHistoryResponse struct {
	ID             string                `json:"id"`
	CylinderID     string                `json:"cylinder_id"`
	ActorID        string                `json:"actor_id"`
	EventType      string                `json:"event_type"`
	PreviousStatus string                `json:"previous_status,omitempty"`
	NewStatus      string                `json:"new_status,omitempty"`
	Location       *LocationResponse     `json:"location,omitempty"`
	Notes          string                `json:"notes,omitempty"`
	Verification   *VerificationResponse `json:"verification,omitempty"`
	CustomerID     *string               `json:"customer_id,omitempty"`
	OrderID        *string               `json:"order_id,omitempty"`
	RecordedAt     time.Time             `json:"recorded_at"`
}

type ScanLogResponse struct {
	ID              string           `json:"id"`
	CylinderID      string           `json:"cylinder_id"`
	ScanType        string           `json:"scan_type"`
	Result          string           `json:"result"`
	ActorID         string           `json:"actor_id"`
	ActorRole       string           `json:"actor_role"`
	Location        LocationResponse `json:"location"`
	Address         string           `json:"address,omitempty"`
	Message         string           `json:"message,omitempty"`
	IsSuspicious    bool             `json:"is_suspicious"`
	SuspicionReason string           `json:"suspicion_reason,omitempty"`
	ScannedAt       time.Time        `json:"scanned_at"`
}
