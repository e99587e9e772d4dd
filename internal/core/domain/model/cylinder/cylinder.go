package cylinder

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const (
	MinSerialNumberLength = 5

	// MaxServiceLife bounds expiry relative to the manufacture date.
	MaxServiceLife = 30
)

var ErrCylinderIsNotConstructed = errors.New("Cylinder must be created via RegisterCylinder constructor")

// Registration is the operator-supplied part of a new cylinder.
type Registration struct {
	SerialNumber     string
	Kind             Kind
	CapacityKg       float64
	Manufacturer     string
	ManufacturedOn   time.Time
	ExpiresOn        time.Time
	NextInspectionOn *time.Time
}

// State is the mutable part of a cylinder as stored.
type State struct {
	Status            Status
	LastInspectedOn   *time.Time
	CurrentCustomerID *kernel.UUID
	CurrentOrderID    *kernel.UUID
	LastKnownLocation *kernel.GeoPoint
	TotalFills        int
	TotalScans        int
	LastScannedAt     *time.Time
	LastScannedBy     *kernel.UUID
	IsTampered        bool
	TamperNotes       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Version           int
}

// Cylinder is a tracked gas container with a verifiable identity.
//
// Cylinder follows these invariants:
//   - serial number, identity code, tag code and secret key never change
//   - the stored digest equals ComputeDigest over those four values
//   - capacity is fixed by kind
//   - expiry lies after manufacture and within MaxServiceLife years
//   - status only moves along the edges of the transition table
type Cylinder struct {
	kernel.EventRecorder

	id               kernel.UUID
	serialNumber     string
	codes            Codes
	digest           string
	kind             Kind
	manufacturer     string
	manufacturedOn   time.Time
	expiresOn        time.Time
	nextInspectionOn *time.Time
	state            State

	isConstructed bool
}

// RegisterCylinder creates an Active cylinder from freshly generated codes.
func RegisterCylinder(id kernel.UUID, reg Registration, codes Codes, now time.Time) (*Cylinder, error) {
	c := &Cylinder{
		state: State{
			Status:    Active,
			CreatedAt: now,
			UpdatedAt: now,
		},
		isConstructed: true,
	}

	if err := errors.Join(
		id.Validate(),
		c.setSerialNumber(reg.SerialNumber),
		c.setKind(reg.Kind, reg.CapacityKg),
		c.setManufacturer(reg.Manufacturer),
		c.setLifetime(reg.ManufacturedOn, reg.ExpiresOn),
		validateCodes(codes),
	); err != nil {
		return nil, err
	}
	c.id = id
	c.codes = codes
	c.digest = ComputeDigest(c.serialNumber, codes)
	c.nextInspectionOn = reg.NextInspectionOn

	return c, nil
}

// RestoreCylinder rebuilds a cylinder from storage, keeping the stored digest
// so that VerifyDigest can detect tampered rows.
func RestoreCylinder(id kernel.UUID, reg Registration, codes Codes, digest string, state State) (*Cylinder, error) {
	if err := state.Status.Validate(); err != nil {
		return nil, err
	}
	c := &Cylinder{
		id:               id,
		serialNumber:     reg.SerialNumber,
		codes:            codes,
		digest:           digest,
		kind:             reg.Kind,
		manufacturer:     reg.Manufacturer,
		manufacturedOn:   reg.ManufacturedOn,
		expiresOn:        reg.ExpiresOn,
		nextInspectionOn: reg.NextInspectionOn,
		state:            state,
		isConstructed:    true,
	}
	if err := errors.Join(id.Validate(), reg.Kind.Validate()); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cylinder) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCylinderIsNotConstructed
	}
	return nil
}

func (c *Cylinder) ID() kernel.UUID                     { return c.id }
func (c *Cylinder) SerialNumber() string                { return c.serialNumber }
func (c *Cylinder) IdentityCode() string                { return c.codes.IdentityCode }
func (c *Cylinder) TagCode() string                     { return c.codes.TagCode }
func (c *Cylinder) Digest() string                      { return c.digest }
func (c *Cylinder) Kind() Kind                          { return c.kind }
func (c *Cylinder) CapacityKg() float64                 { return c.kind.CapacityKg() }
func (c *Cylinder) Manufacturer() string                { return c.manufacturer }
func (c *Cylinder) ManufacturedOn() time.Time           { return c.manufacturedOn }
func (c *Cylinder) ExpiresOn() time.Time                { return c.expiresOn }
func (c *Cylinder) NextInspectionOn() *time.Time        { return c.nextInspectionOn }
func (c *Cylinder) Status() Status                      { return c.state.Status }
func (c *Cylinder) LastInspectedOn() *time.Time         { return c.state.LastInspectedOn }
func (c *Cylinder) CurrentCustomerID() *kernel.UUID     { return c.state.CurrentCustomerID }
func (c *Cylinder) CurrentOrderID() *kernel.UUID        { return c.state.CurrentOrderID }
func (c *Cylinder) LastKnownLocation() *kernel.GeoPoint { return c.state.LastKnownLocation }
func (c *Cylinder) TotalFills() int                     { return c.state.TotalFills }
func (c *Cylinder) TotalScans() int                     { return c.state.TotalScans }
func (c *Cylinder) LastScannedAt() *time.Time           { return c.state.LastScannedAt }
func (c *Cylinder) LastScannedBy() *kernel.UUID         { return c.state.LastScannedBy }
func (c *Cylinder) IsTampered() bool                    { return c.state.IsTampered }
func (c *Cylinder) TamperNotes() string                 { return c.state.TamperNotes }
func (c *Cylinder) CreatedAt() time.Time                { return c.state.CreatedAt }
func (c *Cylinder) UpdatedAt() time.Time                { return c.state.UpdatedAt }
func (c *Cylinder) Version() int                        { return c.state.Version }

// SecretKey is exposed for persistence only.
func (c *Cylinder) SecretKey() string { return c.codes.SecretKey }

// Codes returns the generated credentials.
func (c *Cylinder) Codes() Codes { return c.codes }

// Registration returns the immutable registration fields.
func (c *Cylinder) Registration() Registration {
	return Registration{
		SerialNumber:     c.serialNumber,
		Kind:             c.kind,
		CapacityKg:       c.kind.CapacityKg(),
		Manufacturer:     c.manufacturer,
		ManufacturedOn:   c.manufacturedOn,
		ExpiresOn:        c.expiresOn,
		NextInspectionOn: c.nextInspectionOn,
	}
}

// State returns a copy of the mutable fields.
func (c *Cylinder) State() State { return c.state }

// VerifyDigest recomputes the digest and compares it with the stored one.
func (c *Cylinder) VerifyDigest() bool {
	expected := ComputeDigest(c.serialNumber, c.codes)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(c.digest)) == 1
}

// IsExpired reports whether the cylinder is past its expiry date at now.
func (c *Cylinder) IsExpired(now time.Time) bool {
	return now.After(c.expiresOn)
}

// IsHeldBy reports whether customerID is the current holder.
func (c *Cylinder) IsHeldBy(customerID kernel.UUID) bool {
	return c.state.CurrentCustomerID != nil && c.state.CurrentCustomerID.IsEqual(customerID)
}

// ChangeStatus moves the cylinder along the transition table. Filling
// increments the fill counter; leaving maintenance for Active stamps the
// inspection date. It returns the previous status.
func (c *Cylinder) ChangeStatus(next Status, now time.Time) (Status, error) {
	from := c.state.Status
	to, err := from.TransitionTo(next)
	if err != nil {
		return from, err
	}

	if to == Filled {
		c.state.TotalFills++
	}
	if from == Maintenance && to == Active {
		inspected := now
		c.state.LastInspectedOn = &inspected
	}
	c.state.Status = to
	c.touch(now)
	c.Record(StatusChangedEvent{CylinderID: c.id, From: from, To: to, At: now})
	return from, nil
}

// UpdateLocation records where the cylinder was last seen.
func (c *Cylinder) UpdateLocation(location kernel.GeoPoint, now time.Time) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.state.LastKnownLocation = &location
	c.touch(now)
	return nil
}

// RecordScan counts a scan whatever its verdict.
func (c *Cylinder) RecordScan(scannedBy kernel.UUID, location kernel.GeoPoint, at time.Time) error {
	if err := errors.Join(scannedBy.Validate(), location.Validate()); err != nil {
		return err
	}
	scannedAt := at
	by := scannedBy
	c.state.TotalScans++
	c.state.LastScannedAt = &scannedAt
	c.state.LastScannedBy = &by
	c.state.LastKnownLocation = &location
	c.touch(at)
	return nil
}

// FlagScan raises a ScanFlaggedEvent for a scan with a negative or warning verdict.
func (c *Cylinder) FlagScan(scannedBy kernel.UUID, result, message string, location kernel.GeoPoint, at time.Time) {
	c.Record(ScanFlaggedEvent{
		CylinderID: c.id,
		ScannedBy:  scannedBy,
		Result:     result,
		Message:    message,
		Location:   location,
		At:         at,
	})
}

// FlagTamper marks the cylinder as physically tampered.
func (c *Cylinder) FlagTamper(notes string, now time.Time) error {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return errs.NewValueIsRequiredError("tamper notes")
	}
	c.state.IsTampered = true
	c.state.TamperNotes = notes
	c.touch(now)
	return nil
}

// AssignToOrder links the cylinder to an order and its customer and moves it
// to InDelivery.
func (c *Cylinder) AssignToOrder(orderID, customerID kernel.UUID, now time.Time) error {
	if err := errors.Join(orderID.Validate(), customerID.Validate()); err != nil {
		return err
	}
	if err := c.ensureAssignable(); err != nil {
		return err
	}
	if _, err := c.ChangeStatus(InDelivery, now); err != nil {
		return err
	}
	c.state.CurrentOrderID = &orderID
	c.state.CurrentCustomerID = &customerID
	return nil
}

// AssignToCustomer hands the cylinder to a customer outside of any order.
func (c *Cylinder) AssignToCustomer(customerID kernel.UUID, now time.Time) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	if err := c.ensureAssignable(); err != nil {
		return err
	}
	c.state.CurrentCustomerID = &customerID
	c.state.CurrentOrderID = nil
	c.touch(now)
	return nil
}

// Unassign clears the customer and order links. It returns the previous customer.
func (c *Cylinder) Unassign(now time.Time) (*kernel.UUID, error) {
	if c.state.CurrentCustomerID == nil && c.state.CurrentOrderID == nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("cylinder", errors.New("cylinder is not assigned"))
	}
	previous := c.state.CurrentCustomerID
	c.state.CurrentCustomerID = nil
	c.state.CurrentOrderID = nil
	c.touch(now)
	return previous, nil
}

func (c *Cylinder) ensureAssignable() error {
	switch {
	case c.state.IsTampered:
		return errs.NewResourceUnavailableError("cylinder", "cylinder is flagged as tampered")
	case c.state.Status == Retired || c.state.Status == Stolen:
		return errs.NewResourceUnavailableError("cylinder", "cylinder is "+c.state.Status.String())
	}
	return nil
}

func (c *Cylinder) touch(now time.Time) {
	c.state.UpdatedAt = now
}

func (c *Cylinder) setSerialNumber(serial string) error {
	serial = strings.TrimSpace(serial)
	if len(serial) < MinSerialNumberLength {
		return errs.NewValueIsInvalidErrorWithCause("serial number",
			fmt.Errorf("must be at least %d characters", MinSerialNumberLength))
	}
	c.serialNumber = serial
	return nil
}

func (c *Cylinder) setKind(kind Kind, capacityKg float64) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	if capacityKg != kind.CapacityKg() {
		return errs.NewValueIsOutOfRangeError("capacity", capacityKg, kind.CapacityKg(), kind.CapacityKg())
	}
	c.kind = kind
	return nil
}

func (c *Cylinder) setManufacturer(manufacturer string) error {
	if strings.TrimSpace(manufacturer) == "" {
		return errs.NewValueIsRequiredError("manufacturer")
	}
	c.manufacturer = strings.TrimSpace(manufacturer)
	return nil
}

func (c *Cylinder) setLifetime(manufacturedOn, expiresOn time.Time) error {
	if manufacturedOn.IsZero() {
		return errs.NewValueIsRequiredError("manufacture date")
	}
	if !expiresOn.After(manufacturedOn) {
		return errs.NewValueIsInvalidErrorWithCause("expiry date", errors.New("must be after the manufacture date"))
	}
	limit := manufacturedOn.AddDate(MaxServiceLife, 0, 0)
	if expiresOn.After(limit) {
		return errs.NewValueIsOutOfRangeError("expiry date", expiresOn.Format(time.DateOnly),
			manufacturedOn.Format(time.DateOnly), limit.Format(time.DateOnly))
	}
	c.manufacturedOn = manufacturedOn
	c.expiresOn = expiresOn
	return nil
}

func validateCodes(codes Codes) error {
	var err error
	if !strings.HasPrefix(codes.IdentityCode, IdentityCodePrefix) {
		err = errors.Join(err, errs.NewValueIsInvalidError("identity code"))
	}
	if !strings.HasPrefix(codes.TagCode, TagCodePrefix) {
		err = errors.Join(err, errs.NewValueIsInvalidError("tag code"))
	}
	if codes.SecretKey == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("secret key"))
	}
	return err
}
