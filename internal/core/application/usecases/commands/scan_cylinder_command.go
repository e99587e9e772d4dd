package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrScanCylinderCommandIsNotConstructed = errors.New(
	"ScanCylinderCommand must be created via NewScanCylinderCommand constructor",
)

// ScanCylinderCommand is one field scan of a cylinder's printed codes.
// IDENTITY_CODE and TAG_CODE scans look up by the matching code only; a
// MANUAL scan uses every code that was typed in.
type ScanCylinderCommand struct { //nolint:recvcheck //using for validation
	actor        access.Actor
	scanType     audit.ScanType
	identityCode string
	tagCode      string
	location     kernel.GeoPoint
	address      string
	origin       audit.Origin

	guard guard.ConstructorGuard
}

func NewScanCylinderCommand(
	actor access.Actor,
	scanType audit.ScanType,
	identityCode, tagCode string,
	location kernel.GeoPoint,
	address string,
	origin audit.Origin,
) (ScanCylinderCommand, error) {
	identityCode = strings.ToUpper(strings.TrimSpace(identityCode))
	tagCode = strings.ToUpper(strings.TrimSpace(tagCode))

	var codeErr error
	switch scanType {
	case audit.ScanIdentityCode:
		if identityCode == "" {
			codeErr = errs.NewValueIsRequiredError("identity code")
		}
		tagCode = ""
	case audit.ScanTagCode:
		if tagCode == "" {
			codeErr = errs.NewValueIsRequiredError("tag code")
		}
		identityCode = ""
	case audit.ScanManual:
		if identityCode == "" && tagCode == "" {
			codeErr = errs.NewValueIsRequiredError("identity code or tag code")
		}
	default:
		codeErr = errs.NewValueIsInvalidError("scan type")
	}

	if err := errors.Join(actor.Validate(), location.Validate(), codeErr); err != nil {
		return ScanCylinderCommand{}, err
	}

	return ScanCylinderCommand{
		actor:        actor,
		scanType:     scanType,
		identityCode: identityCode,
		tagCode:      tagCode,
		location:     location,
		address:      strings.TrimSpace(address),
		origin:       origin,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c ScanCylinderCommand) Validate() error {
	return c.guard.Validate(ErrScanCylinderCommandIsNotConstructed)
}

func (c ScanCylinderCommand) Actor() access.Actor       { return c.actor }
func (c ScanCylinderCommand) ScanType() audit.ScanType  { return c.scanType }
func (c ScanCylinderCommand) Location() kernel.GeoPoint { return c.location }
func (c ScanCylinderCommand) Address() string           { return c.address }
func (c ScanCylinderCommand) Origin() audit.Origin      { return c.origin }

func (c ScanCylinderCommand) Lookup() ports.CodeLookup {
	return ports.CodeLookup{IdentityCode: c.identityCode, TagCode: c.tagCode}
}
