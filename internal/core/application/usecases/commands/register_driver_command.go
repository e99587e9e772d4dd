package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRegisterDriverCommandIsNotConstructed = errors.New(
	"RegisterDriverCommand must be created via NewRegisterDriverCommand constructor",
)

// RegisterDriverCommand adds a driver profile for an existing user account.
type RegisterDriverCommand struct { //nolint:recvcheck //using for validation
	driverID      kernel.UUID
	actor         access.Actor
	userID        kernel.UUID
	name          string
	licenseNumber string

	guard guard.ConstructorGuard
}

func NewRegisterDriverCommand(actor access.Actor, userID kernel.UUID, name, licenseNumber string) (RegisterDriverCommand, error) {
	cmd := RegisterDriverCommand{
		driverID:      kernel.NewUUID(),
		actor:         actor,
		userID:        userID,
		name:          strings.TrimSpace(name),
		licenseNumber: strings.TrimSpace(licenseNumber),
		guard:         guard.NewConstructorGuard(),
	}

	var err error
	if cmd.name == "" {
		err = errs.NewValueIsRequiredError("name")
	}
	if cmd.licenseNumber == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("license number"))
	}
	if err = errors.Join(err, actor.Validate(), userID.Validate()); err != nil {
		return RegisterDriverCommand{}, err
	}
	return cmd, nil
}

func (c RegisterDriverCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDriverCommandIsNotConstructed)
}

func (c RegisterDriverCommand) DriverID() kernel.UUID { return c.driverID }
func (c RegisterDriverCommand) Actor() access.Actor   { return c.actor }
func (c RegisterDriverCommand) UserID() kernel.UUID   { return c.userID }
func (c RegisterDriverCommand) Name() string          { return c.name }
func (c RegisterDriverCommand) LicenseNumber() string { return c.licenseNumber }
