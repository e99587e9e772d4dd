package access

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Actor is the authenticated caller supplied by the identity provider.
type Actor struct {
	id    kernel.UUID
	role  Role
	guard guard.ConstructorGuard
}

func NewActor(id kernel.UUID, role Role) (Actor, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role, guard: guard.NewConstructorGuard()}, nil
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) ID() kernel.UUID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

// Is reports whether the actor holds one of roles.
func (a Actor) Is(roles ...Role) bool {
	for _, r := range roles {
		if a.role == r {
			return true
		}
	}
	return false
}

// Authorize checks the capability table and returns the granted scope.
// ScopeNone is reported as a PermissionDeniedError.
func (a Actor) Authorize(capability Capability) (Scope, error) {
	if err := a.Validate(); err != nil {
		return ScopeNone, err
	}
	scope := ScopeOf(a.role, capability)
	if scope == ScopeNone {
		return ScopeNone, errs.NewPermissionDeniedError(a.id.String(), a.role.String(), capability.String())
	}
	return scope, nil
}

// AuthorizeOwned passes when the role holds the capability on every record,
// or holds it on its own records and owned is true.
func (a Actor) AuthorizeOwned(capability Capability, owned bool) error {
	scope, err := a.Authorize(capability)
	if err != nil {
		return err
	}
	if scope == ScopeOwn && !owned {
		return errs.NewPermissionDeniedError(a.id.String(), a.role.String(), capability.String())
	}
	return nil
}
