package access

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Role is the closed set of actor roles issued by the identity provider.
type Role int

const (
	RoleUnknown Role = iota
	Customer
	Driver
	Dispatcher
	Admin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown: "UNKNOWN",
		Customer:    "CUSTOMER",
		Driver:      "DRIVER",
		Dispatcher:  "DISPATCHER",
		Admin:       "ADMIN",
	}
}

// ParseRole maps the identity provider's role claim onto a Role.
func ParseRole(s string) (Role, error) {
	for role, str := range getRoleStrings() {
		if role != RoleUnknown && str == strings.ToUpper(strings.TrimSpace(s)) {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "UNKNOWN"
}

func (r Role) Validate() error {
	if r <= RoleUnknown || r > Admin {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}
