package admission

import (
	"strings"

	"roomkey/internal/pkg/errs"
)

// Role selects the admission branch.
type Role int

const (
	// RoleStandard admits named or generated participants with full publish rights.
	RoleStandard Role = iota

	// RoleObserver admits one numbered, subscribe-only observer, capped per room.
	RoleObserver
)

// ParseRole maps the wire value to a Role. The empty string is RoleStandard;
// "pengawas" is accepted as an alias of "observer" for older admin clients.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return RoleStandard, nil
	case "observer", "pengawas":
		return RoleObserver, nil
	default:
		return RoleStandard, errs.NewError(errs.ErrRoleInvalid, s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleStandard:
		return "standard"
	case RoleObserver:
		return "observer"
	default:
		return "unknown"
	}
}
