package models

import (
	"fmt"
	"strings"
)

// Role is the closed set of principals the API authenticates.
type Role int

// Role constants.
const (
	RoleUnknown Role = iota
	RoleGlobalAdmin
	RoleOperationalAdmin
	RoleWasher
)

// String returns the wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleGlobalAdmin:
		return "global_admin"
	case RoleOperationalAdmin:
		return "operational_admin"
	case RoleWasher:
		return "washer"
	default:
		return "unknown"
	}
}

// ParseRole parses a wire role name.
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "global_admin":
		return RoleGlobalAdmin, nil
	case "operational_admin":
		return RoleOperationalAdmin, nil
	case "washer":
		return RoleWasher, nil
	default:
		return RoleUnknown, fmt.Errorf("unknown role: %q", raw)
	}
}

// IsAdmin reports whether the role may operate the lot.
func (r Role) IsAdmin() bool {
	return r == RoleGlobalAdmin || r == RoleOperationalAdmin
}
