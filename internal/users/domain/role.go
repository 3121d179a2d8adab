package domain

import (
	"errors"
	"strings"
)

// Role is the fixed privilege enumeration. Unknown values are rejected at
// write time; RoleUser is the lowest privilege and the creation default.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

var ErrUnknownRole = errors.New("domain: unknown role")

// ParseRole validates a role name. The empty string maps to RoleUser.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return RoleUser, nil
	case RoleUser:
		return RoleUser, nil
	case RoleModerator:
		return RoleModerator, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) String() string { return string(r) }
