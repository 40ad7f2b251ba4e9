package domain

import dErrors "civitas/pkg/domain-errors"

// Role identifies what kind of actor is behind a request.
type Role string

const (
	RoleCivilian  Role = "civilian"
	RoleAuthority Role = "authority"
	RoleAdmin     Role = "admin"
)

var validRoles = map[Role]bool{
	RoleCivilian:  true,
	RoleAuthority: true,
	RoleAdmin:     true,
}

// ParseRole constructs a Role from external input (JWT claims, config).
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !validRoles[r] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported role")
	}
	return r, nil
}

// Principal is the authenticated actor attached to a request. Subject is the
// stable identifier carried in audit events (a hashed national ID, never raw
// PII). CivilianID is set only when the actor has a civilian record of their
// own; authorities acting purely in an official capacity leave it nil.
type Principal struct {
	Subject    string
	Role       Role
	CivilianID CivilianID
}

// IsSelf reports whether the principal is the civilian identified by target.
// Self-access is the one disclosure path that needs no allocation.
func (p Principal) IsSelf(target CivilianID) bool {
	return !p.CivilianID.IsNil() && p.CivilianID == target
}
