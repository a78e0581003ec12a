package domain

import "time"

// Role enumerates the closed set of actor roles. Stored role strings are
// mapped through ParseRole; anything unrecognized becomes RoleUnknown, which
// the permission evaluator always rejects.
type Role string

const (
	RoleAdmin         Role = "ADMIN"
	RoleOfficeStaff   Role = "OFFICE_STAFF"
	RoleTechnician    Role = "TECHNICIAN"
	RoleClientContact Role = "CLIENT_CONTACT"
	RoleUnknown       Role = "UNKNOWN"
)

// ParseRole maps a stored role string onto the closed enum.
func ParseRole(raw string) Role {
	switch Role(raw) {
	case RoleAdmin, RoleOfficeStaff, RoleTechnician, RoleClientContact:
		return Role(raw)
	default:
		return RoleUnknown
	}
}

// Actor is an authenticated identity, the subject of every permission check.
// Identity issuance is owned by the auth collaborator; the core reads it only.
type Actor struct {
	ID           string
	DisplayName  string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
