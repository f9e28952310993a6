package domain

import "time"

// Role is a capability grant, not a rank. A user may hold any combination of
// roles; every authorization rule is an explicit predicate over the set.
type Role string

const (
	RoleUser     Role = "USER"
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

// User is the domain model for every account: submitters, employees,
// managers and administrators. Ticket relations are kept as id references on
// the ticket side and resolved through repository lookups.
type User struct {
	ID           string
	Name         string
	PasswordHash string
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role Role) bool {
	return HasRole(u.Roles, role)
}

// HasAnyRole reports whether the user holds at least one of the given roles.
func (u *User) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if u.HasRole(r) {
			return true
		}
	}
	return false
}

// CanPostTickets reports posting eligibility: USER or EMPLOYEE.
func (u *User) CanPostTickets() bool {
	return u.HasAnyRole(RoleUser, RoleEmployee)
}

// CanBeAssigned reports assignment eligibility: only EMPLOYEE may be an
// assignee.
func (u *User) CanBeAssigned() bool {
	return u.HasRole(RoleEmployee)
}

// HasRole is the free-function form used when only a role slice is at hand.
func HasRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
