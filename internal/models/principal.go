// Package models defines the domain models for Gateward.
package models

// Role defines the role a principal holds within its organization.
type Role string

const (
	// RoleUser has standard access within the organization.
	RoleUser Role = "user"
	// RoleStaffChief administers a single tenant organization.
	RoleStaffChief Role = "staff_chief"
	// RoleSysAdmin administers the system across organizations.
	RoleSysAdmin Role = "sysadmin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleStaffChief, RoleSysAdmin:
		return true
	}
	return false
}

// Principal represents a user identity returned by the identity backend.
//
// ID is assigned by the backend, is unique process-wide and is never
// reused. Organization is the display name of the tenant the principal
// belongs to.
type Principal struct {
	ID                 string `json:"id"`
	Name               string `json:"name,omitempty"`
	Role               Role   `json:"role"`
	Organization       string `json:"organization"`
	MustChangePassword bool   `json:"must_change_password"`
	Active             bool   `json:"active"`
}

// IsStaffChief returns true if the principal administers its tenant.
func (p *Principal) IsStaffChief() bool {
	return p.Role == RoleStaffChief
}

// IsSysAdmin returns true if the principal is a system administrator.
func (p *Principal) IsSysAdmin() bool {
	return p.Role == RoleSysAdmin
}
