package constants

import (
	"database/sql/driver"
	"fmt"
)

// Role mirrors the Postgres ENUM 'user_role'
type Role string

const (
	RoleSuperAdmin Role = "SuperAdmin"
	RoleAdmin      Role = "Admin"
	RoleATI        Role = "ATI"
	RoleNGO        Role = "NGO"
	RoleVolunteer  Role = "Volunteer"
)

// Stringer ­– convenient for fmt / logs
func (r Role) String() string { return string(r) }

// roleHierarchy orders roles for management authority. A user may only
// manage users whose level is strictly lower than their own.
var roleHierarchy = map[Role]int{
	RoleSuperAdmin: 5,
	RoleAdmin:      4,
	RoleATI:        3,
	RoleNGO:        2,
	RoleVolunteer:  1,
}

// Level returns the hierarchy value of the role, 0 for unknown roles.
func (r Role) Level() int { return roleHierarchy[r] }

// Valid reports whether r is one of the five recognized roles.
func (r Role) Valid() bool { return roleHierarchy[r] > 0 }

// Permissions is the derived capability set of a user. It is a pure
// function of the role: never set these flags directly, always go
// through PermissionsForRole.
type Permissions struct {
	CanCreateTraining  bool `gorm:"column:can_create_training" json:"canCreateTraining"`
	CanApproveTraining bool `gorm:"column:can_approve_training" json:"canApproveTraining"`
	CanManageUsers     bool `gorm:"column:can_manage_users" json:"canManageUsers"`
	CanViewAllStates   bool `gorm:"column:can_view_all_states" json:"canViewAllStates"`
	CanGenerateReports bool `gorm:"column:can_generate_reports" json:"canGenerateReports"`
	CanManageSystem    bool `gorm:"column:can_manage_system" json:"canManageSystem"`
}

// PermissionsForRole returns the fixed permission set for a role.
// The mapping is total over the five roles; unknown roles error.
func PermissionsForRole(r Role) (Permissions, error) {
	switch r {
	case RoleSuperAdmin:
		return Permissions{
			CanCreateTraining:  true,
			CanApproveTraining: true,
			CanManageUsers:     true,
			CanViewAllStates:   true,
			CanGenerateReports: true,
			CanManageSystem:    true,
		}, nil
	case RoleAdmin:
		return Permissions{
			CanCreateTraining:  true,
			CanApproveTraining: true,
			CanManageUsers:     true,
			CanGenerateReports: true,
		}, nil
	case RoleATI:
		return Permissions{
			CanCreateTraining:  true,
			CanGenerateReports: true,
		}, nil
	case RoleNGO:
		return Permissions{
			CanCreateTraining: true,
		}, nil
	case RoleVolunteer:
		return Permissions{}, nil
	default:
		return Permissions{}, fmt.Errorf("unrecognized role: %q", r)
	}
}

// AutoApproved reports whether accounts with this role are approved at
// creation time. Everyone else waits for an explicit approval.
func (r Role) AutoApproved() bool {
	return r == RoleSuperAdmin || r == RoleVolunteer
}

// RequiresState reports whether the role must carry a concrete state
// assignment. SuperAdmin is forced to "All" instead.
func (r Role) RequiresState() bool {
	return r == RoleAdmin || r == RoleATI || r == RoleNGO
}

/* ---------- DB adapters so sqlx (or database/sql) scans/values cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("Role: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return string(r), nil }
