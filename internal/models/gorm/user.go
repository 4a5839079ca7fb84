package gorm

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"resilient-bharat/prashikshan/internal/apperr"
	"resilient-bharat/prashikshan/internal/constants"
)

type User struct {
	ID           string         `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Name         string         `gorm:"column:name" json:"name"`
	Email        string         `gorm:"column:email;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"column:password_hash" json:"-"`
	Role         constants.Role `gorm:"column:role;type:user_role;index:idx_users_role_approved" json:"role"`
	Organization string         `gorm:"column:organization" json:"organization,omitempty"`
	State        string         `gorm:"column:state;index:idx_users_state_role" json:"state,omitempty"`
	Phone        string         `gorm:"column:phone" json:"phone,omitempty"`

	Permissions constants.Permissions `gorm:"embedded" json:"permissions"`

	IsApproved      bool    `gorm:"column:is_approved;default:false;index:idx_users_role_approved" json:"isApproved"`
	IsActive        bool    `gorm:"column:is_active;default:true" json:"isActive"`
	ApprovedByID    *string `gorm:"column:approved_by;type:uuid" json:"approvedBy,omitempty"`
	RejectionReason string  `gorm:"column:rejection_reason" json:"rejectionReason,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	// Relationships
	ApprovedBy *User `gorm:"foreignKey:ApprovedByID" json:"-"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser is the only place a user is assembled. Permissions, approval
// and state policy are computed from the role here, never by a save
// hook.
func NewUser(name, email, passwordHash string, role constants.Role, organization, state, phone string) (*User, error) {
	// Emails are compared case-insensitively at login; store the
	// canonical form so lookups always match.
	email = strings.ToLower(strings.TrimSpace(email))

	perms, err := constants.PermissionsForRole(role)
	if err != nil {
		return nil, apperr.Newf(apperr.Validation, "invalid role %q", role)
	}

	if role == constants.RoleSuperAdmin {
		state = constants.StateAll
	}
	if role.RequiresState() && state == "" {
		return nil, apperr.ValidationFields("validation failed", map[string]string{
			"state": "state is required for role " + role.String(),
		})
	}
	if state != "" && !constants.ValidUserState(state) {
		return nil, apperr.ValidationFields("validation failed", map[string]string{
			"state": "unknown state " + state,
		})
	}

	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Organization: organization,
		State:        state,
		Phone:        phone,
		Permissions:  perms,
		IsApproved:   role.AutoApproved(),
		IsActive:     true,
	}, nil
}

// ChangeRole is the explicit role-change operation: it recomputes the
// permission set so the role→permissions invariant holds.
func (u *User) ChangeRole(role constants.Role) error {
	perms, err := constants.PermissionsForRole(role)
	if err != nil {
		return apperr.Newf(apperr.Validation, "invalid role %q", role)
	}
	u.Role = role
	u.Permissions = perms
	if role == constants.RoleSuperAdmin {
		u.State = constants.StateAll
	}
	return nil
}

// CanManage reports whether u may approve/deactivate/edit the target
// user: strictly higher hierarchy level plus the canManageUsers flag.
func (u *User) CanManage(target *User) bool {
	return u.Permissions.CanManageUsers && u.Role.Level() > target.Role.Level()
}

// StateScoped reports whether u only sees a single state's data.
func (u *User) StateScoped() bool {
	return u.Role != constants.RoleSuperAdmin && u.State != constants.StateAll
}
