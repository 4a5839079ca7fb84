package auth

import (
	"context"

	"resilient-bharat/prashikshan/internal/constants"
	gormModels "resilient-bharat/prashikshan/internal/models/gorm"
)

type contextKey string

var currentUserKey contextKey = "current_user"
var scopeFilterKey contextKey = "scope_filter"

// ScopeFilter is the derived row-level restriction attached to the
// request after authorization: SuperAdmin sees everything; a
// state-scoped Admin sees their state; ATI/NGO see rows they organize.
// Volunteers carry no filter; their writes are blocked by the
// permission gates instead.
type ScopeFilter struct {
	State       string
	OrganizerID string
}

// DeriveScopeFilter computes the filter for the user per their role.
func DeriveScopeFilter(user *gormModels.User) ScopeFilter {
	switch user.Role {
	case constants.RoleAdmin:
		if user.Permissions.CanViewAllStates {
			return ScopeFilter{}
		}
		return ScopeFilter{State: user.State}
	case constants.RoleATI, constants.RoleNGO:
		return ScopeFilter{OrganizerID: user.ID}
	default:
		return ScopeFilter{}
	}
}

func SetCurrentUser(ctx context.Context, user *gormModels.User) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

func GetCurrentUser(ctx context.Context) *gormModels.User {
	val := ctx.Value(currentUserKey)
	if user, ok := val.(*gormModels.User); ok {
		return user
	}
	return nil
}

func SetScopeFilter(ctx context.Context, filter ScopeFilter) context.Context {
	return context.WithValue(ctx, scopeFilterKey, filter)
}

func GetScopeFilter(ctx context.Context) ScopeFilter {
	val := ctx.Value(scopeFilterKey)
	if f, ok := val.(ScopeFilter); ok {
		return f
	}
	return ScopeFilter{}
}
