package middleware

import (
	"net/http"

	"resilient-bharat/prashikshan/internal/apperr"
	"resilient-bharat/prashikshan/internal/auth"
	"resilient-bharat/prashikshan/internal/common"
	"resilient-bharat/prashikshan/internal/constants"
)

// Permission names accepted by RequirePermissions.
const (
	PermCreateTraining  = "createTraining"
	PermApproveTraining = "approveTraining"
	PermManageUsers     = "manageUsers"
	PermGenerateReports = "generateReports"
	PermManageSystem    = "manageSystem"
)

// RequireRoles allows the request through when the current user holds
// any of the listed roles. Must run after AuthMiddleware.
func RequireRoles(roles ...constants.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := auth.GetCurrentUser(r.Context())
			if user == nil {
				common.RespondAppError(w, apperr.New(apperr.Unauthenticated, "authentication required"))
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			common.RespondAppError(w, apperr.New(apperr.Forbidden, "insufficient role"))
		})
	}
}

// RequirePermissions allows the request through when the current user
// holds ANY of the listed permission flags.
func RequirePermissions(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := auth.GetCurrentUser(r.Context())
			if user == nil {
				common.RespondAppError(w, apperr.New(apperr.Unauthenticated, "authentication required"))
				return
			}

			for _, perm := range perms {
				if hasPermission(user.Permissions, perm) {
					next.ServeHTTP(w, r)
					return
				}
			}

			common.RespondAppError(w, apperr.New(apperr.Forbidden, "insufficient permissions"))
		})
	}
}

func hasPermission(p constants.Permissions, name string) bool {
	switch name {
	case PermCreateTraining:
		return p.CanCreateTraining
	case PermApproveTraining:
		return p.CanApproveTraining
	case PermManageUsers:
		return p.CanManageUsers
	case PermGenerateReports:
		return p.CanGenerateReports
	case PermManageSystem:
		return p.CanManageSystem
	default:
		return false
	}
}
