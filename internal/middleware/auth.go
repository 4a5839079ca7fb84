package middleware

import (
	"net/http"
	"strings"

	"resilient-bharat/prashikshan/internal/apperr"
	"resilient-bharat/prashikshan/internal/auth"
	"resilient-bharat/prashikshan/internal/common"
	"resilient-bharat/prashikshan/internal/db/repositories"
)

// AuthMiddleware resolves the bearer token to a live user record and
// attaches the user plus their derived scope filter to the request
// context. The user row is loaded on every request so deactivation
// and role changes take effect without waiting for token expiry.
func AuthMiddleware(tokens *auth.TokenManager, userRepo *repositories.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondAppError(w, apperr.New(apperr.Unauthenticated, "missing bearer token"))
				return
			}

			userID, err := tokens.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				common.RespondAppError(w, apperr.New(apperr.Unauthenticated, "invalid or expired token"))
				return
			}

			user, err := userRepo.GetByID(r.Context(), userID)
			if err != nil {
				common.RespondAppError(w, apperr.New(apperr.Unauthenticated, "account not found"))
				return
			}

			if !user.IsActive {
				common.RespondAppError(w, apperr.New(apperr.Unauthenticated, "account is deactivated"))
				return
			}

			// Volunteers and super admins are approved at registration;
			// only roles that go through the approval queue are gated.
			if !user.IsApproved && !user.Role.AutoApproved() {
				common.RespondAppError(w, apperr.New(apperr.PendingApproval, "account is pending approval"))
				return
			}

			ctx := auth.SetCurrentUser(r.Context(), user)
			ctx = auth.SetScopeFilter(ctx, auth.DeriveScopeFilter(user))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware attaches the user and scope filter when a
// valid bearer token is present, and lets the request through
// anonymously otherwise. Used on public reads whose row visibility
// narrows for scoped roles.
func OptionalAuthMiddleware(tokens *auth.TokenManager, userRepo *repositories.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := tokens.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			user, err := userRepo.GetByID(r.Context(), userID)
			if err != nil || !user.IsActive || (!user.IsApproved && !user.Role.AutoApproved()) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.SetCurrentUser(r.Context(), user)
			ctx = auth.SetScopeFilter(ctx, auth.DeriveScopeFilter(user))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
