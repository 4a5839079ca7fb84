package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"resilient-bharat/prashikshan/internal/apperr"
	"resilient-bharat/prashikshan/internal/auth"
	"resilient-bharat/prashikshan/internal/common"
	"resilient-bharat/prashikshan/internal/models/dtos"
)

// RegisterHandler handles POST /api/auth/register
//
// @Summary      Register a new account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      201  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Failure      409  {object}  dtos.APIResponse
// @Router       /api/auth/register [post]
func RegisterHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondAppError(w, err)
			return
		}

		user, token, err := deps.Services.Auth.Register(r.Context(), req)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}

		message := "registration successful"
		if !user.IsApproved {
			message = "registration successful, awaiting approval"
		}
		common.RespondSuccess(w, message, dtos.AuthResponse{User: user, Token: token}, http.StatusCreated)
	}
}

// LoginHandler handles POST /api/auth/login
//
// @Summary      Log in with email and password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  dtos.APIResponse
// @Failure      401  {object}  dtos.APIResponse
// @Failure      403  {object}  dtos.APIResponse
// @Router       /api/auth/login [post]
func LoginHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondAppError(w, err)
			return
		}

		user, token, err := deps.Services.Auth.Login(r.Context(), req)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}

		common.RespondSuccess(w, "login successful", dtos.AuthResponse{User: user, Token: token})
	}
}

// MeHandler handles GET /api/auth/me
func MeHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := auth.GetCurrentUser(r.Context())
		common.RespondSuccess(w, "", user)
	}
}

// UpdateProfileHandler handles PUT /api/auth/profile
func UpdateProfileHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.UpdateProfileRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondAppError(w, err)
			return
		}

		user, err := deps.Services.Auth.UpdateProfile(r.Context(), auth.GetCurrentUser(r.Context()), req)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "profile updated", user)
	}
}

// ChangePasswordHandler handles PUT /api/auth/change-password
func ChangePasswordHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.ChangePasswordRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondAppError(w, err)
			return
		}

		if err := deps.Services.Auth.ChangePassword(r.Context(), auth.GetCurrentUser(r.Context()), req); err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "password changed", nil)
	}
}

// ListUsersHandler handles GET /api/auth/users
//
// @Summary      List users within the caller's scope
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/auth/users [get]
func ListUsersHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := dtos.UserListFilter{
			Role:   r.URL.Query().Get("role"),
			State:  r.URL.Query().Get("state"),
			Status: r.URL.Query().Get("status"),
			Page:   queryInt(r, "page", 1),
			Limit:  queryInt(r, "limit", 10),
		}

		users, pagination, err := deps.Services.Auth.ListUsers(r.Context(), auth.GetCurrentUser(r.Context()), filter)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "", listEnvelope{Items: users, Pagination: pagination})
	}
}

// ListPendingUsersHandler handles GET /api/auth/pending-users
func ListPendingUsersHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := deps.Services.Auth.ListPendingUsers(r.Context(), auth.GetCurrentUser(r.Context()))
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "", users)
	}
}

// ApproveUserHandler handles PUT /api/auth/approve-user/{id}
func ApproveUserHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetID := chi.URLParam(r, "id")
		if targetID == "" {
			common.RespondAppError(w, apperr.New(apperr.Validation, "user id is required"))
			return
		}

		var req dtos.ApproveUserRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondAppError(w, err)
			return
		}

		target, err := deps.Services.Auth.ApproveUser(r.Context(), auth.GetCurrentUser(r.Context()), targetID, req)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}

		message := "user approved"
		if !req.Approve {
			message = "user rejected"
		}
		common.RespondSuccess(w, message, target)
	}
}

// UpdateUserHandler handles PUT /api/auth/users/{id} (SuperAdmin only)
func UpdateUserHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetID := chi.URLParam(r, "id")

		var req dtos.UpdateUserRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondAppError(w, err)
			return
		}

		target, err := deps.Services.Auth.UpdateUser(r.Context(), targetID, req)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "user updated", target)
	}
}

// UserStatsHandler handles GET /api/auth/user-stats
func UserStatsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := deps.Services.Auth.UserStats(r.Context())
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "", stats)
	}
}
