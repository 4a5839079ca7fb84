package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"resilient-bharat/prashikshan/internal/auth"
	"resilient-bharat/prashikshan/internal/common"
	"resilient-bharat/prashikshan/internal/models/dtos"
)

// ListTrainingsHandler handles GET /api/trainings
//
// @Summary      List trainings with filters and pagination
// @Tags         Trainings
// @Produce      json
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/trainings [get]
func ListTrainingsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := dtos.TrainingListFilter{
			Theme:       r.URL.Query().Get("theme"),
			Institution: r.URL.Query().Get("institution"),
			Status:      r.URL.Query().Get("status"),
			State:       r.URL.Query().Get("state"),
			StartDate:   queryDate(r, "startDate"),
			EndDate:     queryDate(r, "endDate"),
			Page:        queryInt(r, "page", 1),
			Limit:       queryInt(r, "limit", 10),
		}

		// Public endpoint: the scope filter is zero unless the request
		// came through the auth middleware.
		scope := auth.GetScopeFilter(r.Context())

		trainings, pagination, err := deps.Services.Training.List(r.Context(), filter, scope)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "", listEnvelope{Items: trainings, Pagination: pagination})
	}
}

// GetTrainingHandler handles GET /api/trainings/{id}
func GetTrainingHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		training, err := deps.Services.Training.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "", training)
	}
}

// CreateTrainingHandler handles POST /api/trainings
//
// @Summary      Create a training
// @Tags         Trainings
// @Accept       json
// @Produce      json
// @Success      201  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Failure      403  {object}  dtos.APIResponse
// @Router       /api/trainings [post]
func CreateTrainingHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.TrainingRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondAppError(w, err)
			return
		}

		training, err := deps.Services.Training.Create(r.Context(), auth.GetCurrentUser(r.Context()), req)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "training created", training, http.StatusCreated)
	}
}

// UpdateTrainingHandler handles PUT /api/trainings/{id}
func UpdateTrainingHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.TrainingRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondAppError(w, err)
			return
		}

		training, err := deps.Services.Training.Update(r.Context(), auth.GetCurrentUser(r.Context()), chi.URLParam(r, "id"), req)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "training updated", training)
	}
}

// DeleteTrainingHandler handles DELETE /api/trainings/{id}
func DeleteTrainingHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Services.Training.Delete(r.Context(), auth.GetCurrentUser(r.Context()), chi.URLParam(r, "id")); err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "training deleted", nil)
	}
}

// RegisterForTrainingHandler handles POST /api/trainings/{id}/register
//
// @Summary      Register the caller for a training
// @Tags         Trainings
// @Produce      json
// @Success      201  {object}  dtos.APIResponse
// @Failure      409  {object}  dtos.APIResponse
// @Router       /api/trainings/{id}/register [post]
func RegisterForTrainingHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reg, err := deps.Services.Training.Register(r.Context(), auth.GetCurrentUser(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "registered", dtos.RegistrationReceipt{
			TrainingID:   reg.TrainingID,
			UserID:       reg.UserID,
			RegisteredAt: reg.RegisteredAt,
		}, http.StatusCreated)
	}
}

// CancelRegistrationHandler handles DELETE /api/trainings/{id}/register
func CancelRegistrationHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Services.Training.CancelRegistration(r.Context(), auth.GetCurrentUser(r.Context()), chi.URLParam(r, "id")); err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "registration cancelled", nil)
	}
}

// MarkAttendanceHandler handles PUT /api/trainings/{id}/attendance
func MarkAttendanceHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.AttendanceRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondAppError(w, err)
			return
		}

		reg, err := deps.Services.Training.MarkAttendance(r.Context(), auth.GetCurrentUser(r.Context()), chi.URLParam(r, "id"), req)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "attendance marked", reg)
	}
}

// ApproveTrainingHandler handles PUT /api/trainings/{id}/approve
func ApproveTrainingHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.ApproveTrainingRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondAppError(w, err)
			return
		}

		training, err := deps.Services.Training.Approve(r.Context(), auth.GetCurrentUser(r.Context()), chi.URLParam(r, "id"), req)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}

		message := "training approved"
		if !req.Approve {
			message = "training rejected"
		}
		common.RespondSuccess(w, message, dtos.ApprovalReceipt{
			ApprovalStatus: training.ApprovalStatus,
			ApprovedBy:     auth.GetCurrentUser(r.Context()).ID,
			ApprovalDate:   training.ApprovalDate,
		})
	}
}

// AddFeedbackHandler handles POST /api/trainings/{id}/feedback
func AddFeedbackHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.FeedbackRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondAppError(w, err)
			return
		}

		fb, err := deps.Services.Training.AddFeedback(r.Context(), auth.GetCurrentUser(r.Context()), chi.URLParam(r, "id"), req)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "feedback submitted", fb, http.StatusCreated)
	}
}

// ListRegistrationsHandler handles GET /api/trainings/{id}/registrations
func ListRegistrationsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regs, err := deps.Services.Training.ListRegistrations(r.Context(), auth.GetCurrentUser(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "", regs)
	}
}
