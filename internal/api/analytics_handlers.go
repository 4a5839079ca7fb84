package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"resilient-bharat/prashikshan/internal/common"
)

// DashboardHandler handles GET /api/analytics/dashboard
//
// @Summary      Dashboard rollups with optional date/state/theme filters
// @Tags         Analytics
// @Produce      json
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/analytics/dashboard [get]
func DashboardHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := deps.Services.Analytics.Dashboard(r.Context(), analyticsFilterFromQuery(r))
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "", resp)
	}
}

// MapDataHandler handles GET /api/analytics/map-data
func MapDataHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := deps.Services.Analytics.MapData(r.Context(), analyticsFilterFromQuery(r))
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "", resp)
	}
}

// StateAnalyticsHandler handles GET /api/analytics/states/{state}
func StateAnalyticsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := deps.Services.Analytics.StateAnalytics(
			r.Context(),
			chi.URLParam(r, "state"),
			queryDate(r, "startDate"),
			queryDate(r, "endDate"),
		)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		common.RespondSuccess(w, "", resp)
	}
}
