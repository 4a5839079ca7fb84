package dtos

import (
	"time"

	"resilient-bharat/prashikshan/internal/models/entities"
)

// APIResponse is the envelope on every JSON response.
type APIResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Pagination rides along on list responses.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"total"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

type AuthResponse struct {
	User  interface{} `json:"user"`
	Token string      `json:"token"`
}

type RegistrationReceipt struct {
	TrainingID   string    `json:"trainingId"`
	UserID       string    `json:"userId"`
	RegisteredAt time.Time `json:"registeredAt"`
}

type ApprovalReceipt struct {
	ApprovalStatus string     `json:"approvalStatus"`
	ApprovedBy     string     `json:"approvedBy"`
	ApprovalDate   *time.Time `json:"approvalDate,omitempty"`
}

type GenderRatio struct {
	Male   float64 `json:"male"`
	Female float64 `json:"female"`
}

// DashboardOverview augments the raw totals with the derived metrics.
type DashboardOverview struct {
	entities.OverviewStats
	ParticipationRate          float64     `json:"participationRate"`
	GenderRatio                GenderRatio `json:"genderRatio"`
	AvgParticipantsPerTraining int         `json:"avgParticipantsPerTraining"`
}

type DashboardResponse struct {
	Overview           DashboardOverview            `json:"overview"`
	StateWise          []entities.StateCount        `json:"stateWise"`
	ThemeWise          []entities.ThemeCount        `json:"themeWise"`
	MonthlyTrend       []entities.MonthlyTrendPoint `json:"monthlyTrend"`
	StatusDistribution []entities.StatusCount       `json:"statusDistribution"`
	TrainingTypes      []entities.TypeCount         `json:"trainingTypes"`
	TargetAudience     []entities.AudienceCount     `json:"targetAudience"`
	TopStates          []entities.TopState          `json:"topStates"`
}

type StateAnalyticsResponse struct {
	State         string                       `json:"state"`
	Overview      entities.OverviewStats       `json:"overview"`
	DistrictWise  []entities.DistrictCount     `json:"districtWise"`
	ThemeWise     []entities.ThemeCount        `json:"themeWise"`
	MonthlyTrend  []entities.MonthlyTrendPoint `json:"monthlyTrend"`
	TrainingTypes []entities.TypeCount         `json:"trainingTypes"`
}

// GeoJSON shapes for the map endpoint.
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type MapFeature struct {
	Type       string                 `json:"type"`
	Geometry   GeoPoint               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type FeatureCollection struct {
	Type     string       `json:"type"`
	Features []MapFeature `json:"features"`
}

type MapDataResponse struct {
	GeoJSON       FeatureCollection   `json:"geoJson"`
	StateSummary  []entities.TopState `json:"stateSummary"`
	TotalFeatures int                 `json:"totalFeatures"`
}

type UserStatsResponse struct {
	Total    int64                    `json:"total"`
	Approved int64                    `json:"approved"`
	Active   int64                    `json:"active"`
	Pending  int64                    `json:"pending"`
	ByRole   []entities.UserRoleStats `json:"byRole"`
}
