package repositories

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"resilient-bharat/prashikshan/internal/apperr"
	"resilient-bharat/prashikshan/internal/constants"
	"resilient-bharat/prashikshan/internal/models/dtos"
	"resilient-bharat/prashikshan/internal/models/entities"
)

// AnalyticsRepository runs the read-side projection queries through
// sqlx. The write model never goes through here.
type AnalyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// filterArgs binds the shared ($1..$4) filter parameters.
func filterArgs(f dtos.AnalyticsFilter) []interface{} {
	var start, end interface{}
	if f.StartDate != nil {
		start = *f.StartDate
	}
	if f.EndDate != nil {
		end = *f.EndDate
	}
	return []interface{}{start, end, f.State, f.Theme}
}

func (r *AnalyticsRepository) Overview(ctx context.Context, f dtos.AnalyticsFilter) (*entities.OverviewStats, error) {
	var stats entities.OverviewStats
	if err := r.db.GetContext(ctx, &stats, constants.QueryOverviewStats, filterArgs(f)...); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "overview projection failed", err)
	}
	return &stats, nil
}

func (r *AnalyticsRepository) StateWise(ctx context.Context, f dtos.AnalyticsFilter) ([]entities.StateCount, error) {
	var rows []entities.StateCount
	if err := r.db.SelectContext(ctx, &rows, constants.QueryStateWise, filterArgs(f)...); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "state projection failed", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) ThemeWise(ctx context.Context, f dtos.AnalyticsFilter) ([]entities.ThemeCount, error) {
	var rows []entities.ThemeCount
	if err := r.db.SelectContext(ctx, &rows, constants.QueryThemeWise, filterArgs(f)...); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "theme projection failed", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) MonthlyTrend(ctx context.Context, f dtos.AnalyticsFilter) ([]entities.MonthlyTrendPoint, error) {
	var rows []entities.MonthlyTrendPoint
	if err := r.db.SelectContext(ctx, &rows, constants.QueryMonthlyTrend, filterArgs(f)...); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "trend projection failed", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) StatusDistribution(ctx context.Context, f dtos.AnalyticsFilter) ([]entities.StatusCount, error) {
	var rows []entities.StatusCount
	if err := r.db.SelectContext(ctx, &rows, constants.QueryStatusDistribution, filterArgs(f)...); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "status projection failed", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) TrainingTypes(ctx context.Context, f dtos.AnalyticsFilter) ([]entities.TypeCount, error) {
	var rows []entities.TypeCount
	if err := r.db.SelectContext(ctx, &rows, constants.QueryTrainingTypes, filterArgs(f)...); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "type projection failed", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) TargetAudience(ctx context.Context, f dtos.AnalyticsFilter) ([]entities.AudienceCount, error) {
	var rows []entities.AudienceCount
	if err := r.db.SelectContext(ctx, &rows, constants.QueryTargetAudience, filterArgs(f)...); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "audience projection failed", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) TopStates(ctx context.Context, f dtos.AnalyticsFilter) ([]entities.TopState, error) {
	var rows []entities.TopState
	if err := r.db.SelectContext(ctx, &rows, constants.QueryTopStates, filterArgs(f)...); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "top-states projection failed", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) StateSummary(ctx context.Context, f dtos.AnalyticsFilter) ([]entities.TopState, error) {
	var rows []entities.TopState
	if err := r.db.SelectContext(ctx, &rows, constants.QueryStateSummary, filterArgs(f)...); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "state-summary projection failed", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) DistrictWise(ctx context.Context, state string, startDate, endDate *time.Time) ([]entities.DistrictCount, error) {
	f := dtos.AnalyticsFilter{StartDate: startDate, EndDate: endDate, State: state}
	var rows []entities.DistrictCount
	if err := r.db.SelectContext(ctx, &rows, constants.QueryDistrictWise, filterArgs(f)...); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "district projection failed", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) UserRoleStats(ctx context.Context) ([]entities.UserRoleStats, error) {
	var rows []entities.UserRoleStats
	if err := r.db.SelectContext(ctx, &rows, constants.QueryUserRoleStats); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "user role projection failed", err)
	}
	return rows, nil
}
