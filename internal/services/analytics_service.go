package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"resilient-bharat/prashikshan/internal/apperr"
	"resilient-bharat/prashikshan/internal/common"
	"resilient-bharat/prashikshan/internal/constants"
	"resilient-bharat/prashikshan/internal/db/repositories"
	"resilient-bharat/prashikshan/internal/metrics"
	"resilient-bharat/prashikshan/internal/models/dtos"
	"resilient-bharat/prashikshan/internal/models/entities"
	gormModels "resilient-bharat/prashikshan/internal/models/gorm"
)

const dashboardCacheTTL = 2 * time.Minute

// AnalyticsService merges the read-side projections. Each projection
// is independent, so they run concurrently and fail together.
type AnalyticsService struct {
	repo      *repositories.AnalyticsRepository
	trainings *repositories.TrainingRepository
	cache     common.CacheInterface
	metrics   *metrics.MetricsRegistry
}

func NewAnalyticsService(repo *repositories.AnalyticsRepository, trainings *repositories.TrainingRepository, cache common.CacheInterface, reg *metrics.MetricsRegistry) *AnalyticsService {
	return &AnalyticsService{
		repo:      repo,
		trainings: trainings,
		cache:     cache,
		metrics:   reg,
	}
}

// decodeDashboard recovers a dashboard response from a cache entry.
// The in-memory cache hands back the typed pointer it was given; the
// Redis cache hands back the generic value json.Unmarshal produces, so
// that shape is re-encoded into the typed struct.
func decodeDashboard(cached interface{}) *dtos.DashboardResponse {
	if resp, ok := cached.(*dtos.DashboardResponse); ok {
		return resp
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		return nil
	}
	resp := new(dtos.DashboardResponse)
	if err := json.Unmarshal(raw, resp); err != nil {
		return nil
	}
	return resp
}

func dashboardCacheKey(f dtos.AnalyticsFilter) string {
	start, end := "", ""
	if f.StartDate != nil {
		start = f.StartDate.Format("2006-01-02")
	}
	if f.EndDate != nil {
		end = f.EndDate.Format("2006-01-02")
	}
	return fmt.Sprintf("analytics:dashboard:%s:%s:%s:%s", start, end, f.State, f.Theme)
}

// Dashboard runs all projections concurrently and derives the
// participation and gender metrics in one pass.
func (s *AnalyticsService) Dashboard(ctx context.Context, f dtos.AnalyticsFilter) (*dtos.DashboardResponse, error) {
	key := dashboardCacheKey(f)
	if s.cache != nil {
		if cached, found := s.cache.Get(key); found {
			if resp := decodeDashboard(cached); resp != nil {
				if s.metrics != nil {
					s.metrics.CacheHitsTotal.WithLabelValues("analytics:dashboard").Inc()
				}
				return resp, nil
			}
		}
		if s.metrics != nil {
			s.metrics.CacheMissesTotal.WithLabelValues("analytics:dashboard").Inc()
		}
	}

	var (
		overview  *entities.OverviewStats
		stateWise []entities.StateCount
		themeWise []entities.ThemeCount
		trend     []entities.MonthlyTrendPoint
		statuses  []entities.StatusCount
		types     []entities.TypeCount
		audiences []entities.AudienceCount
		topStates []entities.TopState
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { overview, err = s.repo.Overview(gctx, f); return })
	g.Go(func() (err error) { stateWise, err = s.repo.StateWise(gctx, f); return })
	g.Go(func() (err error) { themeWise, err = s.repo.ThemeWise(gctx, f); return })
	g.Go(func() (err error) { trend, err = s.repo.MonthlyTrend(gctx, f); return })
	g.Go(func() (err error) { statuses, err = s.repo.StatusDistribution(gctx, f); return })
	g.Go(func() (err error) { types, err = s.repo.TrainingTypes(gctx, f); return })
	g.Go(func() (err error) { audiences, err = s.repo.TargetAudience(gctx, f); return })
	g.Go(func() (err error) { topStates, err = s.repo.TopStates(gctx, f); return })
	if err := g.Wait(); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "analytics query failed", err)
	}

	resp := &dtos.DashboardResponse{
		Overview:           buildOverview(overview),
		StateWise:          stateWise,
		ThemeWise:          themeWise,
		MonthlyTrend:       trend,
		StatusDistribution: statuses,
		TrainingTypes:      types,
		TargetAudience:     audiences,
		TopStates:          topStates,
	}

	if s.cache != nil {
		s.cache.Set(key, resp, dashboardCacheTTL)
	}
	return resp, nil
}

func buildOverview(stats *entities.OverviewStats) dtos.DashboardOverview {
	out := dtos.DashboardOverview{
		OverviewStats: *stats,
		GenderRatio:   genderRatio(stats.TotalMaleParticipants, stats.TotalFemaleParticipants),
	}
	out.ParticipationRate = participationRate(stats.TotalActualParticipants, stats.TotalPlannedParticipants)
	if stats.TotalTrainings > 0 {
		out.AvgParticipantsPerTraining = stats.TotalActualParticipants / stats.TotalTrainings
	}
	return out
}

// participationRate is actual/planned as a percentage, 0 when nothing
// was planned.
func participationRate(actual, planned int) float64 {
	if planned == 0 {
		return 0
	}
	return float64(actual) / float64(planned) * 100
}

// genderRatio is each gender's share of the combined count, {0,0}
// when both are 0.
func genderRatio(male, female int) dtos.GenderRatio {
	total := male + female
	if total == 0 {
		return dtos.GenderRatio{}
	}
	return dtos.GenderRatio{
		Male:   float64(male) / float64(total) * 100,
		Female: float64(female) / float64(total) * 100,
	}
}

// MapData returns approved trainings as a GeoJSON FeatureCollection
// plus a per-state rollup.
func (s *AnalyticsService) MapData(ctx context.Context, f dtos.AnalyticsFilter) (*dtos.MapDataResponse, error) {
	var (
		trainings []gormModels.Training
		summary   []entities.TopState
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.trainings.ListForMap(gctx, f)
		if err != nil {
			return err
		}
		trainings = rows
		return nil
	})
	g.Go(func() (err error) { summary, err = s.repo.StateSummary(gctx, f); return })
	if err := g.Wait(); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "map query failed", err)
	}

	features := make([]dtos.MapFeature, 0, len(trainings))
	for _, t := range trainings {
		features = append(features, dtos.MapFeature{
			Type: "Feature",
			Geometry: dtos.GeoPoint{
				Type:        "Point",
				Coordinates: []float64{t.Longitude, t.Latitude},
			},
			Properties: map[string]interface{}{
				"id":                 t.ID,
				"title":              t.Title,
				"theme":              t.Theme,
				"state":              t.State,
				"district":           t.District,
				"date":               t.Date,
				"status":             t.Status,
				"actualParticipants": t.ActualParticipants,
			},
		})
	}

	return &dtos.MapDataResponse{
		GeoJSON: dtos.FeatureCollection{
			Type:     "FeatureCollection",
			Features: features,
		},
		StateSummary:  summary,
		TotalFeatures: len(features),
	}, nil
}

// StateAnalytics is the drill-down for one state.
func (s *AnalyticsService) StateAnalytics(ctx context.Context, state string, startDate, endDate *time.Time) (*dtos.StateAnalyticsResponse, error) {
	if !constants.ValidState(state) {
		return nil, apperr.ValidationFields("validation failed", map[string]string{
			"state": "unknown state " + state,
		})
	}

	f := dtos.AnalyticsFilter{State: state, StartDate: startDate, EndDate: endDate}

	var (
		overview  *entities.OverviewStats
		districts []entities.DistrictCount
		themes    []entities.ThemeCount
		trend     []entities.MonthlyTrendPoint
		types     []entities.TypeCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { overview, err = s.repo.Overview(gctx, f); return })
	g.Go(func() (err error) { districts, err = s.repo.DistrictWise(gctx, state, startDate, endDate); return })
	g.Go(func() (err error) { themes, err = s.repo.ThemeWise(gctx, f); return })
	g.Go(func() (err error) { trend, err = s.repo.MonthlyTrend(gctx, f); return })
	g.Go(func() (err error) { types, err = s.repo.TrainingTypes(gctx, f); return })
	if err := g.Wait(); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "state analytics query failed", err)
	}

	return &dtos.StateAnalyticsResponse{
		State:         state,
		Overview:      *overview,
		DistrictWise:  districts,
		ThemeWise:     themes,
		MonthlyTrend:  trend,
		TrainingTypes: types,
	}, nil
}
