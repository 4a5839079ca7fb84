package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"resilient-bharat/prashikshan/internal/common"
	"resilient-bharat/prashikshan/internal/models/dtos"
	"resilient-bharat/prashikshan/internal/models/entities"
)

func TestParticipationRate(t *testing.T) {
	cases := []struct {
		actual, planned int
		want            float64
	}{
		{0, 0, 0},
		{50, 0, 0},
		{50, 100, 50},
		{100, 100, 100},
		{150, 100, 150},
	}
	for _, tc := range cases {
		if got := participationRate(tc.actual, tc.planned); got != tc.want {
			t.Errorf("participationRate(%d, %d) = %v, want %v", tc.actual, tc.planned, got, tc.want)
		}
	}
}

func TestGenderRatio(t *testing.T) {
	if got := genderRatio(0, 0); got.Male != 0 || got.Female != 0 {
		t.Errorf("genderRatio(0, 0) = %+v, want zeroes", got)
	}
	if got := genderRatio(30, 70); got.Male != 30 || got.Female != 70 {
		t.Errorf("genderRatio(30, 70) = %+v", got)
	}
	if got := genderRatio(10, 0); got.Male != 100 || got.Female != 0 {
		t.Errorf("genderRatio(10, 0) = %+v", got)
	}

	got := genderRatio(1, 2)
	if sum := got.Male + got.Female; sum < 99.999 || sum > 100.001 {
		t.Errorf("shares should sum to 100, got %v", sum)
	}
}

func TestBuildOverview(t *testing.T) {
	stats := &entities.OverviewStats{
		TotalTrainings:           4,
		TotalPlannedParticipants: 200,
		TotalActualParticipants:  100,
		TotalMaleParticipants:    60,
		TotalFemaleParticipants:  40,
	}

	out := buildOverview(stats)
	if out.ParticipationRate != 50 {
		t.Errorf("ParticipationRate = %v, want 50", out.ParticipationRate)
	}
	if out.GenderRatio.Male != 60 || out.GenderRatio.Female != 40 {
		t.Errorf("GenderRatio = %+v", out.GenderRatio)
	}
	if out.AvgParticipantsPerTraining != 25 {
		t.Errorf("AvgParticipantsPerTraining = %d, want 25", out.AvgParticipantsPerTraining)
	}

	// No trainings at all: every derived metric stays 0.
	empty := buildOverview(&entities.OverviewStats{})
	if empty.ParticipationRate != 0 || empty.AvgParticipantsPerTraining != 0 {
		t.Errorf("empty overview should have zero rates, got %+v", empty)
	}
}

func TestDashboardCacheKey(t *testing.T) {
	if got := dashboardCacheKey(dtos.AnalyticsFilter{}); got != "analytics:dashboard::::" {
		t.Errorf("empty filter key = %q", got)
	}

	start := time.Date(2026, 1, 1, 10, 30, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	f := dtos.AnalyticsFilter{StartDate: &start, EndDate: &end, State: "Kerala", Theme: "Flood Management"}
	want := "analytics:dashboard:2026-01-01:2026-06-30:Kerala:Flood Management"
	if got := dashboardCacheKey(f); got != want {
		t.Errorf("key = %q, want %q", got, want)
	}

	// Distinct filters must not collide.
	other := dtos.AnalyticsFilter{State: "Kerala"}
	if dashboardCacheKey(f) == dashboardCacheKey(other) {
		t.Error("different filters produced the same cache key")
	}
}

func TestDashboard_CacheHitSurvivesJSONRoundTrip(t *testing.T) {
	cache := common.NewCacheService(time.Minute, time.Minute)
	defer cache.Close()
	svc := NewAnalyticsService(nil, nil, cache, nil)

	want := &dtos.DashboardResponse{
		Overview: dtos.DashboardOverview{
			OverviewStats:     entities.OverviewStats{TotalTrainings: 7},
			ParticipationRate: 50,
		},
		StateWise: []entities.StateCount{{State: "Kerala", Count: 7}},
	}

	// The Redis cache stores entries as JSON and hands them back as the
	// generic value json.Unmarshal produces. Seed the cache with that
	// shape; the service must still serve it as a hit, never falling
	// through to the repository (which is nil here and would fail).
	raw, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	cache.Set(dashboardCacheKey(dtos.AnalyticsFilter{}), generic, time.Minute)

	got, err := svc.Dashboard(context.Background(), dtos.AnalyticsFilter{})
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if got.Overview.TotalTrainings != 7 || got.Overview.ParticipationRate != 50 {
		t.Errorf("overview = %+v, want cached values", got.Overview)
	}
	if len(got.StateWise) != 1 || got.StateWise[0].State != "Kerala" {
		t.Errorf("stateWise = %+v, want cached values", got.StateWise)
	}

	// A typed entry from the in-memory cache is served directly.
	cache.Set(dashboardCacheKey(dtos.AnalyticsFilter{State: "Kerala"}), want, time.Minute)
	got, err = svc.Dashboard(context.Background(), dtos.AnalyticsFilter{State: "Kerala"})
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if got != want {
		t.Error("typed cache entry should be returned as-is")
	}
}
