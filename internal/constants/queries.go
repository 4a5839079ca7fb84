package constants

// Analytics projection queries, executed through sqlx. Every query
// takes the same four filter parameters so the repository can bind them
// uniformly: $1/$2 date range (NULL to skip), $3 state, $4 theme.
const (
	analyticsFilter = `
	($1::timestamptz IS NULL OR date >= $1)
	AND ($2::timestamptz IS NULL OR date <= $2)
	AND ($3 = '' OR state = $3)
	AND ($4 = '' OR theme = $4)
	`

	QueryOverviewStats = `
	SELECT
		COUNT(*)                              AS total_trainings,
		COALESCE(SUM(planned_participants), 0) AS total_planned,
		COALESCE(SUM(actual_participants), 0)  AS total_actual,
		COALESCE(SUM(male_participants), 0)    AS total_male,
		COALESCE(SUM(female_participants), 0)  AS total_female,
		COALESCE(AVG(duration_hours), 0)       AS avg_duration,
		COALESCE(SUM(duration_hours), 0)       AS total_hours
	FROM trainings
	WHERE ` + analyticsFilter

	QueryStateWise = `
	SELECT
		state,
		COUNT(*)                               AS count,
		COALESCE(SUM(planned_participants), 0) AS planned_participants,
		COALESCE(SUM(actual_participants), 0)  AS actual_participants,
		COALESCE(SUM(duration_hours), 0)       AS total_hours
	FROM trainings
	WHERE ` + analyticsFilter + `
	GROUP BY state
	ORDER BY count DESC
	`

	QueryThemeWise = `
	SELECT
		theme,
		COUNT(*)                               AS count,
		COALESCE(SUM(planned_participants), 0) AS planned_participants,
		COALESCE(SUM(actual_participants), 0)  AS actual_participants,
		COALESCE(AVG(duration_hours), 0)       AS avg_duration
	FROM trainings
	WHERE ` + analyticsFilter + `
	GROUP BY theme
	ORDER BY count DESC
	`

	QueryMonthlyTrend = `
	SELECT
		EXTRACT(YEAR FROM date)::int  AS year,
		EXTRACT(MONTH FROM date)::int AS month,
		COUNT(*)                               AS count,
		COALESCE(SUM(planned_participants), 0) AS planned_participants,
		COALESCE(SUM(actual_participants), 0)  AS actual_participants,
		COALESCE(SUM(male_participants), 0)    AS male_participants,
		COALESCE(SUM(female_participants), 0)  AS female_participants
	FROM trainings
	WHERE ` + analyticsFilter + `
	GROUP BY year, month
	ORDER BY year, month
	`

	QueryStatusDistribution = `
	SELECT status, COUNT(*) AS count
	FROM trainings
	WHERE ` + analyticsFilter + `
	GROUP BY status
	`

	QueryTrainingTypes = `
	SELECT
		training_type,
		COUNT(*)                              AS count,
		COALESCE(SUM(actual_participants), 0) AS total_participants
	FROM trainings
	WHERE ` + analyticsFilter + `
	GROUP BY training_type
	ORDER BY count DESC
	`

	QueryTargetAudience = `
	SELECT
		target_audience,
		COUNT(*)                              AS count,
		COALESCE(SUM(actual_participants), 0) AS total_participants
	FROM trainings
	WHERE ` + analyticsFilter + `
	GROUP BY target_audience
	ORDER BY count DESC
	`

	QueryTopStates = `
	SELECT
		state,
		COUNT(*)                              AS total_trainings,
		COALESCE(SUM(actual_participants), 0) AS total_participants,
		COALESCE(AVG(actual_participants), 0) AS avg_participants
	FROM trainings
	WHERE ` + analyticsFilter + `
	GROUP BY state
	ORDER BY total_participants DESC
	LIMIT 5
	`

	QueryStateSummary = `
	SELECT
		state,
		COUNT(*)                              AS total_trainings,
		COALESCE(SUM(actual_participants), 0) AS total_participants,
		COALESCE(AVG(actual_participants), 0) AS avg_participants
	FROM trainings
	WHERE ` + analyticsFilter + `
	GROUP BY state
	`

	QueryDistrictWise = `
	SELECT
		district,
		COUNT(*)                              AS count,
		COALESCE(SUM(actual_participants), 0) AS participants
	FROM trainings
	WHERE ` + analyticsFilter + `
	GROUP BY district
	ORDER BY count DESC
	`

	QueryUserRoleStats = `
	SELECT
		role,
		COUNT(*) AS count,
		COALESCE(SUM(CASE WHEN is_approved THEN 1 ELSE 0 END), 0) AS approved,
		COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0)   AS active
	FROM users
	GROUP BY role
	`
)
