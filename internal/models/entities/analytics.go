package entities

// Row structs scanned by the sqlx analytics repository. Field tags
// match the column aliases in constants/queries.go.

type OverviewStats struct {
	TotalTrainings           int     `db:"total_trainings" json:"totalTrainings"`
	TotalPlannedParticipants int     `db:"total_planned" json:"totalPlannedParticipants"`
	TotalActualParticipants  int     `db:"total_actual" json:"totalActualParticipants"`
	TotalMaleParticipants    int     `db:"total_male" json:"totalMaleParticipants"`
	TotalFemaleParticipants  int     `db:"total_female" json:"totalFemaleParticipants"`
	AvgDurationHours         float64 `db:"avg_duration" json:"avgDurationHours"`
	TotalTrainingHours       float64 `db:"total_hours" json:"totalTrainingHours"`
}

type StateCount struct {
	State               string  `db:"state" json:"state"`
	Count               int     `db:"count" json:"count"`
	PlannedParticipants int     `db:"planned_participants" json:"plannedParticipants"`
	ActualParticipants  int     `db:"actual_participants" json:"actualParticipants"`
	TotalHours          float64 `db:"total_hours" json:"totalHours"`
}

type ThemeCount struct {
	Theme               string  `db:"theme" json:"theme"`
	Count               int     `db:"count" json:"count"`
	PlannedParticipants int     `db:"planned_participants" json:"plannedParticipants"`
	ActualParticipants  int     `db:"actual_participants" json:"actualParticipants"`
	AvgDurationHours    float64 `db:"avg_duration" json:"avgDurationHours"`
}

type MonthlyTrendPoint struct {
	Year                int `db:"year" json:"year"`
	Month               int `db:"month" json:"month"`
	Count               int `db:"count" json:"count"`
	PlannedParticipants int `db:"planned_participants" json:"plannedParticipants"`
	ActualParticipants  int `db:"actual_participants" json:"actualParticipants"`
	MaleParticipants    int `db:"male_participants" json:"maleParticipants"`
	FemaleParticipants  int `db:"female_participants" json:"femaleParticipants"`
}

type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}

type TypeCount struct {
	TrainingType      string `db:"training_type" json:"trainingType"`
	Count             int    `db:"count" json:"count"`
	TotalParticipants int    `db:"total_participants" json:"totalParticipants"`
}

type AudienceCount struct {
	TargetAudience    string `db:"target_audience" json:"targetAudience"`
	Count             int    `db:"count" json:"count"`
	TotalParticipants int    `db:"total_participants" json:"totalParticipants"`
}

type DistrictCount struct {
	District     string `db:"district" json:"district"`
	Count        int    `db:"count" json:"count"`
	Participants int    `db:"participants" json:"participants"`
}

type TopState struct {
	State             string  `db:"state" json:"state"`
	TotalTrainings    int     `db:"total_trainings" json:"totalTrainings"`
	TotalParticipants int     `db:"total_participants" json:"totalParticipants"`
	AvgParticipants   float64 `db:"avg_participants" json:"avgParticipants"`
}

type UserRoleStats struct {
	Role     string `db:"role" json:"role"`
	Count    int    `db:"count" json:"count"`
	Approved int    `db:"approved" json:"approved"`
	Active   int    `db:"active" json:"active"`
}
