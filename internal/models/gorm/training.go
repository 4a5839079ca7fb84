package gorm

import (
	"time"

	"resilient-bharat/prashikshan/internal/constants"
)

type Training struct {
	ID          string     `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Title       string     `gorm:"column:title" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	Date        time.Time  `gorm:"column:date;index:idx_trainings_state_date" json:"date"`
	EndDate     *time.Time `gorm:"column:end_date" json:"endDate,omitempty"`
	Theme       string     `gorm:"column:theme;index" json:"theme"`
	State       string     `gorm:"column:state;index:idx_trainings_state_date" json:"state"`
	District    string     `gorm:"column:district" json:"district"`

	// Location, GeoJSON coordinate order (longitude, latitude).
	Longitude    float64 `gorm:"column:longitude" json:"longitude"`
	Latitude     float64 `gorm:"column:latitude" json:"latitude"`
	LocationName string  `gorm:"column:location_name" json:"locationName,omitempty"`
	Address      string  `gorm:"column:address" json:"address"`
	Pincode      string  `gorm:"column:pincode" json:"pincode,omitempty"`

	TrainerName          string `gorm:"column:trainer_name" json:"trainerName"`
	TrainerQualification string `gorm:"column:trainer_qualification" json:"trainerQualification,omitempty"`
	TrainerOrganization  string `gorm:"column:trainer_organization" json:"trainerOrganization,omitempty"`
	TrainerContact       string `gorm:"column:trainer_contact" json:"trainerContact,omitempty"`

	Institution string `gorm:"column:institution;index" json:"institution"`

	// Participant counts are independently settable; no actual<=planned
	// invariant is enforced (walk-ins are possible, tracked as a
	// data-quality gap upstream).
	PlannedParticipants int `gorm:"column:planned_participants" json:"plannedParticipants"`
	ActualParticipants  int `gorm:"column:actual_participants;default:0" json:"actualParticipants"`
	MaleParticipants    int `gorm:"column:male_participants;default:0" json:"maleParticipants"`
	FemaleParticipants  int `gorm:"column:female_participants;default:0" json:"femaleParticipants"`

	DurationHours float64 `gorm:"column:duration_hours" json:"durationHours"`
	DurationDays  int     `gorm:"column:duration_days;default:1" json:"durationDays"`

	TrainingType   string `gorm:"column:training_type" json:"trainingType"`
	TargetAudience string `gorm:"column:target_audience" json:"targetAudience"`
	Status         string `gorm:"column:status;default:Scheduled;index" json:"status"`

	OrganizerID string `gorm:"column:organizer_id;type:uuid;index" json:"organizerId"`
	Organizer   *User  `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`

	ApprovalStatus  string     `gorm:"column:approval_status;default:Pending;index:idx_trainings_approval_date" json:"approvalStatus"`
	ApprovedByID    *string    `gorm:"column:approved_by;type:uuid" json:"approvedBy,omitempty"`
	ApprovalDate    *time.Time `gorm:"column:approval_date" json:"approvalDate,omitempty"`
	RejectionReason string     `gorm:"column:rejection_reason" json:"rejectionReason,omitempty"`

	MaxParticipants      int        `gorm:"column:max_participants;default:0" json:"maxParticipants,omitempty"`
	RegistrationDeadline *time.Time `gorm:"column:registration_deadline" json:"registrationDeadline,omitempty"`
	IsPublic             bool       `gorm:"column:is_public" json:"isPublic"`
	Tags                 string     `gorm:"column:tags" json:"tags,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	// Relationships
	Registrations []TrainingRegistration `gorm:"foreignKey:TrainingID" json:"registrations,omitempty"`
	Feedback      []TrainingFeedback     `gorm:"foreignKey:TrainingID" json:"feedback,omitempty"`
	Resources     []TrainingResource     `gorm:"foreignKey:TrainingID" json:"resources,omitempty"`
}

// TableName specifies the table name for GORM
func (Training) TableName() string {
	return "trainings"
}

// AutoApprovedFor returns the initial approval status for an organizer
// role: Admin and SuperAdmin organized trainings skip the queue.
func AutoApprovedFor(role constants.Role) string {
	if role == constants.RoleAdmin || role == constants.RoleSuperAdmin {
		return constants.ApprovalAutoApproved
	}
	return constants.ApprovalPending
}

type TrainingRegistration struct {
	ID           string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	TrainingID   string    `gorm:"column:training_id;type:uuid;uniqueIndex:idx_registration_training_user" json:"trainingId"`
	UserID       string    `gorm:"column:user_id;type:uuid;uniqueIndex:idx_registration_training_user" json:"userId"`
	RegisteredAt time.Time `gorm:"column:registered_at;autoCreateTime" json:"registeredAt"`
	Status       string    `gorm:"column:status;default:Registered" json:"status"`

	CheckIn  *time.Time `gorm:"column:check_in" json:"checkIn,omitempty"`
	CheckOut *time.Time `gorm:"column:check_out" json:"checkOut,omitempty"`
	Present  bool       `gorm:"column:present;default:false" json:"present"`

	CertificateIssued   bool       `gorm:"column:certificate_issued;default:false" json:"certificateIssued"`
	CertificateIssuedAt *time.Time `gorm:"column:certificate_issued_at" json:"certificateIssuedAt,omitempty"`
	CertificateID       string     `gorm:"column:certificate_id" json:"certificateId,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (TrainingRegistration) TableName() string {
	return "training_registrations"
}

type TrainingFeedback struct {
	ID         string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	TrainingID string    `gorm:"column:training_id;type:uuid;uniqueIndex:idx_feedback_training_user" json:"trainingId"`
	UserID     string    `gorm:"column:user_id;type:uuid;uniqueIndex:idx_feedback_training_user" json:"userId"`
	Rating     int       `gorm:"column:rating" json:"rating"`
	Comment    string    `gorm:"column:comment" json:"comment,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (TrainingFeedback) TableName() string {
	return "training_feedback"
}

type TrainingResource struct {
	ID         string `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	TrainingID string `gorm:"column:training_id;type:uuid;index" json:"trainingId"`
	Name       string `gorm:"column:name" json:"name"`
	URL        string `gorm:"column:url" json:"url"`
	Type       string `gorm:"column:type" json:"type,omitempty"`
}

// TableName specifies the table name for GORM
func (TrainingResource) TableName() string {
	return "training_resources"
}
