package services

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"resilient-bharat/prashikshan/internal/apperr"
	"resilient-bharat/prashikshan/internal/auth"
	"resilient-bharat/prashikshan/internal/constants"
	"resilient-bharat/prashikshan/internal/db/repositories"
	"resilient-bharat/prashikshan/internal/hub"
	"resilient-bharat/prashikshan/internal/logging"
	"resilient-bharat/prashikshan/internal/metrics"
	"resilient-bharat/prashikshan/internal/models/dtos"
	gormModels "resilient-bharat/prashikshan/internal/models/gorm"
)

// TrainingService owns the training aggregate: lifecycle, approvals,
// registrations, attendance and feedback. Mutations push events into
// the hub after commit.
type TrainingService struct {
	trainings *repositories.TrainingRepository
	notify    *hub.Hub
	validate  *validator.Validate
	metrics   *metrics.MetricsRegistry
}

func NewTrainingService(trainings *repositories.TrainingRepository, notify *hub.Hub, reg *metrics.MetricsRegistry) *TrainingService {
	return &TrainingService{
		trainings: trainings,
		notify:    notify,
		validate:  validator.New(),
		metrics:   reg,
	}
}

// validateDomain covers what struct tags cannot: enum membership and
// the geographic bounding box.
func (s *TrainingService) validateDomain(req dtos.TrainingRequest) error {
	fields := map[string]string{}

	if !constants.Contains(constants.Themes, req.Theme) {
		fields["theme"] = "unknown theme " + req.Theme
	}
	if !constants.ValidState(req.State) {
		fields["state"] = "unknown state " + req.State
	}
	if !constants.Contains(constants.TrainingTypes, req.TrainingType) {
		fields["trainingType"] = "unknown training type " + req.TrainingType
	}
	if !constants.Contains(constants.TargetAudiences, req.TargetAudience) {
		fields["targetAudience"] = "unknown target audience " + req.TargetAudience
	}
	if req.Status != "" && !constants.Contains(constants.TrainingStatuses, req.Status) {
		fields["status"] = "unknown status " + req.Status
	}

	lon, lat := req.Location.Coordinates[0], req.Location.Coordinates[1]
	if !constants.WithinIndia(lon, lat) {
		fields["location.coordinates"] = "coordinates must lie within India"
	}

	if req.EndDate != nil && req.EndDate.Before(req.Date) {
		fields["endDate"] = "must not precede the start date"
	}
	if req.MaxParticipants > constants.MaxParticipantsCap {
		fields["maxParticipants"] = "must be at most 10000"
	}

	if len(fields) > 0 {
		return apperr.ValidationFields("validation failed", fields)
	}
	return nil
}

// applyRequest is the full replace of mutable fields used by both
// create and update.
func applyRequest(t *gormModels.Training, req dtos.TrainingRequest) {
	t.Title = req.Title
	t.Description = req.Description
	t.Date = req.Date
	t.EndDate = req.EndDate
	t.Theme = req.Theme
	t.State = req.State
	t.District = req.District

	t.Longitude = req.Location.Coordinates[0]
	t.Latitude = req.Location.Coordinates[1]
	t.LocationName = req.Location.Name
	t.Address = req.Location.Address
	t.Pincode = req.Location.Pincode

	t.TrainerName = req.Trainer.Name
	t.TrainerQualification = req.Trainer.Qualification
	t.TrainerOrganization = req.Trainer.Organization
	t.TrainerContact = req.Trainer.Contact

	t.Institution = req.Institution
	t.PlannedParticipants = req.Participants.Planned
	t.ActualParticipants = req.Participants.Actual
	t.MaleParticipants = req.Participants.Male
	t.FemaleParticipants = req.Participants.Female

	t.DurationHours = req.Duration.Hours
	t.DurationDays = req.Duration.Days
	if t.DurationDays == 0 {
		t.DurationDays = 1
	}

	t.TrainingType = req.TrainingType
	t.TargetAudience = req.TargetAudience
	if req.Status != "" {
		t.Status = req.Status
	}

	t.MaxParticipants = req.MaxParticipants
	t.RegistrationDeadline = req.RegistrationDeadline
	if req.IsPublic != nil {
		t.IsPublic = *req.IsPublic
	}
	t.Tags = strings.Join(req.Tags, ",")
}

func resourcesFromRequest(trainingID string, infos []dtos.ResourceInfo) []gormModels.TrainingResource {
	resources := make([]gormModels.TrainingResource, 0, len(infos))
	for _, r := range infos {
		resources = append(resources, gormModels.TrainingResource{
			ID:         uuid.New().String(),
			TrainingID: trainingID,
			Name:       r.Name,
			URL:        r.URL,
			Type:       r.Type,
		})
	}
	return resources
}

func isOrganizerOrAdmin(actor *gormModels.User, t *gormModels.Training) bool {
	return actor.ID == t.OrganizerID ||
		actor.Role == constants.RoleAdmin ||
		actor.Role == constants.RoleSuperAdmin
}

// Create requires canCreateTraining (enforced at the route). Admin and
// SuperAdmin organizers are auto-approved; everyone else queues.
func (s *TrainingService) Create(ctx context.Context, actor *gormModels.User, req dtos.TrainingRequest) (*gormModels.Training, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}
	if err := s.validateDomain(req); err != nil {
		return nil, err
	}

	training := &gormModels.Training{
		ID:             uuid.New().String(),
		OrganizerID:    actor.ID,
		ApprovalStatus: gormModels.AutoApprovedFor(actor.Role),
		Status:         constants.StatusScheduled,
		IsPublic:       true,
	}
	applyRequest(training, req)
	training.Resources = resourcesFromRequest(training.ID, req.Resources)

	if err := s.trainings.Create(ctx, training); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.TrainingsCreatedTotal.WithLabelValues(training.ApprovalStatus).Inc()
	}
	s.notify.PublishTrainingAdded(hub.TrainingNotice{
		TrainingID:     training.ID,
		Title:          training.Title,
		State:          training.State,
		Theme:          training.Theme,
		Date:           training.Date,
		OrganizerID:    training.OrganizerID,
		ApprovalStatus: training.ApprovalStatus,
	})

	logging.Info("training created",
		"training_id", training.ID,
		"organizer_id", actor.ID,
		"approval_status", training.ApprovalStatus,
	)
	return training, nil
}

func (s *TrainingService) Get(ctx context.Context, id string) (*gormModels.Training, error) {
	return s.trainings.GetByID(ctx, id)
}

func (s *TrainingService) List(ctx context.Context, filter dtos.TrainingListFilter, scope auth.ScopeFilter) ([]gormModels.Training, dtos.Pagination, error) {
	trainings, total, err := s.trainings.List(ctx, filter, scope.State, scope.OrganizerID)
	if err != nil {
		return nil, dtos.Pagination{}, err
	}
	return trainings, buildPagination(filter.Page, filter.Limit, total), nil
}

// Update is a validated full replace by the organizer or an
// Admin/SuperAdmin.
func (s *TrainingService) Update(ctx context.Context, actor *gormModels.User, id string, req dtos.TrainingRequest) (*gormModels.Training, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}
	if err := s.validateDomain(req); err != nil {
		return nil, err
	}

	training, err := s.trainings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isOrganizerOrAdmin(actor, training) {
		return nil, apperr.New(apperr.Forbidden, "only the organizer or an admin may edit this training")
	}
	if actor.StateScoped() && actor.ID != training.OrganizerID && training.State != actor.State {
		return nil, apperr.New(apperr.Forbidden, "training belongs to another state")
	}

	applyRequest(training, req)

	if err := s.trainings.Update(ctx, training); err != nil {
		return nil, err
	}
	if err := s.trainings.ReplaceResources(ctx, training.ID, resourcesFromRequest(training.ID, req.Resources)); err != nil {
		return nil, err
	}

	s.notify.PublishTrainingUpdated(hub.TrainingNotice{
		TrainingID:     training.ID,
		Title:          training.Title,
		State:          training.State,
		Theme:          training.Theme,
		Date:           training.Date,
		OrganizerID:    training.OrganizerID,
		ApprovalStatus: training.ApprovalStatus,
		RegistrantIDs:  registrantIDs(training.Registrations),
	})
	return training, nil
}

// Delete removes the aggregate; allowed to the organizer or an Admin.
func (s *TrainingService) Delete(ctx context.Context, actor *gormModels.User, id string) error {
	training, err := s.trainings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if actor.ID != training.OrganizerID &&
		actor.Role != constants.RoleAdmin &&
		actor.Role != constants.RoleSuperAdmin {
		return apperr.New(apperr.Forbidden, "only the organizer or an admin may delete this training")
	}

	if err := s.trainings.Delete(ctx, id); err != nil {
		return err
	}

	s.notify.PublishTrainingDeleted(training.ID, training.State)
	logging.Info("training deleted", "training_id", id, "actor_id", actor.ID)
	return nil
}

// Register signs the actor up. Capacity and duplicates are enforced in
// one statement so two concurrent calls cannot both take the last
// seat.
func (s *TrainingService) Register(ctx context.Context, actor *gormModels.User, id string) (*gormModels.TrainingRegistration, error) {
	training, err := s.trainings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !training.IsPublic && actor.Role == constants.RoleVolunteer {
		return nil, apperr.New(apperr.Forbidden, "this training is not open for public registration")
	}
	if training.RegistrationDeadline != nil && time.Now().After(*training.RegistrationDeadline) {
		if s.metrics != nil {
			s.metrics.RegistrationsRejectedTotal.WithLabelValues("deadline").Inc()
		}
		return nil, apperr.New(apperr.DeadlinePassed, "registration deadline has passed")
	}

	reg, err := s.trainings.Register(ctx, training, actor.ID)
	if err != nil {
		if s.metrics != nil {
			switch {
			case apperr.IsKind(err, apperr.Conflict):
				s.metrics.RegistrationsRejectedTotal.WithLabelValues("duplicate").Inc()
			case apperr.IsKind(err, apperr.CapacityExceeded):
				s.metrics.RegistrationsRejectedTotal.WithLabelValues("capacity").Inc()
			}
		}
		return nil, err
	}

	count, err := s.trainings.CountRegistrations(ctx, training.ID)
	if err != nil {
		count = 0
	}

	if s.metrics != nil {
		s.metrics.RegistrationsTotal.Inc()
	}
	s.notify.PublishRegistration(training.ID, training.OrganizerID, actor.Name, actor.Email, int(count), training.MaxParticipants)
	return reg, nil
}

// CancelRegistration is idempotent: cancelling an absent registration
// is a success.
func (s *TrainingService) CancelRegistration(ctx context.Context, actor *gormModels.User, id string) error {
	if _, err := s.trainings.GetByID(ctx, id); err != nil {
		return err
	}
	return s.trainings.CancelRegistration(ctx, id, actor.ID)
}

// MarkAttendance records a check-in or check-out for a registrant.
func (s *TrainingService) MarkAttendance(ctx context.Context, actor *gormModels.User, id string, req dtos.AttendanceRequest) (*gormModels.TrainingRegistration, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	training, err := s.trainings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isOrganizerOrAdmin(actor, training) {
		return nil, apperr.New(apperr.Forbidden, "only the organizer or an admin may mark attendance")
	}

	reg, err := s.trainings.GetRegistration(ctx, id, req.UserID)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return nil, apperr.New(apperr.NotFound, "user is not registered for this training")
		}
		return nil, err
	}

	now := time.Now()
	if req.CheckIn {
		reg.CheckIn = &now
		reg.Present = true
		reg.Status = constants.RegistrationAttended
	} else {
		reg.CheckOut = &now
	}

	if err := s.trainings.UpdateRegistration(ctx, reg); err != nil {
		return nil, err
	}

	s.notify.PublishAttendance(training.ID, req.UserID, reg.Status, actor.Name)
	return reg, nil
}

// Approve decides a pending training. Requires canApproveTraining and
// a matching state scope; rejection needs a reason.
func (s *TrainingService) Approve(ctx context.Context, actor *gormModels.User, id string, req dtos.ApproveTrainingRequest) (*gormModels.Training, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	training, err := s.trainings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.StateScoped() && training.State != actor.State {
		return nil, apperr.New(apperr.Forbidden, "training belongs to another state")
	}

	now := time.Now()
	if req.Approve {
		training.ApprovalStatus = constants.ApprovalApproved
		training.RejectionReason = ""
	} else {
		if req.Reason == "" {
			return nil, apperr.ValidationFields("validation failed", map[string]string{
				"reason": "is required when rejecting",
			})
		}
		training.ApprovalStatus = constants.ApprovalRejected
		training.RejectionReason = req.Reason
	}
	training.ApprovedByID = &actor.ID
	training.ApprovalDate = &now

	if err := s.trainings.Update(ctx, training); err != nil {
		return nil, err
	}

	s.notify.PublishApprovalDecision(hub.TrainingNotice{
		TrainingID:     training.ID,
		Title:          training.Title,
		State:          training.State,
		OrganizerID:    training.OrganizerID,
		ApprovalStatus: training.ApprovalStatus,
		RegistrantIDs:  registrantIDs(training.Registrations),
	}, actor.Name, training.RejectionReason)

	logging.Info("training approval decided",
		"training_id", training.ID,
		"actor_id", actor.ID,
		"status", training.ApprovalStatus,
	)
	return training, nil
}

// AddFeedback appends one feedback entry per user per training.
func (s *TrainingService) AddFeedback(ctx context.Context, actor *gormModels.User, id string, req dtos.FeedbackRequest) (*gormModels.TrainingFeedback, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	if _, err := s.trainings.GetByID(ctx, id); err != nil {
		return nil, err
	}

	fb := &gormModels.TrainingFeedback{
		ID:         uuid.New().String(),
		TrainingID: id,
		UserID:     actor.ID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.trainings.AddFeedback(ctx, fb); err != nil {
		if apperr.IsKind(err, apperr.Conflict) {
			return nil, apperr.New(apperr.Conflict, "feedback already submitted for this training")
		}
		return nil, err
	}
	return fb, nil
}

// ListRegistrations is visible to the organizer and admins only.
func (s *TrainingService) ListRegistrations(ctx context.Context, actor *gormModels.User, id string) ([]gormModels.TrainingRegistration, error) {
	training, err := s.trainings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isOrganizerOrAdmin(actor, training) {
		return nil, apperr.New(apperr.Forbidden, "only the organizer or an admin may view registrations")
	}
	return s.trainings.ListRegistrations(ctx, id)
}

func registrantIDs(regs []gormModels.TrainingRegistration) []string {
	ids := make([]string, 0, len(regs))
	for _, reg := range regs {
		if reg.Status != constants.RegistrationCancelled {
			ids = append(ids, reg.UserID)
		}
	}
	return ids
}
