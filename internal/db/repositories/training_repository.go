package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resilient-bharat/prashikshan/internal/apperr"
	"resilient-bharat/prashikshan/internal/constants"
	"resilient-bharat/prashikshan/internal/models/dtos"
	gormModels "resilient-bharat/prashikshan/internal/models/gorm"
)

type TrainingRepository struct {
	db *gorm.DB
}

// NewTrainingRepository creates a new GORM-based training repository
func NewTrainingRepository(db *gorm.DB) *TrainingRepository {
	return &TrainingRepository{db: db}
}

func (r *TrainingRepository) Create(ctx context.Context, training *gormModels.Training) error {
	if err := r.db.WithContext(ctx).Create(training).Error; err != nil {
		return apperr.Wrap(apperr.Internal, "failed to create training", err)
	}
	return nil
}

func (r *TrainingRepository) GetByID(ctx context.Context, id string) (*gormModels.Training, error) {
	var training gormModels.Training
	err := r.db.WithContext(ctx).
		Preload("Organizer").
		Preload("Registrations").
		Preload("Feedback").
		Preload("Resources").
		Where("id = ?", id).
		First(&training).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "training not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch training", err)
	}
	return &training, nil
}

func (r *TrainingRepository) Update(ctx context.Context, training *gormModels.Training) error {
	if err := r.db.WithContext(ctx).Save(training).Error; err != nil {
		return apperr.Wrap(apperr.Internal, "failed to update training", err)
	}
	return nil
}

func (r *TrainingRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.Training{})
	if res.Error != nil {
		return apperr.Wrap(apperr.Internal, "failed to delete training", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "training not found")
	}
	return nil
}

// List returns trainings matching the filter plus the unpaginated
// total. scopeState and scopeOrganizer carry the row-level restriction
// derived from the caller's role (see auth.DeriveScopeFilter).
func (r *TrainingRepository) List(ctx context.Context, filter dtos.TrainingListFilter, scopeState, scopeOrganizer string) ([]gormModels.Training, int64, error) {
	q := r.db.WithContext(ctx).Model(&gormModels.Training{})

	if filter.Theme != "" {
		q = q.Where("theme = ?", filter.Theme)
	}
	if filter.Institution != "" {
		q = q.Where("institution = ?", filter.Institution)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.State != "" {
		q = q.Where("state = ?", filter.State)
	}
	if filter.StartDate != nil {
		q = q.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("date <= ?", *filter.EndDate)
	}
	if scopeState != "" {
		q = q.Where("state = ?", scopeState)
	}
	if scopeOrganizer != "" {
		q = q.Where("organizer_id = ?", scopeOrganizer)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "failed to count trainings", err)
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	var trainings []gormModels.Training
	err := q.Preload("Organizer").
		Order("date DESC, created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&trainings).Error
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "failed to list trainings", err)
	}
	return trainings, total, nil
}

// ListForMap returns every training matching the filter without
// pagination, for the GeoJSON endpoint.
func (r *TrainingRepository) ListForMap(ctx context.Context, filter dtos.AnalyticsFilter) ([]gormModels.Training, error) {
	q := r.db.WithContext(ctx).Model(&gormModels.Training{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Theme != "" {
		q = q.Where("theme = ?", filter.Theme)
	}
	if filter.State != "" {
		q = q.Where("state = ?", filter.State)
	}
	if filter.StartDate != nil {
		q = q.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("date <= ?", *filter.EndDate)
	}

	var trainings []gormModels.Training
	if err := q.Preload("Organizer").Find(&trainings).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch map data", err)
	}
	return trainings, nil
}

// Register appends a registration atomically: the capacity check and
// the insert run as one conditional statement, so two concurrent
// registrations cannot both squeeze past maxParticipants. Duplicates
// are rejected by the unique (training_id, user_id) index.
func (r *TrainingRepository) Register(ctx context.Context, training *gormModels.Training, userID string) (*gormModels.TrainingRegistration, error) {
	reg := &gormModels.TrainingRegistration{
		ID:           uuid.New().String(),
		TrainingID:   training.ID,
		UserID:       userID,
		RegisteredAt: time.Now(),
		Status:       constants.RegistrationRegistered,
	}

	if training.MaxParticipants <= 0 {
		// No cap configured; the unique index still guards duplicates.
		if err := r.db.WithContext(ctx).Create(reg).Error; err != nil {
			if isUniqueViolation(err) {
				return nil, apperr.New(apperr.Conflict, "user already registered for this training")
			}
			return nil, apperr.Wrap(apperr.Internal, "failed to register", err)
		}
		return reg, nil
	}

	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO training_registrations (id, training_id, user_id, registered_at, status, present, certificate_issued)
		SELECT ?, ?, ?, ?, 'Registered', ?, ?
		WHERE (SELECT COUNT(*) FROM training_registrations WHERE training_id = ?) < ?`,
		reg.ID, reg.TrainingID, reg.UserID, reg.RegisteredAt, false, false,
		training.ID, training.MaxParticipants,
	)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return nil, apperr.New(apperr.Conflict, "user already registered for this training")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to register", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.New(apperr.CapacityExceeded, "training is at full capacity")
	}
	return reg, nil
}

// CancelRegistration removes the user's registration row. Idempotent:
// a missing row is a no-op.
func (r *TrainingRepository) CancelRegistration(ctx context.Context, trainingID, userID string) error {
	err := r.db.WithContext(ctx).
		Where("training_id = ? AND user_id = ?", trainingID, userID).
		Delete(&gormModels.TrainingRegistration{}).Error
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to cancel registration", err)
	}
	return nil
}

func (r *TrainingRepository) GetRegistration(ctx context.Context, trainingID, userID string) (*gormModels.TrainingRegistration, error) {
	var reg gormModels.TrainingRegistration
	err := r.db.WithContext(ctx).
		Where("training_id = ? AND user_id = ?", trainingID, userID).
		First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "user not registered for this training")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch registration", err)
	}
	return &reg, nil
}

func (r *TrainingRepository) UpdateRegistration(ctx context.Context, reg *gormModels.TrainingRegistration) error {
	if err := r.db.WithContext(ctx).Save(reg).Error; err != nil {
		return apperr.Wrap(apperr.Internal, "failed to update registration", err)
	}
	return nil
}

func (r *TrainingRepository) ListRegistrations(ctx context.Context, trainingID string) ([]gormModels.TrainingRegistration, error) {
	var regs []gormModels.TrainingRegistration
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("training_id = ?", trainingID).
		Order("registered_at ASC").
		Find(&regs).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list registrations", err)
	}
	return regs, nil
}

func (r *TrainingRepository) CountRegistrations(ctx context.Context, trainingID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.TrainingRegistration{}).
		Where("training_id = ?", trainingID).
		Count(&n).Error
	if err != nil {
		return 0, apperr.Wrap(apperr.Internal, "failed to count registrations", err)
	}
	return n, nil
}

// AddFeedback appends one feedback entry per (training, user); the
// unique index rejects a second submission.
func (r *TrainingRepository) AddFeedback(ctx context.Context, fb *gormModels.TrainingFeedback) error {
	if err := r.db.WithContext(ctx).Create(fb).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.New(apperr.Conflict, "feedback already submitted for this training")
		}
		return apperr.Wrap(apperr.Internal, "failed to add feedback", err)
	}
	return nil
}

func (r *TrainingRepository) ReplaceResources(ctx context.Context, trainingID string, resources []gormModels.TrainingResource) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("training_id = ?", trainingID).Delete(&gormModels.TrainingResource{}).Error; err != nil {
			return err
		}
		if len(resources) == 0 {
			return nil
		}
		return tx.Create(&resources).Error
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to update resources", err)
	}
	return nil
}
