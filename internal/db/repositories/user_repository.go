package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"resilient-bharat/prashikshan/internal/apperr"
	"resilient-bharat/prashikshan/internal/constants"
	"resilient-bharat/prashikshan/internal/models/dtos"
	gormModels "resilient-bharat/prashikshan/internal/models/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new GORM-based user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *gormModels.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.New(apperr.Conflict, "user with this email already exists")
		}
		return apperr.Wrap(apperr.Internal, "failed to create user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch user", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch user", err)
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *gormModels.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return apperr.Wrap(apperr.Internal, "failed to update user", err)
	}
	return nil
}

// List returns users matching the filter plus the unpaginated total.
// stateScope restricts results to one state when non-empty.
func (r *UserRepository) List(ctx context.Context, filter dtos.UserListFilter, stateScope string) ([]gormModels.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&gormModels.User{})

	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.State != "" {
		q = q.Where("state = ?", filter.State)
	}
	switch filter.Status {
	case "pending":
		q = q.Where("is_approved = ?", false)
	case "approved":
		q = q.Where("is_approved = ?", true)
	case "active":
		q = q.Where("is_active = ?", true)
	case "inactive":
		q = q.Where("is_active = ?", false)
	}
	if stateScope != "" {
		q = q.Where("state = ?", stateScope)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "failed to count users", err)
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	var users []gormModels.User
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "failed to list users", err)
	}
	return users, total, nil
}

// ListPending returns unapproved ATI/NGO accounts, optionally within
// one state.
func (r *UserRepository) ListPending(ctx context.Context, stateScope string) ([]gormModels.User, error) {
	q := r.db.WithContext(ctx).
		Where("is_approved = ?", false).
		Where("role IN ?", []string{string(constants.RoleATI), string(constants.RoleNGO)})
	if stateScope != "" {
		q = q.Where("state = ?", stateScope)
	}

	var users []gormModels.User
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list pending users", err)
	}
	return users, nil
}

func (r *UserRepository) CountByApproval(ctx context.Context) (total, approved, active, pending int64, err error) {
	m := r.db.WithContext(ctx).Model(&gormModels.User{})
	if err = m.Count(&total).Error; err != nil {
		return 0, 0, 0, 0, apperr.Wrap(apperr.Internal, "failed to count users", err)
	}
	if err = r.db.WithContext(ctx).Model(&gormModels.User{}).Where("is_approved = ?", true).Count(&approved).Error; err != nil {
		return 0, 0, 0, 0, apperr.Wrap(apperr.Internal, "failed to count users", err)
	}
	if err = r.db.WithContext(ctx).Model(&gormModels.User{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return 0, 0, 0, 0, apperr.Wrap(apperr.Internal, "failed to count users", err)
	}
	if err = r.db.WithContext(ctx).Model(&gormModels.User{}).Where("is_approved = ?", false).Count(&pending).Error; err != nil {
		return 0, 0, 0, 0, apperr.Wrap(apperr.Internal, "failed to count users", err)
	}
	return total, approved, active, pending, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

// isUniqueViolation matches unique-index errors across postgres and
// the sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
