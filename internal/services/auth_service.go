package services

import (
	"context"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"resilient-bharat/prashikshan/internal/apperr"
	"resilient-bharat/prashikshan/internal/auth"
	"resilient-bharat/prashikshan/internal/constants"
	"resilient-bharat/prashikshan/internal/db/repositories"
	"resilient-bharat/prashikshan/internal/logging"
	"resilient-bharat/prashikshan/internal/models/dtos"
	gormModels "resilient-bharat/prashikshan/internal/models/gorm"
)

// AuthService implements registration, login and user management.
type AuthService struct {
	users    *repositories.UserRepository
	stats    *repositories.AnalyticsRepository
	tokens   *auth.TokenManager
	validate *validator.Validate
	hashCost int
}

func NewAuthService(users *repositories.UserRepository, stats *repositories.AnalyticsRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		users:    users,
		stats:    stats,
		tokens:   tokens,
		validate: validator.New(),
		hashCost: bcrypt.DefaultCost,
	}
}

// Register creates an account. The role is taken at face value from
// the registrant; non-exempt roles start unapproved and cannot use
// authenticated endpoints until approved.
func (s *AuthService) Register(ctx context.Context, req dtos.RegisterRequest) (*gormModels.User, string, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, "", err
	}

	role := constants.Role(req.Role)
	if req.Role == "" {
		role = constants.RoleVolunteer
	}
	if !role.Valid() {
		return nil, "", apperr.ValidationFields("validation failed", map[string]string{
			"role": "unknown role " + req.Role,
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "failed to hash password", err)
	}

	user, err := gormModels.NewUser(req.Name, req.Email, string(hash), role, req.Organization, req.State, req.Phone)
	if err != nil {
		return nil, "", err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if apperr.IsKind(err, apperr.Conflict) {
			return nil, "", apperr.New(apperr.Conflict, "email is already registered")
		}
		return nil, "", err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "failed to issue token", err)
	}

	logging.Info("user registered", "user_id", user.ID, "role", user.Role.String(), "approved", user.IsApproved)
	return user, token, nil
}

// Login verifies credentials. Bad email and bad password collapse into
// one Unauthenticated answer; inactive and pending accounts are
// distinct outcomes.
func (s *AuthService) Login(ctx context.Context, req dtos.LoginRequest) (*gormModels.User, string, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, "", err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return nil, "", apperr.New(apperr.Unauthenticated, "invalid credentials")
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", apperr.New(apperr.Unauthenticated, "invalid credentials")
	}

	if !user.IsActive {
		return nil, "", apperr.New(apperr.Unauthenticated, "account is deactivated")
	}
	if !user.IsApproved && !user.Role.AutoApproved() {
		return nil, "", apperr.New(apperr.PendingApproval, "account is pending approval")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "failed to issue token", err)
	}
	return user, token, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, user *gormModels.User, req dtos.UpdateProfileRequest) (*gormModels.User, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Organization != "" {
		user.Organization = req.Organization
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, user *gormModels.User, req dtos.ChangePasswordRequest) error {
	if err := validateStruct(s.validate, req); err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return apperr.New(apperr.Unauthenticated, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.hashCost)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to hash password", err)
	}

	user.PasswordHash = string(hash)
	return s.users.Update(ctx, user)
}

// ApproveUser decides a pending account. The actor must outrank the
// target and, when state scoped, share its state.
func (s *AuthService) ApproveUser(ctx context.Context, actor *gormModels.User, targetID string, req dtos.ApproveUserRequest) (*gormModels.User, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if !actor.CanManage(target) {
		return nil, apperr.New(apperr.Forbidden, "cannot manage a user of equal or higher rank")
	}
	if actor.StateScoped() && target.State != actor.State && target.State != constants.StateAll {
		return nil, apperr.New(apperr.Forbidden, "user belongs to another state")
	}

	if req.Approve {
		target.IsApproved = true
		target.IsActive = true
		target.ApprovedByID = &actor.ID
		target.RejectionReason = ""
	} else {
		if req.Reason == "" {
			return nil, apperr.ValidationFields("validation failed", map[string]string{
				"reason": "is required when rejecting",
			})
		}
		target.IsApproved = false
		target.IsActive = false
		target.RejectionReason = req.Reason
	}

	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}

	logging.Info("user approval decided",
		"actor_id", actor.ID,
		"target_id", target.ID,
		"approved", req.Approve,
	)
	return target, nil
}

func (s *AuthService) ListUsers(ctx context.Context, actor *gormModels.User, filter dtos.UserListFilter) ([]gormModels.User, dtos.Pagination, error) {
	stateScope := ""
	if actor.StateScoped() {
		stateScope = actor.State
	}

	users, total, err := s.users.List(ctx, filter, stateScope)
	if err != nil {
		return nil, dtos.Pagination{}, err
	}
	return users, buildPagination(filter.Page, filter.Limit, total), nil
}

// ListPendingUsers returns unapproved ATI/NGO accounts within the
// actor's state scope.
func (s *AuthService) ListPendingUsers(ctx context.Context, actor *gormModels.User) ([]gormModels.User, error) {
	stateScope := ""
	if actor.StateScoped() {
		stateScope = actor.State
	}
	return s.users.ListPending(ctx, stateScope)
}

// UpdateUser is the SuperAdmin-only mutation of role, state and
// active flag. Role changes recompute the permission set.
func (s *AuthService) UpdateUser(ctx context.Context, targetID string, req dtos.UpdateUserRequest) (*gormModels.User, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if req.Role != "" {
		if err := target.ChangeRole(constants.Role(req.Role)); err != nil {
			return nil, err
		}
	}
	if req.State != "" {
		if !constants.ValidUserState(req.State) {
			return nil, apperr.ValidationFields("validation failed", map[string]string{
				"state": "unknown state " + req.State,
			})
		}
		if target.Role != constants.RoleSuperAdmin {
			target.State = req.State
		}
	}
	if req.IsActive != nil {
		target.IsActive = *req.IsActive
	}

	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *AuthService) UserStats(ctx context.Context) (*dtos.UserStatsResponse, error) {
	total, approved, active, pending, err := s.users.CountByApproval(ctx)
	if err != nil {
		return nil, err
	}

	byRole, err := s.stats.UserRoleStats(ctx)
	if err != nil {
		return nil, err
	}

	return &dtos.UserStatsResponse{
		Total:    total,
		Approved: approved,
		Active:   active,
		Pending:  pending,
		ByRole:   byRole,
	}, nil
}
