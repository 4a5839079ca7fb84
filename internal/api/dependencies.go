package api

import (
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"resilient-bharat/prashikshan/internal/auth"
	"resilient-bharat/prashikshan/internal/common"
	"resilient-bharat/prashikshan/internal/config"
	"resilient-bharat/prashikshan/internal/db/repositories"
	"resilient-bharat/prashikshan/internal/hub"
	"resilient-bharat/prashikshan/internal/metrics"
	"resilient-bharat/prashikshan/internal/services"
)

type Repositories struct {
	User      *repositories.UserRepository
	Training  *repositories.TrainingRepository
	Analytics *repositories.AnalyticsRepository
}

type Services struct {
	Auth      *services.AuthService
	Training  *services.TrainingService
	Analytics *services.AnalyticsService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Tokens   *auth.TokenManager
	Hub      *hub.Hub
	Metrics  *metrics.MetricsRegistry
	Cache    common.CacheInterface
}

// InitDependencies wires repositories and services. The write model
// goes through GORM; analytics reads go through sqlx.
func InitDependencies(cfg *config.Config, ormDB *gorm.DB, sqlDB *sqlx.DB, cache common.CacheInterface, notify *hub.Hub, reg *metrics.MetricsRegistry) *Dependencies {
	repos := &Repositories{
		User:      repositories.NewUserRepository(ormDB),
		Training:  repositories.NewTrainingRepository(ormDB),
		Analytics: repositories.NewAnalyticsRepository(sqlDB),
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)

	svcs := &Services{
		Auth:      services.NewAuthService(repos.User, repos.Analytics, tokens),
		Training:  services.NewTrainingService(repos.Training, notify, reg),
		Analytics: services.NewAnalyticsService(repos.Analytics, repos.Training, cache, reg),
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Tokens:   tokens,
		Hub:      notify,
		Metrics:  reg,
		Cache:    cache,
	}
}
