package routes

import (
	"github.com/go-chi/chi/v5"

	"resilient-bharat/prashikshan/internal/api"
	"resilient-bharat/prashikshan/internal/constants"
	"resilient-bharat/prashikshan/internal/middleware"
)

// RegisterAPIRoutes registers the /api route groups. Public reads stay
// outside the auth group; mutations sit behind bearer auth plus the
// role or permission gate each operation requires.
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies) {
	authn := middleware.AuthMiddleware(deps.Tokens, deps.Repo.User)

	r.Route("/api/auth", func(ar chi.Router) {
		ar.Post("/register", api.RegisterHandler(deps))
		ar.Post("/login", api.LoginHandler(deps))

		ar.Group(func(private chi.Router) {
			private.Use(authn)

			private.Get("/me", api.MeHandler(deps))
			private.Put("/profile", api.UpdateProfileHandler(deps))
			private.Put("/change-password", api.ChangePasswordHandler(deps))

			private.Group(func(managers chi.Router) {
				managers.Use(middleware.RequirePermissions(middleware.PermManageUsers))
				managers.Get("/users", api.ListUsersHandler(deps))
				managers.Get("/pending-users", api.ListPendingUsersHandler(deps))
				managers.Get("/user-stats", api.UserStatsHandler(deps))
				managers.Put("/approve-user/{id}", api.ApproveUserHandler(deps))
			})

			private.Group(func(super chi.Router) {
				super.Use(middleware.RequireRoles(constants.RoleSuperAdmin))
				super.Put("/users/{id}", api.UpdateUserHandler(deps))
			})
		})
	})

	r.Route("/api/trainings", func(tr chi.Router) {
		// Public reads; a valid token narrows list visibility for
		// state- and organizer-scoped roles.
		tr.Group(func(public chi.Router) {
			public.Use(middleware.OptionalAuthMiddleware(deps.Tokens, deps.Repo.User))
			public.Get("/", api.ListTrainingsHandler(deps))
			public.Get("/{id}", api.GetTrainingHandler(deps))
		})

		tr.Group(func(private chi.Router) {
			private.Use(authn)

			private.Group(func(creators chi.Router) {
				creators.Use(middleware.RequirePermissions(middleware.PermCreateTraining))
				creators.Post("/", api.CreateTrainingHandler(deps))
			})

			private.Put("/{id}", api.UpdateTrainingHandler(deps))
			private.Delete("/{id}", api.DeleteTrainingHandler(deps))
			private.Post("/{id}/register", api.RegisterForTrainingHandler(deps))
			private.Delete("/{id}/register", api.CancelRegistrationHandler(deps))
			private.Put("/{id}/attendance", api.MarkAttendanceHandler(deps))
			private.Post("/{id}/feedback", api.AddFeedbackHandler(deps))
			private.Get("/{id}/registrations", api.ListRegistrationsHandler(deps))

			private.Group(func(approvers chi.Router) {
				approvers.Use(middleware.RequirePermissions(middleware.PermApproveTraining))
				approvers.Put("/{id}/approve", api.ApproveTrainingHandler(deps))
			})
		})
	})

	r.Route("/api/analytics", func(an chi.Router) {
		an.Get("/dashboard", api.DashboardHandler(deps))
		an.Get("/map-data", api.MapDataHandler(deps))
		an.Get("/states/{state}", api.StateAnalyticsHandler(deps))
	})
}
