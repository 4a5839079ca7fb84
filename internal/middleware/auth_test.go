package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"resilient-bharat/prashikshan/internal/auth"
	"resilient-bharat/prashikshan/internal/constants"
	"resilient-bharat/prashikshan/internal/db"
	"resilient-bharat/prashikshan/internal/db/repositories"
	gormModels "resilient-bharat/prashikshan/internal/models/gorm"
)

func setupAuthStack(t *testing.T) (*auth.TokenManager, *repositories.UserRepository) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return auth.NewTokenManager("test-secret", time.Hour), repositories.NewUserRepository(conn)
}

func seedUser(t *testing.T, users *repositories.UserRepository, role constants.Role, state string) *gormModels.User {
	t.Helper()
	u, err := gormModels.NewUser("Test User", string(role)+"@example.com", "hash", role, "Org", state, "")
	if err != nil {
		t.Fatalf("NewUser failed: %v", err)
	}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return u
}

func TestAuthMiddleware(t *testing.T) {
	tokens, users := setupAuthStack(t)

	active := seedUser(t, users, constants.RoleAdmin, "Kerala")
	active.IsApproved = true
	if err := users.Update(context.Background(), active); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	pending := seedUser(t, users, constants.RoleNGO, "Kerala")

	deactivated := seedUser(t, users, constants.RoleVolunteer, "")
	deactivated.IsActive = false
	if err := users.Update(context.Background(), deactivated); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// Approval is only gated for roles that go through the queue;
	// a volunteer row with the flag unset must still pass.
	unapprovedVol, err := gormModels.NewUser("Legacy Vol", "legacyvol@example.com", "hash", constants.RoleVolunteer, "Org", "", "")
	if err != nil {
		t.Fatalf("NewUser failed: %v", err)
	}
	unapprovedVol.IsApproved = false
	if err := users.Create(context.Background(), unapprovedVol); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	token := func(userID string) string {
		s, err := tokens.Generate(userID)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		return s
	}

	var seen *gormModels.User
	var seenScope auth.ScopeFilter
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.GetCurrentUser(r.Context())
		seenScope = auth.GetScopeFilter(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthMiddleware(tokens, users)(next)

	cases := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"not a bearer token", "Basic abc123", http.StatusUnauthorized, ""},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, ""},
		{"token for a deleted user", "Bearer " + token("ghost-id"), http.StatusUnauthorized, ""},
		{"deactivated account", "Bearer " + token(deactivated.ID), http.StatusUnauthorized, ""},
		{"pending account", "Bearer " + token(pending.ID), http.StatusForbidden, ""},
		{"unapproved volunteer", "Bearer " + token(unapprovedVol.ID), http.StatusOK, unapprovedVol.ID},
		{"active account", "Bearer " + token(active.ID), http.StatusOK, active.ID},
	}

	for _, tc := range cases {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != tc.wantStatus {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.wantStatus)
		}
		if tc.wantStatus == http.StatusOK {
			if seen == nil || seen.ID != tc.wantUser {
				t.Errorf("%s: current user not attached to the context", tc.name)
			}
		} else if seen != nil {
			t.Errorf("%s: handler ran despite rejection", tc.name)
		}
	}

	// A state-scoped Admin carries their state as the row filter.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token(active.ID))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seenScope.State != "Kerala" {
		t.Errorf("admin scope filter = %+v, want state scope", seenScope)
	}
}

func TestAuthMiddleware_PicksUpRoleChanges(t *testing.T) {
	tokens, users := setupAuthStack(t)
	user := seedUser(t, users, constants.RoleAdmin, "Kerala")
	user.IsApproved = true
	if err := users.Update(context.Background(), user); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	token, err := tokens.Generate(user.ID)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var seenRole constants.Role
	handler := AuthMiddleware(tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenRole = auth.GetCurrentUser(r.Context()).Role
	}))

	do := func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	do()
	if seenRole != constants.RoleAdmin {
		t.Fatalf("role = %s, want Admin", seenRole)
	}

	// A role change lands on the very next request with the old token.
	if err := user.ChangeRole(constants.RoleSuperAdmin); err != nil {
		t.Fatalf("ChangeRole failed: %v", err)
	}
	if err := users.Update(context.Background(), user); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	do()
	if seenRole != constants.RoleSuperAdmin {
		t.Errorf("role = %s after change, want SuperAdmin", seenRole)
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	tokens, users := setupAuthStack(t)
	ngo := seedUser(t, users, constants.RoleNGO, "Kerala")
	ngo.IsApproved = true
	if err := users.Update(context.Background(), ngo); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	token, err := tokens.Generate(ngo.ID)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var seen *gormModels.User
	var seenScope auth.ScopeFilter
	handler := OptionalAuthMiddleware(tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.GetCurrentUser(r.Context())
		seenScope = auth.GetScopeFilter(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// Anonymous and garbage-token requests pass through without a user.
	for _, header := range []string{"", "Bearer not-a-jwt"} {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/api/trainings", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("header %q: status = %d, want 200", header, rec.Code)
		}
		if seen != nil {
			t.Errorf("header %q: anonymous request got a user attached", header)
		}
	}

	// A valid token narrows visibility to the NGO's own rows.
	req := httptest.NewRequest(http.MethodGet, "/api/trainings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen == nil || seen.ID != ngo.ID {
		t.Fatal("valid token did not attach the user")
	}
	if seenScope.OrganizerID != ngo.ID {
		t.Errorf("scope filter = %+v, want organizer scope", seenScope)
	}
}

func withUser(r *http.Request, u *gormModels.User) *http.Request {
	return r.WithContext(auth.SetCurrentUser(r.Context(), u))
}

func TestRequireRoles(t *testing.T) {
	admin, err := gormModels.NewUser("Admin", "adm@example.com", "hash", constants.RoleAdmin, "Org", "Kerala", "")
	if err != nil {
		t.Fatalf("NewUser failed: %v", err)
	}
	vol, err := gormModels.NewUser("Vol", "vol@example.com", "hash", constants.RoleVolunteer, "Org", "", "")
	if err != nil {
		t.Fatalf("NewUser failed: %v", err)
	}

	handler := RequireRoles(constants.RoleAdmin, constants.RoleSuperAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/", nil), admin))
	if rec.Code != http.StatusOK {
		t.Errorf("admin: status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/", nil), vol))
	if rec.Code != http.StatusForbidden {
		t.Errorf("volunteer: status = %d, want 403", rec.Code)
	}

	// No user in context at all.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}
}

func TestRequirePermissions(t *testing.T) {
	ngo, err := gormModels.NewUser("NGO", "ngo@example.com", "hash", constants.RoleNGO, "Org", "Kerala", "")
	if err != nil {
		t.Fatalf("NewUser failed: %v", err)
	}
	vol, err := gormModels.NewUser("Vol", "vol2@example.com", "hash", constants.RoleVolunteer, "Org", "", "")
	if err != nil {
		t.Fatalf("NewUser failed: %v", err)
	}

	// NGOs can create trainings but cannot approve them; any-of
	// semantics let them through when either permission is listed.
	create := RequirePermissions(PermCreateTraining)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	approveOrCreate := RequirePermissions(PermApproveTraining, PermCreateTraining)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	approve := RequirePermissions(PermApproveTraining)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name    string
		handler http.Handler
		user    *gormModels.User
		want    int
	}{
		{"ngo can create", create, ngo, http.StatusOK},
		{"ngo passes any-of", approveOrCreate, ngo, http.StatusOK},
		{"ngo cannot approve", approve, ngo, http.StatusForbidden},
		{"volunteer cannot create", create, vol, http.StatusForbidden},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		tc.handler.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/", nil), tc.user))
		if rec.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.want)
		}
	}

	rec := httptest.NewRecorder()
	approve.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}
}
