package gorm

import (
	"testing"

	"resilient-bharat/prashikshan/internal/apperr"
	"resilient-bharat/prashikshan/internal/constants"
)

func mustNewUser(t *testing.T, role constants.Role, state string) *User {
	t.Helper()
	u, err := NewUser("Test User", "test@example.com", "hash", role, "Org", state, "")
	if err != nil {
		t.Fatalf("NewUser(%s, %q) failed: %v", role, state, err)
	}
	return u
}

func TestNewUser_SuperAdminForcedToAllStates(t *testing.T) {
	u := mustNewUser(t, constants.RoleSuperAdmin, "Delhi")
	if u.State != constants.StateAll {
		t.Errorf("SuperAdmin state = %q, want All", u.State)
	}
	if !u.IsApproved {
		t.Error("SuperAdmin should be auto-approved")
	}
}

func TestNewUser_StateRequiredForScopedRoles(t *testing.T) {
	for _, role := range []constants.Role{constants.RoleAdmin, constants.RoleATI, constants.RoleNGO} {
		_, err := NewUser("x", "x@example.com", "h", role, "", "", "")
		if !apperr.IsKind(err, apperr.Validation) {
			t.Errorf("NewUser(%s) without state: got %v, want validation error", role, err)
		}
	}

	// Volunteer needs no state and is approved immediately.
	u := mustNewUser(t, constants.RoleVolunteer, "")
	if !u.IsApproved || !u.IsActive {
		t.Error("Volunteer should start approved and active")
	}
}

func TestNewUser_ApprovalQueueForScopedRoles(t *testing.T) {
	u := mustNewUser(t, constants.RoleNGO, "Punjab")
	if u.IsApproved {
		t.Error("NGO must await explicit approval")
	}
	if !u.Permissions.CanCreateTraining {
		t.Error("NGO should hold canCreateTraining")
	}
	if u.Permissions.CanApproveTraining {
		t.Error("NGO must not hold canApproveTraining")
	}
}

func TestNewUser_RejectsUnknownState(t *testing.T) {
	if _, err := NewUser("x", "x@example.com", "h", constants.RoleAdmin, "", "Atlantis", ""); !apperr.IsKind(err, apperr.Validation) {
		t.Errorf("got %v, want validation error", err)
	}
	if _, err := NewUser("x", "x@example.com", "h", constants.Role("Tsar"), "", "", ""); !apperr.IsKind(err, apperr.Validation) {
		t.Errorf("got %v, want validation error for unknown role", err)
	}
}

func TestChangeRole_RecomputesPermissions(t *testing.T) {
	u := mustNewUser(t, constants.RoleVolunteer, "")
	if err := u.ChangeRole(constants.RoleAdmin); err != nil {
		t.Fatalf("ChangeRole failed: %v", err)
	}
	if !u.Permissions.CanManageUsers {
		t.Error("Admin permissions not applied after role change")
	}

	if err := u.ChangeRole(constants.Role("Nothing")); err == nil {
		t.Error("expected error for unknown role")
	}
}

// CanManage holds iff the actor outranks the target AND carries the
// canManageUsers flag; verify over every role pair.
func TestCanManage_FullMatrix(t *testing.T) {
	roles := []constants.Role{
		constants.RoleSuperAdmin,
		constants.RoleAdmin,
		constants.RoleATI,
		constants.RoleNGO,
		constants.RoleVolunteer,
	}

	stateFor := func(r constants.Role) string {
		if r.RequiresState() {
			return "Kerala"
		}
		return ""
	}

	for _, actingRole := range roles {
		for _, targetRole := range roles {
			acting := mustNewUser(t, actingRole, stateFor(actingRole))
			target := mustNewUser(t, targetRole, stateFor(targetRole))

			want := acting.Permissions.CanManageUsers && actingRole.Level() > targetRole.Level()
			if got := acting.CanManage(target); got != want {
				t.Errorf("CanManage(%s → %s) = %v, want %v", actingRole, targetRole, got, want)
			}
		}
	}
}

func TestStateScoped(t *testing.T) {
	if mustNewUser(t, constants.RoleSuperAdmin, "").StateScoped() {
		t.Error("SuperAdmin is never state scoped")
	}
	if !mustNewUser(t, constants.RoleAdmin, "Assam").StateScoped() {
		t.Error("state Admin is scoped")
	}
}
