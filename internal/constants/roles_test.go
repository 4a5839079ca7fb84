package constants

import "testing"

// The role→permission mapping is fixed; enumerate every role against
// every flag.
func TestPermissionsForRole_FullMatrix(t *testing.T) {
	cases := []struct {
		role Role
		want Permissions
	}{
		{RoleSuperAdmin, Permissions{
			CanCreateTraining:  true,
			CanApproveTraining: true,
			CanManageUsers:     true,
			CanViewAllStates:   true,
			CanGenerateReports: true,
			CanManageSystem:    true,
		}},
		{RoleAdmin, Permissions{
			CanCreateTraining:  true,
			CanApproveTraining: true,
			CanManageUsers:     true,
			CanViewAllStates:   false,
			CanGenerateReports: true,
			CanManageSystem:    false,
		}},
		{RoleATI, Permissions{
			CanCreateTraining:  true,
			CanGenerateReports: true,
		}},
		{RoleNGO, Permissions{
			CanCreateTraining: true,
		}},
		{RoleVolunteer, Permissions{}},
	}

	for _, tc := range cases {
		got, err := PermissionsForRole(tc.role)
		if err != nil {
			t.Fatalf("PermissionsForRole(%s) returned error: %v", tc.role, err)
		}
		if got != tc.want {
			t.Errorf("PermissionsForRole(%s) = %+v, want %+v", tc.role, got, tc.want)
		}
	}
}

func TestPermissionsForRole_UnknownRole(t *testing.T) {
	if _, err := PermissionsForRole(Role("Commissar")); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestRoleHierarchy(t *testing.T) {
	order := []Role{RoleVolunteer, RoleNGO, RoleATI, RoleAdmin, RoleSuperAdmin}
	for i := 1; i < len(order); i++ {
		if order[i].Level() <= order[i-1].Level() {
			t.Errorf("expected %s to outrank %s", order[i], order[i-1])
		}
	}

	if Role("Nobody").Level() != 0 {
		t.Error("unknown role should have level 0")
	}
	if Role("Nobody").Valid() {
		t.Error("unknown role should not be valid")
	}
}

func TestRoleApprovalAndStatePolicy(t *testing.T) {
	if !RoleSuperAdmin.AutoApproved() || !RoleVolunteer.AutoApproved() {
		t.Error("SuperAdmin and Volunteer are auto-approved")
	}
	for _, r := range []Role{RoleAdmin, RoleATI, RoleNGO} {
		if r.AutoApproved() {
			t.Errorf("%s must not be auto-approved", r)
		}
		if !r.RequiresState() {
			t.Errorf("%s requires a state", r)
		}
	}
	if RoleSuperAdmin.RequiresState() || RoleVolunteer.RequiresState() {
		t.Error("SuperAdmin and Volunteer do not require a state")
	}
}

func TestRoleScan(t *testing.T) {
	var r Role
	if err := r.Scan("Admin"); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if r != RoleAdmin {
		t.Errorf("Scan gave %s, want Admin", r)
	}

	if err := r.Scan([]byte("NGO")); err != nil {
		t.Fatalf("Scan from bytes failed: %v", err)
	}
	if r != RoleNGO {
		t.Errorf("Scan gave %s, want NGO", r)
	}

	v, err := RoleATI.Value()
	if err != nil || v != "ATI" {
		t.Errorf("Value() = %v, %v", v, err)
	}
}
