package auth

import "testing"

func TestRolePermissionsSubset(t *testing.T) {
	allowed := map[string]struct{}{}
	for _, perm := range DefaultPermissions {
		allowed[perm] = struct{}{}
	}

	for role, perms := range RolePermissions {
		if !ValidRole(role) {
			t.Fatalf("permissions declared for unknown role %s", role)
		}
		if len(perms) == 0 {
			t.Fatalf("role %s has no permissions", role)
		}
		for _, perm := range perms {
			if _, ok := allowed[perm]; !ok {
				t.Fatalf("role %s has unknown permission %s", role, perm)
			}
		}
	}
}

func TestEveryRoleCanReadEvaluations(t *testing.T) {
	for _, role := range Roles {
		if !HasPermission(role, PermEvaluationRead) {
			t.Fatalf("role %s cannot read evaluations", role)
		}
	}
	if HasPermission(RoleEmployee, PermAuditRead) {
		t.Fatal("employees must not read the audit trail")
	}
	if HasPermission("ghost", PermEvaluationRead) {
		t.Fatal("unknown roles have no permissions")
	}
}
