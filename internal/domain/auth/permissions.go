package auth

const (
	PermEvaluationRead   = "evaluation.read"
	PermEvaluationWrite  = "evaluation.write"
	PermEvaluationExport = "evaluation.export"
	PermNotificationRead = "notification.read"
	PermAuditRead        = "audit.read"
)

var DefaultPermissions = []string{
	PermEvaluationRead,
	PermEvaluationWrite,
	PermEvaluationExport,
	PermNotificationRead,
	PermAuditRead,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEvaluationRead,
		PermEvaluationWrite,
		PermNotificationRead,
	},
	RoleManager: {
		PermEvaluationRead,
		PermEvaluationWrite,
		PermEvaluationExport,
		PermNotificationRead,
	},
	RoleDepartmentLead: {
		PermEvaluationRead,
		PermEvaluationWrite,
		PermEvaluationExport,
		PermNotificationRead,
	},
	RoleTopManagement: {
		PermEvaluationRead,
		PermEvaluationWrite,
		PermEvaluationExport,
		PermNotificationRead,
	},
	RoleCEO: {
		PermEvaluationRead,
		PermEvaluationWrite,
		PermEvaluationExport,
		PermNotificationRead,
		PermAuditRead,
	},
	RoleAdmin: DefaultPermissions,
}

// HasPermission reports whether role grants perm.
func HasPermission(role, perm string) bool {
	for _, p := range RolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}
