package auth

const (
	RoleAdmin          = "admin"
	RoleCEO            = "ceo"
	RoleTopManagement  = "top_management"
	RoleDepartmentLead = "department_lead"
	RoleManager        = "manager"
	RoleEmployee       = "employee"
)

// Roles lists every role the service knows about, most senior first.
var Roles = []string{
	RoleAdmin,
	RoleCEO,
	RoleTopManagement,
	RoleDepartmentLead,
	RoleManager,
	RoleEmployee,
}

// SeesAllTasks reports whether a role has organisation-wide task visibility.
func SeesAllTasks(role string) bool {
	switch role {
	case RoleAdmin, RoleCEO, RoleTopManagement:
		return true
	}
	return false
}

func ValidRole(role string) bool {
	for _, candidate := range Roles {
		if candidate == role {
			return true
		}
	}
	return false
}
