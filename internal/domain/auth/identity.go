package auth

// UserContext is the authenticated caller attached to a request.
type UserContext struct {
	UserID   string
	RoleName string
}

func (u UserContext) IsAdmin() bool {
	return u.RoleName == RoleAdmin
}
