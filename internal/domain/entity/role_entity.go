package entity

// Role represents an authorization role
type Role string

const (
	// RoleUser can view and complete todos assigned to them
	RoleUser Role = "user"
	// RoleAdmin has unrestricted access to all users and todos
	RoleAdmin Role = "admin"
)

func IsValidRole(r string) bool {
	return r == string(RoleUser) || r == string(RoleAdmin)
}
