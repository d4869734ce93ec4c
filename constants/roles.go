package constants

// User roles
const (
	RoleUser  = "user"
	RoleRider = "rider"
	RoleAdmin = "admin"
)

// Role groups for convenience
var (
	AllRoles = []string{
		RoleUser,
		RoleRider,
		RoleAdmin,
	}

	AdminOnly = []string{RoleAdmin}
	RiderOnly = []string{RoleRider}
)

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
