package constants

// User roles. Admins can cancel any listing and trigger dividend
// distributions; investors trade on their own behalf.
const (
	RoleAdmin    = "admin"
	RoleInvestor = "investor"
)

// ValidRoles is the set of allowed role values.
var ValidRoles = []string{RoleInvestor, RoleAdmin}

// IsValidRole returns true if role is one of the allowed values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
