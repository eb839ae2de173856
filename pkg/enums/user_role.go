package enums

import "fmt"

// UserRole represents the account-level permissions role.
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleAdmin    UserRole = "admin"
)

var validUserRoles = []UserRole{
	UserRoleCustomer,
	UserRoleAdmin,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// Parse validates a raw string into a UserRole.
func ParseUserRole(raw string) (UserRole, error) {
	role := UserRole(raw)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid user role %q", raw)
	}
	return role, nil
}
