package domain

import (
	"fmt"
	"strings"
)

// AppRole is the closed set of authorization tiers. The zero value is not a
// valid role.
type AppRole int

const (
	RoleUser AppRole = iota + 1
	RoleAdmin
)

// AllRoles lists every role in seeding order.
var AllRoles = []AppRole{RoleUser, RoleAdmin}

var roleNames = map[AppRole]string{
	RoleUser:  "ROLE_USER",
	RoleAdmin: "ROLE_ADMIN",
}

// String returns the persisted form of the role, e.g. "ROLE_ADMIN".
func (r AppRole) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("AppRole(%d)", int(r))
}

// Valid reports whether r is one of the known roles.
func (r AppRole) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// ParseAppRole converts a role name to an AppRole. Matching ignores case and
// surrounding whitespace. Unknown names yield ErrRoleNotFound.
func ParseAppRole(name string) (AppRole, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	for role, n := range roleNames {
		if n == normalized {
			return role, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrRoleNotFound, name)
}

// Role is a persisted authorization tier. Many users reference one Role.
type Role struct {
	ID   int64
	Name AppRole
}
