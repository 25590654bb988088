package auth

import "github.com/iliyamo/inventory-service/internal/model"

// Role sets required by the protected actions. Membership is the whole
// check: super_admin appears explicitly wherever it is allowed.
var (
	// CatalogWriters may create, update and delete inventory and suppliers.
	CatalogWriters = []model.Role{model.RoleAdmin, model.RoleSuperAdmin}
	// UserManagers may update and delete user accounts.
	UserManagers = []model.Role{model.RoleAdmin, model.RoleSuperAdmin}
	// RoleManagers may change another user's role.
	RoleManagers = []model.Role{model.RoleSuperAdmin}
	// Authenticated admits any known role.
	Authenticated = model.Roles
)

// Authorize reports whether u's role is one of required.
func Authorize(u model.User, required ...model.Role) bool {
	for _, r := range required {
		if u.Role == r {
			return true
		}
	}
	return false
}

// ParseRole converts s into a known role or fails with ErrInvalidRole.
func ParseRole(s string) (model.Role, error) {
	r := model.Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}
