package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/inventory-service/internal/model"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		role     model.Role
		required []model.Role
		want     bool
	}{
		{model.RoleUser, CatalogWriters, false},
		{model.RoleAdmin, CatalogWriters, true},
		{model.RoleSuperAdmin, CatalogWriters, true},
		{model.RoleUser, RoleManagers, false},
		{model.RoleAdmin, RoleManagers, false},
		{model.RoleSuperAdmin, RoleManagers, true},
		{model.RoleUser, Authenticated, true},
		{"", Authenticated, false},
		{model.RoleSuperAdmin, nil, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(model.User{Role: tt.role}, tt.required...))
		})
	}
}

func TestAuthorize_NoInheritance(t *testing.T) {
	// super_admin is only allowed where it is listed
	assert.False(t, Authorize(model.User{Role: model.RoleSuperAdmin}, model.RoleAdmin))
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"user", "admin", "super_admin"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, model.Role(s), r)
	}
	for _, s := range []string{"", "root", "Admin", "SUPER_ADMIN"} {
		_, err := ParseRole(s)
		assert.ErrorIs(t, err, ErrInvalidRole, s)
	}
}
