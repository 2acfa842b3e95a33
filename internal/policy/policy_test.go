package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/condominio-auth/internal/model"
)

func TestAuthorize(t *testing.T) {
	cases := []struct {
		role model.Role
		cap  Capability
		want bool
	}{
		{model.RoleResidente, Public, true},
		{"", Public, true},
		{"", Authenticated, false},
		{"OWNER", Authenticated, false},
		{model.RoleGuardia, Authenticated, true},
		{model.RoleContador, Authenticated, true},
		{model.RoleResidente, AdminOrAbove, false},
		{model.RoleGuardia, AdminOrAbove, false},
		{model.RoleContador, AdminOrAbove, false},
		{model.RoleAdmin, AdminOrAbove, true},
		{model.RoleSuperAdmin, AdminOrAbove, true},
		{model.RoleAdmin, SuperAdminOnly, false},
		{model.RoleSuperAdmin, SuperAdminOnly, true},
		{model.RoleSuperAdmin, Capability(42), false},
	}
	for _, tc := range cases {
		t.Run(string(tc.role)+"/"+tc.cap.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, Authorize(tc.role, tc.cap))
		})
	}
}

func TestEveryRoleIsAuthenticated(t *testing.T) {
	for _, r := range model.Roles() {
		assert.True(t, Authorize(r, Authenticated), r)
	}
}
