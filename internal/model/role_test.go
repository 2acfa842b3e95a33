package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" GUARDIA ")
	assert.True(t, ok)
	assert.Equal(t, RoleGuardia, r)

	for _, bad := range []string{"", "admin", "OWNER", "SUPERADMIN"} {
		_, ok := ParseRole(bad)
		assert.False(t, ok, bad)
	}
}

func TestSetRoleDerivesFlags(t *testing.T) {
	var a Account
	a.SetRole(RoleSuperAdmin)
	assert.True(t, a.IsStaff)
	assert.True(t, a.IsSuperuser)

	a.SetRole(RoleAdmin)
	assert.True(t, a.IsStaff)
	assert.False(t, a.IsSuperuser)

	a.SetRole(RoleResidente)
	assert.False(t, a.IsStaff)
	assert.False(t, a.IsSuperuser)
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "alice", Account{Username: "alice"}.FullName())
	assert.Equal(t, "Alice", Account{Username: "alice", FirstName: "Alice"}.FullName())
	assert.Equal(t, "Alice Smith", Account{Username: "alice", FirstName: "Alice", LastName: "Smith"}.FullName())
	assert.Equal(t, "Smith", Account{Username: "alice", LastName: "Smith"}.FullName())
}
