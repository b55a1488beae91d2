package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"USER", "ADMIN", "OWNER"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, Role(valid), role)
	}

	for _, invalid := range []string{"", "user", "SUPERUSER", "Admin"} {
		_, err := ParseRole(invalid)
		assert.Error(t, err, "role %q", invalid)
	}
}

func TestAllowed(t *testing.T) {
	// USER holds nothing administrative
	assert.False(t, Allowed(RoleUser, CapManageCatalog))
	assert.False(t, Allowed(RoleUser, CapViewAllOrders))

	// ADMIN manages the store but not accounts
	assert.True(t, Allowed(RoleAdmin, CapManageCatalog))
	assert.True(t, Allowed(RoleAdmin, CapViewAllOrders))
	assert.True(t, Allowed(RoleAdmin, CapManageOrders))
	assert.False(t, Allowed(RoleAdmin, CapManageUsers))

	// OWNER holds everything ADMIN does plus user management
	assert.True(t, Allowed(RoleOwner, CapManageCatalog))
	assert.True(t, Allowed(RoleOwner, CapManageUsers))
}

func TestAllowed_UnknownRoleHoldsNothing(t *testing.T) {
	assert.False(t, Allowed(Role("SUPERUSER"), CapManageCatalog))
	assert.False(t, Allowed(Role(""), CapManageUsers))
}
