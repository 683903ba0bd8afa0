package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleConversionRoundTrip(t *testing.T) {
	for _, name := range []string{RoleUser, RoleSalesManager, RoleAdmin} {
		id, ok := RoleID(name)
		assert.True(t, ok)

		back, ok := RoleName(id)
		assert.True(t, ok)
		assert.Equal(t, name, back)
	}
}

func TestUnknownRoleRejected(t *testing.T) {
	_, ok := RoleID("superadmin")
	assert.False(t, ok)

	_, ok = RoleName(42)
	assert.False(t, ok)

	assert.False(t, IsValidRole("SALES_MANAGER")) // la casse compte
	assert.True(t, IsValidRole("sales_manager"))
}
