// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/farmreg/internal/platform/constants"
	"github.com/taibuivan/farmreg/internal/platform/sec"
)

/*
TestParseRole checks trimming and case-insensitive matching.
*/
func TestParseRole(t *testing.T) {
	tests := []struct {
		raw  string
		want sec.UserRole
	}{
		{"SUPER_ADMIN", sec.RoleSuperAdmin},
		{"  super_admin ", sec.RoleSuperAdmin},
		{"Admin", sec.RoleAdmin},
		{"employee\t", sec.RoleEmployee},
		{"farmer", sec.RoleFarmer},
		{"auditor", sec.RoleUnknown},
		{"", sec.RoleUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, sec.ParseRole(tt.raw))
		})
	}
}

/*
TestUserRole_HomePath covers the role to landing screen table.
*/
func TestUserRole_HomePath(t *testing.T) {
	assert.Equal(t, constants.PathSuperAdminDashboard, sec.RoleSuperAdmin.HomePath())
	assert.Equal(t, constants.PathAdminDashboard, sec.RoleAdmin.HomePath())
	assert.Equal(t, constants.PathEmployeeDashboard, sec.RoleEmployee.HomePath())
	assert.Equal(t, constants.PathDashboard, sec.RoleFarmer.HomePath())
	assert.Equal(t, constants.PathDashboard, sec.RoleUnknown.HomePath())
	assert.Equal(t, constants.PathDashboard, sec.UserRole("AUDITOR").HomePath())
}

/*
TestRoles_Exhaustive fails when a role is declared without a home screen.
*/
func TestRoles_Exhaustive(t *testing.T) {
	for _, role := range sec.Roles {
		assert.True(t, role.IsKnown(), "role %q has no home path", role)
	}
	assert.False(t, sec.RoleUnknown.IsKnown())
}

/*
TestUserRole_AtLeast checks the authority ordering.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleSuperAdmin.AtLeast(sec.RoleAdmin))
	assert.True(t, sec.RoleEmployee.AtLeast(sec.RoleEmployee))
	assert.False(t, sec.RoleFarmer.AtLeast(sec.RoleEmployee))
	assert.False(t, sec.RoleUnknown.AtLeast(sec.RoleFarmer))
}
