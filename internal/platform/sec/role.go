// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/taibuivan/farmreg/internal/platform/constants"
)

// # User Roles

// UserRole represents the access level granted to an account.
//
// The set is closed: free-form strings enter the system only through
// [ParseRole], and anything unrecognized becomes [RoleUnknown].
type UserRole string

const (
	// Full registry administration across districts
	RoleSuperAdmin UserRole = "SUPER_ADMIN"

	// District administration and KYC oversight
	RoleAdmin UserRole = "ADMIN"

	// Field staff handling KYC assignments
	RoleEmployee UserRole = "EMPLOYEE"

	// Registered farmer
	RoleFarmer UserRole = "FARMER"

	// Placeholder for values that do not name a known role
	RoleUnknown UserRole = ""
)

// Roles lists every known role in descending order of authority.
var Roles = []UserRole{RoleSuperAdmin, RoleAdmin, RoleEmployee, RoleFarmer}

// homePaths maps each known role to its canonical landing screen.
var homePaths = map[UserRole]string{
	RoleSuperAdmin: constants.PathSuperAdminDashboard,
	RoleAdmin:      constants.PathAdminDashboard,
	RoleEmployee:   constants.PathEmployeeDashboard,
	RoleFarmer:     constants.PathDashboard,
}

// NormalizeRole trims surrounding whitespace and case-folds a role string.
//
// The result is the comparison key used by the route guard; it is not
// necessarily a valid [UserRole]. A Caser carries state, so one is built per call.
func NormalizeRole(raw string) string {
	return cases.Fold().String(strings.TrimSpace(raw))
}

// ParseRole maps a free-form role string onto the closed [UserRole] set.
func ParseRole(raw string) UserRole {
	key := NormalizeRole(raw)
	for _, role := range Roles {
		if NormalizeRole(string(role)) == key {
			return role
		}
	}
	return RoleUnknown
}

// IsKnown reports whether r is one of [Roles].
func (r UserRole) IsKnown() bool {
	_, ok := homePaths[r]
	return ok
}

// HomePath returns the role's landing screen. Unknown roles land on the
// generic dashboard.
func (r UserRole) HomePath() string {
	if path, ok := homePaths[r]; ok {
		return path
	}
	return constants.PathDashboard
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleSuperAdmin:
		return 40
	case RoleAdmin:
		return 30
	case RoleEmployee:
		return 20
	case RoleFarmer:
		return 10
	default:
		return 0
	}
}
