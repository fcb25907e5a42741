// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// RegistryActivityTable represents the 'registry.activity' table
type RegistryActivityTable struct {
	Table       string
	ID          string
	AccountID   string
	Description string
	OccurredAt  string
}

// RegistryActivity is the schema definition for registry.activity
var RegistryActivity = RegistryActivityTable{
	Table:       "registry.activity",
	ID:          "id",
	AccountID:   "accountid",
	Description: "description",
	OccurredAt:  "occurredat",
}
