// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// RegistryKYCAssignmentTable represents the 'registry.kycassignment' table
type RegistryKYCAssignmentTable struct {
	Table      string
	ID         string
	AssigneeID string
	FarmerID   string
	Status     string
	AssignedAt string
	UpdatedAt  string
}

// RegistryKYCAssignment is the schema definition for registry.kycassignment
var RegistryKYCAssignment = RegistryKYCAssignmentTable{
	Table:      "registry.kycassignment",
	ID:         "id",
	AssigneeID: "assigneeid",
	FarmerID:   "farmerid",
	Status:     "status",
	AssignedAt: "assignedat",
	UpdatedAt:  "updatedat",
}
