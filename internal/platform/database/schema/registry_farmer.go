// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// RegistryFarmerTable represents the 'registry.farmer' table
type RegistryFarmerTable struct {
	Table     string
	ID        string
	AccountID string
	Name      string
	Phone     string
	Village   string
	District  string
	State     string
	LandAcres string
	KYCStatus string
	CreatedAt string
	UpdatedAt string
}

// RegistryFarmer is the schema definition for registry.farmer
var RegistryFarmer = RegistryFarmerTable{
	Table:     "registry.farmer",
	ID:        "id",
	AccountID: "accountid",
	Name:      "name",
	Phone:     "phone",
	Village:   "village",
	District:  "district",
	State:     "state",
	LandAcres: "landacres",
	KYCStatus: "kycstatus",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
