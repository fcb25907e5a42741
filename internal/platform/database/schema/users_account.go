// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the registry database.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table               string
	ID                  string
	UserID              string
	Name                string
	Email               string
	PasswordHash        string
	Role                string
	Permissions         string
	ForcePasswordChange string
	CreatedAt           string
	UpdatedAt           string
	DeletedAt           string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:               "users.account",
	ID:                  "id",
	UserID:              "userid",
	Name:                "name",
	Email:               "email",
	PasswordHash:        "passwordhash",
	Role:                "role",
	Permissions:         "permissions",
	ForcePasswordChange: "forcepasswordchange",
	CreatedAt:           "createdat",
	UpdatedAt:           "updatedat",
	DeletedAt:           "deletedat",
}
