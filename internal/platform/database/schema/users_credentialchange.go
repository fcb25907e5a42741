// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserCredentialChangeTable represents the 'users.credentialchange' table
type UserCredentialChangeTable struct {
	Table     string
	ID        string
	AccountID string
	Kind      string
	ChangedAt string
}

// UserCredentialChange is the schema definition for users.credentialchange
var UserCredentialChange = UserCredentialChangeTable{
	Table:     "users.credentialchange",
	ID:        "id",
	AccountID: "accountid",
	Kind:      "kind",
	ChangedAt: "changedat",
}
