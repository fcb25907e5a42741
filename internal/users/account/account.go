// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles credential management for signed-in accounts.

It lets users replace their password or their login user ID and keeps an
audit trail of those changes.

# Architecture

  - Entities: ChangeRecord (audit entry).
  - Domain: This package depends on the auth package for the User entity
    and on the credential package for the shared form rules.
  - Security: The current credential is always re-verified before a change.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/farmreg/internal/credential"
	"github.com/taibuivan/farmreg/internal/users/auth"
)

// # Domain Entities

// ChangeRecord is one entry of the credential audit trail.
type ChangeRecord struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Kind      credential.Kind `json:"kind"`
	ChangedAt time.Time       `json:"changed_at"`
}

// # Repository Contracts

// AccountRepository is the slice of the user store this package needs.
// [auth.PostgresUserRepository] satisfies it.
type AccountRepository interface {
	auth.UserReader
	auth.CredentialWriter
}

// AuditRepository defines the persistence contract for the change audit trail.
type AuditRepository interface {
	/*
		Record appends an entry to the audit trail.

		Parameters:
		  - context: context.Context
		  - record: *ChangeRecord

		Returns:
		  - error: Storage failures
	*/
	Record(context context.Context, record *ChangeRecord) error

	/*
		ListRecent returns the newest entries of an account, newest first.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - limit: int

		Returns:
		  - []ChangeRecord: Entries (empty, never nil)
		  - error: Retrieval errors
	*/
	ListRecent(context context.Context, accountID string, limit int) ([]ChangeRecord, error)
}

// # Field Identifiers

const (
	FieldNewPassword = "new_password"
	FieldNewUserID   = "new_user_id"
)

// MaxUserIDLength bounds a login user ID.
const MaxUserIDLength = 64
