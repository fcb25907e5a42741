// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # Account Store

// UserReader resolves accounts. Both lookups return apperr.NotFound for
// unknown or soft-deleted accounts.
type UserReader interface {
	FindByID(context context.Context, id string) (*User, error)

	// FindByLogin matches login against the user ID exactly or the email
	// case-insensitively.
	FindByLogin(context context.Context, login string) (*User, error)
}

// CredentialWriter replaces the credentials of an existing account.
type CredentialWriter interface {

	/*
		UpdatePassword stores newHash and clears the forced change flag.

		Returns:
		  - error: apperr.NotFound for an unknown account, or storage failures
	*/
	UpdatePassword(context context.Context, id, newHash string) error

	/*
		UpdateUserID replaces the login handle.

		Returns:
		  - error: apperr.Conflict when newUserID is taken, apperr.NotFound
		    for an unknown account, or storage failures
	*/
	UpdateUserID(context context.Context, id, newUserID string) error
}

// UserRepository is the full account store used by sign-up and sign-in.
type UserRepository interface {
	UserReader
	CredentialWriter

	// Create inserts a new account. A taken user ID or email is apperr.Conflict.
	Create(context context.Context, user *User) error
}
