// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity and session layer of the registry admin.

It defines the account entity, the session record persisted per browser
profile, the per-profile Auth Context and the credential verification service.

# Architecture

  - User: the stored account row (Postgres).
  - UserRecord: the slice of the account that lives in the session "user" slot.
  - Context: the derived view of one profile's session, with Login, Logout
    and UpdateUser.
  - Provider: owns every live Context, bounded by an LRU.
*/
package auth

import (
	"slices"
	"time"

	"github.com/taibuivan/farmreg/internal/platform/sec"
)

// # Domain Entities

// User represents an account of the registry admin application.
type User struct {
	ID                  string       `json:"id"`
	UserID              string       `json:"user_id"` // Login handle, changeable by the owner.
	Name                string       `json:"name"`
	Email               string       `json:"email"`
	PasswordHash        string       `json:"-"` // Explicitly omitted from JSON for security.
	Role                sec.UserRole `json:"role"`
	Permissions         []string     `json:"permissions"`
	ForcePasswordChange bool         `json:"force_password_change"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// Record projects the account onto the session record.
func (user *User) Record() UserRecord {
	return UserRecord{
		ID:                  user.ID,
		UserID:              user.UserID,
		Name:                user.Name,
		Email:               user.Email,
		Role:                string(user.Role),
		Permissions:         slices.Clone(user.Permissions),
		ForcePasswordChange: user.ForcePasswordChange,
	}
}

// UserRecord is the identity persisted in the session "user" slot.
//
// Role stays a free-form string here: whatever was persisted is kept as-is
// and only interpreted through [sec.ParseRole] or [sec.NormalizeRole].
type UserRecord struct {
	ID                  string   `json:"id"`
	UserID              string   `json:"userId"`
	Name                string   `json:"name"`
	Email               string   `json:"email,omitempty"`
	Role                string   `json:"role"`
	Permissions         []string `json:"permissions"`
	ForcePasswordChange bool     `json:"forcePasswordChange,omitempty"`
}

// UserPatch carries the fields to merge into a session record. Nil fields
// are left untouched.
type UserPatch struct {
	UserID              *string   `json:"userId"`
	Name                *string   `json:"name"`
	Email               *string   `json:"email"`
	Role                *string   `json:"role"`
	Permissions         *[]string `json:"permissions"`
	ForcePasswordChange *bool     `json:"forcePasswordChange"`
}

// Apply returns a copy of record with the patch merged in.
func (patch UserPatch) Apply(record UserRecord) UserRecord {
	merged := record
	merged.Permissions = slices.Clone(record.Permissions)

	if patch.UserID != nil {
		merged.UserID = *patch.UserID
	}
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Email != nil {
		merged.Email = *patch.Email
	}
	if patch.Role != nil {
		merged.Role = *patch.Role
	}
	if patch.Permissions != nil {
		merged.Permissions = slices.Clone(*patch.Permissions)
	}
	if patch.ForcePasswordChange != nil {
		merged.ForcePasswordChange = *patch.ForcePasswordChange
	}
	return merged
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldLogin        = "login"
	FieldPassword     = "password"
	FieldAccessToken  = "access_token"
	FieldRefreshToken = "refresh_token"
	FieldTokenType    = "token_type"
	FieldExpiresIn    = "expires_in"
	FieldUser         = "user"
	FieldRedirect     = "redirect"
)

// maxLoginLength accepts the longest valid email address.
const maxLoginLength = 254
