// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/farmreg/internal/platform/apperr"
	"github.com/taibuivan/farmreg/internal/platform/constants"
	"github.com/taibuivan/farmreg/internal/platform/sec"
	"github.com/taibuivan/farmreg/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for subject.
	GenerateAccessToken(subject sec.TokenSubject, timeToLive time.Duration) (string, error)
}

// Service implements the credential verification use cases.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
}

// NewService constructs a new [Service] with its dependencies.
func NewService(userRepo UserRepository, tokenProv TokenProvider) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
	}
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // User ID or email
	Password string
}

// LoginSession represents a successful authentication.
type LoginSession struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	User         *User
}

/*
Authenticate verifies credentials and issues the session tokens.

Description: Looks the account up by user ID or email, performs a
constant-time bcrypt comparison and signs a fresh RS256 access token.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Tokens and the authenticated account
  - error: Unauthorized or internal failures
*/
func (service *Service) Authenticate(context context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.userRepository.FindByLogin(context, input.Login)
	if err != nil {
		if apperr.IsNotFound(err) {
			// Generic message to prevent enumeration.
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, fmt.Errorf("auth_service_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(sec.TokenSubject{
		ID:          user.ID,
		Username:    user.UserID,
		Role:        string(user.Role),
		Permissions: user.Permissions,
	}, constants.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(constants.RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    constants.AccessTokenTTL,
		User:         user,
	}, nil
}

// # Enrollment

// CreateUserInput holds the data required to enroll a staff or farmer account.
type CreateUserInput struct {
	UserID      string
	Name        string
	Email       string
	Password    string
	Role        sec.UserRole
	Permissions []string
}

/*
CreateUser hashes the password and persists a new account that must change
its password on first sign-in.

Parameters:
  - context: context.Context
  - input: CreateUserInput

Returns:
  - *User: Created entity
  - error: Conflict (if the user ID or email exists) or storage errors
*/
func (service *Service) CreateUser(context context.Context, input CreateUserInput) (*User, error) {
	if !input.Role.IsKnown() {
		return nil, apperr.ValidationError("Unknown role")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	permissions := input.Permissions
	if permissions == nil {
		permissions = []string{}
	}

	user := &User{
		ID:                  uuid.New(),
		UserID:              input.UserID,
		Name:                input.Name,
		Email:               input.Email,
		PasswordHash:        hashedPassword,
		Role:                input.Role,
		Permissions:         permissions,
		ForcePasswordChange: true,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}
