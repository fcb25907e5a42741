// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package authtest provides test doubles for the identity layer.
package authtest

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/farmreg/internal/platform/sec"
	"github.com/taibuivan/farmreg/internal/users/auth"
)

// MockUserRepository is a mock implementation of [auth.UserRepository].
type MockUserRepository struct {
	mock.Mock
}

var _ auth.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUserRepository) FindByLogin(ctx context.Context, login string) (*auth.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, newHash string) error {
	args := m.Called(ctx, id, newHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUserID(ctx context.Context, id, newUserID string) error {
	args := m.Called(ctx, id, newUserID)
	return args.Error(0)
}

// TokenService returns a token service signing with a throwaway RSA key.
func TokenService(t testing.TB) *sec.TokenService {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKeys(key, &key.PublicKey, "farmreg.test")
}

// User returns a stored account whose password is plainPassword.
func User(t testing.TB, userID, role, plainPassword string) *auth.User {
	t.Helper()

	hash, err := sec.HashPassword(plainPassword)
	require.NoError(t, err)

	return &auth.User{
		ID:           "0192f7a0-0000-7000-8000-0000000000aa",
		UserID:       userID,
		Name:         "Test " + userID,
		Email:        userID + "@farmreg.test",
		PasswordHash: hash,
		Role:         sec.UserRole(role),
		Permissions:  []string{"farmers:read"},
	}
}
