// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/farmreg/internal/platform/apperr"
	"github.com/taibuivan/farmreg/internal/platform/sec"
	"github.com/taibuivan/farmreg/internal/users/auth"
	"github.com/taibuivan/farmreg/internal/users/auth/authtest"
)

func TestService_Authenticate(t *testing.T) {
	tokens := authtest.TokenService(t)
	stored := authtest.User(t, "asha", "ADMIN", "secret1")

	tests := []struct {
		name       string
		login      string
		password   string
		setupMock  func(*authtest.MockUserRepository)
		wantStatus int
	}{
		{
			name:     "valid credentials",
			login:    "asha",
			password: "secret1",
			setupMock: func(m *authtest.MockUserRepository) {
				m.On("FindByLogin", mock.Anything, "asha").Return(stored, nil)
			},
		},
		{
			name:     "wrong password",
			login:    "asha",
			password: "nope",
			setupMock: func(m *authtest.MockUserRepository) {
				m.On("FindByLogin", mock.Anything, "asha").Return(stored, nil)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:     "unknown account",
			login:    "ghost",
			password: "secret1",
			setupMock: func(m *authtest.MockUserRepository) {
				m.On("FindByLogin", mock.Anything, "ghost").Return(nil, apperr.NotFound("User"))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:     "repository failure",
			login:    "asha",
			password: "secret1",
			setupMock: func(m *authtest.MockUserRepository) {
				m.On("FindByLogin", mock.Anything, "asha").Return(nil, errors.New("pool closed"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(authtest.MockUserRepository)
			tt.setupMock(repo)

			service := auth.NewService(repo, tokens)
			session, err := service.Authenticate(context.Background(), auth.LoginInput{Login: tt.login, Password: tt.password})

			if tt.wantStatus != 0 {
				require.Error(t, err)
				assert.Nil(t, session)
				if appErr := apperr.As(err); appErr != nil {
					assert.Equal(t, tt.wantStatus, appErr.HTTPStatus)
				} else {
					assert.Equal(t, http.StatusInternalServerError, tt.wantStatus)
				}
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, session.RefreshToken)
				assert.Equal(t, stored, session.User)

				claims, err := tokens.VerifyToken(session.AccessToken)
				require.NoError(t, err)
				assert.Equal(t, stored.ID, claims.UserID)
				assert.Equal(t, "ADMIN", claims.Role)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestService_CreateUser(t *testing.T) {
	repo := new(authtest.MockUserRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*auth.User")).Return(nil)

	service := auth.NewService(repo, authtest.TokenService(t))
	user, err := service.CreateUser(context.Background(), auth.CreateUserInput{
		UserID:   "ravi",
		Name:     "Ravi",
		Password: "secret1",
		Role:     sec.RoleEmployee,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.True(t, user.ForcePasswordChange)
	assert.True(t, sec.CheckPasswordHash("secret1", user.PasswordHash))
	assert.Empty(t, user.Permissions)
	repo.AssertExpectations(t)

	_, err = service.CreateUser(context.Background(), auth.CreateUserInput{UserID: "x", Password: "secret1", Role: "OWNER"})
	assert.Error(t, err)
}
