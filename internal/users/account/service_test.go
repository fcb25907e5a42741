// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/farmreg/internal/credential"
	"github.com/taibuivan/farmreg/internal/platform/apperr"
	"github.com/taibuivan/farmreg/internal/platform/sec"
	"github.com/taibuivan/farmreg/internal/users/account"
	"github.com/taibuivan/farmreg/internal/users/auth"
	"github.com/taibuivan/farmreg/internal/users/auth/authtest"
)

// MockAuditRepository is a mock implementation of [account.AuditRepository].
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Record(ctx context.Context, record *account.ChangeRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAuditRepository) ListRecent(ctx context.Context, accountID string, limit int) ([]account.ChangeRecord, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]account.ChangeRecord), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func auditOf(kind credential.Kind) interface{} {
	return mock.MatchedBy(func(record *account.ChangeRecord) bool {
		return record.Kind == kind && record.ID != "" && !record.ChangedAt.IsZero()
	})
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a fresh hash and clears the forced flag", func(t *testing.T) {
		stored := authtest.User(t, "asha", "ADMIN", "secret1")
		stored.ForcePasswordChange = true

		repo := new(authtest.MockUserRepository)
		audit := new(MockAuditRepository)
		repo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
		repo.On("UpdatePassword", mock.Anything, stored.ID, mock.AnythingOfType("string")).Return(nil)
		audit.On("Record", mock.Anything, auditOf(credential.KindPassword)).Return(nil)

		service := account.NewService(repo, audit, discardLogger())
		user, err := service.ChangePassword(ctx, stored.ID, "secret1", "secret2")

		require.NoError(t, err)
		assert.False(t, user.ForcePasswordChange)
		assert.True(t, sec.CheckPasswordHash("secret2", user.PasswordHash))
		repo.AssertExpectations(t)
		audit.AssertExpectations(t)
	})

	t.Run("rejects a wrong current password", func(t *testing.T) {
		stored := authtest.User(t, "asha", "ADMIN", "secret1")

		repo := new(authtest.MockUserRepository)
		audit := new(MockAuditRepository)
		repo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

		service := account.NewService(repo, audit, discardLogger())
		_, err := service.ChangePassword(ctx, stored.ID, "wrong!", "secret2")

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
		assert.Equal(t, "Current password is incorrect", apperr.As(err).Message)
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
		audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("audit failure does not fail the change", func(t *testing.T) {
		stored := authtest.User(t, "asha", "ADMIN", "secret1")

		repo := new(authtest.MockUserRepository)
		audit := new(MockAuditRepository)
		repo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
		repo.On("UpdatePassword", mock.Anything, stored.ID, mock.Anything).Return(nil)
		audit.On("Record", mock.Anything, mock.Anything).Return(errors.New("pool closed"))

		service := account.NewService(repo, audit, discardLogger())
		_, err := service.ChangePassword(ctx, stored.ID, "secret1", "secret2")

		assert.NoError(t, err)
	})

	t.Run("missing account", func(t *testing.T) {
		repo := new(authtest.MockUserRepository)
		repo.On("FindByID", mock.Anything, "ghost").Return(nil, apperr.NotFound("User"))

		service := account.NewService(repo, new(MockAuditRepository), discardLogger())
		_, err := service.ChangePassword(ctx, "ghost", "secret1", "secret2")

		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestService_ChangeUserID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		current    string
		updateErr  error
		wantStatus int
	}{
		{name: "success", current: "asha"},
		{name: "wrong current user ID", current: "someone", wantStatus: http.StatusBadRequest},
		{name: "user ID taken", current: "asha", updateErr: apperr.Conflict("User ID is already taken"), wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := authtest.User(t, "asha", "EMPLOYEE", "secret1")

			repo := new(authtest.MockUserRepository)
			audit := new(MockAuditRepository)
			repo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
			repo.On("UpdateUserID", mock.Anything, stored.ID, "asha.rao").Return(tt.updateErr)
			audit.On("Record", mock.Anything, auditOf(credential.KindUserID)).Return(nil)

			service := account.NewService(repo, audit, discardLogger())
			user, err := service.ChangeUserID(ctx, stored.ID, tt.current, "asha.rao")

			if tt.wantStatus != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantStatus, apperr.As(err).HTTPStatus)
				audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "asha.rao", user.UserID)
			audit.AssertExpectations(t)
		})
	}
}

func TestService_Updater(t *testing.T) {
	ctx := context.Background()
	stored := authtest.User(t, "asha", "ADMIN", "secret1")

	repo := new(authtest.MockUserRepository)
	audit := new(MockAuditRepository)
	repo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	repo.On("UpdateUserID", mock.Anything, stored.ID, "asha.rao").Return(nil)
	audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	var updated *auth.User
	service := account.NewService(repo, audit, discardLogger())
	updater := service.Updater(stored.ID, func(_ context.Context, user *auth.User) { updated = user })

	err := updater.Apply(ctx, credential.Change{Kind: credential.KindUserID, Current: "asha", Next: "asha.rao"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "asha.rao", updated.UserID)

	err = updater.Apply(ctx, credential.Change{Kind: "pin", Current: "1", Next: "2"})
	assert.Error(t, err)
}

func TestService_RecentChanges(t *testing.T) {
	audit := new(MockAuditRepository)
	audit.On("ListRecent", mock.Anything, "acc-1", 5).Return([]account.ChangeRecord{{ID: "c1", Kind: credential.KindPassword}}, nil)

	service := account.NewService(new(authtest.MockUserRepository), audit, discardLogger())
	records, err := service.RecentChanges(context.Background(), "acc-1", 5)

	require.NoError(t, err)
	assert.Len(t, records, 1)
}
