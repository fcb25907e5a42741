// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package farmer_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/farmreg/internal/farmer"
	"github.com/taibuivan/farmreg/internal/platform/apperr"
	"github.com/taibuivan/farmreg/internal/platform/ctxutil"
	"github.com/taibuivan/farmreg/internal/platform/sec"
)

// MockRepository is a mock implementation of [farmer.Repository].
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, filter farmer.Filter, limit, offset int) ([]*farmer.Farmer, int, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*farmer.Farmer), args.Int(1), args.Error(2)
}

func (m *MockRepository) FindByID(ctx context.Context, id string) (*farmer.Farmer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*farmer.Farmer), args.Error(1)
}

func (m *MockRepository) FindByAccountID(ctx context.Context, accountID string) (*farmer.Farmer, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*farmer.Farmer), args.Error(1)
}

func (m *MockRepository) AssignmentsFor(ctx context.Context, assigneeID string) ([]farmer.KYCAssignment, error) {
	args := m.Called(ctx, assigneeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]farmer.KYCAssignment), args.Error(1)
}

func (m *MockRepository) RecentActivity(ctx context.Context, accountID string, limit int) ([]farmer.Activity, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]farmer.Activity), args.Error(1)
}

func TestSummarize(t *testing.T) {
	summary := farmer.Summarize([]farmer.KYCAssignment{
		{Status: farmer.KYCPending},
		{Status: farmer.KYCPending},
		{Status: farmer.KYCApproved},
		{Status: farmer.KYCRejected},
		{Status: "archived"},
	})

	assert.Equal(t, 2, summary.Pending)
	assert.Equal(t, 1, summary.Approved)
	assert.Equal(t, 1, summary.Rejected)
	assert.Len(t, summary.Items, 5)

	assert.NotNil(t, farmer.Summarize(nil).Items)
}

func TestRepositoryLoader(t *testing.T) {
	ctx := context.Background()
	static := &farmer.StaticLoader{Clock: clock.NewMock()}

	t.Run("reads the registry", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByAccountID", mock.Anything, "acc-1").Return(&farmer.Farmer{ID: "f-1", Name: "Sunita Jadhav"}, nil)
		repo.On("AssignmentsFor", mock.Anything, "acc-1").Return([]farmer.KYCAssignment{{Status: farmer.KYCApproved}}, nil)
		repo.On("RecentActivity", mock.Anything, "acc-1", farmer.DefaultActivityLimit).Return([]farmer.Activity{{ID: "a-1"}}, nil)

		record, err := farmer.NewRepositoryLoader(repo, static).LoadProfile(ctx, "acc-1")
		require.NoError(t, err)

		assert.False(t, record.Placeholder)
		assert.Equal(t, "Sunita Jadhav", record.Profile.Name)
		assert.Equal(t, 1, record.Assignments.Approved)
		assert.Len(t, record.Activity, 1)
		repo.AssertExpectations(t)
	})

	t.Run("falls back to the placeholder", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByAccountID", mock.Anything, "acc-2").Return(nil, apperr.NotFound("Farmer"))

		record, err := farmer.NewRepositoryLoader(repo, static).LoadProfile(ctx, "acc-2")
		require.NoError(t, err)

		assert.True(t, record.Placeholder)
		require.NotNil(t, record.Profile.AccountID)
		assert.Equal(t, "acc-2", *record.Profile.AccountID)
		repo.AssertNotCalled(t, "AssignmentsFor", mock.Anything, mock.Anything)
	})

	t.Run("propagates storage failures", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByAccountID", mock.Anything, "acc-3").Return(nil, errors.New("pool closed"))

		_, err := farmer.NewRepositoryLoader(repo, static).LoadProfile(ctx, "acc-3")
		assert.Error(t, err)
	})
}

func TestStaticLoader_RelativeTimestamps(t *testing.T) {
	mockClock := clock.NewMock()
	mockClock.Set(time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))

	record, err := (&farmer.StaticLoader{Clock: mockClock}).LoadProfile(context.Background(), "acc-1")
	require.NoError(t, err)

	assert.Equal(t, mockClock.Now().Add(-time.Hour), record.Activity[0].OccurredAt)
	assert.Equal(t, 2, record.Assignments.Pending)
}

func serve(handler *farmer.Handler, claims *sec.AuthClaims, path string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, path, nil)
	if claims != nil {
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}

	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, request)
	return recorder
}

func TestHandler_Profile(t *testing.T) {
	static := &farmer.StaticLoader{Clock: clock.NewMock()}
	handler := farmer.NewHandler(farmer.NewService(new(MockRepository), static))

	tests := []struct {
		name       string
		claims     *sec.AuthClaims
		path       string
		wantStatus int
	}{
		{name: "anonymous", path: "/me/profile", wantStatus: http.StatusUnauthorized},
		{name: "own profile via me", claims: &sec.AuthClaims{UserID: "acc-1", Role: "FARMER"}, path: "/me/profile", wantStatus: http.StatusOK},
		{name: "own profile by id", claims: &sec.AuthClaims{UserID: "acc-1", Role: "FARMER"}, path: "/acc-1/profile", wantStatus: http.StatusOK},
		{name: "farmer reading another profile", claims: &sec.AuthClaims{UserID: "acc-1", Role: "FARMER"}, path: "/acc-2/profile", wantStatus: http.StatusForbidden},
		{name: "staff reading another profile", claims: &sec.AuthClaims{UserID: "acc-9", Role: "EMPLOYEE"}, path: "/acc-2/profile", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(handler, tt.claims, tt.path)
			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

func TestHandler_ListFarmers(t *testing.T) {
	staff := &sec.AuthClaims{UserID: "acc-9", Role: "ADMIN"}

	t.Run("paginates and filters", func(t *testing.T) {
		repo := new(MockRepository)
		expected := farmer.Filter{Query: "patil", District: "Pune", KYCStatus: []farmer.KYCStatus{farmer.KYCPending}}
		repo.On("List", mock.Anything, expected, 10, 10).Return([]*farmer.Farmer{{ID: "f-1"}}, 11, nil)

		handler := farmer.NewHandler(farmer.NewService(repo, nil))
		recorder := serve(handler, staff, "/?q=patil&district=Pune&kyc=Pending&page=2&limit=10")
		require.Equal(t, http.StatusOK, recorder.Code)

		var body struct {
			Data []farmer.Farmer `json:"data"`
			Meta struct {
				Page       int `json:"page"`
				Total      int `json:"total"`
				TotalPages int `json:"total_pages"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Len(t, body.Data, 1)
		assert.Equal(t, 2, body.Meta.Page)
		assert.Equal(t, 11, body.Meta.Total)
		assert.Equal(t, 2, body.Meta.TotalPages)
	})

	t.Run("comma separated statuses", func(t *testing.T) {
		repo := new(MockRepository)
		expected := farmer.Filter{KYCStatus: []farmer.KYCStatus{farmer.KYCApproved, farmer.KYCRejected}}
		repo.On("List", mock.Anything, expected, mock.Anything, 0).Return([]*farmer.Farmer{}, 0, nil)

		handler := farmer.NewHandler(farmer.NewService(repo, nil))
		recorder := serve(handler, staff, "/?kyc=approved,rejected")
		assert.Equal(t, http.StatusOK, recorder.Code)
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		handler := farmer.NewHandler(farmer.NewService(new(MockRepository), nil))
		recorder := serve(handler, staff, "/?kyc=lost")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("farmers cannot list", func(t *testing.T) {
		handler := farmer.NewHandler(farmer.NewService(new(MockRepository), nil))
		recorder := serve(handler, &sec.AuthClaims{UserID: "acc-1", Role: "FARMER"}, "/")
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("lookup by id", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByID", mock.Anything, "f-404").Return(nil, apperr.NotFound("Farmer"))

		handler := farmer.NewHandler(farmer.NewService(repo, nil))
		recorder := serve(handler, staff, "/f-404")
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
