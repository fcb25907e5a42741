// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package farmer

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/taibuivan/farmreg/internal/platform/apperr"
	"github.com/taibuivan/farmreg/pkg/pointer"
)

// DefaultActivityLimit is the number of activity entries on a profile.
const DefaultActivityLimit = 5

// # Registry Loader

// RepositoryLoader assembles profiles from the registry. Accounts without a
// farmer row are served by the fallback loader.
type RepositoryLoader struct {
	repository    Repository
	fallback      ProfileLoader
	activityLimit int
}

// NewRepositoryLoader constructs a registry-backed [ProfileLoader].
func NewRepositoryLoader(repository Repository, fallback ProfileLoader) *RepositoryLoader {
	return &RepositoryLoader{
		repository:    repository,
		fallback:      fallback,
		activityLimit: DefaultActivityLimit,
	}
}

/*
LoadProfile reads the farmer row, assignments and activity of an account.

Parameters:
  - context: context.Context
  - userID: string (Account ID)

Returns:
  - *ProfileRecord: Registry data, or the fallback's placeholder when no farmer row exists
  - error: Retrieval errors
*/
func (loader *RepositoryLoader) LoadProfile(context context.Context, userID string) (*ProfileRecord, error) {
	profile, err := loader.repository.FindByAccountID(context, userID)
	if err != nil {
		if apperr.IsNotFound(err) && loader.fallback != nil {
			return loader.fallback.LoadProfile(context, userID)
		}
		return nil, fmt.Errorf("farmer_loader_profile_failed: %w", err)
	}

	assignments, err := loader.repository.AssignmentsFor(context, userID)
	if err != nil {
		return nil, fmt.Errorf("farmer_loader_assignments_failed: %w", err)
	}

	activity, err := loader.repository.RecentActivity(context, userID, loader.activityLimit)
	if err != nil {
		return nil, fmt.Errorf("farmer_loader_activity_failed: %w", err)
	}

	return &ProfileRecord{
		Profile:     *profile,
		Assignments: Summarize(assignments),
		Activity:    activity,
	}, nil
}

// # Placeholder Loader

// StaticLoader serves fixed placeholder data for any account. Timestamps
// are relative to Clock.
type StaticLoader struct {
	Clock clock.Clock
}

// NewStaticLoader returns a placeholder loader on the wall clock.
func NewStaticLoader() *StaticLoader {
	return &StaticLoader{Clock: clock.New()}
}

// LoadProfile returns the placeholder profile. It never fails.
func (loader *StaticLoader) LoadProfile(_ context.Context, userID string) (*ProfileRecord, error) {
	now := loader.Clock.Now()
	accountID := userID

	assignments := []KYCAssignment{
		{ID: "kyc-1001", FarmerID: "farmer-2001", FarmerName: "Ramesh Patil", Village: "Shirur", Status: KYCPending, AssignedAt: now.Add(-2 * time.Hour)},
		{ID: "kyc-1002", FarmerID: "farmer-2002", FarmerName: "Sunita Jadhav", Village: "Khed", Status: KYCPending, AssignedAt: now.Add(-26 * time.Hour)},
		{ID: "kyc-1003", FarmerID: "farmer-2003", FarmerName: "Vijay Shinde", Village: "Baramati", Status: KYCApproved, AssignedAt: now.Add(-72 * time.Hour)},
		{ID: "kyc-1004", FarmerID: "farmer-2004", FarmerName: "Lata Pawar", Village: "Indapur", Status: KYCRejected, AssignedAt: now.Add(-120 * time.Hour)},
	}

	return &ProfileRecord{
		Profile: Farmer{
			ID:        "farmer-0000",
			AccountID: pointer.To(accountID),
			Name:      "Ramesh Patil",
			Phone:     "+91 98220 00000",
			Village:   "Shirur",
			District:  "Pune",
			State:     "Maharashtra",
			LandAcres: 4.5,
			KYCStatus: KYCPending,
			CreatedAt: now.Add(-30 * 24 * time.Hour),
			UpdatedAt: now.Add(-24 * time.Hour),
		},
		Assignments: Summarize(assignments),
		Activity: []Activity{
			{ID: "act-1", Description: "KYC documents uploaded", OccurredAt: now.Add(-1 * time.Hour)},
			{ID: "act-2", Description: "Land record verified", OccurredAt: now.Add(-25 * time.Hour)},
			{ID: "act-3", Description: "Profile created", OccurredAt: now.Add(-30 * 24 * time.Hour)},
		},
		Placeholder: true,
	}, nil
}
