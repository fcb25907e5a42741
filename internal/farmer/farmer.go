// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package farmer defines the registry entities shown on the dashboards.

A farmer record is the registered person with their land holding and KYC
(Know-Your-Customer) status. Field staff receive KYC assignments, and
every account accumulates an activity trail.

# Architecture

  - Entities: Farmer, KYCAssignment, Activity, ProfileRecord.
  - Loading: [ProfileLoader] assembles a [ProfileRecord] for one account.
    [RepositoryLoader] reads Postgres and falls back to [StaticLoader]
    when no registry row exists yet.
*/
package farmer

import (
	"context"
	"time"
)

// # KYC Status

// KYCStatus is the verification state of a farmer record or assignment.
type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCApproved KYCStatus = "approved"
	KYCRejected KYCStatus = "rejected"
)

// IsValid reports whether s is a known status.
func (s KYCStatus) IsValid() bool {
	switch s {
	case KYCPending, KYCApproved, KYCRejected:
		return true
	}
	return false
}

// # Domain Entities

// Farmer is one registered farmer.
type Farmer struct {
	ID        string    `json:"id"`
	AccountID *string   `json:"account_id,omitempty"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Village   string    `json:"village"`
	District  string    `json:"district"`
	State     string    `json:"state"`
	LandAcres float64   `json:"land_acres"`
	KYCStatus KYCStatus `json:"kyc_status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KYCAssignment is a verification task handed to a staff member.
type KYCAssignment struct {
	ID         string    `json:"id"`
	FarmerID   string    `json:"farmer_id"`
	FarmerName string    `json:"farmer_name"`
	Village    string    `json:"village"`
	Status     KYCStatus `json:"status"`
	AssignedAt time.Time `json:"assigned_at"`
}

// KYCSummary counts assignments by status and keeps the items.
type KYCSummary struct {
	Pending  int             `json:"pending"`
	Approved int             `json:"approved"`
	Rejected int             `json:"rejected"`
	Items    []KYCAssignment `json:"items"`
}

// Summarize tallies items by status.
func Summarize(items []KYCAssignment) KYCSummary {
	summary := KYCSummary{Items: items}
	if summary.Items == nil {
		summary.Items = []KYCAssignment{}
	}

	for _, item := range items {
		switch item.Status {
		case KYCPending:
			summary.Pending++
		case KYCApproved:
			summary.Approved++
		case KYCRejected:
			summary.Rejected++
		}
	}
	return summary
}

// Activity is one entry of an account's recent activity.
type Activity struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ProfileRecord is everything the dashboard shows about one account.
type ProfileRecord struct {
	Profile     Farmer     `json:"profile"`
	Assignments KYCSummary `json:"assignments"`
	Activity    []Activity `json:"activity"`

	// Placeholder is set when the record was not read from the registry.
	Placeholder bool `json:"placeholder"`
}

// # Contracts

// ProfileLoader loads the dashboard profile of an account.
type ProfileLoader interface {
	LoadProfile(context context.Context, userID string) (*ProfileRecord, error)
}

// Filter narrows farmer listings.
type Filter struct {
	Query     string
	District  string
	KYCStatus []KYCStatus
}

// Repository defines the persistence contract for registry data.
type Repository interface {
	/*
		List returns a filtered page of farmers and the total match count.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []*Farmer: Page of farmers
		  - int: Total count matching the filter
		  - error: Retrieval errors
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Farmer, int, error)

	// FindByID returns apperr.NotFound when no farmer matches.
	FindByID(context context.Context, id string) (*Farmer, error)

	// FindByAccountID returns the farmer linked to a login account.
	FindByAccountID(context context.Context, accountID string) (*Farmer, error)

	// AssignmentsFor lists the KYC assignments handed to a staff account.
	AssignmentsFor(context context.Context, assigneeID string) ([]KYCAssignment, error)

	// RecentActivity lists an account's newest activity entries.
	RecentActivity(context context.Context, accountID string, limit int) ([]Activity, error)
}
