// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package farmer

import (
	"context"
	"fmt"
)

// # Service Layer

// Service exposes registry reads to the HTTP layer and the dashboard.
type Service struct {
	repository Repository
	loader     ProfileLoader
}

// NewService constructs a new [Service].
func NewService(repository Repository, loader ProfileLoader) *Service {
	return &Service{repository: repository, loader: loader}
}

/*
ListFarmers returns a filtered page of farmers.

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
func (service *Service) ListFarmers(context context.Context, filter Filter, limit, offset int) ([]*Farmer, int, error) {
	farmers, total, err := service.repository.List(context, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("farmer_service_list_failed: %w", err)
	}
	return farmers, total, nil
}

// GetFarmer returns one farmer by primary key.
func (service *Service) GetFarmer(context context.Context, id string) (*Farmer, error) {
	return service.repository.FindByID(context, id)
}

// LoadProfile delegates to the configured [ProfileLoader].
func (service *Service) LoadProfile(context context.Context, userID string) (*ProfileRecord, error) {
	return service.loader.LoadProfile(context, userID)
}
