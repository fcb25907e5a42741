// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/taibuivan/farmreg/internal/platform/kvstore"
)

// Provider owns the live [Context] of every browser profile seen recently.
//
// Contexts are kept in a bounded LRU; an evicted Context detaches from its
// store and is rebuilt from the backend on the next request for that profile.
type Provider struct {
	backend kvstore.Backend
	logger  *slog.Logger

	mu    sync.Mutex
	cache *lru.Cache[string, *Context]
}

// NewProvider builds a Provider holding at most size contexts.
func NewProvider(backend kvstore.Backend, size int, logger *slog.Logger) (*Provider, error) {
	cache, err := lru.NewWithEvict(size, func(profileID string, authContext *Context) {
		authContext.Close()
		logger.Debug("auth_context_evicted", slog.String("profile_id", profileID))
	})
	if err != nil {
		return nil, fmt.Errorf("auth_provider_init_failed: %w", err)
	}

	return &Provider{
		backend: backend,
		logger:  logger,
		cache:   cache,
	}, nil
}

/*
For returns the Context of profileID, creating and initializing it on first use.

Parameters:
  - ctx: context.Context
  - profileID: string

Returns:
  - *Context: The profile's auth context, already past its loading phase
*/
func (provider *Provider) For(ctx context.Context, profileID string) *Context {
	provider.mu.Lock()
	authContext, ok := provider.cache.Get(profileID)
	if !ok {
		store := kvstore.New(provider.backend, profileID, provider.logger)
		authContext = NewContext(store, provider.logger)
		provider.cache.Add(profileID, authContext)
	}
	provider.mu.Unlock()

	authContext.Init(ctx)
	return authContext
}

// Len reports how many contexts are currently cached.
func (provider *Provider) Len() int {
	return provider.cache.Len()
}
