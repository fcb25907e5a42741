// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/taibuivan/farmreg/internal/credential"
	"github.com/taibuivan/farmreg/internal/users/auth"
)

// UpdaterFactory returns the updater used by the forms of one signed-in user.
type UpdaterFactory func(user auth.UserRecord) credential.Updater

// Screens keeps the live [Screen] of every signed-in profile. A screen is
// bound to the account it was built for, so signing in as someone else on
// the same profile starts from a fresh screen.
type Screens struct {
	factory UpdaterFactory
	options ScreenOptions

	mu    sync.Mutex
	cache *lru.Cache[string, *Screen]
}

// NewScreens builds a registry holding at most size screens.
func NewScreens(size int, factory UpdaterFactory, options ScreenOptions) (*Screens, error) {
	cache, err := lru.NewWithEvict(size, func(_ string, screen *Screen) {
		screen.Stop()
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard_screens_init_failed: %w", err)
	}

	return &Screens{factory: factory, options: options, cache: cache}, nil
}

// For returns the screen of profileID for user, creating it on first use.
func (screens *Screens) For(_ context.Context, profileID string, user auth.UserRecord) *Screen {
	key := profileID + "/" + user.ID

	screens.mu.Lock()
	defer screens.mu.Unlock()

	screen, ok := screens.cache.Get(key)
	if !ok {
		screen = NewScreen(screens.factory(user), screens.options)
		screens.cache.Add(key, screen)
	}
	return screen
}

// Len reports how many screens are live.
func (screens *Screens) Len() int {
	return screens.cache.Len()
}

// Purge stops and drops every screen.
func (screens *Screens) Purge() {
	screens.cache.Purge()
}
