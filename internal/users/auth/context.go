// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"github.com/taibuivan/farmreg/internal/platform/apperr"
	"github.com/taibuivan/farmreg/internal/platform/constants"
	"github.com/taibuivan/farmreg/internal/platform/ctxkey"
	"github.com/taibuivan/farmreg/internal/platform/kvstore"
	"github.com/taibuivan/farmreg/internal/platform/sec"
)

// ErrNotAuthenticated is returned by [Context.UpdateUser] when no user is signed in.
var ErrNotAuthenticated = apperr.Unauthorized("No authenticated user to update")

// # Auth Context

// Context is the authentication state of one browser profile.
//
// The session itself lives in the profile's [kvstore.Store]; Context keeps a
// read-only view of it that is recomputed whenever the store reports a change
// to the user or token slot.
type Context struct {
	store  *kvstore.Store
	logger *slog.Logger

	// writeMu serializes Login, Logout and UpdateUser. It is never held by
	// store observers, so writes may notify synchronously.
	writeMu sync.Mutex

	mu      sync.RWMutex
	loading bool
	user    *UserRecord
	token   string

	initOnce    sync.Once
	unsubscribe func()
}

// NewContext binds a Context to store. It starts in the loading phase until
// [Context.Init] runs.
func NewContext(store *kvstore.Store, logger *slog.Logger) *Context {
	authContext := &Context{
		store:   store,
		logger:  logger.With(slog.String("profile_id", store.Namespace())),
		loading: true,
	}
	authContext.unsubscribe = store.Subscribe(authContext.onStoreChange)
	return authContext
}

/*
Init runs the loading phase: it reads the persisted user and token and then
leaves the loading state. Only the first call does any work.

Parameters:
  - ctx: context.Context
*/
func (c *Context) Init(ctx context.Context) {
	c.initOnce.Do(func() {
		user := c.readUser(ctx)
		token, _ := c.store.Get(ctx, constants.SlotToken)

		c.mu.Lock()
		c.user = user
		c.token = token
		c.loading = false
		c.mu.Unlock()
	})
}

// Sync re-reads both slots from the store, picking up writes made by other
// server instances sharing the same backend.
func (c *Context) Sync(ctx context.Context) {
	c.Init(ctx)

	user := c.readUser(ctx)
	token, _ := c.store.Get(ctx, constants.SlotToken)

	c.mu.Lock()
	c.user = user
	c.token = token
	c.mu.Unlock()
}

// Close detaches the Context from its store.
func (c *Context) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// # Lifecycle Operations

/*
Login replaces the session wholesale with user and token.

Storage failures are logged and otherwise ignored: the session is kept in
memory and stays usable for this process.

Parameters:
  - ctx: context.Context
  - user: UserRecord
  - token: string (Access token)
*/
func (c *Context) Login(ctx context.Context, user UserRecord, token string) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	payload, err := json.Marshal(user)
	if err != nil {
		c.logger.ErrorContext(ctx, "auth_context_encode_user_failed", slog.Any("error", err))
		return
	}

	if err := c.store.Set(ctx, constants.SlotUser, string(payload)); err != nil {
		c.logger.WarnContext(ctx, "auth_context_login_degraded", slog.String("slot", constants.SlotUser), slog.Any("error", err))
	}
	if err := c.store.Set(ctx, constants.SlotToken, token); err != nil {
		c.logger.WarnContext(ctx, "auth_context_login_degraded", slog.String("slot", constants.SlotToken), slog.Any("error", err))
	}

	c.mu.Lock()
	record := user
	record.Permissions = slices.Clone(user.Permissions)
	c.user = &record
	c.token = token
	c.loading = false
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "auth_context_login", slog.String("user_id", user.ID), slog.String("role", user.Role))
}

// SetRefreshToken stores the refresh token issued alongside the access token.
func (c *Context) SetRefreshToken(ctx context.Context, refreshToken string) {
	if err := c.store.Set(ctx, constants.SlotRefreshToken, refreshToken); err != nil {
		c.logger.WarnContext(ctx, "auth_context_refresh_token_degraded", slog.Any("error", err))
	}
}

// RefreshToken returns the stored refresh token, if any.
func (c *Context) RefreshToken(ctx context.Context) (string, bool) {
	return c.store.Get(ctx, constants.SlotRefreshToken)
}

/*
Logout clears the user, token and refresh token slots and every
session-scoped value. It is idempotent and also clears slots left behind
without a signed-in user.

Parameters:
  - ctx: context.Context
*/
func (c *Context) Logout(ctx context.Context) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.RLock()
	signedIn := c.user != nil || c.token != ""
	c.mu.RUnlock()

	// Leftover slots are cleared even without a signed-in user
	for _, slot := range []string{constants.SlotUser, constants.SlotToken, constants.SlotRefreshToken} {
		if err := c.store.Remove(ctx, slot); err != nil {
			c.logger.WarnContext(ctx, "auth_context_logout_degraded", slog.String("slot", slot), slog.Any("error", err))
		}
	}
	if err := c.store.ClearSession(ctx); err != nil {
		c.logger.WarnContext(ctx, "auth_context_logout_degraded", slog.String("slot", "session"), slog.Any("error", err))
	}

	c.mu.Lock()
	c.user = nil
	c.token = ""
	c.loading = false
	c.mu.Unlock()

	if signedIn {
		c.logger.InfoContext(ctx, "auth_context_logout")
	}
}

/*
UpdateUser merges patch into the signed-in user and persists the result.

Parameters:
  - ctx: context.Context
  - patch: UserPatch

Returns:
  - UserRecord: The merged record
  - error: ErrNotAuthenticated, or a *kvstore.StorageError when the record
    only reached the in-memory mirror
*/
func (c *Context) UpdateUser(ctx context.Context, patch UserPatch) (UserRecord, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.RLock()
	current := c.user
	c.mu.RUnlock()

	if current == nil {
		return UserRecord{}, ErrNotAuthenticated
	}

	merged := patch.Apply(*current)
	payload, err := json.Marshal(merged)
	if err != nil {
		return UserRecord{}, apperr.Internal(err)
	}

	storeErr := c.store.Set(ctx, constants.SlotUser, string(payload))

	c.mu.Lock()
	c.user = &merged
	c.mu.Unlock()

	if storeErr != nil {
		return merged, storeErr
	}
	return merged, nil
}

// # Derived View

// Loading reports whether the loading phase is still running.
func (c *Context) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// IsAuthenticated is true only when both a user and a token are present.
func (c *Context) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil && c.token != ""
}

// User returns a copy of the current user record.
func (c *Context) User() (UserRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.user == nil {
		return UserRecord{}, false
	}
	record := *c.user
	record.Permissions = slices.Clone(c.user.Permissions)
	return record, true
}

// Token returns the current access token.
func (c *Context) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// RoleName returns the role string exactly as persisted, or "" when signed out.
func (c *Context) RoleName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.user == nil {
		return ""
	}
	return c.user.Role
}

// Role returns the parsed role of the current user.
func (c *Context) Role() sec.UserRole {
	return sec.ParseRole(c.RoleName())
}

// Permissions returns the permission list of the current user.
func (c *Context) Permissions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.user == nil {
		return []string{}
	}
	return slices.Clone(c.user.Permissions)
}

// Snapshot is the serializable view of an auth context.
type Snapshot struct {
	Loading         bool         `json:"loading"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *UserRecord  `json:"user"`
	Role            sec.UserRole `json:"role"`
	Permissions     []string     `json:"permissions"`
}

// Snapshot captures the derived view at a single point in time.
func (c *Context) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := Snapshot{
		Loading:         c.loading,
		IsAuthenticated: c.user != nil && c.token != "",
		Permissions:     []string{},
	}
	if c.user != nil {
		record := *c.user
		record.Permissions = slices.Clone(c.user.Permissions)
		snapshot.User = &record
		snapshot.Role = sec.ParseRole(record.Role)
		snapshot.Permissions = slices.Clone(c.user.Permissions)
	}
	return snapshot
}

// # Store Synchronization

// onStoreChange recomputes the slot that changed.
func (c *Context) onStoreChange(key string) {
	ctx := context.Background()

	switch key {
	case constants.SlotUser:
		user := c.readUser(ctx)
		c.mu.Lock()
		c.user = user
		c.mu.Unlock()
	case constants.SlotToken:
		token, _ := c.store.Get(ctx, constants.SlotToken)
		c.mu.Lock()
		c.token = token
		c.mu.Unlock()
	}
}

// readUser decodes the user slot. Malformed values count as absent.
func (c *Context) readUser(ctx context.Context) *UserRecord {
	raw, ok := c.store.Get(ctx, constants.SlotUser)
	if !ok || raw == "" {
		return nil
	}

	var record UserRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		c.logger.WarnContext(ctx, "auth_context_user_slot_malformed", slog.Any("error", err))
		return nil
	}
	if record.Permissions == nil {
		record.Permissions = []string{}
	}
	return &record
}

// # Request Scope

// WithContext attaches the profile's auth context to ctx.
func WithContext(ctx context.Context, authContext *Context) context.Context {
	return context.WithValue(ctx, ctxkey.KeyAuthContext, authContext)
}

// FromContext returns the auth context attached by the session middleware.
func FromContext(ctx context.Context) *Context {
	authContext, _ := ctx.Value(ctxkey.KeyAuthContext).(*Context)
	return authContext
}
