// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package kvstore implements the per-profile Session Store.

Each browser profile owns a namespace of named slots ("user", "token",
"refreshToken") that survive reloads, plus a session-scoped area that is
wiped wholesale on logout.

Architecture:

  - Backend: the durable medium (Redis in production, memory in tests).
  - Store: one namespace; mirrors every value in memory and degrades to
    memory-only whenever the backend errors.
  - Observers: callbacks notified with the slot name after Set and Remove.

Reads never fail. Writes always land in memory and report a [*StorageError]
when the backend could not be updated, so callers decide whether the
degradation matters to them.
*/
package kvstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// # Contracts

// Backend is the durable medium behind a [Store].
//
// Get and GetSession report (value, found, err). A missing value is not an
// error.
type Backend interface {
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error

	GetSession(ctx context.Context, namespace, key string) (string, bool, error)
	SetSession(ctx context.Context, namespace, key, value string) error
	ClearSession(ctx context.Context, namespace string) error
}

// StorageError describes a write that only reached the in-memory mirror.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("kvstore: %s %q kept in memory only: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// # Store

// Store is the Session Store of a single browser profile.
type Store struct {
	backend   Backend
	namespace string
	logger    *slog.Logger

	mu sync.Mutex

	slots   map[string]string
	session map[string]string

	// dirty holds slot keys whose in-memory value is authoritative because
	// the last backend write for them failed.
	dirty        map[string]bool
	sessionDirty bool

	observers map[int]func(key string)
	nextID    int
}

// New returns the Store for namespace on top of backend.
func New(backend Backend, namespace string, logger *slog.Logger) *Store {
	return &Store{
		backend:   backend,
		namespace: namespace,
		logger:    logger.With(slog.String("profile_id", namespace)),
		slots:     map[string]string{},
		session:   map[string]string{},
		dirty:     map[string]bool{},
		observers: map[int]func(string){},
	}
}

// Namespace returns the profile identifier this store is bound to.
func (s *Store) Namespace() string { return s.namespace }

// # Persistent Slots

// Get returns the value of a persistent slot.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dirty[key] {
		value, ok := s.slots[key]
		return value, ok
	}

	value, found, err := s.backend.Get(ctx, s.namespace, key)
	if err != nil {
		s.logger.WarnContext(ctx, "session_store_read_degraded", slog.String("key", key), slog.Any("error", err))
		value, ok := s.slots[key]
		return value, ok
	}

	if found {
		s.slots[key] = value
	} else {
		delete(s.slots, key)
	}
	return value, found
}

// Set persists value under key and notifies observers.
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.slots[key] = value
	err := s.backend.Set(ctx, s.namespace, key, value)
	storageErr := s.settle(ctx, "set", key, err)
	s.mu.Unlock()

	s.notify(key)
	return storageErr
}

// Remove clears the persistent slot key and notifies observers.
func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.slots, key)
	err := s.backend.Delete(ctx, s.namespace, key)
	storageErr := s.settle(ctx, "remove", key, err)
	s.mu.Unlock()

	s.notify(key)
	return storageErr
}

// settle records the outcome of a backend write. Callers hold s.mu.
func (s *Store) settle(ctx context.Context, op, key string, err error) error {
	if err == nil {
		delete(s.dirty, key)
		return nil
	}

	s.dirty[key] = true
	s.logger.WarnContext(ctx, "session_store_write_degraded",
		slog.String("op", op),
		slog.String("key", key),
		slog.Any("error", err),
	)
	return &StorageError{Op: op, Key: key, Err: err}
}

// # Session Area

// GetSession returns a session-scoped value.
func (s *Store) GetSession(ctx context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessionDirty {
		value, ok := s.session[key]
		return value, ok
	}

	value, found, err := s.backend.GetSession(ctx, s.namespace, key)
	if err != nil {
		s.logger.WarnContext(ctx, "session_store_read_degraded", slog.String("key", key), slog.Any("error", err))
		value, ok := s.session[key]
		return value, ok
	}

	if found {
		s.session[key] = value
	} else {
		delete(s.session, key)
	}
	return value, found
}

// SetSession stores a session-scoped value.
func (s *Store) SetSession(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session[key] = value
	if err := s.backend.SetSession(ctx, s.namespace, key, value); err != nil {
		s.sessionDirty = true
		s.logger.WarnContext(ctx, "session_store_write_degraded", slog.String("op", "set_session"), slog.String("key", key), slog.Any("error", err))
		return &StorageError{Op: "set_session", Key: key, Err: err}
	}
	return nil
}

// ClearSession drops every session-scoped value.
func (s *Store) ClearSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = map[string]string{}
	if err := s.backend.ClearSession(ctx, s.namespace); err != nil {
		s.sessionDirty = true
		s.logger.WarnContext(ctx, "session_store_write_degraded", slog.String("op", "clear_session"), slog.Any("error", err))
		return &StorageError{Op: "clear_session", Err: err}
	}

	s.sessionDirty = false
	return nil
}

// # Observers

// Subscribe registers fn to be called with the slot name after every Set
// or Remove. The returned func unregisters it.
func (s *Store) Subscribe(fn func(key string)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// notify runs observers outside the lock so they may read the store.
func (s *Store) notify(key string) {
	s.mu.Lock()
	observers := make([]func(string), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(key)
	}
}
