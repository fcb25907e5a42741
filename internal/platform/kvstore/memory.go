// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kvstore

import (
	"context"
	"sync"
)

// MemoryBackend keeps every namespace in process memory.
//
// It backs single-instance development runs and tests. [MemoryBackend.SetFailure]
// simulates an unavailable medium.
type MemoryBackend struct {
	mu       sync.Mutex
	slots    map[string]map[string]string
	sessions map[string]map[string]string

	fail error
}

// Ensure MemoryBackend implements Backend
var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		slots:    map[string]map[string]string{},
		sessions: map[string]map[string]string{},
	}
}

// SetFailure makes every subsequent call return err (nil restores service).
func (backend *MemoryBackend) SetFailure(err error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.fail = err
}

func (backend *MemoryBackend) Get(_ context.Context, namespace, key string) (string, bool, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	if backend.fail != nil {
		return "", false, backend.fail
	}
	value, ok := backend.slots[namespace][key]
	return value, ok, nil
}

func (backend *MemoryBackend) Set(_ context.Context, namespace, key, value string) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	if backend.fail != nil {
		return backend.fail
	}
	if backend.slots[namespace] == nil {
		backend.slots[namespace] = map[string]string{}
	}
	backend.slots[namespace][key] = value
	return nil
}

func (backend *MemoryBackend) Delete(_ context.Context, namespace, key string) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	if backend.fail != nil {
		return backend.fail
	}
	delete(backend.slots[namespace], key)
	return nil
}

func (backend *MemoryBackend) GetSession(_ context.Context, namespace, key string) (string, bool, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	if backend.fail != nil {
		return "", false, backend.fail
	}
	value, ok := backend.sessions[namespace][key]
	return value, ok, nil
}

func (backend *MemoryBackend) SetSession(_ context.Context, namespace, key, value string) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	if backend.fail != nil {
		return backend.fail
	}
	if backend.sessions[namespace] == nil {
		backend.sessions[namespace] = map[string]string{}
	}
	backend.sessions[namespace][key] = value
	return nil
}

func (backend *MemoryBackend) ClearSession(_ context.Context, namespace string) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	if backend.fail != nil {
		return backend.fail
	}
	delete(backend.sessions, namespace)
	return nil
}
