// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache provides the shared status cache consulted by panels.
//
// Multiple mounted views of the same conversation or task read the same
// keys concurrently. The convention is single-writer-per-key with
// last-fetch-wins reconciliation: writes are idempotent and addressed
// by a stable key, so concurrent readers converge without locking at
// the call sites. The store is injected, never ambient global state.
package cache

import (
	"context"
	"sync"
	"time"
)

// Store is the injected key-value collaborator.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put writes the value for key. A zero ttl means no expiry.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Invalidate removes the key.
	Invalidate(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// entry is one cached value with optional expiry.
type entry struct {
	value     []byte
	expiresAt time.Time // zero means never
}

// MemoryStore is the default in-process Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry)}
}

// Get returns the value for key if present and not expired.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

// Put writes the value for key, replacing any previous value.
func (s *MemoryStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

// Invalidate removes the key.
func (s *MemoryStore) Invalidate(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
