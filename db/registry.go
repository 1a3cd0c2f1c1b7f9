/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"sync"
	"time"
)

// Registry holds one Store per signed-in user. All sessions of a user share
// the store, so signing out in one of them discards it for the others too.
// Nothing is persisted.
//
// A store that has not been opened for longer than the idle timeout is
// dropped on the next Open, which ties its lifetime to the sessions that
// use it.
type Registry struct {
	mu          sync.Mutex
	stores      map[string]*registryEntry
	seed        bool
	options     []StoreOption
	idleTimeout time.Duration
}

type registryEntry struct {
	store    *Store
	lastUsed time.Time
}

// NewRegistry returns an empty registry. When seed is true, stores are
// populated with demonstration patients when first opened.
func NewRegistry(seed bool, opts ...StoreOption) *Registry {
	return &Registry{
		stores:  make(map[string]*registryEntry),
		seed:    seed,
		options: opts,
	}
}

// SetIdleTimeout makes Open evict stores unused for longer than d. Zero
// keeps stores until they are discarded.
func (r *Registry) SetIdleTimeout(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.idleTimeout = d
}

// Open returns the store for userID, creating it if needed.
func (r *Registry) Open(ctx context.Context, userID string, now time.Time) (*Store, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictIdle(now)

	if entry, ok := r.stores[userID]; ok {
		entry.lastUsed = now
		return entry.store, nil
	}

	opts := append([]StoreOption{WithOwner(userID)}, r.options...)
	store := NewStore(opts...)

	if r.seed {
		if err := store.Seed(ctx, now); err != nil {
			return nil, err
		}
	}

	r.stores[userID] = &registryEntry{store: store, lastUsed: now}
	logger.Info("Opened patient store", "user_id", userID, "seeded", r.seed)

	return store, nil
}

// evictIdle must be called with r.mu held.
func (r *Registry) evictIdle(now time.Time) {
	if r.idleTimeout <= 0 {
		return
	}

	for userID, entry := range r.stores {
		if now.Sub(entry.lastUsed) > r.idleTimeout {
			delete(r.stores, userID)
			logger.Info("Evicted idle patient store", "user_id", userID, "last_used", entry.lastUsed)
		}
	}
}

// Get returns the store for userID if one is open.
func (r *Registry) Get(userID string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.stores[userID]
	if !ok {
		return nil, false
	}

	return entry.store, true
}

// Discard drops the store for userID along with its data.
func (r *Registry) Discard(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[userID]; ok {
		delete(r.stores, userID)
		logger.Info("Discarded patient store", "user_id", userID)
	}
}

// Len returns the number of open stores.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.stores)
}
