// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

// Package session persists per-session sponsored pacing state. Two
// implementations are provided: an in-memory store for development and
// tests, and a BadgerDB store that survives restarts.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/athenahq/opportunityfeed/internal/feed"
	"github.com/athenahq/opportunityfeed/internal/metrics"
)

type memoryEntry struct {
	state     feed.PacingState
	expiresAt time.Time
}

// MemoryStore is a mutex-guarded in-memory pacing store with TTL
// expiration. Entries are touched on every Record so active sessions
// never expire mid-scroll.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

var _ feed.PacingStore = (*MemoryStore)(nil)

// NewMemoryStore creates an in-memory pacing store. Sessions idle for
// longer than ttl read back as zero state.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the pacing state for a session. Unknown or expired
// sessions return zero state, not an error.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (feed.PacingState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok || s.now().After(entry.expiresAt) {
		return feed.PacingState{}, nil
	}
	return entry.state, nil
}

// Record atomically adds sponsoredDelta to the served total, replaces
// the spacing counter, and refreshes the session TTL.
func (s *MemoryStore) Record(_ context.Context, sessionID string, sponsoredDelta, sinceLastSponsored int) (feed.PacingState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[sessionID]
	if !ok || now.After(entry.expiresAt) {
		entry = memoryEntry{}
		if !ok {
			metrics.PacingSessionsActive.Inc()
		}
	}
	entry.state.SponsoredServed += sponsoredDelta
	entry.state.SinceLastSponsored = sinceLastSponsored
	entry.expiresAt = now.Add(s.ttl)
	s.entries[sessionID] = entry

	return entry.state, nil
}

// Cleanup removes expired sessions and returns how many were dropped.
func (s *MemoryStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
			dropped++
		}
	}
	if dropped > 0 {
		metrics.PacingSessionsActive.Sub(float64(dropped))
	}
	return dropped
}

// Len returns the number of tracked sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RunJanitor removes expired sessions on the given interval until the
// context is canceled. Intended to run under the supervision tree.
func (s *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Cleanup()
		}
	}
}
