// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/athenahq/opportunityfeed/internal/feed"
)

// pacingKeyPrefix namespaces pacing entries in the BadgerDB keyspace.
const pacingKeyPrefix = "pacing:"

// recordRetries bounds optimistic-concurrency retries on Record.
const recordRetries = 3

// BadgerStore is a BadgerDB-backed pacing store for production use.
// Session TTL rides on Badger entry TTLs, so expiry needs no janitor.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration
}

var _ feed.PacingStore = (*BadgerStore)(nil)

// OpenBadger opens (or creates) a Badger database at path and wraps it
// in a pacing store. The caller owns Close.
func OpenBadger(path string, ttl time.Duration) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", path, err)
	}
	return NewBadgerStore(db, ttl), nil
}

// NewBadgerStore wraps an existing Badger database. Tests use this with
// an in-memory database.
func NewBadgerStore(db *badger.DB, ttl time.Duration) *BadgerStore {
	return &BadgerStore{db: db, ttl: ttl}
}

// Get returns the pacing state for a session. Unknown or expired
// sessions return zero state, not an error.
func (s *BadgerStore) Get(_ context.Context, sessionID string) (feed.PacingState, error) {
	var state feed.PacingState

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(pacingKeyPrefix + sessionID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get pacing state: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &state)
		})
	})
	if err != nil {
		return feed.PacingState{}, err
	}
	return state, nil
}

// Record atomically adds sponsoredDelta to the served total, replaces
// the spacing counter, and refreshes the entry TTL. Conflicting
// transactions are retried a few times before the error surfaces.
func (s *BadgerStore) Record(_ context.Context, sessionID string, sponsoredDelta, sinceLastSponsored int) (feed.PacingState, error) {
	key := []byte(pacingKeyPrefix + sessionID)

	var state feed.PacingState
	var err error
	for attempt := 0; attempt < recordRetries; attempt++ {
		state = feed.PacingState{}
		err = s.db.Update(func(txn *badger.Txn) error {
			item, err := txn.Get(key)
			if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("get pacing state: %w", err)
			}
			if err == nil {
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &state)
				}); err != nil {
					return fmt.Errorf("unmarshal pacing state: %w", err)
				}
			}

			state.SponsoredServed += sponsoredDelta
			state.SinceLastSponsored = sinceLastSponsored

			data, err := json.Marshal(&state)
			if err != nil {
				return fmt.Errorf("marshal pacing state: %w", err)
			}
			entry := badger.NewEntry(key, data).WithTTL(s.ttl)
			return txn.SetEntry(entry)
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return feed.PacingState{}, err
	}
	return state, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
