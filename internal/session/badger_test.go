// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	s := NewBadgerStore(db, time.Minute)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBadgerStoreGetUnknownSession(t *testing.T) {
	s := newTestBadgerStore(t)

	st, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if st.SponsoredServed != 0 || st.SinceLastSponsored != 0 {
		t.Errorf("unknown session state = %+v, want zero", st)
	}
}

func TestBadgerStoreRecordAccumulates(t *testing.T) {
	s := newTestBadgerStore(t)
	ctx := context.Background()

	if _, err := s.Record(ctx, "s1", 2, 3); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	st, err := s.Record(ctx, "s1", 1, 5)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if st.SponsoredServed != 3 {
		t.Errorf("SponsoredServed = %d, want 3", st.SponsoredServed)
	}
	if st.SinceLastSponsored != 5 {
		t.Errorf("SinceLastSponsored = %d, want 5", st.SinceLastSponsored)
	}

	got, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != st {
		t.Errorf("Get = %+v, Record returned %+v", got, st)
	}
}

func TestBadgerStoreSessionsIsolated(t *testing.T) {
	s := newTestBadgerStore(t)
	ctx := context.Background()

	s.Record(ctx, "a", 4, 0)
	s.Record(ctx, "b", 1, 2)

	a, _ := s.Get(ctx, "a")
	b, _ := s.Get(ctx, "b")
	if a.SponsoredServed != 4 || b.SponsoredServed != 1 {
		t.Errorf("cross-session leakage: a=%+v b=%+v", a, b)
	}
}

func TestBadgerStoreConcurrentRecord(t *testing.T) {
	s := newTestBadgerStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Record(ctx, "s1", 1, 0); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	st, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if st.SponsoredServed != succeeded {
		t.Errorf("SponsoredServed = %d, want %d successful increments", st.SponsoredServed, succeeded)
	}
}

func TestBadgerStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenBadger(dir, time.Minute)
	if err != nil {
		t.Fatalf("OpenBadger failed: %v", err)
	}
	ctx := context.Background()
	if _, err := s.Record(ctx, "s1", 7, 2); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = OpenBadger(dir, time.Minute)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	st, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if st.SponsoredServed != 7 || st.SinceLastSponsored != 2 {
		t.Errorf("state after reopen = %+v, want {7 2}", st)
	}
}
