// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package services

import (
	"context"
	"time"
)

// Janitor runs a periodic maintenance loop until the context is canceled.
// Satisfied by session.MemoryStore.RunJanitor.
type Janitor interface {
	RunJanitor(ctx context.Context, interval time.Duration) error
}

// JanitorService wraps a store maintenance loop as a supervised service.
type JanitorService struct {
	janitor  Janitor
	interval time.Duration
}

// NewJanitorService creates a supervised janitor wrapper. A non-positive
// interval falls back to one minute.
func NewJanitorService(janitor Janitor, interval time.Duration) *JanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &JanitorService{janitor: janitor, interval: interval}
}

// Serve implements suture.Service.
func (j *JanitorService) Serve(ctx context.Context) error {
	return j.janitor.RunJanitor(ctx, j.interval)
}

// String implements fmt.Stringer for supervisor logging.
func (j *JanitorService) String() string {
	return "session-janitor"
}
