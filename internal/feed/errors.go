// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package feed

import "errors"

// Sentinel errors shared across the feed pipeline and its providers.
var (
	// ErrInvalidCursor indicates a pagination cursor that could not be
	// decoded or carried inconsistent fields. Maps to a 400 response.
	ErrInvalidCursor = errors.New("invalid feed cursor")

	// ErrProfileNotFound indicates the profile provider has no record for
	// the user. Callers degrade to unpersonalized behavior.
	ErrProfileNotFound = errors.New("user profile not found")
)
