// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package feed

import (
	"encoding/base64"
	"fmt"

	"github.com/goccy/go-json"
)

// maxSeenIDs caps the seen-ID list carried in the cursor. The oldest IDs
// are evicted first; a very long session may re-surface very old items,
// which is acceptable.
const maxSeenIDs = 500

// Cursor is the opaque pagination token handed to clients. It carries
// everything needed to continue a session: the session identity for pacing
// lookups, the next page number, and the IDs already served.
type Cursor struct {
	SessionID string   `json:"sid"`
	Page      int      `json:"page"`
	Seen      []string `json:"seen,omitempty"`
}

// Encode serializes the cursor as unpadded base64url JSON.
func (c Cursor) Encode() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecodeCursor parses a client-supplied cursor. Any malformed or
// inconsistent token yields ErrInvalidCursor; callers map it to a 400.
func DecodeCursor(s string) (Cursor, error) {
	if s == "" {
		return Cursor{}, fmt.Errorf("%w: empty", ErrInvalidCursor)
	}

	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	if c.SessionID == "" {
		return Cursor{}, fmt.Errorf("%w: missing session id", ErrInvalidCursor)
	}
	if c.Page < 1 {
		return Cursor{}, fmt.Errorf("%w: page %d", ErrInvalidCursor, c.Page)
	}

	return c, nil
}

// appendSeen adds newly served IDs to the seen list, evicting the oldest
// entries beyond maxSeenIDs.
func appendSeen(seen []string, served []MixedItem) []string {
	out := make([]string, 0, len(seen)+len(served))
	out = append(out, seen...)
	for _, it := range served {
		out = append(out, it.ID)
	}
	if len(out) > maxSeenIDs {
		out = out[len(out)-maxSeenIDs:]
	}
	return out
}
