// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package validation

import (
	"strings"
	"testing"
)

type feedRequestFixture struct {
	Limit  int    `validate:"min=1,max=50"`
	Cursor string `validate:"omitempty,base64rawurl"`
}

func TestValidateStructPasses(t *testing.T) {
	req := feedRequestFixture{Limit: 20, Cursor: "eyJzaWQiOiJhYmMifQ"}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("expected validation to pass, got %v", err)
	}
}

func TestValidateStructEmptyCursorAllowed(t *testing.T) {
	req := feedRequestFixture{Limit: 1}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("expected omitempty cursor to pass, got %v", err)
	}
}

func TestValidateStructFailures(t *testing.T) {
	tests := []struct {
		name      string
		req       feedRequestFixture
		wantField string
	}{
		{"limit too low", feedRequestFixture{Limit: 0}, "Limit"},
		{"limit too high", feedRequestFixture{Limit: 51}, "Limit"},
		{"bad cursor", feedRequestFixture{Limit: 10, Cursor: "not!valid!base64"}, "Cursor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if len(err.Errors()) != 1 {
				t.Fatalf("expected 1 error, got %d", len(err.Errors()))
			}
			if got := err.Errors()[0].Field(); got != tt.wantField {
				t.Errorf("field = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestToAPIErrorSingle(t *testing.T) {
	err := ValidateStruct(&feedRequestFixture{Limit: 0})
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_FAILED" {
		t.Errorf("Code = %q, want VALIDATION_FAILED", apiErr.Code)
	}
	if apiErr.Details["field"] != "Limit" {
		t.Errorf("Details[field] = %v, want Limit", apiErr.Details["field"])
	}
}

func TestToAPIErrorMultiple(t *testing.T) {
	err := ValidateStruct(&feedRequestFixture{Limit: 0, Cursor: "!!!"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if !strings.Contains(apiErr.Message, "Limit") || !strings.Contains(apiErr.Message, "Cursor") {
		t.Errorf("expected combined message naming both fields, got %q", apiErr.Message)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("expected fields detail for multiple errors")
	}
}
