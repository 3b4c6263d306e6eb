// OpportunityFeed - Personalized Feed Mixing and Cold-Start Recommendations
// Copyright 2026 The OpportunityFeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/athenahq/opportunityfeed

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/athenahq/opportunityfeed/internal/config"
	"github.com/athenahq/opportunityfeed/internal/feed"
	"github.com/athenahq/opportunityfeed/internal/feed/coldstart"
	"github.com/athenahq/opportunityfeed/internal/provider"
	"github.com/athenahq/opportunityfeed/internal/session"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	now := time.Now()
	static := provider.NewSampleStatic(now)
	static.AddProfile(&feed.UserProfile{
		UserID:           "warm-user",
		Persona:          "MID_CAREER",
		CurrentJobTitle:  "Staff Engineer",
		Bio:              "building systems",
		Skills:           []string{"Go", "Leadership", "Mentoring", "Hiring", "Architecture"},
		InteractionCount: 50,
		LikeCount:        30,
		PostCount:        4,
		CommentCount:     10,
		FollowingCount:   20,
		AccountCreatedAt: now.Add(-180 * 24 * time.Hour),
	})
	// A brand-new account: profile row exists but carries no signals yet.
	static.AddProfile(&feed.UserProfile{UserID: "new-user", AccountCreatedAt: now})

	recommender := coldstart.NewRecommender(static)
	detector := coldstart.NewDetector(coldstart.DefaultConfig())
	svc := feed.NewService(
		feed.DefaultMixerConfig(),
		static,
		static,
		session.NewMemoryStore(time.Minute),
		feed.WithColdStartSeeder(coldstart.NewSeeder(recommender)),
	)

	h := NewHandler(svc, static, detector, recommender, 20)
	return NewRouter(h, config.SecurityConfig{
		RateLimitDisabled: true,
		CORSOrigins:       []string{"*"},
	})
}

func doRequest(t *testing.T, router http.Handler, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not a valid envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return rec, env
}

func TestFeedEndpointReturnsPage(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doRequest(t, router, "/api/v1/users/warm-user/feed?limit=10")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}
	if !env.Success {
		t.Fatal("expected success envelope")
	}

	var data feedResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if len(data.Items) != 10 {
		t.Errorf("got %d items, want 10", len(data.Items))
	}
	if data.SessionID == "" {
		t.Error("missing session_id")
	}
	if env.Meta == nil || env.Meta.Pagination == nil {
		t.Fatal("missing pagination meta")
	}
	if env.Meta.Pagination.NextCursor == "" {
		t.Error("missing next_cursor")
	}
	if !env.Meta.Pagination.HasMore {
		t.Error("expected has_more with full sample pools")
	}
}

func TestFeedEndpointCursorContinuation(t *testing.T) {
	router := newTestRouter(t)

	_, first := doRequest(t, router, "/api/v1/users/warm-user/feed?limit=10")
	cursor := first.Meta.Pagination.NextCursor

	rec, env := doRequest(t, router, "/api/v1/users/warm-user/feed?limit=10&cursor="+cursor)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var firstPage, secondPage feedResponse
	json.Unmarshal(first.Data, &firstPage)
	json.Unmarshal(env.Data, &secondPage)

	if secondPage.SessionID != firstPage.SessionID {
		t.Error("session changed across pages")
	}
	seen := map[string]struct{}{}
	for _, it := range firstPage.Items {
		seen[it.ID] = struct{}{}
	}
	for _, it := range secondPage.Items {
		if _, dup := seen[it.ID]; dup {
			t.Errorf("item %q repeated on second page", it.ID)
		}
	}
}

func TestFeedEndpointInvalidCursor(t *testing.T) {
	router := newTestRouter(t)

	// Valid base64url that does not decode to a cursor.
	rec, env := doRequest(t, router, "/api/v1/users/warm-user/feed?cursor=bm90LWpzb24")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeInvalidCursor {
		t.Errorf("error = %+v, want code %s", env.Error, ErrCodeInvalidCursor)
	}
}

func TestFeedEndpointMalformedCursorFailsValidation(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doRequest(t, router, "/api/v1/users/warm-user/feed?cursor=%21%21%21")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeValidationFailed {
		t.Errorf("error = %+v, want code %s", env.Error, ErrCodeValidationFailed)
	}
}

func TestFeedEndpointLimitBounds(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/users/warm-user/feed?limit=0",
		"/api/v1/users/warm-user/feed?limit=100",
		"/api/v1/users/warm-user/feed?limit=abc",
	} {
		rec, env := doRequest(t, router, path)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
			continue
		}
		if env.Error == nil || env.Error.Code != ErrCodeValidationFailed {
			t.Errorf("%s: error = %+v, want VALIDATION_FAILED", path, env.Error)
		}
	}
}

func TestFeedEndpointUnknownUserDegrades(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doRequest(t, router, "/api/v1/users/ghost/feed?limit=10")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want degraded 200\nbody: %s", rec.Code, rec.Body.String())
	}
	var data feedResponse
	json.Unmarshal(env.Data, &data)
	if len(data.Items) == 0 {
		t.Error("expected unpersonalized items for unknown user")
	}
}

func TestFeedConfigEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doRequest(t, router, "/api/v1/feed/config")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var cfg map[string]interface{}
	if err := json.Unmarshal(env.Data, &cfg); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if got := cfg["organicRatio"]; got != 0.45 {
		t.Errorf("organicRatio = %v, want 0.45", got)
	}
}

func TestColdStartStatusEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doRequest(t, router, "/api/v1/users/warm-user/coldstart")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var warm coldStartStatusResponse
	json.Unmarshal(env.Data, &warm)
	if warm.IsColdStart {
		t.Error("warm user reported as cold start")
	}
	if warm.Score != 0 {
		t.Errorf("warm user score = %d, want 0", warm.Score)
	}

	_, env = doRequest(t, router, "/api/v1/users/ghost/coldstart")
	var cold coldStartStatusResponse
	json.Unmarshal(env.Data, &cold)
	if !cold.IsColdStart || cold.Score != 100 {
		t.Errorf("unknown user = %+v, want cold start with score 100", cold)
	}
}

func TestColdStartRecommendationsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doRequest(t, router, "/api/v1/users/new-user/coldstart/recommendations?limit=5")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var recs []coldstart.Recommendation
	if err := json.Unmarshal(env.Data, &recs); err != nil {
		t.Fatalf("unmarshal recommendations: %v", err)
	}
	if len(recs) != 5 {
		t.Errorf("got %d recommendations, want 5", len(recs))
	}
	if env.Meta.Pagination == nil || env.Meta.Pagination.Count != 5 {
		t.Error("missing or wrong pagination meta")
	}
}

func TestColdStartRecommendationsUnknownUserEmpty(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doRequest(t, router, "/api/v1/users/ghost/coldstart/recommendations")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var recs []coldstart.Recommendation
	if err := json.Unmarshal(env.Data, &recs); err != nil {
		t.Fatalf("unmarshal recommendations: %v", err)
	}
	// No profile means no user to recommend for, not an error.
	if len(recs) != 0 {
		t.Errorf("got %d recommendations for an unknown user, want 0", len(recs))
	}
}

func TestOnboardingEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doRequest(t, router, "/api/v1/users/ghost/onboarding")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var steps []coldstart.Suggestion
	if err := json.Unmarshal(env.Data, &steps); err != nil {
		t.Fatalf("unmarshal suggestions: %v", err)
	}
	// Unknown users degrade to an empty checklist rather than an error.
	if steps == nil {
		t.Error("expected JSON array, got null")
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/health",
		"/api/v1/health/live",
		"/api/v1/health/ready",
	} {
		rec, env := doRequest(t, router, path)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, rec.Code)
		}
		if !env.Success {
			t.Errorf("%s: expected success envelope", path)
		}
	}
}

func TestRequestIDHeaderSet(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID response header")
	}
}
