package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/change-maker/internal/storage"
)

func TestLoggingMiddleware(t *testing.T) {
	logger := zaptest.NewLogger(t)
	var called bool
	handler := loggingMiddleware(logger, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected handler to be called")
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rec.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := zaptest.NewLogger(t)
	handler := recoveryMiddleware(logger, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rec.Code)
	}
}

func TestResponseRecorderWriteHeader(t *testing.T) {
	underlying := httptest.NewRecorder()
	rec := &responseRecorder{ResponseWriter: underlying}
	rec.WriteHeader(http.StatusTeapot)

	if rec.status != http.StatusTeapot {
		t.Fatalf("expected status to be recorded")
	}
	if underlying.Code != http.StatusTeapot {
		t.Fatalf("expected status to propagate to ResponseWriter")
	}
}

func TestWithRateLimiterOptionAppliesLimiter(t *testing.T) {
	router := newTestRouter(t, WithLogging(false), WithRateLimiter(&staticLimiter{allow: false}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected rate limiter to block request, got %d", rec.Code)
	}
}

func TestWithRateLimitDisablesLimiterWhenZero(t *testing.T) {
	router := newTestRouter(t, WithLogging(false), WithRateLimiter(&staticLimiter{allow: false}), WithRateLimit(0, 0))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected limiter to be disabled, got %d", rec.Code)
	}
}

func TestWithRateLimitEnforcesLimit(t *testing.T) {
	router := newTestRouter(t, WithLogging(false), WithRateLimit(1, 1))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec.Code)
	}

	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req.Clone(req.Context()))
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected rate limiter to block second request, got %d", rec2.Code)
	}
}

func TestNewRouterServesChangeThroughMiddleware(t *testing.T) {
	router := newTestRouter(t, WithLogging(true))

	req := httptest.NewRequest(http.MethodPost, "/api/change", strings.NewReader(`{"target": 30}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "change-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Request-ID"); got != "change-1" {
		t.Fatalf("expected request id to be echoed, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected CORS header, got %q", got)
	}

	var body struct {
		Denominations []int `json:"denominations"`
		Optimal       struct {
			Count int   `json:"count"`
			Coins []int `json:"coins"`
		} `json:"optimal"`
		GreedySuboptimal bool `json:"greedySuboptimal"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !slices.Equal(body.Denominations, []int{1, 10, 25}) {
		t.Fatalf("expected stored denominations, got %v", body.Denominations)
	}
	if body.Optimal.Count != 3 || !slices.Equal(body.Optimal.Coins, []int{10, 10, 10}) {
		t.Fatalf("unexpected optimal decomposition %+v", body.Optimal)
	}
	if !body.GreedySuboptimal {
		t.Fatalf("expected greedy to be flagged suboptimal for target 30")
	}
}

func TestNewRouterRoutes(t *testing.T) {
	router := newTestRouter(t, WithLogging(false), WithRateLimit(0, 0))

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "Health", method: http.MethodGet, path: "/api/health", want: http.StatusOK},
		{name: "GetDenominations", method: http.MethodGet, path: "/api/denominations", want: http.StatusOK},
		{name: "PutDenominations", method: http.MethodPut, path: "/api/denominations", body: `{"denominations": [1, 3, 4]}`, want: http.StatusOK},
		{name: "Change", method: http.MethodPost, path: "/api/change", body: `{"target": 6}`, want: http.StatusOK},
		{name: "ChangeNoSolution", method: http.MethodPost, path: "/api/change", body: `{"target": 3, "denominations": [5]}`, want: http.StatusUnprocessableEntity},
		{name: "ChangeWrongMethod", method: http.MethodGet, path: "/api/change", want: http.StatusMethodNotAllowed},
		{name: "History", method: http.MethodGet, path: "/api/history", want: http.StatusOK},
		{name: "Preflight", method: http.MethodOptions, path: "/api/change", want: http.StatusNoContent},
		{name: "UnknownRoute", method: http.MethodGet, path: "/api/unknown", want: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("%s %s: expected status %d, got %d", tc.method, tc.path, tc.want, rec.Code)
			}
		})
	}
}

func TestRateLimitBlocksChangeBeforeSolving(t *testing.T) {
	router := newTestRouter(t, WithLogging(false), WithRateLimiter(&staticLimiter{allow: false}))

	req := httptest.NewRequest(http.MethodPost, "/api/change", strings.NewReader(`{"target": 30}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "optimal") {
		t.Fatalf("expected no solver output in rate limited response, got %s", rec.Body.String())
	}
}

func newTestRouter(t *testing.T, opts ...RouterOption) http.Handler {
	t.Helper()

	store := storage.NewMemoryStorage()
	handler := NewHandler(store)
	logger := zaptest.NewLogger(t)
	return NewRouter(handler, logger, opts...)
}
