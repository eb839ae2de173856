package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: map[string]int64{}}
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[scope]++
	count := f.counts[scope]
	return count <= limit, count, nil
}

func (f *fakeLimiter) scopes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.counts))
	for scope := range f.counts {
		out = append(out, scope)
	}
	return out
}

func TestLoginRateLimitAllowsUnderLimit(t *testing.T) {
	limiter := newFakeLimiter()
	policy := NewLoginRateLimitPolicy(time.Minute, 5, 5)
	handler := LoginRateLimit(policy, limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if !strings.Contains(string(body), `"email":"shopper@example.com"`) {
			t.Fatalf("body was not replayed to the handler: %s", body)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"shopper@example.com","password":"secret"}`))
	req.RemoteAddr = "10.0.0.1:4242"
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLoginRateLimitEmailLimitTriggers(t *testing.T) {
	limiter := newFakeLimiter()
	policy := NewLoginRateLimitPolicy(time.Minute, 0, 2)
	handler := LoginRateLimit(policy, limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"Blocked@Example.com","password":"secret"}`))
		req.RemoteAddr = "10.0.0.1:4242"
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if i < 2 && rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200 before limit, got %d", i, rec.Code)
		}
		if i >= 2 && rec.Code != http.StatusTooManyRequests {
			t.Fatalf("attempt %d: expected 429 past limit, got %d", i, rec.Code)
		}
	}

	for _, scope := range limiter.scopes() {
		if strings.Contains(scope, "blocked@example.com") {
			t.Fatalf("raw email leaked into limiter scope %q", scope)
		}
	}
}

func TestLoginRateLimitIPLimitTriggers(t *testing.T) {
	limiter := newFakeLimiter()
	policy := NewLoginRateLimitPolicy(time.Minute, 1, 0)
	handler := LoginRateLimit(policy, limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if i == 0 && rec.Code != http.StatusOK {
			t.Fatalf("first attempt should pass, got %d", rec.Code)
		}
		if i == 1 && rec.Code != http.StatusTooManyRequests {
			t.Fatalf("second attempt should be blocked, got %d", rec.Code)
		}
	}
}

func TestLoginRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	policy := NewLoginRateLimitPolicy(0, 10, 10)
	handler := LoginRateLimit(policy, newFakeLimiter(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}

func TestUserWriteRateLimit(t *testing.T) {
	limiter := newFakeLimiter()
	handler := UserWriteRateLimit(time.Minute, 2, limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(method string) int {
		req := httptest.NewRequest(method, "/api/v1/cart", nil)
		req = req.WithContext(WithUserID(req.Context(), "user-123"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send(http.MethodPost); code != http.StatusOK {
		t.Fatalf("first write should pass, got %d", code)
	}
	if code := send(http.MethodPost); code != http.StatusOK {
		t.Fatalf("second write should pass, got %d", code)
	}
	if code := send(http.MethodPost); code != http.StatusTooManyRequests {
		t.Fatalf("third write should be blocked, got %d", code)
	}

	// Reads never consume the budget.
	if code := send(http.MethodGet); code != http.StatusOK {
		t.Fatalf("reads should not be limited, got %d", code)
	}
}

func TestUserWriteRateLimitSkipsAnonymous(t *testing.T) {
	limiter := newFakeLimiter()
	handler := UserWriteRateLimit(time.Minute, 1, limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("anonymous request %d should pass, got %d", i, rec.Code)
		}
	}
}
