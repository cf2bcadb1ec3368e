package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeRateLimitStore struct {
	counts  map[string]int64
	failing bool
}

func newFakeRateLimitStore() *fakeRateLimitStore {
	return &fakeRateLimitStore{counts: map[string]int64{}}
}

func (f *fakeRateLimitStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if f.failing {
		return 0, errors.New("store down")
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeRateLimitStore) CounterKey(name string) string {
	return "bg:counter:" + name
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitAllowsWithinWindow(t *testing.T) {
	policy := NewRateLimitPolicy("test", time.Minute, 3)
	handler := RateLimit(policy, newFakeRateLimitStore(), nil)(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:4321"
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i+1, resp.Code)
		}
	}
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	policy := NewRateLimitPolicy("test", time.Minute, 2)
	handler := RateLimit(policy, newFakeRateLimitStore(), nil)(okHandler())

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.2:4321"
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		last = resp.Code
	}

	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", last)
	}
}

func TestRateLimitIsolatesClients(t *testing.T) {
	policy := NewRateLimitPolicy("test", time.Minute, 1)
	handler := RateLimit(policy, newFakeRateLimitStore(), nil)(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.RemoteAddr = "10.0.0.3:1000"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, first)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.RemoteAddr = "10.0.0.4:1000"
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, second)
	if resp.Code != http.StatusOK {
		t.Fatalf("other client should not be limited, got %d", resp.Code)
	}
}

func TestRateLimitHonorsForwardedFor(t *testing.T) {
	policy := NewRateLimitPolicy("test", time.Minute, 1)
	store := newFakeRateLimitStore()
	handler := RateLimit(policy, store, nil)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "127.0.0.1:1000"
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		if i == 1 && resp.Code != http.StatusTooManyRequests {
			t.Fatalf("expected forwarded client to be limited, got %d", resp.Code)
		}
	}
	if _, ok := store.counts["bg:counter:rl:ip:test:203.0.113.7"]; !ok {
		t.Fatalf("expected counter keyed by forwarded ip, got %v", store.counts)
	}
}

func TestRateLimitStoreFailure(t *testing.T) {
	policy := NewRateLimitPolicy("test", time.Minute, 1)
	store := newFakeRateLimitStore()
	store.failing = true
	handler := RateLimit(policy, store, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:1000"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	handler := RateLimit(NewRateLimitPolicy("test", 0, 0), newFakeRateLimitStore(), nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
