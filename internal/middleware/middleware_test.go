package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goalpulse/goalpulse/internal/ctxkeys"
	"github.com/goalpulse/goalpulse/internal/model"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(okHandler(), mark("first"), mark("second"), mark("third"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"first", "second", "third"}, order)
}

func TestRateLimiterAllow(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("203.0.113.1")
	require.True(t, ok)
	ok, _ = rl.Allow("203.0.113.1")
	require.True(t, ok)

	ok, delay := rl.Allow("203.0.113.1")
	require.False(t, ok)
	require.InDelta(t, float64(30*time.Second), float64(delay), float64(time.Millisecond))

	ok, _ = rl.Allow("203.0.113.2")
	require.True(t, ok, "other clients have their own bucket")

	now = now.Add(31 * time.Second)
	ok, _ = rl.Allow("203.0.113.1")
	require.True(t, ok, "a token refills after window/requests")
}

func TestRateLimiterCleanup(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, time.Minute)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(90 * time.Second)
	rl.Allow("fresh")
	now = now.Add(60 * time.Second)

	rl.Cleanup()

	require.NotContains(t, rl.limiters, "old")
	require.Contains(t, rl.limiters, "fresh")
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	h := RateLimit(rl, false)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "192.168.1.1:12345"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.JSONEq(t, `{"message":"Too many requests. Please try again later."}`, rec.Body.String())
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		headers    map[string]string
		want       string
	}{
		{name: "remote addr", want: "192.168.1.1"},
		{name: "forwarded for ignored", headers: map[string]string{"X-Forwarded-For": "203.0.113.1"}, want: "192.168.1.1"},
		{name: "real ip ignored", headers: map[string]string{"X-Real-IP": "203.0.113.2"}, want: "192.168.1.1"},
		{name: "trusted remote addr", trustProxy: true, want: "192.168.1.1"},
		{name: "trusted forwarded for", trustProxy: true, headers: map[string]string{"X-Forwarded-For": "203.0.113.1, 10.0.0.1"}, want: "203.0.113.1"},
		{name: "trusted real ip", trustProxy: true, headers: map[string]string{"X-Real-IP": "203.0.113.2"}, want: "203.0.113.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.168.1.1:12345"
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tt.want, clientIP(req, tt.trustProxy))
		})
	}
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	h := RateLimit(rl, false)(okHandler())

	codes := make([]int, 0, 3)
	for i := range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "198.51.100.7:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestCORS(t *testing.T) {
	h := CORS("http://localhost:3000")(okHandler())

	t.Run("preflight from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/goals", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})

	t.Run("unknown origin gets no headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/goals", nil)
		req.Header.Set("Origin", "https://evil.example")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example")

		rec := httptest.NewRecorder()
		CORS("*")(okHandler()).ServeHTTP(rec, req)

		require.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

type stubVerifier map[string]string

func (s stubVerifier) VerifyJWT(token string) (string, error) {
	id, ok := s[token]
	if !ok {
		return "", errors.New("bad token")
	}
	return id, nil
}

type stubUsers map[string]*model.User

func (s stubUsers) ByID(_ context.Context, id string) (*model.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func TestRequireAuth(t *testing.T) {
	ada := &model.User{ID: "u1", Name: "Ada"}
	mw := RequireAuth(stubVerifier{"good": "u1", "orphan": "u2"}, stubUsers{"u1": ada})

	var seen *model.User
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.User(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "no header", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "deleted user", header: "Bearer orphan", want: http.StatusUnauthorized},
		{name: "valid", header: "Bearer good", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				require.Same(t, ada, seen)
			} else {
				require.Nil(t, seen)
				require.True(t, strings.HasPrefix(rec.Body.String(), `{"message":`))
			}
		})
	}
}

func TestRequestLoggingSetsRequestID(t *testing.T) {
	var fromCtx string
	h := RequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = ctxkeys.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/goals", nil))
	require.NotEmpty(t, fromCtx)
	require.Equal(t, fromCtx, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "upstream-id", fromCtx)
}
