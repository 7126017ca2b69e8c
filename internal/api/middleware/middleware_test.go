package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mw "github.com/Kingmac21-dev/ghl-telecom-middleware/internal/api/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock cache ---

type mockCache struct {
	counter int64
	err     error
}

func (m *mockCache) Ping(_ context.Context) error { return nil }
func (m *mockCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.counter++
	return m.counter, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// --- AdminAuth ---

func TestAdminAuth_MissingKey(t *testing.T) {
	auth := mw.NewAdminAuth("topsecret")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/subaccounts", nil)

	auth.Require(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Code    string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "unauthorized", body.Code)
}

func TestAdminAuth_WrongKey(t *testing.T) {
	auth := mw.NewAdminAuth("topsecret")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/subaccounts", nil)
	req.Header.Set(mw.AdminKeyHeader, "guess")

	auth.Require(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminAuth_CorrectKey(t *testing.T) {
	auth := mw.NewAdminAuth("topsecret")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/subaccounts", nil)
	req.Header.Set(mw.AdminKeyHeader, "topsecret")

	auth.Require(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// --- RateLimit ---

func TestRateLimit_UnderLimit(t *testing.T) {
	rl := mw.NewRateLimit(&mockCache{}, 5)
	h := rl.Limit(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ghl/webhook", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}
}

func TestRateLimit_OverLimit(t *testing.T) {
	rl := mw.NewRateLimit(&mockCache{counter: 5}, 5)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ghl/webhook", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rl.Limit(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRateLimit_FailOpenOnCacheError(t *testing.T) {
	rl := mw.NewRateLimit(&mockCache{err: errors.New("redis down")}, 5)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ghl/webhook", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rl.Limit(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// --- Recovery ---

func TestRecovery_Panic(t *testing.T) {
	h := mw.Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// --- Logger ---

func TestLogger_PassesThrough(t *testing.T) {
	h := mw.Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
