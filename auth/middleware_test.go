package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPublicPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/status", true},
		{"/health", true},
		{"/register", true},
		{"/login", true},
		{"/error", true},
		{"/activate", true},
		{"/activate/5f0c", true},
		{"/health/", true},
		{"/status/", true},
		{"/activate/", true},
		{"/profile/", false},
		{"/health//", false},
		{"/profile", false},
		{"/expenses", false},
		{"/", false},
		{"/registerx", false},
		{"/activated", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsPublicPath(tt.path), tt.path)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header    string
		wantToken string
		wantOK    bool
	}{
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc.def.ghi", "abc.def.ghi", true},
		{"  Bearer   abc.def.ghi  ", "abc.def.ghi", true},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/profile", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}

		token, ok := bearerToken(r)
		assert.Equal(t, tt.wantOK, ok, tt.header)
		assert.Equal(t, tt.wantToken, token, tt.header)
	}
}

// principalEcho writes the principal email, or "anonymous".
var principalEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if p, ok := PrincipalFrom(r.Context()); ok {
		_, _ = w.Write([]byte(p.Email))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
})

func TestGatekeeper(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Now()}
	tokens := newTestTokenService(t, WithClock(clock.Now))
	accounts := NewAccountRepository()

	acc, err := NewAccount("User", "a@b.com")
	require.NoError(t, err)
	acc.ID = NewID()
	require.NoError(t, accounts.Store(ctx, acc))

	valid, err := tokens.Generate("a@b.com")
	require.NoError(t, err)
	orphan, err := tokens.Generate("deleted@b.com")
	require.NoError(t, err)
	expired, err := NewTokenService(testSigningKey, time.Second, WithClock(func() time.Time {
		return clock.Now().Add(-time.Hour)
	}))
	require.NoError(t, err)
	stale, err := expired.Generate("a@b.com")
	require.NoError(t, err)

	handler := Authenticate(tokens, accounts, discardLogger, RequireAuth(principalEcho))

	tests := []struct {
		name     string
		path     string
		header   string
		wantCode int
		wantBody string
	}{
		{"public without header", "/health", "", http.StatusOK, "anonymous"},
		{"public with bad token", "/login", "Bearer nope", http.StatusOK, "anonymous"},
		{"public with valid token", "/status", "Bearer " + valid, http.StatusOK, "a@b.com"},
		{"protected without header", "/profile", "", http.StatusUnauthorized, ""},
		{"protected with wrong scheme", "/profile", "Token " + valid, http.StatusUnauthorized, ""},
		{"protected with malformed token", "/profile", "Bearer abc", http.StatusUnauthorized, ""},
		{"protected with expired token", "/profile", "Bearer " + stale, http.StatusUnauthorized, ""},
		{"protected with unknown account", "/profile", "Bearer " + orphan, http.StatusUnauthorized, ""},
		{"protected with valid token", "/profile", "Bearer " + valid, http.StatusOK, "a@b.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusUnauthorized {
				assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
				assert.JSONEq(t, `{"error":"unauthenticated"}`, w.Body.String())
				return
			}
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestGatekeeper_StoreFailureLeavesRequestUnauthenticated(t *testing.T) {
	tokens := newTestTokenService(t)
	valid, err := tokens.Generate("a@b.com")
	require.NoError(t, err)

	handler := Authenticate(tokens, failingRepository{Repository: NewAccountRepository(), err: errStoreDown}, discardLogger, RequireAuth(principalEcho))

	r := httptest.NewRequest(http.MethodGet, "/profile", nil)
	r.Header.Set("Authorization", "Bearer "+valid)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPrincipalFrom(t *testing.T) {
	_, ok := PrincipalFrom(context.Background())
	assert.False(t, ok)

	_, ok = PrincipalFrom(WithPrincipal(context.Background(), Principal{}))
	assert.False(t, ok)

	p, ok := PrincipalFrom(WithPrincipal(context.Background(), Principal{AccountID: "id", Email: "a@b.com"}))
	assert.True(t, ok)
	assert.Equal(t, "a@b.com", p.Email)
}
