package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planify/planify/models"
	"github.com/planify/planify/userctx"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubTokens map[string]*models.DeviceToken

func (s stubTokens) Current(_ context.Context, deviceID string) (*models.DeviceToken, error) {
	if t, ok := s[deviceID]; ok {
		return t, nil
	}
	return nil, errors.New("no session")
}

type chanRecorder chan *models.AuditLogEntry

func (c chanRecorder) Record(_ context.Context, e *models.AuditLogEntry) { c <- e }

func withDevice(r *http.Request, id string) *http.Request {
	return r.WithContext(userctx.SetDeviceID(r.Context(), id))
}

func TestDeviceIssuesStableID(t *testing.T) {
	store := NewSessionStore([]byte(strings.Repeat("s", 32)), false)

	var seen []string
	h := Device(store, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, userctx.GetDeviceID(r.Context()))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Len(t, seen, 2)
	assert.NotEmpty(t, seen[0])
	assert.Equal(t, seen[0], seen[1])
	assert.Empty(t, rec.Result().Cookies(), "known device must not rewrite the cookie")
}

func TestRequireAuth(t *testing.T) {
	tokens := stubTokens{"dev-1": {Subject: "user-1", Email: "ada@example.com", Name: "Ada"}}

	var got userctx.User
	h := RequireAuth(tokens, "/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = userctx.GetUser(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withDevice(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "dev-1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userctx.User{Subject: "user-1", Email: "ada@example.com", Name: "Ada"}, got)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, withDevice(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "dev-2"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireAPIAuth(t *testing.T) {
	h := RequireAPIAuth(stubTokens{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a session")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
}

func TestAuditLoggerRecordsStatus(t *testing.T) {
	rec := make(chanRecorder, 1)
	h := AuditLogger(rec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}))

	req := withDevice(httptest.NewRequest(http.MethodGet, "/auth/callback?code=secret", nil), "dev-1")
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	// Recorded before ServeHTTP returns, so shutdown drains it with the request.
	require.Len(t, rec, 1)
	e := <-rec
	assert.Equal(t, models.AuditEventRequest, e.Event)
	assert.Equal(t, "dev-1", e.DeviceID)
	assert.Equal(t, "/auth/callback", e.Path)
	assert.Equal(t, http.StatusSeeOther, e.Status)
	assert.Equal(t, "203.0.113.7", e.IPAddress)
	assert.Equal(t, "test-agent", e.UserAgent)
	assert.NotContains(t, e.Detail, "secret")
}

func TestGetIPAddress(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, "10.0.0.2:1234", "198.51.100.1"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.2"}, "10.0.0.2:1234", "198.51.100.2"},
		{"remote addr", nil, "192.0.2.10:5555", "192.0.2.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getIPAddress(req))
		})
	}
}
