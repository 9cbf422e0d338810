package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasket-app/tasket-api/internal/httputil"
)

type fakeRateLimiter struct {
	ipExceeded    bool
	emailCooldown bool
}

func (f *fakeRateLimiter) CheckIPRateLimit(ctx context.Context, ip string) (bool, error) {
	return f.ipExceeded, nil
}

func (f *fakeRateLimiter) RecordIPRequest(ctx context.Context, ip string) error { return nil }

func (f *fakeRateLimiter) CheckEmailCooldown(ctx context.Context, email string) (bool, error) {
	return f.emailCooldown, nil
}

func (f *fakeRateLimiter) SetEmailCooldown(ctx context.Context, email string) error { return nil }

func newTestHandler(t *testing.T) (*Handler, *fakeUserStore, *fakeRateLimiter) {
	t.Helper()
	svc, store, _ := newTestService(t)
	limiter := &fakeRateLimiter{}
	sessions := NewMiddleware(svc.tokens, store)
	handler := NewHandler(svc, sessions, limiter, false, time.Hour)
	return handler, store, limiter
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestRegisterHandler_SetsSessionCookie(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	rec := postJSON(t, handler.Register, "/auth/register", RegisterRequest{
		Email:    "ada@example.com",
		Password: "hunter22",
		Name:     "Ada",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie, "registration must start a session")
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.User)
	assert.Empty(t, resp.User.PasswordHash)
}

func TestRegisterHandler_DuplicateEmail(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	req := RegisterRequest{Email: "ada@example.com", Password: "hunter22", Name: "Ada"}
	require.Equal(t, http.StatusCreated, postJSON(t, handler.Register, "/auth/register", req).Code)

	rec := postJSON(t, handler.Register, "/auth/register", req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var errResp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, httputil.CodeEmailAlreadyExists, errResp.Code)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	rec := postJSON(t, handler.Login, "/auth/login", LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, sessionCookie(t, rec))
}

func TestLogoutHandler_ClearsCookie(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	handler.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestSessionHandler_Anonymous(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	rec := httptest.NewRecorder()
	handler.Session(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "session check never errors")

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.User)
	assert.Nil(t, resp.ExpiresAt)
}

func TestSessionHandler_AfterLogin(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	regRec := postJSON(t, handler.Register, "/auth/register", RegisterRequest{
		Email:    "ada@example.com",
		Password: "hunter22",
		Name:     "Ada",
	})
	require.Equal(t, http.StatusCreated, regRec.Code)
	cookie := sessionCookie(t, regRec)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.Session(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	require.NotNil(t, resp.ExpiresAt)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), *resp.ExpiresAt, 5)
}

func TestForgotPasswordHandler_UnknownEmail(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	rec := postJSON(t, handler.ForgotPassword, "/auth/forgot-password", ForgotPasswordRequest{
		Email: "ghost@example.com",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var errResp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, httputil.CodeUserNotFound, errResp.Code)
}

func TestForgotPasswordHandler_RateLimits(t *testing.T) {
	tests := []struct {
		name     string
		limiter  fakeRateLimiter
		wantCode string
	}{
		{"IP limit", fakeRateLimiter{ipExceeded: true}, httputil.CodeTooManyRequests},
		{"email cooldown", fakeRateLimiter{emailCooldown: true}, httputil.CodeCooldownActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _, limiter := newTestHandler(t)
			*limiter = tt.limiter

			rec := postJSON(t, handler.ForgotPassword, "/auth/forgot-password", ForgotPasswordRequest{
				Email: "ada@example.com",
			})

			assert.Equal(t, http.StatusTooManyRequests, rec.Code)

			var errResp httputil.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Equal(t, tt.wantCode, errResp.Code)
		})
	}
}

func TestResetPasswordHandler_ReasonLadder(t *testing.T) {
	handler, store, _ := newTestHandler(t)

	regRec := postJSON(t, handler.Register, "/auth/register", RegisterRequest{
		Email:    "ada@example.com",
		Password: "hunter22",
		Name:     "Ada",
	})
	require.Equal(t, http.StatusCreated, regRec.Code)

	t.Run("no pending reset", func(t *testing.T) {
		rec := postJSON(t, handler.ResetPassword, "/auth/reset-password", ResetPasswordRequest{
			Email: "ada@example.com", OTP: "123456", NewPassword: "new-password",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var errResp httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
		assert.Equal(t, httputil.CodeNoPendingReset, errResp.Code)
	})

	t.Run("expired code", func(t *testing.T) {
		store.forceOTP("ada@example.com", "123456", time.Now().Add(-time.Minute))
		rec := postJSON(t, handler.ResetPassword, "/auth/reset-password", ResetPasswordRequest{
			Email: "ada@example.com", OTP: "123456", NewPassword: "new-password",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var errResp httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
		assert.Equal(t, httputil.CodeOTPExpired, errResp.Code)
	})

	t.Run("wrong code", func(t *testing.T) {
		store.forceOTP("ada@example.com", "123456", time.Now().Add(10*time.Minute))
		rec := postJSON(t, handler.ResetPassword, "/auth/reset-password", ResetPasswordRequest{
			Email: "ada@example.com", OTP: "654321", NewPassword: "new-password",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var errResp httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
		assert.Equal(t, httputil.CodeOTPMismatch, errResp.Code)
	})

	t.Run("success", func(t *testing.T) {
		store.forceOTP("ada@example.com", "123456", time.Now().Add(10*time.Minute))
		rec := postJSON(t, handler.ResetPassword, "/auth/reset-password", ResetPasswordRequest{
			Email: "ada@example.com", OTP: "123456", NewPassword: "new-password",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := postJSON(t, handler.ResetPassword, "/auth/reset-password", ResetPasswordRequest{
			Email: "ghost@example.com", OTP: "123456", NewPassword: "new-password",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"remote addr", "10.0.0.1:1234", "", "", "10.0.0.1"},
		{"x-forwarded-for", "10.0.0.1:1234", "203.0.113.7, 10.0.0.2", "", "203.0.113.7"},
		{"x-real-ip", "10.0.0.1:1234", "", "203.0.113.9", "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}
