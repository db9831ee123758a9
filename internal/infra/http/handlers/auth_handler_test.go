package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
)

func loginRequest(body, ip string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("X-Forwarded-For", ip)
	return req
}

func TestLoginIssuesToken(t *testing.T) {
	h := NewAuthHandler([]string{"admin", "caller1"}, []string{"s3cret", "hunter2"})

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, loginRequest(`{"accessId":"caller1","password":"hunter2"}`, "10.0.0.1"))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)

	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "caller1", claims.AccessID)
}

func TestLoginPairsCredentialsByPosition(t *testing.T) {
	h := NewAuthHandler([]string{"admin", "caller1"}, []string{"s3cret", "hunter2"})

	// Right id, password from the other pair.
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, loginRequest(`{"accessId":"admin","password":"hunter2"}`, "10.0.0.2"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp LoginResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid credentials", resp.Message)
}

func TestLoginRejectsEmptyCredentials(t *testing.T) {
	h := NewAuthHandler([]string{""}, []string{""})

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, loginRequest(`{"accessId":"","password":""}`, "10.0.0.3"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRateLimitsPerIP(t *testing.T) {
	h := NewAuthHandler([]string{"admin"}, []string{"s3cret"})

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		h.HandleLogin(rec, loginRequest(`{"accessId":"admin","password":"wrong"}`, "10.0.0.4"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "attempt %d", i+1)
	}

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, loginRequest(`{"accessId":"admin","password":"s3cret"}`, "10.0.0.4"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different IP is unaffected.
	rec = httptest.NewRecorder()
	h.HandleLogin(rec, loginRequest(`{"accessId":"admin","password":"s3cret"}`, "10.0.0.5"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterWindowResets(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	assert.True(t, rl.Allow("10.0.0.6"))
	assert.False(t, rl.Allow("10.0.0.6"))

	time.Sleep(25 * time.Millisecond)
	assert.True(t, rl.Allow("10.0.0.6"), "window elapsed, counter must reset")
}
