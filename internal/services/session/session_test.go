// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package session_test

import (
	"net/http"
	"testing"
	"time"

	"codeberg.org/oliverandrich/go-auth-service/internal/config"
	"codeberg.org/oliverandrich/go-auth-service/internal/services/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:     "test-secret",
		CookieName:    "token",
		SessionMaxAge: 604800,
		Environment:   "development",
	}
}

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	m, err := session.NewManager(testConfig())
	require.NoError(t, err)
	return m
}

func TestNewManager_MissingSecret(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = ""

	_, err := session.NewManager(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret is required")
}

func TestIssueAndParse(t *testing.T) {
	m := newManager(t)

	token, err := m.Issue("user-42")
	require.NoError(t, err)

	subject, err := m.Parse(token)

	require.NoError(t, err)
	assert.Equal(t, "user-42", subject)
}

func TestParse_ForeignSecret(t *testing.T) {
	m := newManager(t)

	otherCfg := testConfig()
	otherCfg.JWTSecret = "a-different-secret"
	other, err := session.NewManager(otherCfg)
	require.NoError(t, err)

	token, err := other.Issue("user-42")
	require.NoError(t, err)

	_, err = m.Parse(token)

	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestParse_Expired(t *testing.T) {
	cfg := testConfig()
	cfg.SessionMaxAge = -60 // already expired at issue time
	m, err := session.NewManager(cfg)
	require.NoError(t, err)

	token, err := m.Issue("user-42")
	require.NoError(t, err)

	_, err = m.Parse(token)

	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestParse_Malformed(t *testing.T) {
	m := newManager(t)

	for _, garbage := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9"} {
		_, err := m.Parse(garbage)
		assert.ErrorIs(t, err, session.ErrInvalidToken)
	}
}

func TestParse_MissingSubject(t *testing.T) {
	m := newManager(t)

	// Well-signed token without a subject claim must still be rejected.
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := raw.SignedString([]byte(testConfig().JWTSecret))
	require.NoError(t, err)

	_, err = m.Parse(token)

	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestCookie(t *testing.T) {
	m := newManager(t)

	cookie := m.Cookie("signed-token")

	assert.Equal(t, "token", cookie.Name)
	assert.Equal(t, "signed-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, 604800, cookie.MaxAge)
}

func TestCookie_Production(t *testing.T) {
	cfg := testConfig()
	cfg.Environment = "production"
	m, err := session.NewManager(cfg)
	require.NoError(t, err)

	cookie := m.Cookie("signed-token")

	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
}

func TestClear(t *testing.T) {
	m := newManager(t)

	cookie := m.Clear()

	assert.Equal(t, "token", cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
}
