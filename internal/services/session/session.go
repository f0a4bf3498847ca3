// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package session signs and verifies session tokens and builds the cookies
// that carry them.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"codeberg.org/oliverandrich/go-auth-service/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that does not verify: bad
// signature, malformed structure, or expired. Callers must not distinguish
// between these cases.
var ErrInvalidToken = errors.New("invalid session token")

// Manager issues and verifies signed session tokens. Verification is a pure
// computation; no server-side state is kept, so tokens stay valid until
// their natural expiry.
type Manager struct { //nolint:govet // fieldalignment: readability over optimization
	secret     []byte
	lifetime   time.Duration
	cookieName string
	secure     bool
	sameSite   http.SameSite
}

// NewManager creates a session manager from the auth configuration.
func NewManager(cfg *config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}

	// Strict in development; cross-site requests need None+Secure in
	// production.
	sameSite := http.SameSiteStrictMode
	if cfg.IsProduction() {
		sameSite = http.SameSiteNoneMode
	}

	return &Manager{
		secret:     []byte(cfg.JWTSecret),
		lifetime:   time.Duration(cfg.SessionMaxAge) * time.Second,
		cookieName: cfg.CookieName,
		secure:     cfg.IsProduction(),
		sameSite:   sameSite,
	}, nil
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Issue signs a token for the given subject id, valid for the configured
// lifetime.
func (m *Manager) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns the subject id. Signature mismatch,
// malformed input, and expiry all collapse to ErrInvalidToken.
func (m *Manager) Parse(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Cookie wraps a signed token into the session cookie. The cookie max-age
// matches the token's own expiry claim.
func (m *Manager) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.lifetime.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite,
	}
}

// Clear returns an expired cookie that instructs the client to discard the
// session token. Logout is purely client-side: the token itself stays
// cryptographically valid until it expires.
func (m *Manager) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite,
	}
}
