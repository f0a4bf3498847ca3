// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package middleware contains the Echo middleware for protected routes.
package middleware

import (
	"net/http"

	"codeberg.org/oliverandrich/go-auth-service/internal/auth"
	"codeberg.org/oliverandrich/go-auth-service/internal/services/session"
	"github.com/labstack/echo/v4"
)

// UnauthenticatedMessage is the single reply for every guard failure. A
// missing cookie, a bad signature, a malformed token and an expired token
// must be indistinguishable to the caller.
const UnauthenticatedMessage = "Not authorized. Login again"

// RequireSession validates the session cookie and stores the subject id in
// the request context. It never loads the account record; downstream
// handlers discover a since-deleted account on their own.
func RequireSession(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(sessions.CookieName())
			if err != nil || cookie.Value == "" {
				return unauthenticated(c)
			}

			userID, err := sessions.Parse(cookie.Value)
			if err != nil {
				return unauthenticated(c)
			}

			ctx := auth.WithUserID(c.Request().Context(), userID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": false,
		"message": UnauthenticatedMessage,
	})
}
