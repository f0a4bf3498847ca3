// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/oliverandrich/go-auth-service/internal/auth"
	authsvc "codeberg.org/oliverandrich/go-auth-service/internal/services/auth"
	"github.com/labstack/echo/v4"
)

// UserHandlers contains handlers for user data.
type UserHandlers struct {
	auth *authsvc.Service
}

// NewUser creates a new UserHandlers instance.
func NewUser(svc *authsvc.Service) *UserHandlers {
	return &UserHandlers{auth: svc}
}

// Data returns the profile of the authenticated account.
func (h *UserHandlers) Data(c echo.Context) error {
	userID := auth.UserID(c.Request().Context())

	user, err := h.auth.GetUser(c.Request().Context(), userID)
	if err != nil {
		return fail(c, messageFor(err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"userData": echo.Map{
			"name":              user.Name,
			"isAccountVerified": user.IsVerified,
		},
	})
}
