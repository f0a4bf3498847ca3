// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers contains the HTTP handlers. Every result, success or
// failure, is returned with status 200 and an in-body success flag; callers
// distinguish outcomes only by that flag.
package handlers

import (
	"errors"
	"net/http"

	"codeberg.org/oliverandrich/go-auth-service/internal/repository"
	authsvc "codeberg.org/oliverandrich/go-auth-service/internal/services/auth"
	"github.com/labstack/echo/v4"
)

// Health returns the health status.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ok writes a successful wire result.
func ok(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": message,
	})
}

// okWithWarning writes a successful wire result for a committed mutation
// whose notification failed.
func okWithWarning(c echo.Context, message, warning string) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": message,
		"warning": warning,
	})
}

// fail writes a failed wire result.
func fail(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": false,
		"message": message,
	})
}

// messageFor maps service errors to the wire messages. Unexpected
// lower-layer failures surface with their own message rather than crashing
// the request.
func messageFor(err error) string {
	switch {
	case errors.Is(err, authsvc.ErrMissingFields):
		return "Missing details!"
	case errors.Is(err, authsvc.ErrUserExists):
		return "User already exists!"
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		return "Invalid Credentials"
	case errors.Is(err, authsvc.ErrAlreadyVerified):
		return "Account is already verified"
	case errors.Is(err, authsvc.ErrInvalidOTP):
		return "Invalid OTP"
	case errors.Is(err, authsvc.ErrExpiredOTP):
		return "OTP Expired"
	case errors.Is(err, repository.ErrNotFound):
		return "User not found"
	default:
		return err.Error()
	}
}
