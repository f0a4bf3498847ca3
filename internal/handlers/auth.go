// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"

	"codeberg.org/oliverandrich/go-auth-service/internal/auth"
	authsvc "codeberg.org/oliverandrich/go-auth-service/internal/services/auth"
	"codeberg.org/oliverandrich/go-auth-service/internal/services/session"
	"github.com/labstack/echo/v4"
)

// AuthHandlers contains handlers for authentication.
type AuthHandlers struct {
	auth     *authsvc.Service
	sessions *session.Manager
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(svc *authsvc.Service, sessions *session.Manager) *AuthHandlers {
	return &AuthHandlers{
		auth:     svc,
		sessions: sessions,
	}
}

// RegisterRequest is the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account and sets the session cookie.
func (h *AuthHandlers) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, "Missing details!")
	}

	result, err := h.auth.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return fail(c, messageFor(err))
	}

	c.SetCookie(h.sessions.Cookie(result.Token))

	if result.NotifyErr != nil {
		return okWithWarning(c, "User is successfully Registered", "welcome email could not be sent")
	}
	return ok(c, "User is successfully Registered")
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user and sets the session cookie.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, "Please add all required fields")
	}
	if req.Email == "" || req.Password == "" {
		return fail(c, "Please add all required fields")
	}

	_, token, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, messageFor(err))
	}

	c.SetCookie(h.sessions.Cookie(token))
	return ok(c, "User is successfully Logged In")
}

// Logout clears the session cookie. No server-side state is revoked; the
// token stays valid until its natural expiry.
func (h *AuthHandlers) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.Clear())
	return ok(c, "Logged Out")
}

// SendVerifyOTP issues a verification code for the authenticated account.
func (h *AuthHandlers) SendVerifyOTP(c echo.Context) error {
	userID := auth.UserID(c.Request().Context())

	err := h.auth.SendVerifyOTP(c.Request().Context(), userID)
	var notifyErr *authsvc.NotifyError
	switch {
	case errors.As(err, &notifyErr):
		return okWithWarning(c, "Verification OTP saved", "verification email could not be sent")
	case err != nil:
		return fail(c, messageFor(err))
	}
	return ok(c, "Verification OTP sent to your email")
}

// VerifyAccountRequest is the request body for account verification.
type VerifyAccountRequest struct {
	OTP string `json:"otp"`
}

// VerifyAccount consumes a verification code for the authenticated account.
func (h *AuthHandlers) VerifyAccount(c echo.Context) error {
	var req VerifyAccountRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, "Missing details!")
	}

	userID := auth.UserID(c.Request().Context())
	if err := h.auth.VerifyEmail(c.Request().Context(), userID, req.OTP); err != nil {
		return fail(c, messageFor(err))
	}
	return ok(c, "Email verified successfully")
}

// IsAuth reports that the session guard accepted the caller.
func (h *AuthHandlers) IsAuth(c echo.Context) error {
	return ok(c, "User is authenticated")
}

// SendResetOTPRequest is the request body for requesting a reset code.
type SendResetOTPRequest struct {
	Email string `json:"email"`
}

// SendResetOTP issues a password reset code for the given email.
func (h *AuthHandlers) SendResetOTP(c echo.Context) error {
	var req SendResetOTPRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, "Missing details!")
	}

	err := h.auth.SendResetOTP(c.Request().Context(), req.Email)
	var notifyErr *authsvc.NotifyError
	switch {
	case errors.As(err, &notifyErr):
		return okWithWarning(c, "Reset OTP saved", "reset email could not be sent")
	case err != nil:
		return fail(c, messageFor(err))
	}
	return ok(c, "Reset OTP sent to your email")
}

// ResetPasswordRequest is the request body for a password reset.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword consumes a reset code and replaces the password.
func (h *AuthHandlers) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, "Missing details!")
	}

	if err := h.auth.ResetPassword(c.Request().Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		return fail(c, messageFor(err))
	}
	return ok(c, "Password has been reset successfully")
}
