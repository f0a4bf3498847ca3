// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth implements the account and credential state machine:
// registration, login, email verification and password reset via one-time
// passcodes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"codeberg.org/oliverandrich/go-auth-service/internal/models"
	"codeberg.org/oliverandrich/go-auth-service/internal/repository"
	"codeberg.org/oliverandrich/go-auth-service/internal/services/otp"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// VerifyOTPExpiry is how long an email verification code is valid.
	VerifyOTPExpiry = 24 * time.Hour
	// ResetOTPExpiry is how long a password reset code is valid. Reset is
	// higher-risk than verification, so the window is much shorter.
	ResetOTPExpiry = 15 * time.Minute
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyVerified    = errors.New("account is already verified")
	ErrInvalidOTP         = errors.New("invalid OTP")
	ErrExpiredOTP         = errors.New("OTP expired")
)

// dummyHash is used for constant-time login to prevent timing attacks
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

// Notifier delivers account mails. Failures are reported once to the caller
// and never retried.
type Notifier interface {
	SendWelcome(name, email string) error
	SendVerifyOTP(email, code string) error
	SendResetOTP(email, code string) error
}

// TokenIssuer signs session tokens for a subject id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// NotifyError reports a notification failure for a mutation that already
// committed. The account state is intact; only the outbound mail failed.
type NotifyError struct {
	Err error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("notification failed: %v", e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}

// Service orchestrates registration, login and the two OTP workflows.
type Service struct {
	repo   *repository.Repository
	notify Notifier
	tokens TokenIssuer
}

// NewService creates a new auth service with explicitly injected
// collaborators.
func NewService(repo *repository.Repository, notify Notifier, tokens TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		notify: notify,
		tokens: tokens,
	}
}

// RegisterResult is the outcome of a successful registration. NotifyErr is
// non-nil when the welcome mail failed after the account was created.
type RegisterResult struct {
	User      *models.User
	Token     string
	NotifyErr error
}

// Register creates a new unverified account, issues a session token for it
// and sends a welcome mail. The mail is best-effort: its failure never rolls
// back the account, but is surfaced in the result instead of being swallowed
// as plain success.
func (s *Service) Register(ctx context.Context, name, email, password string) (*RegisterResult, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	_, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		// Unique constraint backstop for a concurrent registration that
		// slipped past the lookup above.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	slog.Info("register_success", "user_id", user.ID, "email", email)

	result := &RegisterResult{User: user, Token: token}
	if err := s.notify.SendWelcome(name, email); err != nil {
		slog.Warn("welcome_mail_failed", "user_id", user.ID, "error", err)
		result.NotifyErr = &NotifyError{Err: err}
	}
	return result, nil
}

// Login authenticates a user and issues a session token. An unknown email
// and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrMissingFields
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform bcrypt comparison to prevent timing attacks
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "email", email, "reason", "user_not_found")
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	slog.Info("login_success", "user_id", user.ID, "email", email)
	return user, token, nil
}

// SendVerifyOTP issues a fresh verification code for an unverified account
// and mails it. The code is persisted before the mail is attempted; a mail
// failure is reported as a NotifyError.
func (s *Service) SendVerifyOTP(ctx context.Context, userID string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	code, err := otp.Generate()
	if err != nil {
		return err
	}

	if err := s.repo.SetVerifyOTP(ctx, user.ID, code, time.Now().Add(VerifyOTPExpiry)); err != nil {
		return fmt.Errorf("failed to store verification OTP: %w", err)
	}

	slog.Info("verify_otp_issued", "user_id", user.ID)

	if err := s.notify.SendVerifyOTP(user.Email, code); err != nil {
		slog.Warn("verify_otp_mail_failed", "user_id", user.ID, "error", err)
		return &NotifyError{Err: err}
	}
	return nil
}

// VerifyEmail consumes a pending verification code and flips the account to
// verified. The transition is terminal: a verified account never goes back.
func (s *Service) VerifyEmail(ctx context.Context, userID, code string) error {
	if userID == "" || code == "" {
		return ErrMissingFields
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	if err := s.consumeOTP(ctx, user.ID, user.VerifyOTP, user.VerifyOTPExpiresAt, code, s.repo.ClearVerifyOTP); err != nil {
		return err
	}

	if err := s.repo.MarkVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to mark verified: %w", err)
	}

	slog.Info("email_verified", "user_id", user.ID)
	return nil
}

// SendResetOTP issues a password reset code for the account behind the given
// email. An unknown email reports the same generic credentials error as a
// failed login, to avoid leaking account existence.
func (s *Service) SendResetOTP(ctx context.Context, email string) error {
	if email == "" {
		return ErrMissingFields
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	code, err := otp.Generate()
	if err != nil {
		return err
	}

	if err := s.repo.SetResetOTP(ctx, user.ID, code, time.Now().Add(ResetOTPExpiry)); err != nil {
		return fmt.Errorf("failed to store reset OTP: %w", err)
	}

	slog.Info("reset_otp_issued", "user_id", user.ID)

	if err := s.notify.SendResetOTP(user.Email, code); err != nil {
		slog.Warn("reset_otp_mail_failed", "user_id", user.ID, "error", err)
		return &NotifyError{Err: err}
	}
	return nil
}

// ResetPassword consumes a pending reset code and replaces the credential
// hash. The verification pair and the verified flag are untouched.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if email == "" || code == "" || newPassword == "" {
		return ErrMissingFields
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.consumeOTP(ctx, user.ID, user.ResetOTP, user.ResetOTPExpiresAt, code, s.repo.ClearResetOTP); err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, string(passwordHash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password_reset", "user_id", user.ID)
	return nil
}

// GetUser loads an account by id.
func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// consumeOTP validates a presented code against the stored pair. A missing
// or mismatched code is invalid; a matching code past its expiry is expired,
// and the stale pair is cleared lazily on that check.
func (s *Service) consumeOTP(ctx context.Context, userID, pending string, expiresAt *time.Time, presented string, clear func(context.Context, string) error) error {
	if pending == "" || expiresAt == nil || pending != presented {
		return ErrInvalidOTP
	}
	if !time.Now().Before(*expiresAt) {
		if err := clear(ctx, userID); err != nil {
			slog.Warn("otp_lazy_clear_failed", "user_id", userID, "error", err)
		}
		return ErrExpiredOTP
	}
	return nil
}
