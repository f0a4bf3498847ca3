// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/go-auth-service/internal/models"
)

// CreateUser inserts a new account row.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash) VALUES (?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash)
	return wrapError(err)
}

// GetUserByID retrieves an account by its id.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves an account by its email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = ?`, email); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// SetVerifyOTP stores a verification code and its expiry as one pair.
func (r *Repository) SetVerifyOTP(ctx context.Context, id, code string, expiresAt time.Time) error {
	return r.exec(ctx,
		`UPDATE users SET verify_otp = ?, verify_otp_expires_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		code, expiresAt, id)
}

// ClearVerifyOTP removes a pending verification code and its expiry.
func (r *Repository) ClearVerifyOTP(ctx context.Context, id string) error {
	return r.exec(ctx,
		`UPDATE users SET verify_otp = '', verify_otp_expires_at = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		id)
}

// MarkVerified flips the account to verified and consumes the verification
// code in the same statement.
func (r *Repository) MarkVerified(ctx context.Context, id string) error {
	return r.exec(ctx,
		`UPDATE users SET is_verified = 1, verify_otp = '', verify_otp_expires_at = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		id)
}

// SetResetOTP stores a password reset code and its expiry as one pair.
func (r *Repository) SetResetOTP(ctx context.Context, id, code string, expiresAt time.Time) error {
	return r.exec(ctx,
		`UPDATE users SET reset_otp = ?, reset_otp_expires_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		code, expiresAt, id)
}

// ClearResetOTP removes a pending reset code and its expiry.
func (r *Repository) ClearResetOTP(ctx context.Context, id string) error {
	return r.exec(ctx,
		`UPDATE users SET reset_otp = '', reset_otp_expires_at = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		id)
}

// UpdatePassword replaces the credential hash and consumes the reset code in
// the same statement. The verification pair is untouched.
func (r *Repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.exec(ctx,
		`UPDATE users SET password_hash = ?, reset_otp = '', reset_otp_expires_at = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		passwordHash, id)
}

// exec runs a single-row UPDATE and maps a zero row count to ErrNotFound.
func (r *Repository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
