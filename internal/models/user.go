// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package models defines the persisted entities.
package models

import "time"

// User is the sole persisted entity: an account keyed by an opaque id and a
// unique email. An OTP field and its paired expiry are always set and
// cleared together; the empty string paired with a NULL expiry means no code
// is pending.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID                 string     `db:"id" json:"id"`
	Name               string     `db:"name" json:"name"`
	Email              string     `db:"email" json:"email"`
	PasswordHash       string     `db:"password_hash" json:"-"`
	IsVerified         bool       `db:"is_verified" json:"is_verified"`
	VerifyOTP          string     `db:"verify_otp" json:"-"`
	VerifyOTPExpiresAt *time.Time `db:"verify_otp_expires_at" json:"-"`
	ResetOTP           string     `db:"reset_otp" json:"-"`
	ResetOTPExpiresAt  *time.Time `db:"reset_otp_expires_at" json:"-"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// HasVerifyOTP reports whether a verification code is pending.
func (u *User) HasVerifyOTP() bool {
	return u.VerifyOTP != "" && u.VerifyOTPExpiresAt != nil
}

// HasResetOTP reports whether a password reset code is pending.
func (u *User) HasResetOTP() bool {
	return u.ResetOTP != "" && u.ResetOTPExpiresAt != nil
}
