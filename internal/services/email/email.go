// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package email sends account notifications via SMTP.
package email

import (
	"fmt"

	"codeberg.org/oliverandrich/go-auth-service/internal/config"
	"github.com/wneessen/go-mail"
)

// Service sends templated account mails. Sends are fire-and-forget from the
// caller's point of view: a failure is reported once and never retried.
type Service struct {
	cfg *config.SMTPConfig
}

// NewService creates a new email service.
func NewService(cfg *config.SMTPConfig) (*Service, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &Service{cfg: cfg}, nil
}

// SendWelcome greets a freshly registered account.
func (s *Service) SendWelcome(name, toEmail string) error {
	subject := "Welcome!"
	body := fmt.Sprintf("Welcome %s! Your account has been created with email id: %s", name, toEmail)
	return s.send(toEmail, subject, body)
}

// SendVerifyOTP delivers an email verification code.
func (s *Service) SendVerifyOTP(toEmail, code string) error {
	subject := "Account Verification OTP"
	body := fmt.Sprintf("Your OTP is %s. Verify your account using this OTP.", code)
	return s.send(toEmail, subject, body)
}

// SendResetOTP delivers a password reset code.
func (s *Service) SendResetOTP(toEmail, code string) error {
	subject := "Password Reset OTP"
	body := fmt.Sprintf("Your OTP for resetting your password is %s. Use this OTP to proceed with resetting your password.", code)
	return s.send(toEmail, subject, body)
}

// send sends an email via SMTP using go-mail.
func (s *Service) send(to, subject, body string) error {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	// Implicit TLS (SSL) for port 465, STARTTLS for others
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
