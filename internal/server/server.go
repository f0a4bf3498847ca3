// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package server wires the service together and runs the HTTP listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/oliverandrich/go-auth-service/internal/config"
	"codeberg.org/oliverandrich/go-auth-service/internal/database"
	"codeberg.org/oliverandrich/go-auth-service/internal/handlers"
	appmw "codeberg.org/oliverandrich/go-auth-service/internal/middleware"
	"codeberg.org/oliverandrich/go-auth-service/internal/repository"
	authsvc "codeberg.org/oliverandrich/go-auth-service/internal/services/auth"
	"codeberg.org/oliverandrich/go-auth-service/internal/services/email"
	"codeberg.org/oliverandrich/go-auth-service/internal/services/session"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"environment", cfg.Auth.Environment,
	)

	// Database
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	repo := repository.New(db)

	// Services
	mailer, err := email.NewService(&cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to create mail service: %w", err)
	}

	sessions, err := session.NewManager(&cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}

	svc := authsvc.NewService(repo, mailer, sessions)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	setupMiddleware(e, cfg)
	setupRoutes(e, svc, sessions)

	return startWithGracefulShutdown(e, cfg)
}

func setupRoutes(e *echo.Echo, svc *authsvc.Service, sessions *session.Manager) {
	authHandlers := handlers.NewAuth(svc, sessions)
	userHandlers := handlers.NewUser(svc)
	guard := appmw.RequireSession(sessions)

	e.GET("/health", handlers.Health)

	api := e.Group("/api/auth")
	api.POST("/register", authHandlers.Register)
	api.POST("/login", authHandlers.Login)
	api.POST("/logout", authHandlers.Logout)
	api.POST("/send-verify-otp", authHandlers.SendVerifyOTP, guard)
	api.POST("/verify-account", authHandlers.VerifyAccount, guard)
	api.POST("/is-auth", authHandlers.IsAuth, guard)
	api.POST("/send-reset-otp", authHandlers.SendResetOTP)
	api.POST("/reset-password", authHandlers.ResetPassword)

	user := e.Group("/api/user")
	user.GET("/data", userHandlers.Data, guard)
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("server running", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
