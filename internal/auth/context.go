// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth provides authentication context helpers.
package auth

import "context"

type userIDKey struct{}

// WithUserID returns a context carrying the authenticated subject id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserID returns the authenticated subject id from the context, or "" if the
// request is not authenticated.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}
	return ""
}

// IsAuthenticated returns true if the context has an authenticated subject.
func IsAuthenticated(ctx context.Context) bool {
	return UserID(ctx) != ""
}
