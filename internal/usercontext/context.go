// Package usercontext carries the authenticated owner through request contexts.
package usercontext

import (
	"context"
	"strings"
)

// UserContextKey is the request context key for the authenticated user ID.
type UserContextKey struct{}

// WithUserID stores the owner's user ID in the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserContextKey{}, userID)
}

// UserIDFromContext returns the owner's user ID from context, if set.
func UserIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}

	value := ctx.Value(UserContextKey{})
	typed, ok := value.(string)
	if !ok {
		return "", false
	}

	typed = strings.TrimSpace(typed)
	if typed == "" {
		return "", false
	}
	return typed, true
}
