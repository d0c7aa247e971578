package middleware

import (
	"context"

	"github.com/mkaschner/lectern/internal/auth"
)

// WithTestUser injects a user into the context. This is intended for
// handler-level unit tests that call handler methods directly (bypassing the
// auth middleware). Production code should rely on the Auth middleware to
// populate this value.
func WithTestUser(ctx context.Context, user *auth.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
