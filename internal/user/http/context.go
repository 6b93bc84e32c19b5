// Package http exposes sign-up, sign-in and session endpoints and the bearer-token middleware
// that protects the rest of the API.
package http

import (
	"context"

	"github.com/allisson/cardvault/internal/user/domain"
)

// userKey is a context key type for storing the authenticated user.
type userKey struct{}

// tokenKey is a context key type for storing the bearer token of the current request.
type tokenKey struct{}

// WithUser stores an authenticated user in the context.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUser retrieves the authenticated user from the context.
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey{}).(*domain.User)
	return user, ok && user != nil
}

// WithToken stores the plain bearer token in the context so sign-out can revoke it.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// GetToken retrieves the plain bearer token from the context.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}
