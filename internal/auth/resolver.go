package auth

import (
	"context"

	"github.com/dvloznov/expense-insights/internal/domain"
)

// Resolver resolves the identity of the current request. Implementations
// return domain.ErrUnauthenticated when no identity is available.
type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

type contextKey string

const userIDKey contextKey = "userID"

// WithUserID returns a context carrying the resolved user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the user ID placed by the auth middleware.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextResolver resolves identity from the request context. The auth
// middleware validates the bearer token and stores the user ID; everything
// downstream goes through this resolver so services never touch tokens.
type ContextResolver struct{}

// NewContextResolver creates a resolver backed by the request context.
func NewContextResolver() *ContextResolver {
	return &ContextResolver{}
}

func (r *ContextResolver) Resolve(ctx context.Context) (string, error) {
	userID := UserIDFromContext(ctx)
	if userID == "" {
		return "", domain.ErrUnauthenticated
	}
	return userID, nil
}

var _ Resolver = (*ContextResolver)(nil)
