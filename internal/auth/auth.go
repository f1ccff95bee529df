// Package auth carries the authenticated caller's identity through the
// request context. Token verification itself happens outside this backend;
// the HTTP layer hands a verified identity in and handlers require it here.
package auth

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
)

// UserClaims identifies the authenticated caller.
type UserClaims struct {
	UID         string
	Email       string
	DisplayName string
	Verified    bool
}

// Context keys
type contextKey string

const userClaimsKey contextKey = "user_claims"

// WithUserClaims adds user claims to the context.
func WithUserClaims(ctx context.Context, claims *UserClaims) context.Context {
	return context.WithValue(ctx, userClaimsKey, claims)
}

// GetUserClaims extracts user claims from context.
func GetUserClaims(ctx context.Context) (*UserClaims, bool) {
	claims, ok := ctx.Value(userClaimsKey).(*UserClaims)
	return claims, ok
}

// GetUserID is a convenience function to get the user ID from context.
func GetUserID(ctx context.Context) (string, bool) {
	if claims, ok := GetUserClaims(ctx); ok {
		return claims.UID, true
	}
	return "", false
}

// RequireAuth extracts user claims from context or returns an
// unauthenticated error.
func RequireAuth(ctx context.Context) (*UserClaims, error) {
	claims, ok := GetUserClaims(ctx)
	if !ok {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("user not authenticated"))
	}
	return claims, nil
}

// RequireUserAccess verifies the authenticated user matches the requested
// user ID. An empty requested ID resolves to the caller's own.
func RequireUserAccess(ctx context.Context, requestedUserID string) (*UserClaims, error) {
	claims, err := RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if requestedUserID != "" && requestedUserID != claims.UID {
		return nil, connect.NewError(connect.CodePermissionDenied,
			fmt.Errorf("cannot access another user's resources"))
	}
	return claims, nil
}

// WrapStoreError wraps store errors with operation context. Errors already
// carrying a connect code keep it; anything else is classified internal.
func WrapStoreError(operation string, err error) error {
	if err == nil {
		return nil
	}
	wrapped := fmt.Errorf("failed to %s: %w", operation, err)
	var cerr *connect.Error
	if errors.As(err, &cerr) {
		return connect.NewError(cerr.Code(), wrapped)
	}
	return connect.NewError(connect.CodeInternal, wrapped)
}

// LocalDevClaims returns the mock identity used when the backend runs
// without a token verifier in front of it.
func LocalDevClaims() *UserClaims {
	return &UserClaims{
		UID:         "local-dev-user",
		Email:       "dev@localhost",
		DisplayName: "Local Dev User",
		Verified:    true,
	}
}
