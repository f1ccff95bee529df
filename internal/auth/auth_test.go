package auth

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserClaimsContext(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		claims := &UserClaims{UID: "user-123", Email: "user@test.com"}
		ctx := WithUserClaims(context.Background(), claims)

		got, ok := GetUserClaims(ctx)
		require.True(t, ok)
		assert.Equal(t, claims, got)

		uid, ok := GetUserID(ctx)
		require.True(t, ok)
		assert.Equal(t, "user-123", uid)
	})

	t.Run("empty context", func(t *testing.T) {
		_, ok := GetUserClaims(context.Background())
		assert.False(t, ok)
	})
}

func TestRequireAuth(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		ctx := WithUserClaims(context.Background(), &UserClaims{UID: "user-123"})
		claims, err := RequireAuth(ctx)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.UID)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := RequireAuth(context.Background())
		require.Error(t, err)
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})
}

func TestRequireUserAccess(t *testing.T) {
	ctx := WithUserClaims(context.Background(), &UserClaims{UID: "user-123"})

	t.Run("own resources", func(t *testing.T) {
		_, err := RequireUserAccess(ctx, "user-123")
		assert.NoError(t, err)
	})

	t.Run("empty resolves to caller", func(t *testing.T) {
		claims, err := RequireUserAccess(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.UID)
	})

	t.Run("someone else's resources", func(t *testing.T) {
		_, err := RequireUserAccess(ctx, "user-456")
		require.Error(t, err)
		assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
	})
}

func TestWrapStoreError(t *testing.T) {
	assert.NoError(t, WrapStoreError("list budgets", nil))

	err := WrapStoreError("list budgets", assert.AnError)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to list budgets")
	assert.Equal(t, connect.CodeInternal, connect.CodeOf(err))

	notFound := connect.NewError(connect.CodeNotFound, assert.AnError)
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(WrapStoreError("get goal", notFound)))
}
