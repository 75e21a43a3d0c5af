package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserContext(t *testing.T) {
	ctx := SetUserContext(context.Background(), 42, "ada@example.com", "CUSTOMER")

	id, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "ada@example.com", GetUserEmailFromContext(ctx))
	assert.Equal(t, "CUSTOMER", GetUserRoleFromContext(ctx))
	assert.False(t, IsAdmin(ctx))
}

func TestUserContext_Empty(t *testing.T) {
	ctx := context.Background()

	_, ok := GetUserIDFromContext(ctx)
	assert.False(t, ok)
	assert.Empty(t, GetUserEmailFromContext(ctx))
	assert.False(t, IsAdmin(ctx))
}

func TestIsAdmin(t *testing.T) {
	ctx := SetUserContext(context.Background(), 1, "ops@example.com", RoleAdmin)
	assert.True(t, IsAdmin(ctx))
}
