package kernel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 2, 7, 12, 0, 0, 0, time.UTC)

	s := NewMemoryTokenStore()
	s.now = func() time.Time { return now }

	revoked, err := s.Revoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "a", now.Add(time.Hour)))
	revoked, err = s.Revoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = s.Revoked(ctx, "b")
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, _ = s.Revoked(ctx, "a")
	assert.False(t, revoked, "expired tokens are forgotten")

	require.NoError(t, s.Revoke(ctx, "b", now.Add(time.Hour)))
	assert.Len(t, s.tokens, 1, "expired entries are pruned on revoke")
}

func TestNewTokenStoreWithoutRedis(t *testing.T) {
	s, err := NewTokenStore(context.Background(), "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryTokenStore{}, s)
}
