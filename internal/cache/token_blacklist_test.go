package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBlacklist(t *testing.T) (*TokenBlacklist, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenBlacklist(client), mr
}

func TestTokenBlacklist_AddAndExpire(t *testing.T) {
	bl, mr := setupBlacklist(t)
	ctx := context.Background()

	require.NoError(t, bl.Add(ctx, "jti-1", time.Hour))

	found, err := bl.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, time.Hour, mr.TTL("auth:blacklist:jti-1"))

	mr.FastForward(time.Hour + time.Second)
	found, err = bl.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTokenBlacklist_NonPositiveTTLIsNoop(t *testing.T) {
	bl, mr := setupBlacklist(t)

	require.NoError(t, bl.Add(context.Background(), "jti-2", 0))
	assert.False(t, mr.Exists("auth:blacklist:jti-2"))
}

func TestTokenBlacklist_RedisDown(t *testing.T) {
	bl, mr := setupBlacklist(t)
	mr.Close()

	_, err := bl.Contains(context.Background(), "jti-3")
	assert.Error(t, err)
}
