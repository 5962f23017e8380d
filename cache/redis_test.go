package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raushankrgupta/stylesync/config"
)

func setupCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := NewRedisCache(&config.Config{RedisAddr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Ping(context.Background()))
	return c, mr
}

func TestAllowAICall_ExactlyLimitPerWindow(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := c.AllowAICall(ctx, "u1", 3, time.Hour)
		require.NoError(t, err)
		assert.True(t, ok, "call %d", i+1)
	}
	ok, err := c.AllowAICall(ctx, "u1", 3, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.AllowAICall(ctx, "u2", 3, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "limits are per user")
}

func TestAllowAICall_CounterExpires(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	_, err := c.AllowAICall(ctx, "u1", 5, time.Hour)
	require.NoError(t, err)

	key := c.KeyForAICalls("u1", time.Hour, time.Now())
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))

	mr.FastForward(time.Hour + time.Second)
	assert.False(t, mr.Exists(key))
}

func TestAllowAICall_NoLimit(t *testing.T) {
	c, _ := setupCache(t)
	ok, err := c.AllowAICall(context.Background(), "u1", 0, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}
