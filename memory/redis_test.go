package memory

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/hupe1980/alertmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T, optFns ...func(o *RedisOptions)) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, optFns...), mr
}

func TestRedisStore_RememberGetDump(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Remember(ctx, core.LastAlertKey, core.Alert{Type: "high_cpu", Service: "payment-api"}))
	require.NoError(t, s.Remember(ctx, "count", 3))

	v, ok, err := s.Get(ctx, core.LastAlertKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]any{"type": "high_cpu", "service": "payment-api"}, v)

	dump, err := s.Dump(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"last_alert": map[string]any{"type": "high_cpu", "service": "payment-api"},
		"count":      float64(3),
	}, dump)

	assert.True(t, mr.Exists(DefaultRedisKey))
}

func TestRedisStore_MissingKey(t *testing.T) {
	s, _ := newTestRedisStore(t)

	v, ok, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestRedisStore_CustomKeyAndOverwrite(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t, func(o *RedisOptions) { o.Key = "lab:memory" })

	require.NoError(t, s.Remember(ctx, "k", "first"))
	require.NoError(t, s.Remember(ctx, "k", "second"))

	v, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", v)
	assert.Equal(t, `"second"`, mr.HGet("lab:memory", "k"))
}

func TestRedisStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)
	mr.HSet(DefaultRedisKey, "bad", "{not json")

	_, _, err := s.Get(ctx, "bad")
	assert.Error(t, err)

	_, err = s.Dump(ctx)
	assert.Error(t, err)
}

func TestRedisStore_ServerDown(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)
	mr.Close()

	assert.Error(t, s.Ping(ctx))
	assert.Error(t, s.Remember(ctx, "k", "v"))
	_, err := s.Dump(ctx)
	assert.Error(t, err)
}
