package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/hupe1980/alertmesh/core"
)

// DefaultRedisKey is the hash key used when RedisOptions.Key is empty.
const DefaultRedisKey = "alertmesh:memory"

// Compile-time interface check.
var _ core.MemoryStore = (*RedisStore)(nil)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	// Key is the Redis hash holding all memory entries.
	Key string
}

// RedisStore keeps working memory in a single Redis hash so that several
// service replicas share it. Values are JSON encoded; Get and Dump return
// the decoded JSON form (structs come back as map[string]any).
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

// NewRedisStore wraps an existing client. The caller owns the client's
// lifecycle.
func NewRedisStore(client redis.UniversalClient, optFns ...func(o *RedisOptions)) *RedisStore {
	opts := RedisOptions{Key: DefaultRedisKey}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Key == "" {
		opts.Key = DefaultRedisKey
	}

	return &RedisStore{client: client, key: opts.Key}
}

// Ping checks connectivity to the Redis server.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}

	return nil
}

// Remember stores the JSON encoding of value under key.
func (s *RedisStore) Remember(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode memory value %s: %w", key, err)
	}

	if err := s.client.HSet(ctx, s.key, key, raw).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}

	return nil
}

// Get returns the decoded value stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) (any, bool, error) {
	raw, err := s.client.HGet(ctx, s.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("redis hget %s: %w", key, err)
	}

	v, err := decode(raw)
	if err != nil {
		return nil, false, fmt.Errorf("decode memory value %s: %w", key, err)
	}

	return v, true, nil
}

// Dump returns every entry of the hash decoded.
func (s *RedisStore) Dump(ctx context.Context) (map[string]any, error) {
	entries, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}

	out := make(map[string]any, len(entries))

	for k, raw := range entries {
		v, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("decode memory value %s: %w", k, err)
		}

		out[k] = v
	}

	return out, nil
}

func decode(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}

	return v, nil
}
