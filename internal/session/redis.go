package session

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// RedisBackend stores sessions as JSON values with a TTL
type RedisBackend struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisBackend stores sessions under "<prefix><id>" keys
func NewRedisBackend(rdb *redis.Client, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisBackend{rdb: rdb, prefix: prefix}
}

// Get retrieves a session from Redis
func (b *RedisBackend) Get(ctx context.Context, id string) (*User, error) {
	val, err := b.rdb.Get(ctx, b.prefix+id).Result() // Get value from Redis
	if err == redis.Nil {
		return nil, nil // Key does not exist
	} else if err != nil {
		return nil, err // Other Redis error
	}
	var u User
	if err := json.Unmarshal([]byte(val), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Set stores a session in Redis with the given TTL
func (b *RedisBackend) Set(ctx context.Context, id string, u *User, ttl time.Duration) error {
	raw, err := json.Marshal(u) // Marshal value to JSON
	if err != nil {
		return err
	}
	return b.rdb.Set(ctx, b.prefix+id, raw, ttl).Err() // Set value in Redis with TTL
}

// Delete removes a session from Redis
func (b *RedisBackend) Delete(ctx context.Context, id string) error {
	return b.rdb.Del(ctx, b.prefix+id).Err()
}
