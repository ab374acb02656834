// Package dedupe coalesces identical backend fetches and keeps completed
// responses for a short trailing window.
package dedupe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultTTL is the trailing window a completed response stays cached.
const DefaultTTL = 500 * time.Millisecond

// Store holds completed responses until they expire.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// MemoryStore is a bounded in-process Store.
type MemoryStore struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryStore returns a Store holding at most size entries, each for ttl.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size < 1 {
		size = 1
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &MemoryStore{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.lru.Get(key)
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.lru.Add(key, value)
	return nil
}

// Len returns the number of live entries.
func (m *MemoryStore) Len() int {
	return m.lru.Len()
}

// RedisStore shares the window between service replicas.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to addr and checks the connection.
func NewRedisStore(ctx context.Context, addr, prefix string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     50,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("dedupe: redis ping %s: %w", addr, err)
	}

	return NewRedisStoreFromClient(client, prefix, ttl), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("dedupe: redis get: %w", err)
	}

	return v, true, nil
}

// Set stores value with a millisecond expiry (SET key value PX ttl).
func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("dedupe: redis set: %w", err)
	}

	return nil
}

// Close releases the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
