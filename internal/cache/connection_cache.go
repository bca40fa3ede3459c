package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"linkup-service/internal/models"
	"linkup-service/internal/repositories"
)

// Store is the subset of Redis behavior the cache needs. It keeps the
// decorator testable without a running Redis.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisStore adapts a go-redis client to Store.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore pings the server and returns the adapter.
func NewRedisStore(ctx context.Context, addr, password string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// ConnectionCache decorates a ConnectionRepository with a read-through cache
// over the IsConnected predicate. Mutations that can change a pair's
// accepted state drop the pair's key; cache failures fall back to the
// repository, never to a wrong answer.
type ConnectionCache struct {
	repositories.ConnectionRepository
	store Store
	ttl   time.Duration
}

// NewConnectionCache wraps the repository.
func NewConnectionCache(repo repositories.ConnectionRepository, store Store, ttl time.Duration) *ConnectionCache {
	return &ConnectionCache{ConnectionRepository: repo, store: store, ttl: ttl}
}

// IsConnected serves the gate from cache when possible.
func (c *ConnectionCache) IsConnected(ctx context.Context, userA, userB int) (bool, error) {
	key := pairKey(userA, userB)
	if val, err := c.store.Get(ctx, key); err == nil {
		return val == "1", nil
	}

	connected, err := c.ConnectionRepository.IsConnected(ctx, userA, userB)
	if err != nil {
		return false, err
	}

	val := "0"
	if connected {
		val = "1"
	}
	if err := c.store.Set(ctx, key, val, c.ttl); err != nil {
		log.Printf("connection cache set failed: %v", err)
	}
	return connected, nil
}

// Respond invalidates the pair after the decision lands.
func (c *ConnectionCache) Respond(ctx context.Context, connectionID, responderID int, status string) (models.Connection, error) {
	conn, err := c.ConnectionRepository.Respond(ctx, connectionID, responderID, status)
	if err != nil {
		return conn, err
	}
	c.invalidate(ctx, conn.RequesterID, conn.RecipientID)
	return conn, nil
}

// Remove invalidates the pair after the deletion lands.
func (c *ConnectionCache) Remove(ctx context.Context, connectionID, userID int) (models.Connection, error) {
	conn, err := c.ConnectionRepository.Remove(ctx, connectionID, userID)
	if err != nil {
		return conn, err
	}
	c.invalidate(ctx, conn.RequesterID, conn.RecipientID)
	return conn, nil
}

func (c *ConnectionCache) invalidate(ctx context.Context, userA, userB int) {
	if err := c.store.Del(ctx, pairKey(userA, userB)); err != nil {
		log.Printf("connection cache invalidation failed: %v", err)
	}
}

func pairKey(a, b int) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("connected:%d:%d", a, b)
}
