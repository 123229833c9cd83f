package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL constants
const (
	TTLLoginCode = 3 * time.Minute  // SMS one-time codes
	TTLSession   = 30 * time.Minute // session metadata
	TTLDefault   = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixLoginCode = "logincode:"
	PrefixSession   = "session:"
	PrefixUser      = "user:"
)

// ErrNotFound is returned when a key is missing or expired
var ErrNotFound = errors.New("cache: key not found")

// Service is the injected TTL store. Backed by Redis so multiple API
// instances observe the same one-time codes and session state.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// One-time login codes, keyed by phone number
	SetLoginCode(ctx context.Context, phone, code string, ttl time.Duration) error
	GetLoginCode(ctx context.Context, phone string) (string, error)
	BurnLoginCode(ctx context.Context, phone string) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a Redis-backed cache service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrNotFound
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return err
	}

	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // no cache configured, skip silently
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

// ========================================
// One-time login codes
// ========================================

func (c *redisCache) codeKey(phone string) string {
	return PrefixLoginCode + phone
}

func (c *redisCache) SetLoginCode(ctx context.Context, phone, code string, ttl time.Duration) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}
	if ttl <= 0 {
		ttl = TTLLoginCode
	}
	return c.client.Set(ctx, c.codeKey(phone), code, ttl).Err()
}

func (c *redisCache) GetLoginCode(ctx context.Context, phone string) (string, error) {
	if c.client == nil {
		return "", ErrNotFound
	}
	code, err := c.client.Get(ctx, c.codeKey(phone)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return code, nil
}

func (c *redisCache) BurnLoginCode(ctx context.Context, phone string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.codeKey(phone)).Err()
}
