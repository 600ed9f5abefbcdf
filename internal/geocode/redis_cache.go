package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"busmap.londonbus.dev/internal/models"
)

const redisKeyPrefix = "busmap:geocode:"

// RedisCache shares lookups between several busmap processes.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to addr and verifies the connection with a PING.
func NewRedisCache(ctx context.Context, addr, password string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, query string) (models.Coordinate, bool, error) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+query).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Coordinate{}, false, nil
	}
	if err != nil {
		return models.Coordinate{}, false, fmt.Errorf("failed to read geocode cache: %w", err)
	}

	var coord models.Coordinate
	if err := json.Unmarshal(raw, &coord); err != nil {
		return models.Coordinate{}, false, fmt.Errorf("corrupt geocode cache entry for %q: %w", query, err)
	}
	return coord, true, nil
}

func (c *RedisCache) Put(ctx context.Context, query string, coord models.Coordinate) error {
	raw, err := json.Marshal(coord)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, redisKeyPrefix+query, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write geocode cache: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
