package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"botto/internal/domain/models"
)

const rosterKey = "users:roster"

type UserCache interface {
	GetRoster(ctx context.Context) ([]*models.User, error)
	SetRoster(ctx context.Context, users []*models.User) error
	DeleteRoster(ctx context.Context) error
}

type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisUserCache(redisURL, password string, db int, ttl time.Duration, logger *slog.Logger) (*RedisUserCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis")

	return &RedisUserCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (c *RedisUserCache) GetRoster(ctx context.Context) ([]*models.User, error) {
	data, err := c.client.Get(ctx, rosterKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			c.logger.Debug("Roster cache miss")

			return nil, nil
		}

		c.logger.Error("Failed to read roster from Redis",
			"error", err,
		)

		return nil, fmt.Errorf("failed to read roster from Redis: %w", err)
	}

	var users []*models.User
	if err := json.Unmarshal(data, &users); err != nil {
		c.logger.Error("Failed to decode roster from Redis",
			"error", err,
		)

		return nil, fmt.Errorf("failed to decode roster from Redis: %w", err)
	}

	c.logger.Debug("Roster served from cache",
		"count", len(users),
	)

	return users, nil
}

func (c *RedisUserCache) SetRoster(ctx context.Context, users []*models.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		c.logger.Error("Failed to encode roster for Redis",
			"error", err,
		)

		return fmt.Errorf("failed to encode roster for Redis: %w", err)
	}

	if err := c.client.Set(ctx, rosterKey, data, c.ttl).Err(); err != nil {
		c.logger.Error("Failed to store roster in Redis",
			"error", err,
		)

		return fmt.Errorf("failed to store roster in Redis: %w", err)
	}

	c.logger.Debug("Roster cached",
		"count", len(users),
		"ttl", c.ttl,
	)

	return nil
}

func (c *RedisUserCache) DeleteRoster(ctx context.Context) error {
	if err := c.client.Del(ctx, rosterKey).Err(); err != nil {
		c.logger.Error("Failed to invalidate roster cache",
			"error", err,
		)

		return fmt.Errorf("failed to invalidate roster cache: %w", err)
	}

	return nil
}

func (c *RedisUserCache) Close() error {
	return c.client.Close()
}
