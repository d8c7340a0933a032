package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"story-server/internal/interfaces"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Compile-time check
var _ interfaces.LikeCountCache = (*redisLikeCountCache)(nil)

// redisLikeCountCache хранит счетчики лайков в Redis.
// Ключ: like_count:{storyID}.
type redisLikeCountCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisLikeCountCache creates a new Redis-backed LikeCountCache.
func NewRedisLikeCountCache(client *redis.Client, logger *zap.Logger) interfaces.LikeCountCache {
	return &redisLikeCountCache{
		client: client,
		logger: logger.Named("RedisLikeCountCache"),
	}
}

func likeCountKey(storyID uuid.UUID) string {
	return fmt.Sprintf("like_count:%s", storyID)
}

// Get возвращает закешированный счетчик. Промах кеша — не ошибка.
func (c *redisLikeCountCache) Get(ctx context.Context, storyID uuid.UUID) (int64, bool, error) {
	count, err := c.client.Get(ctx, likeCountKey(storyID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		c.logger.Error("Failed to read like count from cache", zap.String("storyID", storyID.String()), zap.Error(err))
		return 0, false, fmt.Errorf("failed to read like count: %w", err)
	}
	return count, true, nil
}

// Set записывает счетчик с TTL.
func (c *redisLikeCountCache) Set(ctx context.Context, storyID uuid.UUID, count int64, ttl time.Duration) error {
	if err := c.client.Set(ctx, likeCountKey(storyID), count, ttl).Err(); err != nil {
		c.logger.Error("Failed to cache like count", zap.String("storyID", storyID.String()), zap.Error(err))
		return fmt.Errorf("failed to cache like count: %w", err)
	}
	return nil
}

// Invalidate сбрасывает счетчик. Отсутствующий ключ — не ошибка.
func (c *redisLikeCountCache) Invalidate(ctx context.Context, storyID uuid.UUID) error {
	if err := c.client.Del(ctx, likeCountKey(storyID)).Err(); err != nil {
		c.logger.Error("Failed to invalidate like count", zap.String("storyID", storyID.String()), zap.Error(err))
		return fmt.Errorf("failed to invalidate like count: %w", err)
	}
	return nil
}
