package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/story_service/constant"
	"github.com/Xushengqwer/story_service/models/entities"
	"github.com/Xushengqwer/story_service/myErrors"
)

// AchievementCache 定义了成就目录的缓存操作接口。
// - 目标: 评估引擎在每次内容操作后都会读取启用中的成就目录，
//   该目录变更极少，适合整体缓存，减轻数据库压力。
// - 一致性: 管理端对成就或勋章目录的任何写操作都必须调用 Invalidate。
type AchievementCache interface {
	// GetActive 获取缓存的启用中成就目录（含关联勋章）。
	// - 如果缓存未命中，返回 myErrors.ErrCacheMiss，上层服务需要处理回源。
	GetActive(ctx context.Context) ([]*entities.Achievement, error)

	// SetActive 将启用中成就目录整体写入缓存，带 TTL 兜底。
	SetActive(ctx context.Context, achievements []*entities.Achievement) error

	// Invalidate 删除成就目录缓存，下一次读取回源数据库。
	Invalidate(ctx context.Context) error
}

// achievementCacheImpl 是 AchievementCache 接口的 Redis 实现。
type achievementCacheImpl struct {
	redisClient *redis.Client
	logger      *core.ZapLogger
}

// NewAchievementCache 是 achievementCacheImpl 的构造函数。
func NewAchievementCache(redisClient *redis.Client, logger *core.ZapLogger) AchievementCache {
	return &achievementCacheImpl{
		redisClient: redisClient,
		logger:      logger,
	}
}

// GetActive 实现成就目录缓存的读取。
func (c *achievementCacheImpl) GetActive(ctx context.Context) ([]*entities.Achievement, error) {
	key := constant.ActiveAchievementsCacheKey

	jsonData, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.logger.Debug("成就目录缓存未命中", zap.String("key", key))
			return nil, myErrors.ErrCacheMiss
		}
		c.logger.Error("从 Redis 获取成就目录失败",
			zap.Error(err),
			zap.String("key", key),
		)
		return nil, fmt.Errorf("获取成就目录缓存 (key: %s) 失败: %w", key, err)
	}

	var achievements []*entities.Achievement
	if jsonErr := json.Unmarshal([]byte(jsonData), &achievements); jsonErr != nil {
		// 缓存数据损坏时主动删除，避免后续请求持续读到坏数据
		c.logger.Error("反序列化成就目录缓存数据失败，将删除该缓存",
			zap.Error(jsonErr),
			zap.String("key", key),
		)
		if delErr := c.redisClient.Del(ctx, key).Err(); delErr != nil {
			c.logger.Error("删除损坏的成就目录缓存失败", zap.Error(delErr), zap.String("key", key))
		}
		return nil, fmt.Errorf("解析成就目录缓存 (key: %s) 数据失败: %w", key, jsonErr)
	}

	c.logger.Debug("成功从 Redis 获取成就目录",
		zap.String("key", key),
		zap.Int("count", len(achievements)),
	)
	return achievements, nil
}

// SetActive 实现成就目录缓存的整体写入。
func (c *achievementCacheImpl) SetActive(ctx context.Context, achievements []*entities.Achievement) error {
	key := constant.ActiveAchievementsCacheKey

	jsonData, err := json.Marshal(achievements)
	if err != nil {
		c.logger.Error("序列化成就目录失败", zap.Error(err))
		return fmt.Errorf("序列化成就目录失败: %w", err)
	}

	if err := c.redisClient.Set(ctx, key, jsonData, constant.ActiveAchievementsCacheTTL).Err(); err != nil {
		c.logger.Error("写入成就目录缓存失败", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("写入成就目录缓存 (key: %s) 失败: %w", key, err)
	}

	c.logger.Debug("成功写入成就目录缓存",
		zap.String("key", key),
		zap.Int("count", len(achievements)),
	)
	return nil
}

// Invalidate 实现成就目录缓存的失效。
func (c *achievementCacheImpl) Invalidate(ctx context.Context) error {
	key := constant.ActiveAchievementsCacheKey
	if err := c.redisClient.Del(ctx, key).Err(); err != nil {
		c.logger.Error("删除成就目录缓存失败", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("删除成就目录缓存 (key: %s) 失败: %w", key, err)
	}
	c.logger.Info("成就目录缓存已失效", zap.String("key", key))
	return nil
}
