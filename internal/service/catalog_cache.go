package service

import (
	"context"
	"encoding/json"
	"physics_edu_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const catalogCachePrefix = "catalog:"

// CatalogCache 目录只读数据缓存，客户端为 nil 时不缓存
type CatalogCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CatalogCache{Client: client, TTL: ttl}
}

func (c *CatalogCache) enabled() bool {
	return c != nil && c.Client != nil
}

// Get 命中时解码到 dest 并返回 true
func (c *CatalogCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if !c.enabled() {
		return false
	}
	raw, err := c.Client.Get(ctx, catalogCachePrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("catalog cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logger.Log.Warn("catalog cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CatalogCache) Set(ctx context.Context, key string, value interface{}) {
	if !c.enabled() {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, catalogCachePrefix+key, raw, c.TTL).Err(); err != nil {
		logger.Log.Warn("catalog cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate 清空全部目录缓存，后台修改目录后调用
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	iter := c.Client.Scan(ctx, 0, catalogCachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn("catalog cache scan failed", zap.Error(err))
	}
	if len(keys) > 0 {
		c.Client.Del(ctx, keys...)
	}
}
