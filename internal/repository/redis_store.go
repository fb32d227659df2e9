package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"walmart_dev_v1_202608/internal/model"
)

// ==================== Redis 实现 ====================

// RedisCacheStore 共享缓存实现（多实例部署时使用）
// 物理过期时间设为逻辑 TTL 的两倍：逻辑新鲜度仍由引擎判定，
// 物理过期只是兜底清理，避免冷 key 永久占用内存
type RedisCacheStore struct {
	rdb         *redis.Client
	physicalTTL time.Duration
}

func NewRedisCacheStore(addr, password string, logicalTTL time.Duration) *RedisCacheStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &RedisCacheStore{
		rdb:        rdb,
		physicalTTL: 2 * logicalTTL,
	}
}

func (s *RedisCacheStore) Get(ctx context.Context, key string) (*model.CacheEntry, bool, error) {
	raw, err := s.rdb.Get(ctx, s.redisKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis 读取失败: %v", err)
	}

	var entry model.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// 脏数据视同未命中，下次 Put 会整体覆盖
		return nil, false, nil
	}
	return &entry, true, nil
}

func (s *RedisCacheStore) Put(ctx context.Context, key string, entry *model.CacheEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("缓存条目序列化失败: %v", err)
	}
	if err := s.rdb.Set(ctx, s.redisKey(key), raw, s.physicalTTL).Err(); err != nil {
		return fmt.Errorf("redis 写入失败: %v", err)
	}
	return nil
}

// Ping 启动时连通性检查
func (s *RedisCacheStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisCacheStore) redisKey(key string) string {
	return "preflight:cache:" + key
}
