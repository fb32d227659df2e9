package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"walmart_dev_v1_202608/internal/model"
)

// ==================== 接口 ====================

// CacheStore 外部键值缓存协作方
// 引擎负责 TTL 判定与拉取/归一化/回退逻辑，存储只负责持久化
type CacheStore interface {
	// Get 读取条目；未命中返回 (nil, false, nil)
	Get(ctx context.Context, key string) (*model.CacheEntry, bool, error)

	// Put 整体替换条目（last-write-wins，从不部分更新）
	Put(ctx context.Context, key string, entry *model.CacheEntry) error
}

// ==================== 内存实现 ====================

// MemoryCacheStore 进程内缓存（sync.Map 保证并发安全）
// 无外部存储时的默认实现，也是测试的主力实现
type MemoryCacheStore struct {
	entries sync.Map // key -> *model.CacheEntry
}

func NewMemoryCacheStore() *MemoryCacheStore {
	return &MemoryCacheStore{}
}

func (s *MemoryCacheStore) Get(ctx context.Context, key string) (*model.CacheEntry, bool, error) {
	v, ok := s.entries.Load(key)
	if !ok {
		return nil, false, nil
	}
	return v.(*model.CacheEntry), true, nil
}

func (s *MemoryCacheStore) Put(ctx context.Context, key string, entry *model.CacheEntry) error {
	// 存入副本指针，条目本身不可变
	s.entries.Store(key, entry)
	return nil
}

// ==================== GORM 实现 ====================

// GormCacheStore 数据库缓存表实现
type GormCacheStore struct {
	db *gorm.DB
}

func NewGormCacheStore(db *gorm.DB) *GormCacheStore {
	return &GormCacheStore{db: db}
}

func (s *GormCacheStore) Get(ctx context.Context, key string) (*model.CacheEntry, bool, error) {
	var rec model.SchemaCacheRecord
	err := s.db.WithContext(ctx).Where("cache_key = ?", key).First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("读取缓存记录失败: %v", err)
	}

	return &model.CacheEntry{
		Data:      []byte(rec.Payload),
		FetchedAt: rec.FetchedAt,
	}, true, nil
}

func (s *GormCacheStore) Put(ctx context.Context, key string, entry *model.CacheEntry) error {
	rec := model.SchemaCacheRecord{
		CacheKey:  key,
		Payload:   datatypes.JSON(entry.Data),
		FetchedAt: entry.FetchedAt,
	}

	// cache_key 冲突时整行覆盖（last-write-wins）
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "fetched_at", "updated_at"}),
	}).Create(&rec).Error

	if err != nil {
		return fmt.Errorf("写入缓存记录失败: %v", err)
	}
	return nil
}

// ==================== 辅助 ====================

// IsFresh 条目是否仍在 TTL 窗口内
// 约定：超过 TTL 的条目视同不存在，绝不对外提供
func IsFresh(entry *model.CacheEntry, ttl time.Duration, now time.Time) bool {
	if entry == nil {
		return false
	}
	age := entry.Age(now)
	return age >= 0 && age < ttl
}
