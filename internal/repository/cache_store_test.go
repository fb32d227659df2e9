package repository

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"walmart_dev_v1_202608/internal/model"
)

func setupCacheTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(&model.SchemaCacheRecord{})
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	return db
}

// runCacheStoreSuite 两个实现共用同一行为契约
func runCacheStoreSuite(t *testing.T, store CacheStore) {
	ctx := context.Background()
	fetchedAt := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)

	// 未命中
	entry, ok, err := store.Get(ctx, "schema:Electronics:5.0")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok || entry != nil {
		t.Fatal("空存储不应命中")
	}

	// 写入后命中
	err = store.Put(ctx, "schema:Electronics:5.0", &model.CacheEntry{
		Data:      []byte(`{"category":"Electronics","version":"5.0"}`),
		FetchedAt: fetchedAt,
	})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	entry, ok, err = store.Get(ctx, "schema:Electronics:5.0")
	if err != nil || !ok {
		t.Fatalf("写入后应命中: ok=%v err=%v", ok, err)
	}
	if string(entry.Data) != `{"category":"Electronics","version":"5.0"}` {
		t.Fatalf("载荷不符: %s", entry.Data)
	}
	if !entry.FetchedAt.Equal(fetchedAt) {
		t.Fatalf("拉取时间不符: %v", entry.FetchedAt)
	}

	// 同键重写整体覆盖（last-write-wins）
	later := fetchedAt.Add(2 * time.Hour)
	err = store.Put(ctx, "schema:Electronics:5.0", &model.CacheEntry{
		Data:      []byte(`{"category":"Electronics","version":"5.0","rev":2}`),
		FetchedAt: later,
	})
	if err != nil {
		t.Fatalf("重写 Put() error = %v", err)
	}

	entry, ok, _ = store.Get(ctx, "schema:Electronics:5.0")
	if !ok || !entry.FetchedAt.Equal(later) {
		t.Fatalf("重写后应读到新条目: %+v", entry)
	}

	// 不同键互不影响
	_, ok, _ = store.Get(ctx, "schema:Clothing:5.0")
	if ok {
		t.Fatal("未写入的键不应命中")
	}
}

func TestMemoryCacheStore(t *testing.T) {
	runCacheStoreSuite(t, NewMemoryCacheStore())
}

func TestGormCacheStore(t *testing.T) {
	runCacheStoreSuite(t, NewGormCacheStore(setupCacheTestDB(t)))
}

func TestGormCacheStore_SingleRowPerKey(t *testing.T) {
	db := setupCacheTestDB(t)
	store := NewGormCacheStore(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := store.Put(ctx, "schema:Home:4.2", &model.CacheEntry{
			Data:      []byte(`{}`),
			FetchedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	var count int64
	db.Model(&model.SchemaCacheRecord{}).Where("cache_key = ?", "schema:Home:4.2").Count(&count)
	if count != 1 {
		t.Fatalf("同键多次写入应只保留一行: %d", count)
	}
}

func TestIsFresh(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	ttl := 24 * time.Hour

	cases := []struct {
		name  string
		entry *model.CacheEntry
		want  bool
	}{
		{"nil 条目", nil, false},
		{"TTL 内", &model.CacheEntry{FetchedAt: now.Add(-23 * time.Hour)}, true},
		{"刚好到期", &model.CacheEntry{FetchedAt: now.Add(-24 * time.Hour)}, false},
		{"已过期", &model.CacheEntry{FetchedAt: now.Add(-25 * time.Hour)}, false},
		{"时钟回拨", &model.CacheEntry{FetchedAt: now.Add(time.Hour)}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsFresh(c.entry, ttl, now); got != c.want {
				t.Fatalf("IsFresh() = %v, want %v", got, c.want)
			}
		})
	}
}
