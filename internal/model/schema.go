package model

import (
	"sort"
	"time"

	"gorm.io/datatypes"
)

// ==================== 类目规则 ====================

// AttributeDef 类目属性定义
type AttributeDef struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Required bool   `json:"required"`
}

// CategorySchema 规范化后的类目规则
// 上游可能以多种形态返回，解析边界处统一归一化为本类型，
// 之后的代码不再对形态做任何分支
type CategorySchema struct {
	Category string         `json:"category"`
	Version  string         `json:"version"`
	Attrs    []AttributeDef `json:"attributes"`

	// 去重排序后的必填属性名集合
	Required []string `json:"required"`
}

// IsRequired 属性是否必填
func (s *CategorySchema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// NormalizeRequired 去重并排序必填集合（保证序列化结果稳定）
func (s *CategorySchema) NormalizeRequired(names []string) {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	s.Required = out
}

// ==================== 分类树 ====================

// TaxonomyNode 分类树节点
type TaxonomyNode struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	ParentID   string `json:"parent_id"`
	Level      int    `json:"level"`
	FullPath   string `json:"full_path"` // 如 "Home > Bedding"
}

// Taxonomy 完整分类树（扁平节点列表）
type Taxonomy struct {
	Nodes []TaxonomyNode `json:"nodes"`
}

// ==================== 缓存条目 ====================

// CacheEntry 缓存条目：载荷 + 拉取时间
// 生命周期：miss/refresh 时创建，命中时只读，重拉时整体替换，从不原地修改
type CacheEntry struct {
	Data      []byte    `json:"data"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Age 条目年龄
func (e *CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

// ==================== 持久化缓存记录 ====================

// SchemaCacheRecord 持久化缓存表（gorm）
// key 形如 "schema:Electronics:5.0" 或 "taxonomy:all"
type SchemaCacheRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	CacheKey  string         `gorm:"size:255;uniqueIndex;not null;comment:缓存键"`
	Payload   datatypes.JSON `gorm:"comment:序列化载荷"`
	FetchedAt time.Time      `gorm:"index;comment:拉取时间"`
}

func (*SchemaCacheRecord) TableName() string {
	return "schema_cache_records"
}
