package walmart

import (
	"net/http"
	"strconv"
	"time"

	"walmart_dev_v1_202608/internal/model"
)

// ==================== 类目规则响应 ====================

// SchemaAttribute 形态 A：带 required 布尔的属性对象
type SchemaAttribute struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// SchemaResponse 上游类目规则文档
// 上游历史上存在三种形态：
//   A. attributes 列表，每项带 required 布尔
//   B. requiredAttributes 扁平名称列表
//   C. 两者同时存在
// 本结构是三种形态的并集，解析后立即调用 Normalize 归一化，
// 归一化之后不允许再对形态做分支
type SchemaResponse struct {
	Category string `json:"category"`
	Version  string `json:"version"`

	Attributes         []SchemaAttribute `json:"attributes"`
	RequiredAttributes []string          `json:"requiredAttributes"`
}

// Normalize 归一化为 model.CategorySchema
// 必填集合：形态 A 中 required=true 的属性名 ∪ 形态 B 的名称列表，去重
func (r *SchemaResponse) Normalize(category, version string) *model.CategorySchema {
	s := &model.CategorySchema{
		Category: category,
		Version:  version,
	}
	if r.Category != "" {
		s.Category = r.Category
	}
	if r.Version != "" {
		s.Version = r.Version
	}

	var required []string
	for _, attr := range r.Attributes {
		s.Attrs = append(s.Attrs, model.AttributeDef{
			Name:     attr.Name,
			Type:     attr.Type,
			Required: attr.Required,
		})
		if attr.Required {
			required = append(required, attr.Name)
		}
	}
	required = append(required, r.RequiredAttributes...)
	s.NormalizeRequired(required)

	return s
}

// ==================== 分类树响应 ====================

// TaxonomyNodeDTO 分类树节点
type TaxonomyNodeDTO struct {
	CategoryID string            `json:"categoryId"`
	Name       string            `json:"categoryName"`
	Children   []TaxonomyNodeDTO `json:"children,omitempty"`
}

// TaxonomyResponse 完整分类树
type TaxonomyResponse struct {
	Categories []TaxonomyNodeDTO `json:"categories"`
}

// ToModel 树形结构打平为节点列表，补全层级和全路径
func (r *TaxonomyResponse) ToModel() *model.Taxonomy {
	t := &model.Taxonomy{}
	var walk func(nodes []TaxonomyNodeDTO, parentID, parentPath string, level int)
	walk = func(nodes []TaxonomyNodeDTO, parentID, parentPath string, level int) {
		for _, n := range nodes {
			path := n.Name
			if parentPath != "" {
				path = parentPath + " > " + n.Name
			}
			t.Nodes = append(t.Nodes, model.TaxonomyNode{
				CategoryID: n.CategoryID,
				Name:       n.Name,
				ParentID:   parentID,
				Level:      level,
				FullPath:   path,
			})
			walk(n.Children, n.CategoryID, path, level+1)
		}
	}
	walk(r.Categories, "", "", 0)
	return t
}

// ==================== 配额响应头 ====================

const (
	headerRateRemaining = "X-RateLimit-Remaining"
	headerRateReset     = "X-RateLimit-Reset" // epoch 秒
)

// ParseQuotaHeaders 解析上游回报的剩余配额头
// 返回 ok=false 表示响应头缺失或无法解析
func ParseQuotaHeaders(h http.Header) (remaining float64, nextRefillAt time.Time, ok bool) {
	raw := h.Get(headerRateRemaining)
	if raw == "" {
		return 0, time.Time{}, false
	}
	remaining, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, time.Time{}, false
	}

	if resetRaw := h.Get(headerRateReset); resetRaw != "" {
		if epoch, err := strconv.ParseInt(resetRaw, 10, 64); err == nil {
			nextRefillAt = time.Unix(epoch, 0)
		}
	}
	return remaining, nextRefillAt, true
}
