package model

// ==================== 常量 ====================

const (
	// 图片角色
	ImageRoleMain       = "main"
	ImageRoleAdditional = "additional"
	ImageRoleSwatch     = "swatch"

	// 变体轴
	VariantAxisColor = "color"
	VariantAxisSize  = "size"
)

// ==================== 输入类型 ====================

// Identifier 商品标识符（GTIN 系列或卖家自定义）
type Identifier struct {
	Kind  string `json:"kind"`  // GTIN / UPC / EAN / ISBN / SKU 等
	Value string `json:"value"`
}

// ImageRef 图片引用
type ImageRef struct {
	Role string `json:"role"` // main / additional / swatch
	URL  string `json:"url"`
}

// ListingDraft 候选 Listing 草稿
// 由调用方持有，预检过程中引擎只读不写
type ListingDraft struct {
	Category      string `json:"category"`
	SchemaVersion string `json:"schema_version"`
	SKU           string `json:"sku"`

	Identifiers []Identifier `json:"identifiers"`

	Brand            string `json:"brand"`
	Name             string `json:"name"`
	ShortDescription string `json:"short_description"`
	LongDescription  string `json:"long_description"`
	ModelNumber      string `json:"model_number"`

	Price          float64  `json:"price"`
	MSRP           *float64 `json:"msrp,omitempty"`
	ShippingWeight float64  `json:"shipping_weight"`
	TaxCode        string   `json:"tax_code"`

	Images []ImageRef `json:"images"`

	// 类目相关自由属性，最终原样折叠进信封 product 段
	Attributes map[string]interface{} `json:"attributes"`

	// 卖点列表 (bullets)
	KeyFeatures []string `json:"key_features"`
}

// MainImage 取主图（无主图返回 nil）
func (d *ListingDraft) MainImage() *ImageRef {
	for i := range d.Images {
		if d.Images[i].Role == ImageRoleMain {
			return &d.Images[i]
		}
	}
	return nil
}

// AdditionalImages 取附图（保持输入顺序）
func (d *ListingDraft) AdditionalImages() []ImageRef {
	var out []ImageRef
	for _, img := range d.Images {
		if img.Role == ImageRoleAdditional {
			out = append(out, img)
		}
	}
	return out
}

// ==================== 变体 ====================

// VariantInput 变体族中的一个成员
type VariantInput struct {
	SKU        string            `json:"sku"`
	Attributes map[string]string `json:"attributes"` // color / size 等
	Images     []ImageRef        `json:"images"`
}

// HasImageRole 成员是否带有指定角色的图片
func (v *VariantInput) HasImageRole(role string) bool {
	for _, img := range v.Images {
		if img.Role == role {
			return true
		}
	}
	return false
}
