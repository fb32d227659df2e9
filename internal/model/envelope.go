package model

import "time"

// ==================== 信封（下游提交管道的线上格式） ====================

// EnvelopeHeader 信封头
type EnvelopeHeader struct {
	SpecVersion string    `json:"version"`
	RequestID   string    `json:"requestId"`
	FeedDate    time.Time `json:"feedDate"`
	Locale      string    `json:"locale"`
}

// PriceSpec 价格
type PriceSpec struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// OfferSection 报价段
type OfferSection struct {
	SKU            string    `json:"sku"`
	Price          PriceSpec `json:"price"`
	MSRP           *float64  `json:"msrp,omitempty"`
	ShippingWeight float64   `json:"shippingWeight"`
	ProductTaxCode string    `json:"productTaxCode,omitempty"`
}

// ProductIdentifier 商品标识符
type ProductIdentifier struct {
	Type  string `json:"productIdType"`
	Value string `json:"productId"`
}

// ProductSection 商品信息段
// Images 有序：主图固定在首位，附图保持输入顺序
type ProductSection struct {
	ProductName      string              `json:"productName"`
	Brand            string              `json:"brand"`
	ShortDescription string              `json:"shortDescription,omitempty"`
	LongDescription  string              `json:"longDescription,omitempty"`
	ModelNumber      string              `json:"modelNumber,omitempty"`
	Identifiers      []ProductIdentifier `json:"productIdentifiers"`
	Images           []string            `json:"images"`
	KeyFeatures      []string            `json:"keyFeatures,omitempty"`

	// 类目自由属性，原样折叠
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// EnvelopeItem 单条商品记录
type EnvelopeItem struct {
	Category string         `json:"category"`
	Offer    OfferSection   `json:"offer"`
	Product  ProductSection `json:"product"`
}

// ListingEnvelope 最终信封
// 只有在问题列表中不存在任何 Error 时才会被构建
type ListingEnvelope struct {
	Header EnvelopeHeader `json:"header"`
	Items  []EnvelopeItem `json:"items"`
}
