package service

import (
	"reflect"
	"testing"
	"time"

	"walmart_dev_v1_202608/internal/model"
)

func envelopeTestDraft() *model.ListingDraft {
	msrp := 129.99
	return &model.ListingDraft{
		Category:        "Electronics",
		SchemaVersion:   "5.0",
		SKU:             "SKU-ENV-001",
		Brand:           "Acme",
		Name:            "Acme Wireless Noise Cancelling Headphones",
		ShortDescription: "轻量头戴式耳机",
		LongDescription: "主动降噪，40 小时续航，支持快充。",
		ModelNumber:     "AC-WH40",
		Price:           99.99,
		MSRP:            &msrp,
		ShippingWeight:  0.6,
		TaxCode:         "2038710",
		Identifiers: []model.Identifier{
			{Kind: "GTIN-12", Value: "036000291452"},
			{Kind: "GTIN-13", Value: "4006381333931"},
		},
		Images: []model.ImageRef{
			// 主图故意不放首位，信封构建必须把它排到第一
			{Role: model.ImageRoleAdditional, URL: "https://cdn.example.com/side.jpg"},
			{Role: model.ImageRoleMain, URL: "https://cdn.example.com/front.jpg"},
			{Role: model.ImageRoleAdditional, URL: "https://cdn.example.com/back.jpg"},
		},
		Attributes: map[string]interface{}{
			"color":       "Black",
			"screen_size": nil,
			"wireless":    true,
		},
		KeyFeatures: []string{"主动降噪", "40 小时续航"},
	}
}

func TestEnvelope_ImageOrderMainFirst(t *testing.T) {
	svc := NewEnvelopeService("MP_ITEM_SPEC_5.0")
	env := svc.Build(envelopeTestDraft(), "req-1", time.Now())

	images := env.Items[0].Product.Images
	want := []string{
		"https://cdn.example.com/front.jpg",
		"https://cdn.example.com/side.jpg",
		"https://cdn.example.com/back.jpg",
	}
	if !reflect.DeepEqual(images, want) {
		t.Fatalf("图片顺序应为主图优先+附图原序: %v", images)
	}
}

func TestEnvelope_FieldFidelity(t *testing.T) {
	svc := NewEnvelopeService("MP_ITEM_SPEC_5.0")
	feedDate := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	draft := envelopeTestDraft()

	env := svc.Build(draft, "req-fidelity", feedDate)

	if env.Header.SpecVersion != "MP_ITEM_SPEC_5.0" || env.Header.RequestID != "req-fidelity" {
		t.Fatalf("头部字段不符: %+v", env.Header)
	}
	if !env.Header.FeedDate.Equal(feedDate) || env.Header.Locale != "en" {
		t.Fatalf("头部字段不符: %+v", env.Header)
	}
	if len(env.Items) != 1 {
		t.Fatalf("单草稿应产出单条目: %d", len(env.Items))
	}

	item := env.Items[0]
	if item.Category != draft.Category || item.Offer.SKU != draft.SKU {
		t.Fatalf("条目字段不符: %+v", item)
	}
	if item.Offer.Price.Currency != "USD" || item.Offer.Price.Amount != draft.Price {
		t.Fatalf("价格字段不符: %+v", item.Offer.Price)
	}
	if item.Offer.MSRP == nil || *item.Offer.MSRP != *draft.MSRP {
		t.Fatalf("MSRP 丢失: %+v", item.Offer.MSRP)
	}

	// 识别码逐条映射，类型与值都不能丢
	if len(item.Product.Identifiers) != 2 {
		t.Fatalf("识别码数量不符: %+v", item.Product.Identifiers)
	}
	if item.Product.Identifiers[0].Type != "GTIN-12" || item.Product.Identifiers[0].Value != "036000291452" {
		t.Fatalf("识别码映射错误: %+v", item.Product.Identifiers[0])
	}

	// 类目自由属性原样折叠（含 nil 值）
	if !reflect.DeepEqual(item.Product.Attributes, draft.Attributes) {
		t.Fatalf("属性折叠不符: %+v", item.Product.Attributes)
	}
	if !reflect.DeepEqual(item.Product.KeyFeatures, draft.KeyFeatures) {
		t.Fatalf("卖点不符: %+v", item.Product.KeyFeatures)
	}
}

func TestEnvelope_Deterministic(t *testing.T) {
	svc := NewEnvelopeService("MP_ITEM_SPEC_5.0")
	feedDate := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	a := svc.Build(envelopeTestDraft(), "req-same", feedDate)
	b := svc.Build(envelopeTestDraft(), "req-same", feedDate)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("同一输入应产出字节等价的信封")
	}
}
