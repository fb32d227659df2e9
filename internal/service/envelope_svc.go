package service

import (
	"time"

	"walmart_dev_v1_202608/internal/model"
)

// ==================== 服务实现 ====================

// EnvelopeService 草稿 -> 下游提交信封的纯转换
// 调用约定：只能在确认零 Error 之后由编排器调用；
// 对无效草稿调用属于编程错误，不在运行时上报
type EnvelopeService struct {
	specVersion string
	locale      string
}

func NewEnvelopeService(specVersion string) *EnvelopeService {
	return &EnvelopeService{
		specVersion: specVersion,
		locale:      "en",
	}
}

// Build 构建信封（确定性转换，同一输入产出同一信封）
// 图片顺序：主图固定首位，附图保持输入顺序
func (s *EnvelopeService) Build(draft *model.ListingDraft, requestID string, feedDate time.Time) *model.ListingEnvelope {
	images := make([]string, 0, len(draft.Images))
	if main := draft.MainImage(); main != nil {
		images = append(images, main.URL)
	}
	for _, img := range draft.AdditionalImages() {
		images = append(images, img.URL)
	}

	identifiers := make([]model.ProductIdentifier, 0, len(draft.Identifiers))
	for _, id := range draft.Identifiers {
		identifiers = append(identifiers, model.ProductIdentifier{
			Type:  id.Kind,
			Value: id.Value,
		})
	}

	item := model.EnvelopeItem{
		Category: draft.Category,
		Offer: model.OfferSection{
			SKU: draft.SKU,
			Price: model.PriceSpec{
				Currency: "USD",
				Amount:   draft.Price,
			},
			MSRP:           draft.MSRP,
			ShippingWeight: draft.ShippingWeight,
			ProductTaxCode: draft.TaxCode,
		},
		Product: model.ProductSection{
			ProductName:      draft.Name,
			Brand:            draft.Brand,
			ShortDescription: draft.ShortDescription,
			LongDescription:  draft.LongDescription,
			ModelNumber:      draft.ModelNumber,
			Identifiers:      identifiers,
			Images:           images,
			KeyFeatures:      draft.KeyFeatures,
			// 类目自由属性原样折叠进 product 段
			Attributes: draft.Attributes,
		},
	}

	return &model.ListingEnvelope{
		Header: model.EnvelopeHeader{
			SpecVersion: s.specVersion,
			RequestID:   requestID,
			FeedDate:    feedDate,
			Locale:      s.locale,
		},
		Items: []model.EnvelopeItem{item},
	}
}
