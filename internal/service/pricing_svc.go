package service

import (
	"fmt"

	"walmart_dev_v1_202608/internal/config"
	"walmart_dev_v1_202608/internal/model"
)

// ==================== 服务实现 ====================

// PricingService 价格合理性校验
// 区间表是建议值不是硬限制：超出只产生 Warning
type PricingService struct {
	highValue float64
	bands     map[string]config.PriceBand
}

func NewPricingService(cfg *config.Config) *PricingService {
	return &PricingService{
		highValue: cfg.HighPriceThreshold,
		bands:     cfg.PriceBands,
	}
}

// Validate 校验价格
func (s *PricingService) Validate(price float64, msrp *float64, category string) []model.ValidationIssue {
	var issues []model.ValidationIssue

	if price <= 0 {
		issues = append(issues, model.NewError("price", fmt.Sprintf("价格必须为正数，当前 %.2f", price)))
		return issues
	}

	if price > s.highValue {
		issues = append(issues, model.NewWarning("price",
			fmt.Sprintf("价格 %.2f 超过高价阈值 %.0f，建议人工复核", price, s.highValue)))
	}

	// 定价高于 MSRP 会影响下游促销资格
	if msrp != nil && price > *msrp {
		issues = append(issues, model.NewWarning("price",
			fmt.Sprintf("价格 %.2f 高于 MSRP %.2f，可能失去促销资格", price, *msrp)))
	}

	if band, ok := s.bands[category]; ok {
		if price < band.Min || price > band.Max {
			issues = append(issues, model.NewWarning("price",
				fmt.Sprintf("价格 %.2f 超出类目 %q 的建议区间 [%.2f, %.2f]",
					price, category, band.Min, band.Max)))
		}
	}

	return issues
}
