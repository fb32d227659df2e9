package service

import (
	"fmt"
	"strings"

	"walmart_dev_v1_202608/internal/config"
	"walmart_dev_v1_202608/internal/model"
)

// ==================== 服务实现 ====================

// GatingService 类目/品牌管控提示
// 表驱动：管控类目集合与常见品牌管控名单都来自配置
type GatingService struct {
	gatedCategories map[string]struct{}
	gatedBrands     []string
	suggestions     map[string]string
}

func NewGatingService(cfg *config.Config) *GatingService {
	categories := make(map[string]struct{}, len(cfg.GatedCategories))
	for _, c := range cfg.GatedCategories {
		categories[c] = struct{}{}
	}
	return &GatingService{
		gatedCategories: categories,
		gatedBrands:     cfg.GatedBrands,
		suggestions:     cfg.CategorySuggestions,
	}
}

// Validate 检查类目与品牌的管控状态
func (s *GatingService) Validate(category, brand string) []model.ValidationIssue {
	var issues []model.ValidationIssue

	if _, ok := s.gatedCategories[category]; ok {
		issues = append(issues, model.NewWarning("category",
			fmt.Sprintf("类目 %q 通常需要卖家级平台审批后才能上架", category)))
	}

	// 品牌管控：子串匹配（大小写不敏感），命中只给 Info，
	// 卖家账号可能已备案授权文档
	if brand != "" {
		lowerBrand := strings.ToLower(brand)
		for _, gated := range s.gatedBrands {
			if strings.Contains(lowerBrand, strings.ToLower(gated)) {
				issues = append(issues, model.NewInfo("brand",
					fmt.Sprintf("品牌 %q 命中管控名单 %q，可能需要在卖家账号提交授权文档", brand, gated)))
				break
			}
		}
	}

	if tip, ok := s.suggestions[category]; ok {
		issues = append(issues, model.NewInfo("category", tip))
	}

	return issues
}
