package service

import (
	"testing"

	"walmart_dev_v1_202608/internal/config"
	"walmart_dev_v1_202608/internal/model"
)

func newTestGatingService() *GatingService {
	return NewGatingService(&config.Config{
		GatedCategories: []string{"Jewelry", "Batteries"},
		GatedBrands:     []string{"nike", "lego"},
		CategorySuggestions: map[string]string{
			"Electronics": "建议补充质保信息",
		},
	})
}

func TestGating_Category(t *testing.T) {
	svc := newTestGatingService()

	issues := svc.Validate("Jewelry", "")
	if len(issues) != 1 || issues[0].Severity != model.SeverityWarning {
		t.Fatalf("管控类目应为 1 条 Warning: %+v", issues)
	}

	if issues := svc.Validate("Toys", ""); len(issues) != 0 {
		t.Fatalf("普通类目不应报: %+v", issues)
	}
}

func TestGating_BrandSubstring(t *testing.T) {
	svc := newTestGatingService()

	// 子串 + 大小写不敏感
	issues := svc.Validate("Toys", "LEGO Creator")
	if len(issues) != 1 || issues[0].Severity != model.SeverityInfo {
		t.Fatalf("品牌管控应为 1 条 Info: %+v", issues)
	}

	if issues := svc.Validate("Toys", "Generic Brand"); len(issues) != 0 {
		t.Fatalf("普通品牌不应报: %+v", issues)
	}
}

func TestGating_CategorySuggestion(t *testing.T) {
	svc := newTestGatingService()

	issues := svc.Validate("Electronics", "")
	if len(issues) != 1 || issues[0].Severity != model.SeverityInfo {
		t.Fatalf("类目建议应为 1 条 Info: %+v", issues)
	}
}
