package service

import (
	"fmt"

	"walmart_dev_v1_202608/internal/model"
)

// ==================== 分类 ====================

// GTINKind 标识符分类
type GTINKind string

const (
	GTIN8       GTINKind = "GTIN-8"
	GTIN12      GTINKind = "GTIN-12"
	GTIN13      GTINKind = "GTIN-13"
	GTIN14      GTINKind = "GTIN-14"
	GTINUnknown GTINKind = ""
)

// ==================== 服务实现 ====================

// IdentifierService 商品标识符校验（纯函数，无外部依赖）
type IdentifierService struct{}

func NewIdentifierService() *IdentifierService {
	return &IdentifierService{}
}

// Classify 按长度分类（仅 8/12/13/14 位纯数字可分类）
func (s *IdentifierService) Classify(value string) GTINKind {
	if !isAllDigits(value) {
		return GTINUnknown
	}
	switch len(value) {
	case 8:
		return GTIN8
	case 12:
		return GTIN12
	case 13:
		return GTIN13
	case 14:
		return GTIN14
	default:
		return GTINUnknown
	}
}

// IsValidChecksum GS1 mod-10 校验位算法
// 从校验位（最右）左侧第一位开始，向左交替乘 3、乘 1 求和，
// 校验位须等于 (10 - sum mod 10) mod 10
func (s *IdentifierService) IsValidChecksum(value string) bool {
	if len(value) < 2 || !isAllDigits(value) {
		return false
	}

	checkDigit := int(value[len(value)-1] - '0')

	sum := 0
	weight := 3
	for i := len(value) - 2; i >= 0; i-- {
		sum += int(value[i]-'0') * weight
		if weight == 3 {
			weight = 1
		} else {
			weight = 3
		}
	}

	return checkDigit == (10-sum%10)%10
}

// ValidateAll 校验整组标识符
// 至少要有一个标识符（Error）；无法分类或校验位不符只给 Warning，
// 部分类目允许以卖家自定义 SKU 作为唯一标识
func (s *IdentifierService) ValidateAll(identifiers []model.Identifier) []model.ValidationIssue {
	var issues []model.ValidationIssue

	if len(identifiers) == 0 {
		issues = append(issues, model.NewError("identifiers", "至少需要一个商品标识符"))
		return issues
	}

	for i, id := range identifiers {
		location := fmt.Sprintf("identifiers[%d]", i)

		kind := s.Classify(id.Value)
		if kind == GTINUnknown {
			issues = append(issues, model.NewWarning(location,
				fmt.Sprintf("标识符 %q 无法按长度分类（需 8/12/13/14 位纯数字）", id.Value)))
			continue
		}

		if !s.IsValidChecksum(id.Value) {
			issues = append(issues, model.NewWarning(location,
				fmt.Sprintf("%s 标识符 %q 校验位不符", kind, id.Value)))
		}
	}

	return issues
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
