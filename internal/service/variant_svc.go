package service

import (
	"fmt"
	"sort"

	"walmart_dev_v1_202608/internal/model"
)

// ==================== 类型 ====================

// matrixPlaceholderKey 单轴矩阵第二层的占位键
const matrixPlaceholderKey = "-"

// VariantPlan 变体规划结果
type VariantPlan struct {
	Axis   string                  `json:"axis"`
	Values []string                `json:"values"`
	Issues []model.ValidationIssue `json:"issues"`
}

// VariantMatrix 两级矩阵：主轴值 -> 次轴值 -> 成员
// 每次规划即时构建，不持久化
type VariantMatrix struct {
	PrimaryAxis   string
	SecondaryAxis string
	Cells         map[string]map[string]*model.VariantInput
}

// TwoAxis 是否为双轴矩阵
func (m *VariantMatrix) TwoAxis() bool {
	return m.SecondaryAxis != ""
}

// ==================== 服务实现 ====================

// VariantService 变体族规划与完整性校验（纯函数）
type VariantService struct{}

func NewVariantService() *VariantService {
	return &VariantService{}
}

// Plan 确定变体轴并校验成员完备性
// 轴选择策略：任一成员声明 color 则轴为 color；否则有 size 用 size；
// 否则报 Error（无可识别的变体属性）
func (s *VariantService) Plan(variants []model.VariantInput) *VariantPlan {
	plan := &VariantPlan{}

	if len(variants) == 0 {
		plan.Issues = append(plan.Issues, model.NewError("variants", "变体族为空"))
		return plan
	}

	plan.Axis = s.pickAxis(variants)
	if plan.Axis == "" {
		plan.Issues = append(plan.Issues, model.NewError("variants",
			"未找到可识别的变体属性（需要 color 或 size）"))
		return plan
	}

	seen := make(map[string]struct{})
	for i, v := range variants {
		location := fmt.Sprintf("variants[%d]", i)

		value := v.Attributes[plan.Axis]
		if value == "" {
			plan.Issues = append(plan.Issues, model.NewError(location,
				fmt.Sprintf("成员 %q 缺少变体轴 %q 的取值", v.SKU, plan.Axis)))
		} else if _, ok := seen[value]; !ok {
			seen[value] = struct{}{}
			plan.Values = append(plan.Values, value)
		}

		if !v.HasImageRole(model.ImageRoleMain) {
			plan.Issues = append(plan.Issues, model.NewError(location,
				fmt.Sprintf("成员 %q 缺少主图", v.SKU)))
		}

		// color 轴额外期待色板图；主图可以在视觉上替代，所以只是 Warning
		if plan.Axis == model.VariantAxisColor && !v.HasImageRole(model.ImageRoleSwatch) {
			plan.Issues = append(plan.Issues, model.NewWarning(location,
				fmt.Sprintf("成员 %q 缺少色板图 (swatch)", v.SKU)))
		}
	}

	sort.Strings(plan.Values)
	return plan
}

// BuildMatrix 构建变体矩阵
// 族内同时出现 color 和 size 时构建 color -> size 双轴矩阵，
// 否则单轴 + 占位次键
func (s *VariantService) BuildMatrix(variants []model.VariantInput) *VariantMatrix {
	hasColor, hasSize := false, false
	for _, v := range variants {
		if v.Attributes[model.VariantAxisColor] != "" {
			hasColor = true
		}
		if v.Attributes[model.VariantAxisSize] != "" {
			hasSize = true
		}
	}

	m := &VariantMatrix{Cells: make(map[string]map[string]*model.VariantInput)}

	switch {
	case hasColor && hasSize:
		m.PrimaryAxis = model.VariantAxisColor
		m.SecondaryAxis = model.VariantAxisSize
	case hasColor:
		m.PrimaryAxis = model.VariantAxisColor
	case hasSize:
		m.PrimaryAxis = model.VariantAxisSize
	default:
		return m
	}

	for i := range variants {
		v := &variants[i]
		primary := v.Attributes[m.PrimaryAxis]
		if primary == "" {
			continue
		}
		secondary := matrixPlaceholderKey
		if m.SecondaryAxis != "" {
			secondary = v.Attributes[m.SecondaryAxis]
			if secondary == "" {
				continue
			}
		}
		if m.Cells[primary] == nil {
			m.Cells[primary] = make(map[string]*model.VariantInput)
		}
		m.Cells[primary][secondary] = v
	}

	return m
}

// ValidateCompleteness 双轴矩阵完整性检查
// 观察到的全部次轴取值，要求每个主轴键下都存在；
// 缺失组合逐一给 Warning（不阻断残缺族的提交）
func (s *VariantService) ValidateCompleteness(m *VariantMatrix) []model.ValidationIssue {
	if m == nil || !m.TwoAxis() {
		return nil
	}

	// 收集全体次轴取值
	secondarySet := make(map[string]struct{})
	for _, row := range m.Cells {
		for secondary := range row {
			secondarySet[secondary] = struct{}{}
		}
	}
	secondaries := make([]string, 0, len(secondarySet))
	for secondary := range secondarySet {
		secondaries = append(secondaries, secondary)
	}
	sort.Strings(secondaries)

	primaries := make([]string, 0, len(m.Cells))
	for primary := range m.Cells {
		primaries = append(primaries, primary)
	}
	sort.Strings(primaries)

	var issues []model.ValidationIssue
	for _, primary := range primaries {
		for _, secondary := range secondaries {
			if _, ok := m.Cells[primary][secondary]; !ok {
				issues = append(issues, model.NewWarning("variants",
					fmt.Sprintf("变体族缺少组合 (%s=%s, %s=%s)",
						m.PrimaryAxis, primary, m.SecondaryAxis, secondary)))
			}
		}
	}
	return issues
}

func (s *VariantService) pickAxis(variants []model.VariantInput) string {
	for _, v := range variants {
		if v.Attributes[model.VariantAxisColor] != "" {
			return model.VariantAxisColor
		}
	}
	for _, v := range variants {
		if v.Attributes[model.VariantAxisSize] != "" {
			return model.VariantAxisSize
		}
	}
	return ""
}
