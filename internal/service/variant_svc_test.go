package service

import (
	"strings"
	"testing"

	"walmart_dev_v1_202608/internal/model"
)

// ==================== 测试辅助 ====================

func variantWith(sku string, attrs map[string]string, roles ...string) model.VariantInput {
	var images []model.ImageRef
	for _, role := range roles {
		images = append(images, model.ImageRef{Role: role, URL: "https://cdn.example.com/" + sku + "-" + role + ".jpg"})
	}
	return model.VariantInput{SKU: sku, Attributes: attrs, Images: images}
}

// ==================== Plan ====================

func TestPlan_EmptyFamily(t *testing.T) {
	svc := NewVariantService()

	plan := svc.Plan(nil)
	if !model.HasBlockingError(plan.Issues) {
		t.Fatal("空变体族应产生 Error")
	}
}

func TestPlan_ColorTakesPriority(t *testing.T) {
	svc := NewVariantService()

	// 同时存在 color 与 size 时轴选 color
	plan := svc.Plan([]model.VariantInput{
		variantWith("A", map[string]string{"color": "Red", "size": "S"}, model.ImageRoleMain, model.ImageRoleSwatch),
		variantWith("B", map[string]string{"color": "Blue", "size": "S"}, model.ImageRoleMain, model.ImageRoleSwatch),
	})

	if plan.Axis != model.VariantAxisColor {
		t.Fatalf("轴应为 color，实际 %q", plan.Axis)
	}
	if len(plan.Values) != 2 {
		t.Fatalf("轴取值应为 2 个，实际 %v", plan.Values)
	}
	if model.HasBlockingError(plan.Issues) {
		t.Fatalf("完整成员不应有 Error: %+v", plan.Issues)
	}
}

func TestPlan_SizeFallback(t *testing.T) {
	svc := NewVariantService()

	plan := svc.Plan([]model.VariantInput{
		variantWith("A", map[string]string{"size": "S"}, model.ImageRoleMain),
		variantWith("B", map[string]string{"size": "M"}, model.ImageRoleMain),
	})

	if plan.Axis != model.VariantAxisSize {
		t.Fatalf("无 color 时轴应为 size，实际 %q", plan.Axis)
	}
}

func TestPlan_NoRecognizedAxis(t *testing.T) {
	svc := NewVariantService()

	plan := svc.Plan([]model.VariantInput{
		variantWith("A", map[string]string{"material": "wood"}, model.ImageRoleMain),
	})

	if plan.Axis != "" || !model.HasBlockingError(plan.Issues) {
		t.Fatal("无可识别轴应产生 Error")
	}
}

func TestPlan_MissingAxisValueAndMainImage(t *testing.T) {
	svc := NewVariantService()

	plan := svc.Plan([]model.VariantInput{
		variantWith("A", map[string]string{"color": "Red"}, model.ImageRoleMain, model.ImageRoleSwatch),
		variantWith("B", map[string]string{}), // 缺轴值也缺主图
	})

	errCount := 0
	for _, issue := range plan.Issues {
		if issue.Severity == model.SeverityError {
			errCount++
		}
	}
	// B 缺轴值 1 条 + 缺主图 1 条
	if errCount != 2 {
		t.Fatalf("期望 2 条 Error，实际 %d: %+v", errCount, plan.Issues)
	}
}

func TestPlan_SwatchOnlyWarning(t *testing.T) {
	svc := NewVariantService()

	plan := svc.Plan([]model.VariantInput{
		variantWith("A", map[string]string{"color": "Red"}, model.ImageRoleMain), // 无 swatch
	})

	if model.HasBlockingError(plan.Issues) {
		t.Fatalf("缺色板图只应是 Warning: %+v", plan.Issues)
	}
	found := false
	for _, issue := range plan.Issues {
		if issue.Severity == model.SeverityWarning && strings.Contains(issue.Message, "swatch") {
			found = true
		}
	}
	if !found {
		t.Fatalf("应有缺少色板图的 Warning: %+v", plan.Issues)
	}
}

// ==================== BuildMatrix ====================

func TestBuildMatrix_TwoAxis(t *testing.T) {
	svc := NewVariantService()

	m := svc.BuildMatrix([]model.VariantInput{
		variantWith("A", map[string]string{"color": "Red", "size": "S"}, model.ImageRoleMain),
		variantWith("B", map[string]string{"color": "Red", "size": "M"}, model.ImageRoleMain),
		variantWith("C", map[string]string{"color": "Blue", "size": "S"}, model.ImageRoleMain),
	})

	if !m.TwoAxis() {
		t.Fatal("同时声明 color/size 应构建双轴矩阵")
	}
	if m.Cells["Red"]["M"] == nil || m.Cells["Red"]["M"].SKU != "B" {
		t.Fatal("矩阵单元定位错误")
	}
	// 不变式：矩阵不包含输入之外的组合
	if m.Cells["Blue"]["M"] != nil {
		t.Fatal("矩阵不应包含输入中不存在的组合")
	}
}

func TestBuildMatrix_SingleAxisPlaceholder(t *testing.T) {
	svc := NewVariantService()

	m := svc.BuildMatrix([]model.VariantInput{
		variantWith("A", map[string]string{"size": "S"}, model.ImageRoleMain),
	})

	if m.TwoAxis() {
		t.Fatal("单轴族不应是双轴矩阵")
	}
	if m.Cells["S"][matrixPlaceholderKey] == nil {
		t.Fatal("单轴矩阵第二层应使用占位键")
	}
}

// ==================== 完整性 ====================

func TestValidateCompleteness_ExactlyOneMissing(t *testing.T) {
	svc := NewVariantService()

	// Red: S/M, Blue: S/M/L -> 缺 (Red, L) 一个组合
	m := svc.BuildMatrix([]model.VariantInput{
		variantWith("A", map[string]string{"color": "Red", "size": "S"}, model.ImageRoleMain),
		variantWith("B", map[string]string{"color": "Red", "size": "M"}, model.ImageRoleMain),
		variantWith("C", map[string]string{"color": "Blue", "size": "S"}, model.ImageRoleMain),
		variantWith("D", map[string]string{"color": "Blue", "size": "M"}, model.ImageRoleMain),
		variantWith("E", map[string]string{"color": "Blue", "size": "L"}, model.ImageRoleMain),
	})

	issues := svc.ValidateCompleteness(m)
	if len(issues) != 1 {
		t.Fatalf("应恰好报 1 个缺失组合，实际 %d: %+v", len(issues), issues)
	}
	if issues[0].Severity != model.SeverityWarning {
		t.Fatal("缺失组合应为 Warning，不阻断提交")
	}
	if !strings.Contains(issues[0].Message, "Red") || !strings.Contains(issues[0].Message, "L") {
		t.Fatalf("Warning 应点名缺失组合 (Red, L): %s", issues[0].Message)
	}
}

func TestValidateCompleteness_FullMatrix(t *testing.T) {
	svc := NewVariantService()

	m := svc.BuildMatrix([]model.VariantInput{
		variantWith("A", map[string]string{"color": "Red", "size": "S"}, model.ImageRoleMain),
		variantWith("B", map[string]string{"color": "Red", "size": "M"}, model.ImageRoleMain),
		variantWith("C", map[string]string{"color": "Blue", "size": "S"}, model.ImageRoleMain),
		variantWith("D", map[string]string{"color": "Blue", "size": "M"}, model.ImageRoleMain),
	})

	if issues := svc.ValidateCompleteness(m); len(issues) != 0 {
		t.Fatalf("完整矩阵不应有缺失组合: %+v", issues)
	}
}

func TestValidateCompleteness_SingleAxisSkipped(t *testing.T) {
	svc := NewVariantService()

	m := svc.BuildMatrix([]model.VariantInput{
		variantWith("A", map[string]string{"size": "S"}, model.ImageRoleMain),
		variantWith("B", map[string]string{"size": "M"}, model.ImageRoleMain),
	})

	if issues := svc.ValidateCompleteness(m); issues != nil {
		t.Fatalf("单轴矩阵不做完整性检查: %+v", issues)
	}
}
