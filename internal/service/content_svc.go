package service

import (
	"fmt"
	"regexp"
	"strings"

	"walmart_dev_v1_202608/internal/config"
	"walmart_dev_v1_202608/internal/model"
)

// ==================== 长度边界 ====================

const (
	titleMinLen        = 20
	titleMaxLen        = 200
	descriptionMaxLen  = 4000
	descriptionSoftMin = 50
	bulletSoftMinLen   = 10
	bulletMaxLen       = 255
)

// ==================== 可疑格式 ====================

var (
	// 连续 5 个以上大写字母
	upperRunPattern = regexp.MustCompile(`[A-Z]{5,}`)
	// 重复的 ! 或 $
	repeatPunctPattern = regexp.MustCompile(`(!{2,}|\${2,})`)
	// 非 ASCII 字符
	nonASCIIPattern = regexp.MustCompile(`[^\x00-\x7F]`)
	// 内嵌 URL
	embeddedURLPattern = regexp.MustCompile(`(?i)(https?://|www\.)`)
)

// ==================== 服务实现 ====================

// ContentService 标题/描述/卖点的内容质量启发式检查
// 违禁词表是配置数据（促销最高级词、竞品平台名、健康声明）
type ContentService struct {
	bannedTerms []string
}

func NewContentService(cfg *config.Config) *ContentService {
	return &ContentService{bannedTerms: cfg.BannedTerms}
}

// Validate 校验标题、描述与卖点列表
func (s *ContentService) Validate(title, description string, bullets []string) []model.ValidationIssue {
	var issues []model.ValidationIssue

	// 标题长度是硬性要求
	if n := len([]rune(title)); n < titleMinLen || n > titleMaxLen {
		issues = append(issues, model.NewError("title",
			fmt.Sprintf("标题长度 %d 超出 [%d, %d] 范围", n, titleMinLen, titleMaxLen)))
	}

	if n := len([]rune(description)); n > descriptionMaxLen {
		issues = append(issues, model.NewError("description",
			fmt.Sprintf("描述长度 %d 超过上限 %d", n, descriptionMaxLen)))
	} else if n > 0 && n < descriptionSoftMin {
		issues = append(issues, model.NewWarning("description",
			fmt.Sprintf("描述仅 %d 字符，建议不少于 %d", n, descriptionSoftMin)))
	}

	for i, bullet := range bullets {
		location := fmt.Sprintf("key_features[%d]", i)
		n := len([]rune(bullet))
		if n > bulletMaxLen {
			issues = append(issues, model.NewError(location,
				fmt.Sprintf("卖点长度 %d 超过上限 %d", n, bulletMaxLen)))
		} else if n < bulletSoftMinLen {
			issues = append(issues, model.NewWarning(location,
				fmt.Sprintf("卖点仅 %d 字符，信息量不足", n)))
		}
	}

	issues = append(issues, s.checkBannedTerms("title", title)...)
	issues = append(issues, s.checkBannedTerms("description", description)...)

	issues = append(issues, s.checkSuspiciousFormat(title)...)

	return issues
}

// checkBannedTerms 违禁词：大小写不敏感的子串匹配
func (s *ContentService) checkBannedTerms(location, text string) []model.ValidationIssue {
	if text == "" {
		return nil
	}
	var issues []model.ValidationIssue
	lower := strings.ToLower(text)
	for _, term := range s.bannedTerms {
		if strings.Contains(lower, strings.ToLower(term)) {
			issues = append(issues, model.NewWarning(location,
				fmt.Sprintf("包含违禁词 %q", term)))
		}
	}
	return issues
}

// checkSuspiciousFormat 标题可疑格式检查
func (s *ContentService) checkSuspiciousFormat(title string) []model.ValidationIssue {
	var issues []model.ValidationIssue

	if upperRunPattern.MatchString(title) {
		issues = append(issues, model.NewWarning("title", "标题包含连续大写字母段"))
	}
	if repeatPunctPattern.MatchString(title) {
		issues = append(issues, model.NewWarning("title", "标题包含重复的 ! 或 $ 符号"))
	}
	if nonASCIIPattern.MatchString(title) {
		issues = append(issues, model.NewWarning("title", "标题包含非 ASCII 字符"))
	}
	if embeddedURLPattern.MatchString(title) {
		issues = append(issues, model.NewWarning("title", "标题内嵌 URL"))
	}

	return issues
}
