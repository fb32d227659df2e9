package model

// ==================== 严重级别 ====================

// Severity 校验问题严重级别
type Severity string

const (
	SeverityError   Severity = "error"   // 阻断提交
	SeverityWarning Severity = "warning" // 建议修复，不阻断
	SeverityInfo    Severity = "info"    // 仅提示
)

// ==================== 校验问题 ====================

// ValidationIssue 单条校验问题（不可变值类型）
// Location 定位到草稿字段，如 "images.main"、"identifiers[0]"
type ValidationIssue struct {
	Location string   `json:"location"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// NewError 构造 Error 级问题
func NewError(location, message string) ValidationIssue {
	return ValidationIssue{Location: location, Message: message, Severity: SeverityError}
}

// NewWarning 构造 Warning 级问题
func NewWarning(location, message string) ValidationIssue {
	return ValidationIssue{Location: location, Message: message, Severity: SeverityWarning}
}

// NewInfo 构造 Info 级问题
func NewInfo(location, message string) ValidationIssue {
	return ValidationIssue{Location: location, Message: message, Severity: SeverityInfo}
}

// ==================== 分组与判定 ====================

// IssueGroups 按严重级别分组的问题列表
type IssueGroups struct {
	Errors   []ValidationIssue `json:"errors"`
	Warnings []ValidationIssue `json:"warnings"`
	Infos    []ValidationIssue `json:"info"`
}

// PartitionIssues 把平铺的问题列表按级别分组
func PartitionIssues(issues []ValidationIssue) IssueGroups {
	g := IssueGroups{
		Errors:   []ValidationIssue{},
		Warnings: []ValidationIssue{},
		Infos:    []ValidationIssue{},
	}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			g.Errors = append(g.Errors, issue)
		case SeverityWarning:
			g.Warnings = append(g.Warnings, issue)
		default:
			g.Infos = append(g.Infos, issue)
		}
	}
	return g
}

// HasBlockingError 是否存在阻断级问题
func HasBlockingError(issues []ValidationIssue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ==================== 预检结果 ====================

// PreflightResult 预检终态结果
// 不变式：Issues.Errors 非空时 Envelope 必为 nil
type PreflightResult struct {
	OK        bool             `json:"ok"`
	RequestID string           `json:"request_id"`
	Issues    IssueGroups      `json:"issues"`
	Envelope  *ListingEnvelope `json:"envelope"`
}
