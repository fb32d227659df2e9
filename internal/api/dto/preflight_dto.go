package dto

import (
	"walmart_dev_v1_202608/internal/model"
)

// ==================== 请求 DTO ====================

// PreflightRequest 预检请求
type PreflightRequest struct {
	Category string `json:"category" binding:"required"`
	Version  string `json:"version"` // 为空时使用最新规则版本

	Draft *model.ListingDraft `json:"draft" binding:"required"`

	// 可选：变体族
	Family []model.VariantInput `json:"family,omitempty"`
}

// ==================== 响应 DTO ====================

// PreflightResponse 预检结果响应
type PreflightResponse struct {
	OK        bool                   `json:"ok"`
	RequestID string                 `json:"request_id"`
	Issues    model.IssueGroups      `json:"issues"`
	Envelope  *model.ListingEnvelope `json:"envelope,omitempty"`
}

// PreflightRecordResponse 审计记录响应项
type PreflightRecordResponse struct {
	RequestID    string `json:"request_id"`
	SKU          string `json:"sku"`
	Category     string `json:"category"`
	Version      string `json:"version"`
	Verdict      string `json:"verdict"`
	ErrorCount   int    `json:"error_count"`
	WarningCount int    `json:"warning_count"`
	InfoCount    int    `json:"info_count"`
	ElapsedMs    int64  `json:"elapsed_ms"`
	CreatedAt    string `json:"created_at"`
}

// FromRecord 审计记录转响应项
func FromRecord(rec *model.PreflightRecord) PreflightRecordResponse {
	return PreflightRecordResponse{
		RequestID:    rec.RequestID,
		SKU:          rec.SKU,
		Category:     rec.Category,
		Version:      rec.Version,
		Verdict:      rec.Verdict,
		ErrorCount:   rec.ErrorCount,
		WarningCount: rec.WarningCount,
		InfoCount:    rec.InfoCount,
		ElapsedMs:    rec.ElapsedMs,
		CreatedAt:    rec.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
