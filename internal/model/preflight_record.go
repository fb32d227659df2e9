package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ==================== 预检审计记录 ====================

const (
	VerdictAccepted = "accepted"
	VerdictRejected = "rejected"
)

// PreflightRecord 每次预检落一条审计记录
// 用于回溯"为什么这个 SKU 被拒"以及修复-重提工作流
type PreflightRecord struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time      `gorm:"index"`
	UpdatedAt time.Time      `gorm:"index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`

	RequestID string `gorm:"size:64;uniqueIndex;comment:预检请求ID"`
	SKU       string `gorm:"size:128;index;comment:商品SKU"`
	Category  string `gorm:"size:128;index;comment:类目"`
	Version   string `gorm:"size:16;comment:规则版本"`

	Verdict      string `gorm:"size:16;index;comment:accepted/rejected"`
	ErrorCount   int    `gorm:"comment:Error数"`
	WarningCount int    `gorm:"comment:Warning数"`
	InfoCount    int    `gorm:"comment:Info数"`

	Issues datatypes.JSON `gorm:"comment:问题列表JSON"`

	ElapsedMs int64 `gorm:"comment:预检耗时毫秒"`
}

func (*PreflightRecord) TableName() string {
	return "preflight_records"
}
