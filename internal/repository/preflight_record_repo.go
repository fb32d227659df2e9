package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"walmart_dev_v1_202608/internal/model"
)

// ==================== 接口 ====================

// PreflightRecordRepository 预检审计记录仓库
type PreflightRecordRepository interface {
	Create(ctx context.Context, rec *model.PreflightRecord) error
	GetByRequestID(ctx context.Context, requestID string) (*model.PreflightRecord, error)
	ListBySKU(ctx context.Context, sku string, limit int) ([]model.PreflightRecord, error)
}

// ==================== 实现 ====================

type preflightRecordRepo struct {
	db *gorm.DB
}

func NewPreflightRecordRepository(db *gorm.DB) PreflightRecordRepository {
	return &preflightRecordRepo{db: db}
}

func (r *preflightRecordRepo) Create(ctx context.Context, rec *model.PreflightRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("创建预检记录失败: %v", err)
	}
	return nil
}

func (r *preflightRecordRepo) GetByRequestID(ctx context.Context, requestID string) (*model.PreflightRecord, error) {
	var rec model.PreflightRecord
	err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&rec).Error
	if err != nil {
		return nil, fmt.Errorf("预检记录不存在: %v", err)
	}
	return &rec, nil
}

func (r *preflightRecordRepo) ListBySKU(ctx context.Context, sku string, limit int) ([]model.PreflightRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var recs []model.PreflightRecord
	err := r.db.WithContext(ctx).
		Where("sku = ?", sku).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("查询预检记录失败: %v", err)
	}
	return recs, nil
}
