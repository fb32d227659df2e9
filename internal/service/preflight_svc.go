package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"walmart_dev_v1_202608/internal/model"
	"walmart_dev_v1_202608/internal/repository"
)

// ==================== 外部服务依赖 ====================
// 做 I/O 的依赖走接口（可 mock），纯函数校验器直接持有具体类型

// SchemaProvider 类目规则提供方
type SchemaProvider interface {
	GetSchema(ctx context.Context, category, version string) (*model.CategorySchema, error)
}

// ImageChecker 图片校验方
type ImageChecker interface {
	ValidateSet(ctx context.Context, main *model.ImageRef, additional []model.ImageRef) []model.ValidationIssue
}

// ==================== 请求/编排 ====================

// PreflightRequest 一次预检调用的输入
type PreflightRequest struct {
	Draft    *model.ListingDraft
	Category string
	Version  string

	// 可选：变体族（为空则跳过变体规划）
	Family []model.VariantInput
}

// PreflightService 预检编排器
// 流程：Idle -> FetchingSchema -> Validating -> (BuildingEnvelope | Rejected) -> Done
// 各校验器彼此独立，结果只是问题列表的拼接，顺序不影响结论
type PreflightService struct {
	schema   SchemaProvider
	images   ImageChecker
	ids      *IdentifierService
	pricing  *PricingService
	content  *ContentService
	gating   *GatingService
	variants *VariantService
	envelope *EnvelopeService

	// 可选协作方（nil 时跳过）
	recordRepo repository.PreflightRecordRepository
	publisher  FeedPublisher

	now func() time.Time
}

// NewPreflightService 创建预检编排器
func NewPreflightService(
	schema SchemaProvider,
	images ImageChecker,
	ids *IdentifierService,
	pricing *PricingService,
	content *ContentService,
	gating *GatingService,
	variants *VariantService,
	envelope *EnvelopeService,
) *PreflightService {
	return &PreflightService{
		schema:   schema,
		images:   images,
		ids:      ids,
		pricing:  pricing,
		content:  content,
		gating:   gating,
		variants: variants,
		envelope: envelope,
		now:      time.Now,
	}
}

// SetRecordRepository 挂接审计仓库（可选）
func (s *PreflightService) SetRecordRepository(repo repository.PreflightRecordRepository) {
	s.recordRepo = repo
}

// SetPublisher 挂接下游投递方（可选）
func (s *PreflightService) SetPublisher(p FeedPublisher) {
	s.publisher = p
}

// ==================== 预检主流程 ====================

// Preflight 执行一次完整预检
// 基础设施故障（规则拉取失败等）转换为单条 Error 问题返回，不向外抛；
// 返回 error 仅表示调用方式错误（如 nil 草稿）
func (s *PreflightService) Preflight(ctx context.Context, req *PreflightRequest) (*model.PreflightResult, error) {
	if req == nil || req.Draft == nil {
		return nil, errors.New("预检请求缺少草稿")
	}

	start := s.now()
	requestID := uuid.NewString()
	draft := req.Draft

	// ---------- FetchingSchema ----------
	schema, err := s.schema.GetSchema(ctx, req.Category, req.Version)
	if err != nil {
		// 回退之后仍失败：直接 Rejected，单条 Error 描述上游故障
		issue := model.NewError("schema", fmt.Sprintf("类目规则不可用: %v", err))
		result := s.finalize(ctx, requestID, req, []model.ValidationIssue{issue}, start)
		return result, nil
	}

	// ---------- Validating ----------
	// 各校验器互不依赖，顺序执行与并行执行等价
	var issues []model.ValidationIssue
	issues = append(issues, s.ids.ValidateAll(draft.Identifiers)...)
	issues = append(issues, s.images.ValidateSet(ctx, draft.MainImage(), draft.AdditionalImages())...)
	issues = append(issues, s.pricing.Validate(draft.Price, draft.MSRP, req.Category)...)
	issues = append(issues, s.content.Validate(draft.Name, draft.LongDescription, draft.KeyFeatures)...)
	issues = append(issues, s.gating.Validate(req.Category, draft.Brand)...)
	issues = append(issues, s.checkSchemaAttributes(schema, draft)...)

	if len(req.Family) > 0 {
		plan := s.variants.Plan(req.Family)
		issues = append(issues, plan.Issues...)
		if plan.Axis != "" {
			matrix := s.variants.BuildMatrix(req.Family)
			issues = append(issues, s.variants.ValidateCompleteness(matrix)...)
		}
	}

	// ---------- BuildingEnvelope / Rejected ----------
	return s.finalize(ctx, requestID, req, issues, start), nil
}

// checkSchemaAttributes 动态规则检查：必填属性必须出现在草稿属性表中
func (s *PreflightService) checkSchemaAttributes(schema *model.CategorySchema, draft *model.ListingDraft) []model.ValidationIssue {
	var issues []model.ValidationIssue
	for _, name := range schema.Required {
		v, ok := draft.Attributes[name]
		if !ok || v == nil || v == "" {
			issues = append(issues, model.NewError("attributes."+name,
				fmt.Sprintf("类目 %q (规则 %s) 要求属性 %q", schema.Category, schema.Version, name)))
		}
	}
	return issues
}

// finalize 聚合问题、决定终态、构建信封、落审计、投下游
func (s *PreflightService) finalize(ctx context.Context, requestID string, req *PreflightRequest, issues []model.ValidationIssue, start time.Time) *model.PreflightResult {
	groups := model.PartitionIssues(issues)

	result := &model.PreflightResult{
		RequestID: requestID,
		Issues:    groups,
	}

	if len(groups.Errors) == 0 {
		result.OK = true
		result.Envelope = s.envelope.Build(req.Draft, requestID, s.now())

		if s.publisher != nil {
			if err := s.publisher.Publish(ctx, result.Envelope); err != nil {
				// 信封已经合法产出，投递失败不推翻预检结论
				log.Printf("[Preflight] 下游投递失败 (request=%s): %v", requestID, err)
				result.Issues.Warnings = append(result.Issues.Warnings,
					model.NewWarning("envelope", fmt.Sprintf("下游投递失败，请重试提交: %v", err)))
			}
		}
	}

	s.writeRecord(ctx, requestID, req, result, start)
	return result
}

// writeRecord 落审计记录（失败只记日志，不影响结果）
func (s *PreflightService) writeRecord(ctx context.Context, requestID string, req *PreflightRequest, result *model.PreflightResult, start time.Time) {
	if s.recordRepo == nil {
		return
	}

	verdict := model.VerdictRejected
	if result.OK {
		verdict = model.VerdictAccepted
	}

	issuesJSON, _ := json.Marshal(result.Issues)

	rec := &model.PreflightRecord{
		RequestID:    requestID,
		SKU:          req.Draft.SKU,
		Category:     req.Category,
		Version:      req.Version,
		Verdict:      verdict,
		ErrorCount:   len(result.Issues.Errors),
		WarningCount: len(result.Issues.Warnings),
		InfoCount:    len(result.Issues.Infos),
		Issues:       datatypes.JSON(issuesJSON),
		ElapsedMs:    s.now().Sub(start).Milliseconds(),
	}

	if err := s.recordRepo.Create(ctx, rec); err != nil {
		log.Printf("[Preflight] 审计记录写入失败 (request=%s): %v", requestID, err)
	}
}
