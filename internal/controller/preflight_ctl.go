package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"walmart_dev_v1_202608/internal/api/dto"
	"walmart_dev_v1_202608/internal/repository"
	"walmart_dev_v1_202608/internal/service"
)

// ==================== 控制器 ====================

// PreflightController 预检控制器
type PreflightController struct {
	preflightService *service.PreflightService
	recordRepo       repository.PreflightRecordRepository
	defaultVersion   string
}

func NewPreflightController(
	preflightService *service.PreflightService,
	recordRepo repository.PreflightRecordRepository,
	defaultVersion string,
) *PreflightController {
	return &PreflightController{
		preflightService: preflightService,
		recordRepo:       recordRepo,
		defaultVersion:   defaultVersion,
	}
}

// ==================== API 方法 ====================

// RunPreflight 执行预检
// 预检结论（含 Rejected）都是 200，HTTP 错误码只表示调用本身出错
func (ctrl *PreflightController) RunPreflight(c *gin.Context) {
	var req dto.PreflightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	if req.Version == "" {
		req.Version = ctrl.defaultVersion
	}

	ctx := c.Request.Context()
	result, err := ctrl.preflightService.Preflight(ctx, &service.PreflightRequest{
		Draft:    req.Draft,
		Category: req.Category,
		Version:  req.Version,
		Family:   req.Family,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "预检失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": dto.PreflightResponse{
			OK:        result.OK,
			RequestID: result.RequestID,
			Issues:    result.Issues,
			Envelope:  result.Envelope,
		},
	})
}

// GetPreflightRecord 按请求 ID 查审计记录
func (ctrl *PreflightController) GetPreflightRecord(c *gin.Context) {
	requestID := c.Param("request_id")
	if requestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的请求ID",
		})
		return
	}

	if ctrl.recordRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    503,
			"message": "审计存储未启用",
		})
		return
	}

	ctx := c.Request.Context()
	rec, err := ctrl.recordRepo.GetByRequestID(ctx, requestID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    dto.FromRecord(rec),
	})
}

// ListPreflightRecords 按 SKU 查历史审计记录
func (ctrl *PreflightController) ListPreflightRecords(c *gin.Context) {
	sku := c.Query("sku")
	if sku == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "sku 不能为空",
		})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if ctrl.recordRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    503,
			"message": "审计存储未启用",
		})
		return
	}

	ctx := c.Request.Context()
	recs, err := ctrl.recordRepo.ListBySKU(ctx, sku, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "查询失败: " + err.Error(),
		})
		return
	}

	items := make([]dto.PreflightRecordResponse, 0, len(recs))
	for i := range recs {
		items = append(items, dto.FromRecord(&recs[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    items,
		"total":   len(items),
	})
}
