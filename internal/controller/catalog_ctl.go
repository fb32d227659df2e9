package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"walmart_dev_v1_202608/internal/service"
)

// ==================== 控制器 ====================

// CatalogController 类目规则/分类树控制器
type CatalogController struct {
	schemaService *service.SchemaService
}

func NewCatalogController(schemaService *service.SchemaService) *CatalogController {
	return &CatalogController{schemaService: schemaService}
}

// ==================== API 方法 ====================

// GetSchema 获取类目规则（命中缓存则不走上游）
func (ctrl *CatalogController) GetSchema(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "category 不能为空",
		})
		return
	}
	version := c.Query("version")

	ctx := c.Request.Context()
	schema, err := ctrl.schemaService.GetSchema(ctx, category, version)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"code":    502,
			"message": "类目规则拉取失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    schema,
	})
}

// RefreshSchema 强制刷新类目规则（跳过缓存）
func (ctrl *CatalogController) RefreshSchema(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "category 不能为空",
		})
		return
	}
	version := c.Query("version")

	ctx := c.Request.Context()
	schema, err := ctrl.schemaService.RefreshSchema(ctx, category, version)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"code":    502,
			"message": "类目规则刷新失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "刷新成功",
		"data":    schema,
	})
}

// GetTaxonomy 获取分类树
func (ctrl *CatalogController) GetTaxonomy(c *gin.Context) {
	refresh := c.Query("refresh") == "true"

	ctx := c.Request.Context()
	taxonomy, err := ctrl.schemaService.GetTaxonomy(ctx, refresh)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"code":    502,
			"message": "分类树拉取失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    taxonomy,
	})
}
