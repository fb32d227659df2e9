package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"walmart_dev_v1_202608/internal/controller"
)

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine,
	preflightCtl *controller.PreflightController,
	catalogCtl *controller.CatalogController) {
	// 健康检查
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API 路由组
	api := r.Group("/api")
	{
		// preflight 预检
		preflight := api.Group("/preflight")
		{
			// POST /api/preflight
			preflight.POST("", preflightCtl.RunPreflight)
			// GET /api/preflight/records?sku=xxx
			preflight.GET("/records", preflightCtl.ListPreflightRecords)
			// GET /api/preflight/records/:request_id
			preflight.GET("/records/:request_id", preflightCtl.GetPreflightRecord)
		}
		// catalog 类目规则与分类树
		catalog := api.Group("/catalog")
		{
			// GET /api/catalog/schema?category=xxx&version=5.0
			catalog.GET("/schema", catalogCtl.GetSchema)
			// POST /api/catalog/schema/refresh?category=xxx
			catalog.POST("/schema/refresh", catalogCtl.RefreshSchema)
			// GET /api/catalog/taxonomy
			catalog.GET("/taxonomy", catalogCtl.GetTaxonomy)
		}
	}
}
