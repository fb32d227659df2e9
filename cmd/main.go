package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"walmart_dev_v1_202608/internal/config"
	"walmart_dev_v1_202608/internal/controller"
	"walmart_dev_v1_202608/internal/model"
	"walmart_dev_v1_202608/internal/repository"
	"walmart_dev_v1_202608/internal/router"
	"walmart_dev_v1_202608/internal/service"
	"walmart_dev_v1_202608/internal/task"
	"walmart_dev_v1_202608/pkg/database"
	"walmart_dev_v1_202608/pkg/ratelimit"
	"walmart_dev_v1_202608/pkg/walmart"
)

func main() {
	// 1. 加载配置
	cfg := config.Load()

	// 2. 初始化依赖
	deps := initDependencies(cfg)
	defer deps.Close()

	// 3. 启动定时任务
	initTasks(deps)

	// 4. 初始化路由
	r := gin.Default()
	router.InitRoutes(r, deps.PreflightCtl, deps.CatalogCtl)

	// 5. 启动服务
	startServer(cfg, r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	Config *config.Config
	DB     *gorm.DB

	Limiter    *ratelimit.Limiter
	CacheStore repository.CacheStore
	RecordRepo repository.PreflightRecordRepository
	Publisher  service.FeedPublisher

	SchemaService    *service.SchemaService
	PreflightService *service.PreflightService

	PreflightCtl *controller.PreflightController
	CatalogCtl   *controller.CatalogController
}

// Close 释放外部连接
func (d *Dependencies) Close() {
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			log.Printf("关闭下游投递通道失败: %v", err)
		}
	}
}

// ==================== 初始化函数 ====================

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config) *Dependencies {
	deps := &Dependencies{Config: cfg}

	// -------- 持久化层（可选） --------
	if cfg.DatabaseDSN != "" {
		deps.DB = database.InitDB(cfg.DatabaseDSN,
			&model.SchemaCacheRecord{},
			&model.PreflightRecord{},
		)
		deps.RecordRepo = repository.NewPreflightRecordRepository(deps.DB)
	}

	// -------- 缓存后端 --------
	// 优先级：Redis > 数据库缓存表 > 进程内存
	deps.CacheStore = initCacheStore(cfg, deps.DB)

	// -------- 限流器 --------
	deps.Limiter = ratelimit.New(cfg.RateLimits)

	// -------- 上游客户端 & 规则服务 --------
	client := walmart.NewClient(walmart.ClientConfig{
		BaseURL:     cfg.CatalogBaseURL,
		ServiceName: cfg.ServiceName,
		AccessToken: cfg.AccessToken,
		Timeout:     cfg.HTTPTimeout,
	})
	deps.SchemaService = service.NewSchemaService(deps.CacheStore, deps.Limiter, client, cfg)

	// -------- 预检编排 --------
	specVersion := ""
	if len(cfg.SchemaVersions) > 0 {
		specVersion = cfg.SchemaVersions[0]
	}
	deps.PreflightService = service.NewPreflightService(
		deps.SchemaService,
		service.NewImageService(cfg),
		service.NewIdentifierService(),
		service.NewPricingService(cfg),
		service.NewContentService(cfg),
		service.NewGatingService(cfg),
		service.NewVariantService(),
		service.NewEnvelopeService(specVersion),
	)
	if deps.RecordRepo != nil {
		deps.PreflightService.SetRecordRepository(deps.RecordRepo)
	}

	// -------- 下游投递（可选） --------
	if cfg.KafkaBroker != "" {
		deps.Publisher = service.NewKafkaFeedPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		deps.PreflightService.SetPublisher(deps.Publisher)
		log.Printf("下游投递已启用 (broker=%s topic=%s)", cfg.KafkaBroker, cfg.KafkaTopic)
	}

	// -------- Controller 层 --------
	deps.PreflightCtl = controller.NewPreflightController(
		deps.PreflightService, deps.RecordRepo, specVersion)
	deps.CatalogCtl = controller.NewCatalogController(deps.SchemaService)

	return deps
}

// initCacheStore 选择缓存后端
func initCacheStore(cfg *config.Config, db *gorm.DB) repository.CacheStore {
	if cfg.RedisAddr != "" {
		store := repository.NewRedisCacheStore(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			log.Printf("警告: Redis 连接失败，降级到其他缓存后端: %v", err)
		} else {
			log.Printf("缓存后端: Redis (%s)", cfg.RedisAddr)
			return store
		}
	}
	if db != nil {
		log.Println("缓存后端: 数据库缓存表")
		return repository.NewGormCacheStore(db)
	}
	log.Println("缓存后端: 进程内存")
	return repository.NewMemoryCacheStore()
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	// 类目数据保鲜：刷新分类树 + 预热热门类目规则
	warmCategories := make([]string, 0, len(deps.Config.PriceBands))
	for category := range deps.Config.PriceBands {
		warmCategories = append(warmCategories, category)
	}
	catalogTask := task.NewCatalogTask(deps.SchemaService, warmCategories)
	catalogTask.Start()

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(cfg *config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.APIHost + ":" + cfg.APIPort,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}
