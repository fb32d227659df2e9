package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"walmart_dev_v1_202608/internal/service"
)

// CatalogTask 类目数据保鲜任务
// 定时刷新分类树并预热热门类目的规则缓存，
// 让白天的预检请求尽量命中缓存而不是现场拉取
type CatalogTask struct {
	SchemaService *service.SchemaService
	Cron          *cron.Cron

	// 预热的类目列表（为空则只刷新分类树）
	warmCategories []string
	// 相邻两次预热拉取的间隔，平滑波峰
	sleepTime time.Duration
}

func NewCatalogTask(schemaService *service.SchemaService, warmCategories []string) *CatalogTask {
	return &CatalogTask{
		SchemaService:  schemaService,
		Cron:           cron.New(cron.WithSeconds()), // 支持秒级控制
		warmCategories: warmCategories,
		sleepTime:      200 * time.Millisecond,
	}
}

// Start 启动定时任务
func (t *CatalogTask) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		log.Println("[Task] 服务启动，正在执行首次类目数据预热...")
		t.refreshJob(ctx)
	}()

	// 每 6 小时刷新一次，错开整点
	_, err := t.Cron.AddFunc("0 17 */6 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		t.refreshJob(ctx)
	})

	if err != nil {
		log.Fatalf("无法启动类目刷新定时任务: %v", err)
	}

	t.Cron.Start()
	log.Println("类目数据保鲜任务已启动 (每6小时刷新一次)")
}

// Stop 停止定时任务（等待在途执行结束）
func (t *CatalogTask) Stop() {
	ctx := t.Cron.Stop()
	<-ctx.Done()
	log.Println("类目数据保鲜任务已停止")
}

// refreshJob 刷新分类树并预热规则缓存
func (t *CatalogTask) refreshJob(ctx context.Context) {
	if _, err := t.SchemaService.GetTaxonomy(ctx, true); err != nil {
		// 日志仅记录，旧缓存继续服务
		log.Printf("[Cron] 分类树刷新失败: %v", err)
	} else {
		log.Println("[Cron] 分类树刷新完成")
	}

	for _, category := range t.warmCategories {
		select {
		case <-ctx.Done():
			log.Println("[Cron] 任务超时停止")
			return
		default:
		}

		// 预热走限流器排队，间隔拉开避免挤占在线请求的配额
		time.Sleep(t.sleepTime)

		if _, err := t.SchemaService.RefreshSchema(ctx, category, ""); err != nil {
			log.Printf("[Cron] 类目 [%s] 规则预热失败: %v", category, err)
		}
	}

	log.Printf("[Cron] 本轮类目数据刷新完成，预热类目数: %d", len(t.warmCategories))
}
