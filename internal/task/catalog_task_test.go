package task

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"

	"walmart_dev_v1_202608/internal/config"
	"walmart_dev_v1_202608/internal/repository"
	"walmart_dev_v1_202608/internal/service"
	"walmart_dev_v1_202608/pkg/ratelimit"
)

// ==================== 辅助函数 ====================

type catalogTaskEnv struct {
	task          *CatalogTask
	schemaService *service.SchemaService
	schemaCalls   *int32
	taxonomyCalls *int32
}

func setupCatalogTaskEnv(t *testing.T, warmCategories []string) *catalogTaskEnv {
	t.Helper()

	var schemaCalls, taxonomyCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(r.URL.Path, "taxonomy") {
			atomic.AddInt32(&taxonomyCalls, 1)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"categories": []map[string]interface{}{
					{"categoryId": "home", "categoryName": "Home"},
				},
			})
			return
		}
		atomic.AddInt32(&schemaCalls, 1)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"category":           r.URL.Query().Get("category"),
			"version":            "5.0",
			"requiredAttributes": []string{"brand"},
		})
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{
		SchemaVersions: []string{"5.0", "4.2"},
		CacheTTL:       24 * time.Hour,
		Cooldown429:    60 * time.Second,
	}
	schemaService := service.NewSchemaService(
		repository.NewMemoryCacheStore(),
		ratelimit.New(map[string]ratelimit.Limit{}),
		resty.New().SetBaseURL(server.URL),
		cfg,
	)

	task := NewCatalogTask(schemaService, warmCategories)
	task.sleepTime = 0 // 测试不需要平滑波峰

	return &catalogTaskEnv{
		task:          task,
		schemaService: schemaService,
		schemaCalls:   &schemaCalls,
		taxonomyCalls: &taxonomyCalls,
	}
}

// ==================== refreshJob 测试 ====================

func TestCatalogTask_RefreshWarmsCache(t *testing.T) {
	env := setupCatalogTaskEnv(t, []string{"Electronics", "Clothing"})
	ctx := context.Background()

	env.task.refreshJob(ctx)

	if got := atomic.LoadInt32(env.taxonomyCalls); got != 1 {
		t.Errorf("分类树拉取次数 = %d, want 1", got)
	}
	if got := atomic.LoadInt32(env.schemaCalls); got != 2 {
		t.Errorf("规则预热拉取次数 = %d, want 2", got)
	}

	// 预热之后在线请求应直接命中缓存，不再走上游
	schema, err := env.schemaService.GetSchema(ctx, "Electronics", "5.0")
	if err != nil {
		t.Fatalf("GetSchema() error = %v", err)
	}
	if !schema.IsRequired("brand") {
		t.Fatalf("预热的规则内容不符: %+v", schema)
	}
	if got := atomic.LoadInt32(env.schemaCalls); got != 2 {
		t.Errorf("命中预热缓存后仍走了上游: 拉取次数 = %d", got)
	}
}

func TestCatalogTask_RefreshWithoutWarmList(t *testing.T) {
	env := setupCatalogTaskEnv(t, nil)

	env.task.refreshJob(context.Background())

	if got := atomic.LoadInt32(env.taxonomyCalls); got != 1 {
		t.Errorf("分类树拉取次数 = %d, want 1", got)
	}
	if got := atomic.LoadInt32(env.schemaCalls); got != 0 {
		t.Errorf("无预热列表时不应拉取规则: %d", got)
	}
}

func TestCatalogTask_UpstreamFailureDoesNotPanic(t *testing.T) {
	// 上游全挂：任务只记日志，不 panic 不返回错误
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{
		SchemaVersions: []string{"5.0", "4.2"},
		CacheTTL:       24 * time.Hour,
		Cooldown429:    60 * time.Second,
	}
	schemaService := service.NewSchemaService(
		repository.NewMemoryCacheStore(),
		ratelimit.New(map[string]ratelimit.Limit{}),
		resty.New().SetBaseURL(server.URL),
		cfg,
	)

	task := NewCatalogTask(schemaService, []string{"Electronics"})
	task.sleepTime = 0

	task.refreshJob(context.Background())
}

func TestCatalogTask_ContextCancelStopsWarmup(t *testing.T) {
	env := setupCatalogTaskEnv(t, []string{"A", "B", "C", "D"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // 预热循环入口处即退出

	env.task.refreshJob(ctx)

	if got := atomic.LoadInt32(env.schemaCalls); got != 0 {
		t.Errorf("取消后不应继续预热: 拉取次数 = %d", got)
	}
}
