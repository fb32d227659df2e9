package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"walmart_dev_v1_202608/internal/config"
	"walmart_dev_v1_202608/internal/model"
	"walmart_dev_v1_202608/internal/repository"
	"walmart_dev_v1_202608/pkg/ratelimit"
	"walmart_dev_v1_202608/pkg/walmart"
)

// ==================== 缓存键 ====================

const taxonomyCacheKey = "taxonomy:all"

func schemaCacheKey(category, version string) string {
	return fmt.Sprintf("schema:%s:%s", category, version)
}

// ==================== 服务实现 ====================

// SchemaService 类目规则与分类树的拉取+缓存层
// 缓存纪律：TTL 窗口内直接命中，过期视同不存在；
// miss 时先拿限流令牌（阻塞）再调上游，成功后整体替换缓存条目
type SchemaService struct {
	store   repository.CacheStore
	limiter *ratelimit.Limiter
	client  *resty.Client

	// 支持的规则版本（降序，首个为 latest）
	versions []string

	ttl         time.Duration
	cooldown429 time.Duration

	// 可注入时钟，测试用
	now func() time.Time
}

// NewSchemaService 创建规则服务
func NewSchemaService(
	store repository.CacheStore,
	limiter *ratelimit.Limiter,
	client *resty.Client,
	cfg *config.Config,
) *SchemaService {
	return &SchemaService{
		store:       store,
		limiter:     limiter,
		client:      client,
		versions:    cfg.SchemaVersions,
		ttl:         cfg.CacheTTL,
		cooldown429: cfg.Cooldown429,
		now:         time.Now,
	}
}

// ==================== 类目规则 ====================

// GetSchema 获取类目规则（带缓存与版本回退）
// 回退策略：仅当请求的是 latest 版本且拉取失败时，
// 降级到版本列表的下一项重试一次（部分类目的规则会滞后于最新声明版本）
func (s *SchemaService) GetSchema(ctx context.Context, category, version string) (*model.CategorySchema, error) {
	return s.getSchema(ctx, category, version, false)
}

// RefreshSchema 强制刷新类目规则（跳过缓存读取）
func (s *SchemaService) RefreshSchema(ctx context.Context, category, version string) (*model.CategorySchema, error) {
	return s.getSchema(ctx, category, version, true)
}

func (s *SchemaService) getSchema(ctx context.Context, category, version string, refresh bool) (*model.CategorySchema, error) {
	if version == "" && len(s.versions) > 0 {
		version = s.versions[0]
	}
	key := schemaCacheKey(category, version)

	if !refresh {
		if schema := s.readSchemaCache(ctx, key); schema != nil {
			return schema, nil
		}
	}

	schema, err := s.fetchSchema(ctx, category, version)
	if err != nil {
		// 仅 latest 版本允许回退一次
		if fallback, ok := s.fallbackVersion(version); ok {
			log.Printf("[Schema] 类目 %s 版本 %s 拉取失败，回退到 %s 重试: %v", category, version, fallback, err)
			schema, err = s.fetchSchema(ctx, category, fallback)
		}
		if err != nil {
			return nil, fmt.Errorf("类目规则拉取失败 (category=%s): %v", category, err)
		}
	}

	// 以调用方坐标为键缓存，回退结果同样生效，TTL 窗口内不再反复走回退路径
	s.writeCache(ctx, key, schema)
	return schema, nil
}

// fallbackVersion 返回回退目标版本
// 只有请求版本是列表首项（latest）时才回退，且只退到紧邻的下一项
func (s *SchemaService) fallbackVersion(version string) (string, bool) {
	if len(s.versions) >= 2 && version == s.versions[0] {
		return s.versions[1], true
	}
	return "", false
}

func (s *SchemaService) readSchemaCache(ctx context.Context, key string) *model.CategorySchema {
	entry, ok, err := s.store.Get(ctx, key)
	if err != nil {
		// 存储故障按 miss 处理，走上游拉取
		log.Printf("[Schema] 缓存读取失败，按未命中处理: %v", err)
		return nil
	}
	if !ok || !repository.IsFresh(entry, s.ttl, s.now()) {
		return nil
	}

	var schema model.CategorySchema
	if err := json.Unmarshal(entry.Data, &schema); err != nil {
		log.Printf("[Schema] 缓存条目反序列化失败，按未命中处理: %v", err)
		return nil
	}
	return &schema
}

// fetchSchema 上游拉取 + 归一化（单版本，不含回退）
func (s *SchemaService) fetchSchema(ctx context.Context, category, version string) (*model.CategorySchema, error) {
	if err := s.limiter.AcquireBlocking(ctx, config.EndpointSchema); err != nil {
		return nil, fmt.Errorf("等待限流令牌被中断: %v", err)
	}

	var dto walmart.SchemaResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"feedType": "MP_ITEM",
			"category": category,
			"version":  version,
		}).
		SetResult(&dto).
		Get(walmart.PathItemSchema)

	if err != nil {
		return nil, fmt.Errorf("网络请求失败: %v", err)
	}

	s.observeQuota(config.EndpointSchema, resp)

	if resp.StatusCode() == http.StatusTooManyRequests {
		s.limiter.Cooldown(config.EndpointSchema, s.cooldown429)
		return nil, fmt.Errorf("上游限流 (429)，已进入 %v 冷却", s.cooldown429)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("上游异常 [%d]: %s", resp.StatusCode(), resp.String())
	}

	return dto.Normalize(category, version), nil
}

// ==================== 分类树 ====================

// GetTaxonomy 获取完整分类树（全局单键缓存）
func (s *SchemaService) GetTaxonomy(ctx context.Context, refresh bool) (*model.Taxonomy, error) {
	if !refresh {
		entry, ok, err := s.store.Get(ctx, taxonomyCacheKey)
		if err != nil {
			log.Printf("[Schema] 分类树缓存读取失败，按未命中处理: %v", err)
		} else if ok && repository.IsFresh(entry, s.ttl, s.now()) {
			var taxonomy model.Taxonomy
			if err := json.Unmarshal(entry.Data, &taxonomy); err == nil {
				return &taxonomy, nil
			}
		}
	}

	if err := s.limiter.AcquireBlocking(ctx, config.EndpointTaxonomy); err != nil {
		return nil, fmt.Errorf("等待限流令牌被中断: %v", err)
	}

	var dto walmart.TaxonomyResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&dto).
		Get(walmart.PathTaxonomy)

	if err != nil {
		return nil, fmt.Errorf("分类树拉取失败: %v", err)
	}

	s.observeQuota(config.EndpointTaxonomy, resp)

	if resp.StatusCode() == http.StatusTooManyRequests {
		s.limiter.Cooldown(config.EndpointTaxonomy, s.cooldown429)
		return nil, fmt.Errorf("上游限流 (429)，已进入 %v 冷却", s.cooldown429)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("上游异常 [%d]: %s", resp.StatusCode(), resp.String())
	}

	taxonomy := dto.ToModel()
	s.writeCache(ctx, taxonomyCacheKey, taxonomy)
	return taxonomy, nil
}

// ==================== 内部辅助 ====================

// writeCache 序列化并整体替换缓存条目
// 写失败只记日志：缓存是加速层，不挡主流程
func (s *SchemaService) writeCache(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[Schema] 缓存序列化失败 (key=%s): %v", key, err)
		return
	}
	entry := &model.CacheEntry{Data: data, FetchedAt: s.now()}
	if err := s.store.Put(ctx, key, entry); err != nil {
		log.Printf("[Schema] 缓存写入失败 (key=%s): %v", key, err)
	}
}

// observeQuota 把上游配额头回传给限流器做参考校正
func (s *SchemaService) observeQuota(endpoint string, resp *resty.Response) {
	if remaining, next, ok := walmart.ParseQuotaHeaders(resp.Header()); ok {
		s.limiter.ObserveHeaders(endpoint, remaining, next)
	}
}
