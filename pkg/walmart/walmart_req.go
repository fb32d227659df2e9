package walmart

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// ==================== 客户端 ====================

// ClientConfig 上游目录/规则服务客户端配置
type ClientConfig struct {
	BaseURL     string
	ServiceName string
	AccessToken string
	Timeout     time.Duration
}

// NewClient 创建统一配置的 Resty 客户端
// 职责：统一封装鉴权头 (WM_SEC.ACCESS_TOKEN) 和服务标识头，
// 每个请求自动生成新的关联 ID (WM_QOS.CORRELATION_ID)
func NewClient(cfg ClientConfig) *resty.Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("WM_SVC.NAME", cfg.ServiceName)

	if cfg.AccessToken != "" {
		client.SetHeader("WM_SEC.ACCESS_TOKEN", cfg.AccessToken)
	}

	// 每次请求生成独立关联 ID，便于上游排障
	client.OnBeforeRequest(func(c *resty.Client, r *resty.Request) error {
		r.SetHeader("WM_QOS.CORRELATION_ID", uuid.NewString())
		return nil
	})

	return client
}

// ==================== API 路径 ====================

const (
	// PathItemSchema 类目规则：GET /v3/items/spec?category=...&version=...
	PathItemSchema = "/v3/items/spec"

	// PathTaxonomy 分类树：GET /v3/items/taxonomy
	PathTaxonomy = "/v3/items/taxonomy"
)
