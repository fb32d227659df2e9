package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"walmart_dev_v1_202608/pkg/ratelimit"
)

// ==================== 配置结构 ====================

// Config 预检引擎配置
// 原则：所有启发式表（违禁词、价格区间、管控类目/品牌）都是配置数据，
// 不是业务逻辑，代码里只提供默认值，线上可通过环境变量覆盖
type Config struct {
	// API 服务
	APIPort string
	APIHost string

	// 数据库 (为空时跳过持久化，使用内存缓存)
	DatabaseDSN string

	// Redis (为空时不启用 Redis 缓存后端)
	RedisAddr     string
	RedisPassword string

	// Kafka (为空时不启用下游投递)
	KafkaBroker string
	KafkaTopic  string

	// 上游目录/规则服务
	CatalogBaseURL string
	ServiceName    string
	AccessToken    string
	HTTPTimeout    time.Duration

	// Schema 版本列表（降序，第一个为 latest）
	// 回退策略：只有请求 latest 失败时才降级到下一个版本重试一次
	SchemaVersions []string

	// 缓存 TTL
	CacheTTL time.Duration

	// 限流表：endpoint key -> 上游公布的限额
	RateLimits map[string]ratelimit.Limit

	// 429 冷却时间
	Cooldown429 time.Duration

	// 校验阈值
	HighPriceThreshold float64
	MinImageBytes      int64

	// 启发式表
	BannedTerms         []string
	PriceBands          map[string]PriceBand
	GatedCategories     []string
	GatedBrands         []string
	CategorySuggestions map[string]string
	CDNPatterns         []string
}

// PriceBand 类目价格区间（建议值，超出只产生 Warning）
type PriceBand struct {
	Min float64
	Max float64
}

// ==================== 限流 Endpoint Key ====================

const (
	EndpointItemFeed      = "feed.item"        // 批量商品 Feed 提交
	EndpointInventoryFeed = "feed.inventory"   // 库存 Feed
	EndpointFeedStatus    = "feed.status"      // Feed 状态轮询
	EndpointSchema        = "catalog.schema"   // 类目规则拉取
	EndpointTaxonomy      = "catalog.taxonomy" // 分类树拉取
)

// ==================== 加载 ====================

// Load 加载配置（.env 文件 + 环境变量 + 内置默认值）
func Load() *Config {
	// .env 不存在时忽略，直接读环境变量
	godotenv.Load()

	return &Config{
		APIPort: getEnv("API_PORT", "8080"),
		APIHost: getEnv("API_HOST", "0.0.0.0"),

		DatabaseDSN: getEnv("DATABASE_DSN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		KafkaBroker: getEnv("KAFKA_BROKER", ""),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "listing.feed.accepted"),

		CatalogBaseURL: getEnv("CATALOG_BASE_URL", "https://marketplace.walmartapis.com"),
		ServiceName:    getEnv("WM_SVC_NAME", "Walmart Marketplace"),
		AccessToken:    getEnv("WM_ACCESS_TOKEN", ""),
		HTTPTimeout:    getEnvAsDuration("HTTP_TIMEOUT", 20*time.Second),

		SchemaVersions: getEnvAsList("SCHEMA_VERSIONS", []string{"5.0", "4.2"}),

		CacheTTL: getEnvAsDuration("CACHE_TTL", 24*time.Hour),

		// 上游公布的限额：Feed 提交 10 次/小时，库存 50 次/小时，
		// 状态轮询很宽松，规则/分类拉取按分钟级限制
		RateLimits: map[string]ratelimit.Limit{
			EndpointItemFeed:      {MaxRequests: 10, Window: time.Hour},
			EndpointInventoryFeed: {MaxRequests: 50, Window: time.Hour},
			EndpointFeedStatus:    {MaxRequests: 3000, Window: time.Minute},
			EndpointSchema:        {MaxRequests: 300, Window: time.Minute},
			EndpointTaxonomy:      {MaxRequests: 60, Window: time.Minute},
		},

		Cooldown429: getEnvAsDuration("COOLDOWN_429", 60*time.Second),

		HighPriceThreshold: getEnvAsFloat("HIGH_PRICE_THRESHOLD", 10000),
		MinImageBytes:      int64(getEnvAsInt("MIN_IMAGE_BYTES", 10*1024)),

		BannedTerms: getEnvAsList("BANNED_TERMS", []string{
			"best seller", "top rated", "#1", "free shipping",
			"amazon", "ebay", "etsy", "aliexpress",
			"cure", "cancer", "fda approved", "miracle",
			"guaranteed", "cheapest",
		}),

		PriceBands: map[string]PriceBand{
			"Electronics":      {Min: 5, Max: 5000},
			"Clothing":         {Min: 3, Max: 500},
			"Jewelry":          {Min: 5, Max: 20000},
			"Home":             {Min: 1, Max: 3000},
			"Toys":             {Min: 1, Max: 300},
			"Health":           {Min: 1, Max: 200},
			"Food & Beverage":  {Min: 1, Max: 100},
			"Office Supplies":  {Min: 1, Max: 500},
		},

		GatedCategories: getEnvAsList("GATED_CATEGORIES", []string{
			"Jewelry", "Watches", "Batteries", "Food & Beverage",
			"Supplements", "Medicine & Drugs", "Alcohol", "Tobacco",
			"Weapons", "Gift Cards",
		}),

		GatedBrands: getEnvAsList("GATED_BRANDS", []string{
			"nike", "adidas", "apple", "samsung", "sony",
			"lego", "disney", "gucci", "louis vuitton",
		}),

		CategorySuggestions: map[string]string{
			"Electronics":     "建议补充质保信息 (warranty)，可提升转化",
			"Food & Beverage": "建议补充营养成分表 (nutrition facts)",
			"Supplements":     "建议补充成分与剂量说明",
			"Toys":            "建议补充适用年龄段",
		},

		CDNPatterns: getEnvAsList("CDN_PATTERNS", []string{
			`(?i)cloudfront\.net`,
			`(?i)cloudinary\.com`,
			`(?i)imgix\.net`,
			`(?i)akamaized\.net`,
			`(?i)fastly\.net`,
			`(?i)cdn\.`,
		}),
	}
}

// ==================== 环境变量辅助 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsList 逗号分隔列表
func getEnvAsList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
