package ratelimit

import (
	"context"
	"log"
	"sync"
	"time"
)

// ==================== 配置 ====================

// Limit 上游公布的限额：窗口内最多 MaxRequests 次
// 内部换算为连续补充速率 (token/ms)
type Limit struct {
	MaxRequests int
	Window      time.Duration
}

// refillPerMs 每毫秒补充的令牌数
func (l Limit) refillPerMs() float64 {
	if l.MaxRequests <= 0 || l.Window <= 0 {
		return 0
	}
	return float64(l.MaxRequests) / float64(l.Window.Milliseconds())
}

// ==================== 令牌桶 ====================

// bucket 单个 endpoint 的令牌桶
// tokens 始终保持在 [0, capacity] 区间内
type bucket struct {
	mu            sync.Mutex
	tokens        float64
	capacity      float64
	refillPerMs   float64
	lastRefill    time.Time
	cooldownUntil time.Time
}

// refillLocked 按墙钟流逝时间补充令牌（调用方必须已持有锁）
// 按小数毫秒结算：lastRefill 推进到 now 时亚毫秒的零头也要入账，
// 否则高频调用会把每次的零头都丢掉，令牌永远补不上来
func (b *bucket) refillLocked(now time.Time) {
	elapsed := now.Sub(b.lastRefill)
	if elapsed <= 0 {
		return
	}
	b.tokens += float64(elapsed) / float64(time.Millisecond) * b.refillPerMs
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now
}

// ==================== 限流器 ====================

// Limiter 按 endpoint key 限制出站请求速率
// 进程级共享状态，允许多个预检调用并发使用同一个 key
type Limiter struct {
	limits  map[string]Limit
	buckets sync.Map // key -> *bucket

	// 未配置的 key 只告警一次
	unknownOnce sync.Map // key -> struct{}

	// 可注入的时钟，测试用
	now func() time.Time

	// AcquireBlocking 单次休眠上限
	backoffCap time.Duration
}

// New 创建限流器
// limits: endpoint key -> 限额；未登记的 key 默认不限流（记一次配置缺口日志）
func New(limits map[string]Limit) *Limiter {
	return &Limiter{
		limits:     limits,
		now:        time.Now,
		backoffCap: 2 * time.Second,
	}
}

// getBucket 获取或惰性创建 key 对应的桶
// 未配置限额的 key 返回 nil，表示不限流
func (l *Limiter) getBucket(key string) *bucket {
	if v, ok := l.buckets.Load(key); ok {
		return v.(*bucket)
	}

	limit, ok := l.limits[key]
	if !ok {
		// 配置缺口：宁可放行也不要误伤业务，但要留痕
		if _, logged := l.unknownOnce.LoadOrStore(key, struct{}{}); !logged {
			log.Printf("[RateLimit] endpoint %q 未配置限额，默认不限流（请检查限流表）", key)
		}
		return nil
	}

	b := &bucket{
		tokens:      float64(limit.MaxRequests),
		capacity:    float64(limit.MaxRequests),
		refillPerMs: limit.refillPerMs(),
		lastRefill:  l.now(),
	}
	// LoadOrStore 防止并发重复创建
	actual, _ := l.buckets.LoadOrStore(key, b)
	return actual.(*bucket)
}

// TryAcquire 非阻塞获取一个令牌
// 先按流逝时间补充，再尝试扣减；冷却期内一律失败
func (l *Limiter) TryAcquire(key string) bool {
	b := l.getBucket(key)
	if b == nil {
		return true
	}

	now := l.now()

	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Before(b.cooldownUntil) {
		return false
	}

	b.refillLocked(now)

	if b.tokens >= 1 {
		b.tokens -= 1
		return true
	}
	return false
}

// AcquireBlocking 阻塞获取一个令牌，直到成功或 ctx 取消
// 这是引擎内唯一的主动挂起点，每次休眠不超过 backoffCap
func (l *Limiter) AcquireBlocking(ctx context.Context, key string) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.TryAcquire(key) {
			return nil
		}

		wait := l.timeToNextToken(key)
		if wait > l.backoffCap {
			wait = l.backoffCap
		}
		if wait <= 0 {
			wait = 10 * time.Millisecond
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// timeToNextToken 估算距下一个令牌可用的时间
func (l *Limiter) timeToNextToken(key string) time.Duration {
	b := l.getBucket(key)
	if b == nil {
		return 0
	}

	now := l.now()

	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Before(b.cooldownUntil) {
		return b.cooldownUntil.Sub(now)
	}

	b.refillLocked(now)

	if b.tokens >= 1 {
		return 0
	}
	if b.refillPerMs <= 0 {
		return time.Hour
	}
	missing := 1 - b.tokens
	return time.Duration(missing/b.refillPerMs) * time.Millisecond
}

// ObserveHeaders 根据上游响应头回报的剩余配额校正本地令牌数
// 这是参考性校正（防止本地估算与远端漂移），不替代补充算法本身
func (l *Limiter) ObserveHeaders(key string, remaining float64, nextRefillAt time.Time) {
	b := l.getBucket(key)
	if b == nil {
		return
	}

	now := l.now()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked(now)

	if remaining < 0 {
		remaining = 0
	}
	if remaining > b.capacity {
		remaining = b.capacity
	}
	b.tokens = remaining

	// 上游明确给出补充时刻时，用它重置补充基准
	if !nextRefillAt.IsZero() && nextRefillAt.After(now) {
		b.lastRefill = now
	}
}

// Cooldown 对 key 施加固定冷却期（429 显式背压信号）
// 冷却独立于桶内令牌数，冷却期内 TryAcquire 一律失败
func (l *Limiter) Cooldown(key string, d time.Duration) {
	b := l.getBucket(key)
	if b == nil {
		return
	}

	until := l.now().Add(d)

	b.mu.Lock()
	defer b.mu.Unlock()

	if until.After(b.cooldownUntil) {
		b.cooldownUntil = until
	}
}
