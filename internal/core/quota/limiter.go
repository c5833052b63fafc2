package quota

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"recipe-plaza/internal/infrastructure/config"
	"recipe-plaza/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Limiter 每日搜尋額度
type Limiter interface {
	// Allow 消耗一點額度，額度用盡時回傳 false
	Allow(ctx context.Context) (bool, error)
	// Remaining 今日剩餘額度
	Remaining(ctx context.Context) (int, error)
	Close() error
}

// dayKey 以 UTC 日期分桶
func dayKey(prefix string, now time.Time) string {
	return fmt.Sprintf("%s:%s", prefix, now.UTC().Format("2006-01-02"))
}

// counter RedisLimiter 需要的 redis 指令
type counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Close() error
}

// RedisLimiter 以 Redis 計數，多個實例共用同一份額度
type RedisLimiter struct {
	client counter
	prefix string
	limit  int
	now    func() time.Time
}

// NewRedisLimiter 創建 Redis 額度限制器
func NewRedisLimiter(ctx context.Context, cfg config.RedisConfig, limit int) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis quota limiter connected",
		zap.String("addr", cfg.Addr),
		zap.Int("daily_limit", limit),
	)

	return newRedisLimiter(client, limit, time.Now), nil
}

func newRedisLimiter(client counter, limit int, now func() time.Time) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: "quota:spoonacular",
		limit:  limit,
		now:    now,
	}
}

// Allow 實現 Limiter
func (l *RedisLimiter) Allow(ctx context.Context) (bool, error) {
	key := dayKey(l.prefix, l.now())

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment quota: %w", err)
	}

	// 第一次計數時設定過期
	if count == 1 {
		if err := l.client.Expire(ctx, key, 24*time.Hour).Err(); err != nil {
			common.LogWarn("Failed to set quota expiry", zap.String("key", key), zap.Error(err))
		}
	}

	return count <= int64(l.limit), nil
}

// Remaining 實現 Limiter
func (l *RedisLimiter) Remaining(ctx context.Context) (int, error) {
	key := dayKey(l.prefix, l.now())

	val, err := l.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return l.limit, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read quota: %w", err)
	}

	used, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid quota counter %q: %w", val, err)
	}
	return remaining(l.limit, used), nil
}

// Close 關閉 Redis 連線
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}

// MemoryLimiter 單機版額度限制器（Redis 關閉時使用）
type MemoryLimiter struct {
	mu    sync.Mutex
	limit int
	day   string
	used  int
	now   func() time.Time
}

// NewMemoryLimiter 創建記憶體額度限制器
func NewMemoryLimiter(limit int) *MemoryLimiter {
	return newMemoryLimiter(limit, time.Now)
}

func newMemoryLimiter(limit int, now func() time.Time) *MemoryLimiter {
	return &MemoryLimiter{limit: limit, now: now}
}

// roll 換日時重置計數，呼叫端需持有鎖
func (l *MemoryLimiter) roll() {
	day := dayKey("", l.now())
	if day != l.day {
		l.day = day
		l.used = 0
	}
}

// Allow 實現 Limiter
func (l *MemoryLimiter) Allow(_ context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.roll()
	if l.used >= l.limit {
		return false, nil
	}
	l.used++
	return true, nil
}

// Remaining 實現 Limiter
func (l *MemoryLimiter) Remaining(_ context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.roll()
	return remaining(l.limit, l.used), nil
}

// Close 實現 Limiter
func (l *MemoryLimiter) Close() error {
	return nil
}

func remaining(limit, used int) int {
	if used >= limit {
		return 0
	}
	return limit - used
}

// New 依設定選擇額度限制器
func New(ctx context.Context, cfg *config.Config) (Limiter, error) {
	if !cfg.Redis.Enabled {
		return NewMemoryLimiter(cfg.Spoonacular.DailyQuota), nil
	}
	return NewRedisLimiter(ctx, cfg.Redis, cfg.Spoonacular.DailyQuota)
}
