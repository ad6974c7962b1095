package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"CivicLink/config"
	"CivicLink/pkg/errors"
	"CivicLink/pkg/logger"
	"CivicLink/pkg/response"
	"CivicLink/storage/redis"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// 时间窗口（秒）
	Window int
	// 时间窗口内最大请求数
	MaxRequests int
	// 限流键前缀
	KeyPrefix string
	// 是否按员工 ID 限流（需要认证）
	ByStaffID bool
	// 是否按 IP 限流
	ByIP bool
	// 阻塞时长（秒），超过限制后禁止访问的时间
	BlockDuration int
}

// ReportSubmitRateLimitConfig 匿名报障提交限流，按来源 IP
var ReportSubmitRateLimitConfig = RateLimitConfig{
	Window:        60,
	MaxRequests:   10,
	KeyPrefix:     "report:submit:rate",
	ByStaffID:     false,
	ByIP:          true,
	BlockDuration: 1800,
}

// AuthRateLimitConfig 登录/换票限流，按来源 IP
var AuthRateLimitConfig = RateLimitConfig{
	Window:        60,
	MaxRequests:   5,
	KeyPrefix:     "auth:rate",
	ByStaffID:     false,
	ByIP:          true,
	BlockDuration: 900,
}

// RateLimiter 滑动窗口限流器
type RateLimiter struct {
	config RateLimitConfig
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		config: config,
	}
}

// getKey 生成限流键
func (rl *RateLimiter) getKey(ctx context.Context, c *app.RequestContext) string {
	var identifier string

	if rl.config.ByStaffID {
		if staffID, exists := GetStaffID(ctx, c); exists {
			identifier = fmt.Sprintf("staff:%s", staffID)
		}
	}

	if identifier == "" && rl.config.ByIP {
		identifier = fmt.Sprintf("ip:%s", c.ClientIP())
	}

	return redis.Key(rl.config.KeyPrefix, identifier)
}

// Allow 检查是否允许请求，zset 实现滑动窗口
func (rl *RateLimiter) Allow(ctx context.Context, c *app.RequestContext) (bool, int, error) {
	key := rl.getKey(ctx, c)
	now := time.Now()
	windowStart := now.Add(-time.Duration(rl.config.Window) * time.Second)

	client := redis.Client()
	pipe := client.Pipeline()

	// 先清掉窗口外的旧记录
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart.UnixNano()))

	// 记录当前请求（时间戳同时作为 score 和 member）
	pipe.ZAdd(ctx, key, redislib.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})

	zcardCmd := pipe.ZCard(ctx, key)

	pipe.Expire(ctx, key, time.Duration(rl.config.Window+10)*time.Second)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	count := int(zcardCmd.Val())
	allowed := count <= rl.config.MaxRequests

	return allowed, count, nil
}

func (rl *RateLimiter) Block(ctx context.Context, c *app.RequestContext) error {
	key := redis.Key(rl.config.KeyPrefix+"block", rl.getKey(ctx, c))
	return redis.Client().Set(ctx, key, "1", time.Duration(rl.config.BlockDuration)*time.Second).Err()
}

func (rl *RateLimiter) IsBlocked(ctx context.Context, c *app.RequestContext) (bool, error) {
	key := redis.Key(rl.config.KeyPrefix+"block", rl.getKey(ctx, c))
	result, err := redis.Client().Exists(ctx, key).Result()
	return result > 0, err
}

// RateLimitMiddleware 创建限流中间件
func RateLimitMiddleware(cfg RateLimitConfig) app.HandlerFunc {
	limiter := NewRateLimiter(cfg)

	return func(ctx context.Context, c *app.RequestContext) {
		if !config.Cfg.RateLimitEnabled {
			c.Next(ctx)
			return
		}

		blocked, err := limiter.IsBlocked(ctx, c)
		if err != nil {
			logger.Logger.Error("Failed to check block status", zap.Error(err))
			c.AbortWithStatus(consts.StatusInternalServerError)
			return
		}

		if blocked {
			c.AbortWithStatus(consts.StatusTooManyRequests)
			response.Error(ctx, c, errors.TooManyRequests)
			return
		}

		allowed, count, err := limiter.Allow(ctx, c)
		if err != nil {
			logger.Logger.Error("Failed to check rate limit", zap.Error(err))
			c.AbortWithStatus(consts.StatusInternalServerError)
			return
		}

		c.Response.Header.Set("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Response.Header.Set("X-RateLimit-Remaining", strconv.Itoa(cfg.MaxRequests-count))
		c.Response.Header.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Duration(cfg.Window)*time.Second).Unix(), 10))

		if !allowed {
			if err := limiter.Block(ctx, c); err != nil {
				logger.Logger.Error("Failed to block client", zap.Error(err))
			}

			c.AbortWithStatus(consts.StatusTooManyRequests)
			response.Error(ctx, c, errors.TooManyRequests)
			return
		}

		c.Next(ctx)
	}
}

// GeneralRateLimitMiddleware 通用限流中间件，挂在需要认证的路由上
func GeneralRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(RateLimitConfig{
		Window:        60,
		MaxRequests:   config.Cfg.RateLimitRPS * 60,
		KeyPrefix:     "rate:limit",
		ByStaffID:     true,
		ByIP:          true,
		BlockDuration: 300,
	})
}

// ReportSubmitRateLimitMiddleware 匿名报障提交限流中间件
func ReportSubmitRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(ReportSubmitRateLimitConfig)
}

// AuthRateLimitMiddleware 认证相关限流（登录、换票、接受邀请）
func AuthRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(AuthRateLimitConfig)
}
