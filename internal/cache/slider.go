package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"CivicLink/config"
	"CivicLink/storage/redis"
)

// 匿名报障防刷
// 同一 IP 在窗口内提交超过阈值后，要求先通过滑块验证再提交

const (
	reportSubmitPrefix = "report:submit:count"
	sliderVerifyPrefix = "slider:verify"

	submitCountWindow = time.Hour
)

// SliderVerifyTTL 预验证通行 token 的有效期
const SliderVerifyTTL = 10 * time.Minute

// IncrSubmitCount 递增 IP 的提交计数，返回递增后的值
func IncrSubmitCount(ctx context.Context, remoteIP string) (int64, error) {
	key := redis.Key(reportSubmitPrefix, remoteIP)

	pipe := redis.Client().Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, submitCountWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment submit count: %w", err)
	}

	return incr.Val(), nil
}

// SliderRequired 判断该 IP 是否已超过免验证阈值
func SliderRequired(ctx context.Context, remoteIP string) (bool, error) {
	key := redis.Key(reportSubmitPrefix, remoteIP)

	count, err := redis.Client().Get(ctx, key).Int()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get submit count: %w", err)
	}

	return count >= config.Cfg.CaptchaSliderThreshold, nil
}

// SetSliderVerification 滑块验证通过后签发一次性通行 token
// Key: clink:slider:verify:{remote_ip}
func SetSliderVerification(ctx context.Context, remoteIP string) (string, error) {
	token := uuid.New().String()
	key := redis.Key(sliderVerifyPrefix, remoteIP)

	if err := redis.Client().Set(ctx, key, token, SliderVerifyTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// ConsumeSliderVerification 校验并消费通行 token，一次有效
func ConsumeSliderVerification(ctx context.Context, remoteIP, token string) bool {
	key := redis.Key(sliderVerifyPrefix, remoteIP)

	stored, err := redis.Client().Get(ctx, key).Result()
	if err != nil || stored != token {
		return false
	}

	redis.Client().Del(ctx, key)
	return true
}
