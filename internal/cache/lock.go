package cache

import (
	"context"
	"time"

	"CivicLink/storage/redis"
)

// SetNX 分布式锁，SLA 扫描多实例部署时防止重复发布升级消息
const lockPrefix = "lock"

func TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	fullkey := redis.Key(lockPrefix, key)

	result, err := redis.Client().SetNX(ctx, fullkey, 1, ttl).Result()
	if err != nil {
		return false, err
	}

	return result, nil
}

func Unlock(ctx context.Context, key string) error {
	fullkey := redis.Key(lockPrefix, key)

	return redis.Client().Del(ctx, fullkey).Err()
}
