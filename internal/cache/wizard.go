package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"CivicLink/config"
	"CivicLink/storage/redis"
)

// 引导向导兜底缓存
// 键格式对前端兼容保持稳定，不走 redis.Key 前缀
const wizardCacheKeyFormat = "salga_onboarding_wizard_data:%d"

// WizardCacheEntry 兜底缓存的值：当前游标 + 各步骤草稿
type WizardCacheEntry struct {
	Step int                               `json:"step"`
	Data map[string]map[string]interface{} `json:"data"`
}

// WizardCache 引导进度兜底缓存
// 主存储（Postgres）读不到时从这里恢复游标和草稿
type WizardCache struct{}

func NewWizardCache() *WizardCache {
	return &WizardCache{}
}

func (c *WizardCache) key(municipalityPublicID int64) string {
	return fmt.Sprintf(wizardCacheKeyFormat, municipalityPublicID)
}

func (c *WizardCache) ttl() time.Duration {
	return time.Duration(config.Cfg.OnboardingCacheTTLHours) * time.Hour
}

// Save 写入整个进度快照
func (c *WizardCache) Save(ctx context.Context, municipalityPublicID int64, entry WizardCacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal wizard cache entry: %w", err)
	}

	return redis.Client().Set(ctx, c.key(municipalityPublicID), data, c.ttl()).Err()
}

// Load 读取进度快照，未命中返回 (nil, nil)
func (c *WizardCache) Load(ctx context.Context, municipalityPublicID int64) (*WizardCacheEntry, error) {
	data, err := redis.Client().Get(ctx, c.key(municipalityPublicID)).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wizard cache: %w", err)
	}

	var entry WizardCacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wizard cache entry: %w", err)
	}

	return &entry, nil
}

// Delete 删除快照，完成引导后调用
func (c *WizardCache) Delete(ctx context.Context, municipalityPublicID int64) error {
	return redis.Client().Del(ctx, c.key(municipalityPublicID)).Err()
}
