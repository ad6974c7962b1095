package schedule

// SLA 调度器：定期扫描超出 SLA 截止时间仍未结案的报障并打上超期标记
// 多实例部署时通过 redis 分布式锁保证同一轮扫描只有一个实例执行

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"CivicLink/internal/cache"
	"CivicLink/internal/model"
	"CivicLink/pkg/logger"
	"CivicLink/pkg/metrics"
	"CivicLink/storage/database"
)

const (
	slaScanLockKey = "sla_scan"
	slaScanLockTTL = 10 * time.Minute

	// 单轮扫描的批大小，避免一次性锁太多行
	slaScanBatchSize = 500
)

var (
	slaSchedulerOnce sync.Once
	slaSchedulerInst *SLAScheduler
)

// SLAScheduler SLA 超期调度器
type SLAScheduler struct {
	logger       *zap.Logger
	scanRunning  bool
	scanMu       sync.Mutex
	lastScanTime time.Time
}

// GetSLAScheduler 获取 SLA 调度器单例
func GetSLAScheduler() *SLAScheduler {
	slaSchedulerOnce.Do(func() {
		slaSchedulerInst = &SLAScheduler{
			logger: logger.Logger,
		}
	})
	return slaSchedulerInst
}

// ScanBreaches 扫描超出 SLA 截止时间的未结案报障（定时任务调用）
func (s *SLAScheduler) ScanBreaches(ctx context.Context) error {
	s.scanMu.Lock()
	if s.scanRunning {
		s.scanMu.Unlock()
		s.logger.Info("SLA breach scan already running, skipping")
		return nil
	}
	s.scanRunning = true
	s.scanMu.Unlock()

	defer func() {
		s.scanMu.Lock()
		s.scanRunning = false
		s.scanMu.Unlock()
	}()

	// 跨实例互斥
	locked, err := cache.TryLock(ctx, slaScanLockKey, slaScanLockTTL)
	if err != nil {
		return fmt.Errorf("failed to acquire SLA scan lock: %w", err)
	}
	if !locked {
		s.logger.Info("SLA breach scan lock held by another instance, skipping")
		return nil
	}
	defer func() {
		if err := cache.Unlock(context.Background(), slaScanLockKey); err != nil {
			s.logger.Warn("Failed to release SLA scan lock", zap.Error(err))
		}
	}()

	startTime := time.Now()
	s.lastScanTime = startTime

	s.logger.Info("Starting SLA breach scan", zap.Time("start_time", startTime))

	db := database.DB().WithContext(ctx)

	var reports []model.ServiceReport
	err = db.
		Where("sla_deadline IS NOT NULL").
		Where("sla_deadline < ?", startTime).
		Where("sla_breached = ?", false).
		Where("status NOT IN ?", []string{
			string(model.ReportStatusResolved),
			string(model.ReportStatusRejected),
		}).
		Limit(slaScanBatchSize).
		Find(&reports).Error
	if err != nil {
		s.logger.Error("Failed to query overdue reports", zap.Error(err))
		return fmt.Errorf("failed to query overdue reports: %w", err)
	}

	if len(reports) == 0 {
		s.logger.Info("No reports past SLA deadline")
		return nil
	}

	s.logger.Info("Found reports past SLA deadline",
		zap.Int("report_count", len(reports)),
	)

	ids := make([]int64, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.ID)
	}

	// 超期标记 + 提升到最高优先级，让列表排序自然把超期单顶上去
	err = db.Model(&model.ServiceReport{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"sla_breached": true,
			"priority":     1,
		}).Error
	if err != nil {
		s.logger.Error("Failed to mark reports as breached", zap.Error(err))
		return fmt.Errorf("failed to mark reports as breached: %w", err)
	}

	if m := metrics.GetMetrics(); m != nil {
		for _, r := range reports {
			m.RecordSLABreach(ctx, string(r.Category))
		}
	}

	for _, r := range reports {
		s.logger.Warn("Report breached SLA deadline",
			zap.Int64("report_public_id", r.PublicID),
			zap.Int64("municipality_id", r.MunicipalityID),
			zap.String("category", string(r.Category)),
			zap.Time("sla_deadline", *r.SLADeadline),
		)
	}

	s.logger.Info("SLA breach scan finished",
		zap.Int("marked_count", len(reports)),
		zap.Duration("elapsed", time.Since(startTime)),
	)

	return nil
}
