package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"CivicLink/config"
	"CivicLink/internal/schedule"
	"CivicLink/pkg/logger"
	"CivicLink/pkg/metrics"
	"CivicLink/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Logger.Info("Scheduler received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage for scheduler", zap.Error(err))
	}
	defer storage.Close()

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Warn("Failed to initialize business metrics", zap.Error(err))
	}

	logger.Logger.Info("Scheduler service starting",
		zap.String("service", "civiclink-scheduler"),
		zap.String("environment", config.Cfg.Environment),
	)

	go runSLABreachLoop(ctx)

	<-ctx.Done()

	logger.Logger.Info("Scheduler service shutting down gracefully")
}

// runSLABreachLoop 周期性扫描超出 SLA 截止时间的未结案报障
// 扫描间隔由 SLA_SCAN_INTERVAL_MINUTES 控制，开发环境缩短到 1 分钟方便调试
func runSLABreachLoop(ctx context.Context) {
	s := schedule.GetSLAScheduler()

	interval := time.Duration(config.Cfg.SLAScanIntervalMinutes) * time.Minute
	if config.Cfg.IsDevelopment() {
		interval = 1 * time.Minute
		logger.Logger.Info("SLA breach loop running in development mode with 1m interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			if err := s.ScanBreaches(runCtx); err != nil {
				logger.Logger.Error("SLA breach scan run failed", zap.Error(err))
			}
			cancel()
		}
	}
}
