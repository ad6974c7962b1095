package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"CivicLink/config"
	"CivicLink/internal/queue"
	"CivicLink/pkg/logger"
	"CivicLink/pkg/metrics"
	"CivicLink/pkg/sms"
	"CivicLink/pkg/snowflake"
	"CivicLink/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	// worker 与 server 用不同的 machine ID，避免 snowflake 撞号
	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Warn("Failed to initialize business metrics", zap.Error(err))
	}

	if err := sms.Init(); err != nil {
		logger.Logger.Warn("Failed to initialize SMS service", zap.Error(err))
		logger.Logger.Info("SMS service will be disabled, SMS features may not work")
	}

	logger.Logger.Info("Worker service starting",
		zap.String("service", "civiclink-worker"),
		zap.String("environment", config.Cfg.Environment),
	)

	// 启动所有消费者，阻塞直到连接关闭
	queue.StartAllConsumers(ctx)

	logger.Logger.Info("Worker service shutting down gracefully")
}
