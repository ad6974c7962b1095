package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"CivicLink/pkg/logger"
	"CivicLink/storage/database"
	"CivicLink/storage/mq"
	"CivicLink/storage/redis"
)

// Close 优雅关闭所有存储连接
// 关闭顺序：MQ -> Redis -> Database
// 先停止收发消息，再关缓存，最后关数据库保证落盘完成
func Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Logger.Info("Closing storage connections...")

	if err := mq.Close(ctx); err != nil {
		logger.Logger.Error("Failed to close message queue", zap.Error(err))
	} else {
		logger.Logger.Info("Message queue closed successfully")
	}

	if err := redis.Close(ctx); err != nil {
		logger.Logger.Error("Failed to close Redis connection", zap.Error(err))
	} else {
		logger.Logger.Info("Redis connection closed successfully")
	}

	if err := database.Close(ctx); err != nil {
		logger.Logger.Error("Failed to close database connection", zap.Error(err))
	} else {
		logger.Logger.Info("Database connection closed successfully")
	}

	logger.Logger.Info("All storage connections closed")
}
