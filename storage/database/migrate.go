package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"CivicLink/internal/model"
	"CivicLink/pkg/logger"
)

// Migrate 运行数据库迁移，创建所有表
func Migrate() error {
	db := DB()
	if db == nil {
		return gorm.ErrInvalidDB
	}

	logger.Logger.Info("Starting database migration...")

	// 迁移所有模型
	err := db.AutoMigrate(
		&model.Municipality{},
		&model.StaffMember{},
		&model.StaffInvitation{},
		&model.OnboardingStepRecord{},
		&model.Ward{},
		&model.SLAPolicy{},
		&model.ServiceReport{},
	)

	if err != nil {
		logger.Logger.Error("Database migration failed", zap.Error(err))
		return err
	}

	logger.Logger.Info("Database migration completed successfully")
	return nil
}
