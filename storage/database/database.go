package database

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"CivicLink/config"
	"CivicLink/pkg/logger"
)

var (
	db     *gorm.DB
	dbOnce sync.Once
	dbErr  error
)

func Init() error {
	dbOnce.Do(func() {
		cfg := config.Cfg
		gormCfg := &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			PrepareStmt:                              true,
			SkipDefaultTransaction:                   true,
		}

		var gormDB *gorm.DB
		gormDB, dbErr = gorm.Open(postgres.Open(cfg.GetDSN()), gormCfg)
		if dbErr != nil {
			logger.Logger.Error("Failed to open database", zap.Error(dbErr))
			return
		}

		// 公开透明度查询压力大，读走副本；未配置副本时 resolver 退回主库
		dbErr = gormDB.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(cfg.GetReplicaDSN())},
			Policy:   dbresolver.RandomPolicy{},
		}, "transparency"))
		if dbErr != nil {
			logger.Logger.Error("Failed to register db resolver", zap.Error(dbErr))
			return
		}

		sqlDB, err := gormDB.DB()
		if err != nil {
			dbErr = err
			logger.Logger.Error("Failed to get sql.DB from gorm", zap.Error(err))
			return
		}

		configureConnectionPool(sqlDB)

		if err := sqlDB.Ping(); err != nil {
			dbErr = err
			logger.Logger.Error("Failed to ping database", zap.Error(err))
			return
		}

		db = gormDB
		if err := Migrate(); err != nil {
			logger.Logger.Fatal("failed to run database migration", zap.Error(err))
		}
		logger.Logger.Info("Database initialized successfully")
	})

	return dbErr
}

func DB() *gorm.DB {
	return db // 可以被导出到 repo 层做 service 中的结构
}

// ReplicaDB 透明度查询专用，走只读副本
func ReplicaDB() *gorm.DB {
	return db.Clauses(dbresolver.Use("transparency"), dbresolver.Read)
}

func Close(ctx context.Context) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- sqlDB.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func configureConnectionPool(sqlDB *sql.DB) {
	cfg := config.Cfg

	sqlDB.SetMaxIdleConns(cfg.PostgreSQLMaxIdle)
	sqlDB.SetMaxOpenConns(cfg.PostgreSQLMaxOpen)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	sqlDB.SetConnMaxLifetime(2 * time.Hour)
}
