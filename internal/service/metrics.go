package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"CivicLink/config"
	"CivicLink/internal/cache"
	"CivicLink/internal/model"
	"CivicLink/internal/model/dto"
	pkgerrors "CivicLink/pkg/errors"
	"CivicLink/pkg/logger"
	"CivicLink/storage/database"
)

var (
	metricsService *MetricsService
	metricsOnce    sync.Once
)

func Metrics() *MetricsService {
	metricsOnce.Do(func() {
		ttl := time.Duration(config.Cfg.MetricsCacheTTLMinutes) * time.Minute
		metricsService = &MetricsService{
			snapshotCache: cache.NewProtectedCache("metrics:transparency", ttl),
		}
	})
	return metricsService
}

type MetricsService struct {
	snapshotCache *cache.ProtectedCache
}

// Transparency 公开透明度指标，快照缓存，过期后从只读副本重算
func (s *MetricsService) Transparency(ctx context.Context, municipalityCode string) (*dto.TransparencyMetricsData, error) {
	var cached dto.TransparencyMetricsData
	hit, err := s.snapshotCache.Get(ctx, municipalityCode, &cached)
	if err == nil && hit && cached.MunicipalityCode != "" {
		return &cached, nil
	}

	data, err := s.aggregate(ctx, municipalityCode)
	if err != nil {
		return nil, err
	}

	if err := s.snapshotCache.Set(ctx, municipalityCode, data); err != nil {
		logger.Logger.Warn("Failed to cache transparency snapshot",
			zap.String("municipality_code", municipalityCode),
			zap.Error(err),
		)
	}

	return data, nil
}

// aggregate 全部聚合查询走只读副本
func (s *MetricsService) aggregate(ctx context.Context, municipalityCode string) (*dto.TransparencyMetricsData, error) {
	db := database.ReplicaDB().WithContext(ctx)

	var municipality model.Municipality
	err := db.Where("code = ?", municipalityCode).First(&municipality).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.OnboardingNotFound
		}
		return nil, fmt.Errorf("failed to query municipality: %w", err)
	}

	data := &dto.TransparencyMetricsData{
		MunicipalityCode: municipalityCode,
		ByStatus:         make(map[string]int64),
		ByCategory:       make(map[string]int64),
		ByWard:           make(map[string]int64),
		GeneratedAt:      time.Now(),
	}

	type countRow struct {
		Key   string
		Count int64
	}

	var statusRows []countRow
	err = db.Model(&model.ServiceReport{}).
		Select("status AS key, COUNT(*) AS count").
		Where("municipality_id = ?", municipality.ID).
		Group("status").
		Scan(&statusRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by status: %w", err)
	}
	for _, row := range statusRows {
		data.ByStatus[row.Key] = row.Count
		data.TotalReports += row.Count
	}

	var categoryRows []countRow
	err = db.Model(&model.ServiceReport{}).
		Select("category AS key, COUNT(*) AS count").
		Where("municipality_id = ?", municipality.ID).
		Group("category").
		Scan(&categoryRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by category: %w", err)
	}
	for _, row := range categoryRows {
		data.ByCategory[row.Key] = row.Count
	}

	var wardRows []countRow
	err = db.Model(&model.ServiceReport{}).
		Select("ward_id AS key, COUNT(*) AS count").
		Where("municipality_id = ? AND ward_id IS NOT NULL", municipality.ID).
		Group("ward_id").
		Scan(&wardRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by ward: %w", err)
	}
	for _, row := range wardRows {
		wardID, convErr := strconv.ParseInt(row.Key, 10, 64)
		if convErr != nil {
			continue
		}
		var ward model.Ward
		if err := db.First(&ward, wardID).Error; err == nil {
			data.ByWard[strconv.Itoa(ward.WardNumber)] = row.Count
		}
	}

	var avgHours *float64
	err = db.Model(&model.ServiceReport{}).
		Select("AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)) / 3600)").
		Where("municipality_id = ? AND resolved_at IS NOT NULL", municipality.ID).
		Scan(&avgHours).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute average resolution time: %w", err)
	}
	if avgHours != nil {
		data.AvgResolutionHours = *avgHours
	}

	err = db.Model(&model.ServiceReport{}).
		Where("municipality_id = ? AND sla_breached = true AND status NOT IN ?",
			municipality.ID,
			[]model.ReportStatus{model.ReportStatusResolved, model.ReportStatusRejected},
		).
		Count(&data.SLABreachedOpen).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count open SLA breaches: %w", err)
	}

	return data, nil
}
