package dto

import "time"

// ========== Metrics 相关 DTO ==========

// TransparencyMetricsData 公开透明度指标
type TransparencyMetricsData struct {
	MunicipalityCode   string           `json:"municipality_code"`
	TotalReports       int64            `json:"total_reports"`
	ByStatus           map[string]int64 `json:"by_status"`
	ByCategory         map[string]int64 `json:"by_category"`
	ByWard             map[string]int64 `json:"by_ward"`
	AvgResolutionHours float64          `json:"avg_resolution_hours"`
	SLABreachedOpen    int64            `json:"sla_breached_open"`
	GeneratedAt        time.Time        `json:"generated_at"`
}

// TransparencyQuery 透明度查询参数
type TransparencyQuery struct {
	MunicipalityCode string `query:"municipality_code"`
}
