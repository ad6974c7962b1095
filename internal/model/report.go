package model

import "time"

// ReportCategory 报障类别枚举
type ReportCategory string

const (
	ReportCategoryWater       ReportCategory = "water"
	ReportCategoryElectricity ReportCategory = "electricity"
	ReportCategoryRoads       ReportCategory = "roads"
	ReportCategoryWaste       ReportCategory = "waste"
	ReportCategorySafety      ReportCategory = "safety"
	ReportCategoryOther       ReportCategory = "other"
)

// ReportStatus 报障状态枚举
type ReportStatus string

const (
	ReportStatusSubmitted  ReportStatus = "submitted"   // 市民已提交
	ReportStatusTriaged    ReportStatus = "triaged"     // 已分派类别与选区
	ReportStatusInProgress ReportStatus = "in_progress" // 处理中
	ReportStatusResolved   ReportStatus = "resolved"    // 已解决
	ReportStatusRejected   ReportStatus = "rejected"    // 无效或重复
)

// ServiceReport 市民报障模型
type ServiceReport struct {
	BaseModel
	PublicID       int64          `gorm:"uniqueIndex;not null" json:"public_id"`
	MunicipalityID int64          `gorm:"not null;index:idx_service_reports_municipality_status" json:"municipality_id"`
	WardID         *int64         `gorm:"index:idx_service_reports_ward" json:"ward_id,omitempty"`
	Category       ReportCategory `gorm:"type:varchar(16);not null;index" json:"category"`
	Description    string         `gorm:"type:text;not null;default:''" json:"description"`
	Location       string         `gorm:"type:varchar(256);not null;default:''" json:"location"`
	Status         ReportStatus   `gorm:"type:varchar(16);not null;default:'submitted';index:idx_service_reports_municipality_status" json:"status"`

	// 报障人手机号只存密文与哈希，不对外暴露
	ReporterPhoneCipher []byte  `gorm:"type:bytea" json:"-"`
	ReporterPhoneHash   *string `gorm:"type:char(64);index" json:"-"`

	Priority    int        `gorm:"not null;default:3" json:"priority"` // 1 最高，5 最低
	AssigneeID  *int64     `gorm:"index" json:"assignee_id,omitempty"`
	TriagedAt   *time.Time `gorm:"type:timestamptz" json:"triaged_at,omitempty"`
	ResolvedAt  *time.Time `gorm:"type:timestamptz" json:"resolved_at,omitempty"`
	SLADeadline *time.Time `gorm:"type:timestamptz;index:idx_service_reports_sla_deadline" json:"sla_deadline,omitempty"`
	SLABreached bool       `gorm:"not null;default:false" json:"sla_breached"`
}

// TableName 指定表名
func (ServiceReport) TableName() string {
	return "service_reports"
}

// ValidReportCategory 校验类别取值
func ValidReportCategory(category string) bool {
	switch ReportCategory(category) {
	case ReportCategoryWater, ReportCategoryElectricity, ReportCategoryRoads,
		ReportCategoryWaste, ReportCategorySafety, ReportCategoryOther:
		return true
	}
	return false
}

// reportTransitions 允许的状态流转
var reportTransitions = map[ReportStatus][]ReportStatus{
	ReportStatusSubmitted:  {ReportStatusTriaged, ReportStatusRejected},
	ReportStatusTriaged:    {ReportStatusInProgress, ReportStatusRejected},
	ReportStatusInProgress: {ReportStatusResolved, ReportStatusRejected},
}

// CanTransition 判断报障状态能否从 from 变为 to
func CanTransition(from, to ReportStatus) bool {
	for _, next := range reportTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
