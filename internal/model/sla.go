package model

// SLAPolicy 服务水平策略模型
// 每个机构按报障类别配置响应与解决时限（小时）
type SLAPolicy struct {
	BaseModel
	MunicipalityID  int64          `gorm:"not null;index:idx_sla_policies_municipality;uniqueIndex:idx_sla_policies_municipality_category" json:"municipality_id"`
	Category        ReportCategory `gorm:"type:varchar(16);not null;uniqueIndex:idx_sla_policies_municipality_category" json:"category"`
	ResponseHours   int            `gorm:"not null;default:24" json:"response_hours"`
	ResolutionHours int            `gorm:"not null;default:168" json:"resolution_hours"`
}

// TableName 指定表名
func (SLAPolicy) TableName() string {
	return "sla_policies"
}
