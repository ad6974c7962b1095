package model

import "time"

// MunicipalityStatus 市政机构状态枚举
type MunicipalityStatus string

const (
	MunicipalityStatusOnboarding MunicipalityStatus = "onboarding" // 引导配置中
	MunicipalityStatusActive     MunicipalityStatus = "active"     // 正常服务
	MunicipalityStatusSuspended  MunicipalityStatus = "suspended"  // 已暂停
)

// Municipality 市政机构模型
type Municipality struct {
	BaseModel
	PublicID          int64              `gorm:"uniqueIndex;not null" json:"public_id"`
	Name              string             `gorm:"type:varchar(128);not null;default:''" json:"name"`
	Code              string             `gorm:"uniqueIndex;type:varchar(16);not null" json:"code"` // SALGA 机构编码
	Province          string             `gorm:"type:varchar(32);not null;default:''" json:"province"`
	ContactEmail      string             `gorm:"type:varchar(128);not null;default:''" json:"contact_email"`
	ContactPhone      string             `gorm:"type:varchar(32);not null;default:''" json:"contact_phone"`
	ContactPersonName string             `gorm:"type:varchar(64);not null;default:''" json:"contact_person_name"`
	Status            MunicipalityStatus `gorm:"type:varchar(16);not null;default:'onboarding';index:idx_municipalities_status" json:"status"`

	OnboardingCompletedAt *time.Time `gorm:"type:timestamptz" json:"onboarding_completed_at,omitempty"`
}

// TableName 指定表名
func (Municipality) TableName() string {
	return "municipalities"
}
