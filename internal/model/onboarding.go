package model

import "gorm.io/datatypes"

// OnboardingStepRecord 引导步骤持久化记录
// 每个机构每个步骤一行，StepData 保存该步骤的表单草稿/结果
type OnboardingStepRecord struct {
	BaseModel
	MunicipalityID int64             `gorm:"not null;index:idx_onboarding_steps_municipality;uniqueIndex:idx_onboarding_steps_municipality_step" json:"municipality_id"`
	StepID         string            `gorm:"type:varchar(16);not null;uniqueIndex:idx_onboarding_steps_municipality_step" json:"step_id"`
	IsCompleted    bool              `gorm:"not null;default:false" json:"is_completed"`
	StepData       datatypes.JSONMap `gorm:"type:jsonb;default:'{}'" json:"step_data"`
}

// TableName 指定表名
func (OnboardingStepRecord) TableName() string {
	return "onboarding_step_records"
}
