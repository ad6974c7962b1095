package dto

// ========== Onboarding 相关 DTO ==========

// OnboardingStepView 单个步骤的进度视图
type OnboardingStepView struct {
	StepID      string                 `json:"step_id"`
	Title       string                 `json:"title"`
	State       string                 `json:"state"` // completed | current | upcoming
	IsCompleted bool                   `json:"is_completed"`
	StepData    map[string]interface{} `json:"step_data,omitempty"`
}

// OnboardingProgressData 引导进度响应
type OnboardingProgressData struct {
	CurrentStep string               `json:"current_step"`
	Percent     int                  `json:"percent"`
	Steps       []OnboardingStepView `json:"steps"`
}

// SaveStepRequest 保存步骤表单草稿请求
type SaveStepRequest struct {
	StepData map[string]interface{} `json:"step_data" binding:"required"`
}

// TransitionResponse 向导流转（advance/back/skip）响应
type TransitionResponse struct {
	CurrentStep string               `json:"current_step"`
	Percent     int                  `json:"percent"`
	Steps       []OnboardingStepView `json:"steps"`
}

// CompleteOnboardingResponse 完成引导响应
type CompleteOnboardingResponse struct {
	MunicipalityID string `json:"municipality_id"`
	Status         string `json:"status"`
	CompletedAt    string `json:"completed_at"`
}
