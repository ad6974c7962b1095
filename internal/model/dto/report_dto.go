package dto

import "time"

// ========== Report 相关 DTO ==========

// SubmitReportRequest 市民提交报障请求
// 匿名提交，手机号可选（用于状态短信通知）
type SubmitReportRequest struct {
	MunicipalityCode   string `json:"municipality_code" binding:"required"`
	Category           string `json:"category" binding:"required"`
	Description        string `json:"description" binding:"required"`
	Location           string `json:"location"`
	WardNumber         *int   `json:"ward_number,omitempty"`
	ReporterPhone      string `json:"reporter_phone,omitempty"`
	CaptchaVerifyParam string `json:"captcha_verify_param,omitempty"`
	VerificationToken  string `json:"verification_token,omitempty"`
}

// SliderVerifyRequest 滑块预验证请求
type SliderVerifyRequest struct {
	CaptchaVerifyParam string `json:"captcha_verify_param" binding:"required"`
}

// SliderVerifyData 预验证通过后签发的一次性通行 token
type SliderVerifyData struct {
	VerificationToken string `json:"verification_token"`
	ExpiresIn         int    `json:"expires_in"`
}

// ReportData 报障详情
type ReportData struct {
	PublicID    string     `json:"public_id"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Status      string     `json:"status"`
	Priority    int        `json:"priority"`
	WardNumber  *int       `json:"ward_number,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	TriagedAt   *time.Time `json:"triaged_at,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	SLADeadline *time.Time `json:"sla_deadline,omitempty"`
	SLABreached bool       `json:"sla_breached"`
}

// ReportListQuery 报障列表查询参数
type ReportListQuery struct {
	Status   string `query:"status"`
	Category string `query:"category"`
	WardID   int64  `query:"ward_id"`
	Cursor   string `query:"cursor"`
	Limit    int    `query:"limit"`
}

// ReportListData 报障列表响应
type ReportListData struct {
	Reports    []ReportData `json:"reports"`
	NextCursor string       `json:"next_cursor,omitempty"`
	HasMore    bool         `json:"has_more"`
}

// UpdateReportRequest 分派/状态更新请求
type UpdateReportRequest struct {
	Status     *string `json:"status,omitempty"`
	Priority   *int    `json:"priority,omitempty"`
	WardNumber *int    `json:"ward_number,omitempty"`
	AssigneeID *string `json:"assignee_id,omitempty"`
}

// ResolveReportRequest 结案请求
type ResolveReportRequest struct {
	ResolutionNote string `json:"resolution_note"`
}
