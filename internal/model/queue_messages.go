package model

// InvitationDispatchMessage 员工邀请投递消息
// MessageID 用于消费侧幂等检查
type InvitationDispatchMessage struct {
	MessageID      string `json:"message_id"`
	InvitationID   int64  `json:"invitation_id"`
	MunicipalityID int64  `json:"municipality_id"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Token          string `json:"token"`
	ExpiresAt      string `json:"expires_at"`
}

// ReportStatusMessage 报障状态变更通知消息
// Category 用于选择短信模板，PhoneHash 用于查报障人手机号
type ReportStatusMessage struct {
	MessageID      string `json:"message_id"`
	ReportPublicID int64  `json:"report_public_id"`
	MunicipalityID int64  `json:"municipality_id"`
	Category       string `json:"category"`
	OldStatus      string `json:"old_status"`
	NewStatus      string `json:"new_status"`
	PhoneHash      string `json:"phone_hash"`
	OccurredAt     string `json:"occurred_at"`
}
