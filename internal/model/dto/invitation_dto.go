package dto

import "time"

// ========== Invitation 相关 DTO ==========

// InvitationEntry 单条邀请
type InvitationEntry struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"required"`
}

// BulkInvitationRequest 批量邀请请求
type BulkInvitationRequest struct {
	Invitations []InvitationEntry `json:"invitations" binding:"required"`
}

// InvitationResult 单条邀请的入库结果
type InvitationResult struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BulkInvitationResponse 批量邀请响应
type BulkInvitationResponse struct {
	Queued  int                `json:"queued"`
	Results []InvitationResult `json:"results"`
}

// AcceptInvitationRequest 接受邀请激活账号请求
type AcceptInvitationRequest struct {
	Token    string `json:"token" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}
