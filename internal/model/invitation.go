package model

import "time"

// InvitationStatus 邀请状态枚举
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"  // 已入库待投递
	InvitationStatusSent     InvitationStatus = "sent"     // 已投递
	InvitationStatusAccepted InvitationStatus = "accepted" // 已接受
	InvitationStatusExpired  InvitationStatus = "expired"  // 已过期
)

// StaffInvitation 员工邀请模型
// Token 为一次性 UUID，接受后立即作废
type StaffInvitation struct {
	BaseModel
	MunicipalityID int64            `gorm:"not null;index:idx_staff_invitations_municipality" json:"municipality_id"`
	Email          string           `gorm:"type:varchar(128);not null;index:idx_staff_invitations_email" json:"email"`
	Role           StaffRole        `gorm:"type:varchar(16);not null;default:'agent'" json:"role"`
	Token          string           `gorm:"uniqueIndex;type:char(36);not null" json:"-"`
	Status         InvitationStatus `gorm:"type:varchar(16);not null;default:'pending';index:idx_staff_invitations_status" json:"status"`
	ExpiresAt      time.Time        `gorm:"type:timestamptz;not null" json:"expires_at"`
	AcceptedAt     *time.Time       `gorm:"type:timestamptz" json:"accepted_at,omitempty"`
}

// TableName 指定表名
func (StaffInvitation) TableName() string {
	return "staff_invitations"
}
