package model

import "time"

// StaffRole 员工角色枚举
type StaffRole string

const (
	StaffRoleAdmin   StaffRole = "admin"   // 机构管理员
	StaffRoleManager StaffRole = "manager" // 部门主管
	StaffRoleAgent   StaffRole = "agent"   // 一线处理人员
)

// StaffStatus 员工账号状态枚举
type StaffStatus string

const (
	StaffStatusInvited  StaffStatus = "invited"  // 已邀请未激活
	StaffStatusActive   StaffStatus = "active"   // 正常使用
	StaffStatusDisabled StaffStatus = "disabled" // 已停用
)

// StaffMember 机构员工模型
type StaffMember struct {
	BaseModel
	PublicID       int64       `gorm:"uniqueIndex;not null" json:"public_id"`
	MunicipalityID int64       `gorm:"not null;index:idx_staff_members_municipality" json:"municipality_id"`
	Email          string      `gorm:"uniqueIndex;type:varchar(128);not null" json:"email"`
	PasswordHash   string      `gorm:"type:char(64);not null;default:''" json:"-"`
	FullName       string      `gorm:"type:varchar(64);not null;default:''" json:"full_name"`
	Role           StaffRole   `gorm:"type:varchar(16);not null;default:'agent'" json:"role"`
	Status         StaffStatus `gorm:"type:varchar(16);not null;default:'invited';index:idx_staff_members_status" json:"status"`
	LastLoginAt    *time.Time  `gorm:"type:timestamptz" json:"last_login_at,omitempty"`
}

// TableName 指定表名
func (StaffMember) TableName() string {
	return "staff_members"
}

// ValidStaffRole 校验角色取值
func ValidStaffRole(role string) bool {
	switch StaffRole(role) {
	case StaffRoleAdmin, StaffRoleManager, StaffRoleAgent:
		return true
	}
	return false
}
