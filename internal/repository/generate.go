package repository

import (
	"fmt"
	"os"

	"gorm.io/gen"

	"CivicLink/internal/model"
	"CivicLink/pkg/errors"
	"CivicLink/storage/database"
)

// ========== Municipality 相关查询接口 ==========

// MunicipalityQuerier 市政机构查询接口
type MunicipalityQuerier interface {
	// GetByPublicID 根据 PublicID 查询机构
	//
	// SELECT * FROM @@table WHERE public_id = @publicID LIMIT 1
	GetByPublicID(publicID int64) (*gen.T, error)

	// GetByCode 根据机构代码查询（公开报障入口用）
	//
	// SELECT * FROM @@table WHERE code = @code LIMIT 1
	GetByCode(code string) (*gen.T, error)

	// ListByStatus 根据状态查询机构列表
	//
	// SELECT * FROM @@table
	// WHERE status = @status
	// {{if limit > 0}}
	// LIMIT @limit
	// {{end}}
	ListByStatus(status string, limit int) ([]*gen.T, error)
}

// ========== StaffMember 相关查询接口 ==========

// StaffMemberQuerier 员工查询接口
type StaffMemberQuerier interface {
	// GetByEmail 根据邮箱查询员工（登录用）
	//
	// SELECT * FROM @@table WHERE email = @email LIMIT 1
	GetByEmail(email string) (*gen.T, error)

	// GetByPublicID 根据 PublicID 查询员工（API 中 staffID 是 public_id）
	//
	// SELECT * FROM @@table WHERE public_id = @publicID LIMIT 1
	GetByPublicID(publicID int64) (*gen.T, error)

	// ListByMunicipality 查询某机构的员工列表
	//
	// SELECT * FROM @@table
	// WHERE municipality_id = @municipalityID
	// ORDER BY id
	ListByMunicipality(municipalityID int64) ([]*gen.T, error)
}

// ========== StaffInvitation 相关查询接口 ==========

// StaffInvitationQuerier 员工邀请查询接口
type StaffInvitationQuerier interface {
	// GetByToken 根据邀请 token 查询
	//
	// SELECT * FROM @@table WHERE token = @token LIMIT 1
	GetByToken(token string) (*gen.T, error)

	// ListPendingByMunicipality 查询某机构待投递的邀请
	//
	// SELECT * FROM @@table
	// WHERE municipality_id = @municipalityID AND status = 'pending'
	ListPendingByMunicipality(municipalityID int64) ([]*gen.T, error)
}

// ========== ServiceReport 相关查询接口 ==========

// ServiceReportQuerier 报障查询接口
type ServiceReportQuerier interface {
	// GetByPublicID 根据回执号查询报障
	//
	// SELECT * FROM @@table WHERE public_id = @publicID LIMIT 1
	GetByPublicID(publicID int64) (*gen.T, error)

	// ListOpenPastDeadline 查询超出 SLA 截止时间的未结案报障（调度器用）
	//
	// SELECT * FROM @@table
	// WHERE sla_deadline IS NOT NULL
	//   AND sla_deadline < NOW()
	//   AND sla_breached = false
	//   AND status NOT IN ('resolved', 'rejected')
	// {{if limit > 0}}
	// LIMIT @limit
	// {{end}}
	ListOpenPastDeadline(limit int) ([]*gen.T, error)

	// CountByStatus 按状态统计某机构的报障数量（透明度指标用）
	//
	// SELECT status, COUNT(*) as count
	// FROM @@table
	// WHERE municipality_id = @municipalityID
	// GROUP BY status
	CountByStatus(municipalityID int64) ([]gen.M, error)

	// CountByCategory 按类别统计某机构的报障数量
	//
	// SELECT category, COUNT(*) as count
	// FROM @@table
	// WHERE municipality_id = @municipalityID
	// GROUP BY category
	CountByCategory(municipalityID int64) ([]gen.M, error)
}

// ========== Ward / SLAPolicy 相关查询接口 ==========

// WardQuerier 选区查询接口
type WardQuerier interface {
	// GetByNumber 根据机构和选区号查询
	//
	// SELECT * FROM @@table
	// WHERE municipality_id = @municipalityID AND ward_number = @wardNumber
	// LIMIT 1
	GetByNumber(municipalityID int64, wardNumber int) (*gen.T, error)

	// ListByMunicipality 查询某机构的全部选区
	//
	// SELECT * FROM @@table
	// WHERE municipality_id = @municipalityID
	// ORDER BY ward_number
	ListByMunicipality(municipalityID int64) ([]*gen.T, error)
}

// SLAPolicyQuerier SLA 策略查询接口
type SLAPolicyQuerier interface {
	// GetByCategory 查询某机构某类别的 SLA 策略
	//
	// SELECT * FROM @@table
	// WHERE municipality_id = @municipalityID AND category = @category
	// LIMIT 1
	GetByCategory(municipalityID int64, category string) (*gen.T, error)
}

// ========== OnboardingStepRecord 相关查询接口 ==========

// OnboardingStepQuerier 引导步骤记录查询接口
type OnboardingStepQuerier interface {
	// ListByMunicipality 查询某机构的全部步骤记录（按插入顺序）
	//
	// SELECT * FROM @@table
	// WHERE municipality_id = @municipalityID
	// ORDER BY id
	ListByMunicipality(municipalityID int64) ([]*gen.T, error)

	// GetByStep 查询某机构某一步的记录
	//
	// SELECT * FROM @@table
	// WHERE municipality_id = @municipalityID AND step_id = @stepID
	// LIMIT 1
	GetByStep(municipalityID int64, stepID string) (*gen.T, error)
}

func Generate() error {
	if err := database.Init(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	db := database.DB()
	if db == nil {
		return errors.ErrDatabaseConnectionNil
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./internal/repository/query", // 生成代码的输出路径
		ModelPkgPath:      "CivicLink/internal/model",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface | gen.WithoutContext,
		FieldNullable:     true,
		FieldCoverable:    false,
		FieldSignable:     false,
		FieldWithIndexTag: false,
		FieldWithTypeTag:  true,
	})

	g.UseDB(db)

	// 注册现有的 model，GORM Gen 会使用这些 model 而不是生成新的
	g.ApplyBasic(
		&model.Municipality{},
		&model.StaffMember{},
		&model.StaffInvitation{},
		&model.OnboardingStepRecord{},
		&model.Ward{},
		&model.SLAPolicy{},
		&model.ServiceReport{},
	)

	// 直接应用接口，GORM Gen 会根据接口中的类型自动匹配已注册的 model
	g.ApplyInterface(func(MunicipalityQuerier) {}, &model.Municipality{})
	g.ApplyInterface(func(StaffMemberQuerier) {}, &model.StaffMember{})
	g.ApplyInterface(func(StaffInvitationQuerier) {}, &model.StaffInvitation{})
	g.ApplyInterface(func(ServiceReportQuerier) {}, &model.ServiceReport{})
	g.ApplyInterface(func(WardQuerier) {}, &model.Ward{})
	g.ApplyInterface(func(SLAPolicyQuerier) {}, &model.SLAPolicy{})
	g.ApplyInterface(func(OnboardingStepQuerier) {}, &model.OnboardingStepRecord{})

	g.Execute()

	return nil
}

func RunGenerate() {
	if err := Generate(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate code: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Code generation completed successfully!")
}
