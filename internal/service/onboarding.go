package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"CivicLink/internal/cache"
	"CivicLink/internal/model"
	"CivicLink/internal/model/dto"
	"CivicLink/internal/wizard"
	pkgerrors "CivicLink/pkg/errors"
	"CivicLink/pkg/logger"
	"CivicLink/pkg/metrics"
	"CivicLink/storage/database"
)

var (
	onboardingService *OnboardingService
	onboardingOnce    sync.Once
)

func Onboarding() *OnboardingService {
	onboardingOnce.Do(func() {
		onboardingService = &OnboardingService{
			wizardCache: cache.NewWizardCache(),
		}
	})
	return onboardingService
}

type OnboardingService struct {
	wizardCache *cache.WizardCache
}

// ========== wizard 端口的 gorm / redis 适配 ==========

// gormProgressStore 绑定到单个机构的进度持久化
type gormProgressStore struct {
	municipality *model.Municipality
}

func (s *gormProgressStore) Load(ctx context.Context) ([]wizard.PersistedStep, error) {
	var records []model.OnboardingStepRecord
	err := database.DB().WithContext(ctx).
		Where("municipality_id = ?", s.municipality.ID).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load onboarding steps: %w", err)
	}

	steps := make([]wizard.PersistedStep, 0, len(records))
	for _, r := range records {
		steps = append(steps, wizard.PersistedStep{
			StepID:      wizard.StepID(r.StepID),
			IsCompleted: r.IsCompleted,
			StepData:    wizard.StepData(r.StepData),
		})
	}
	return steps, nil
}

func (s *gormProgressStore) SaveStep(ctx context.Context, step wizard.PersistedStep) error {
	record := &model.OnboardingStepRecord{
		MunicipalityID: s.municipality.ID,
		StepID:         string(step.StepID),
		IsCompleted:    step.IsCompleted,
		StepData:       datatypes.JSONMap(step.StepData),
	}
	if record.StepData == nil {
		record.StepData = datatypes.JSONMap{}
	}

	return database.DB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "municipality_id"}, {Name: "step_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_completed", "step_data", "updated_at"}),
	}).Create(record).Error
}

func (s *gormProgressStore) Complete(ctx context.Context) error {
	now := time.Now()
	return database.DB().WithContext(ctx).Model(&model.Municipality{}).
		Where("id = ?", s.municipality.ID).
		Updates(map[string]interface{}{
			"status":                  model.MunicipalityStatusActive,
			"onboarding_completed_at": now,
		}).Error
}

// saveDraft 幂等保存草稿，不改动 is_completed（PUT steps/:step_id 的语义）
func (s *gormProgressStore) saveDraft(ctx context.Context, stepID wizard.StepID, data wizard.StepData) error {
	record := &model.OnboardingStepRecord{
		MunicipalityID: s.municipality.ID,
		StepID:         string(stepID),
		IsCompleted:    false,
		StepData:       datatypes.JSONMap(data),
	}
	if record.StepData == nil {
		record.StepData = datatypes.JSONMap{}
	}

	return database.DB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "municipality_id"}, {Name: "step_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"step_data", "updated_at"}),
	}).Create(record).Error
}

// redisFallback 绑定到机构 public_id 的兜底缓存
type redisFallback struct {
	cache    *cache.WizardCache
	publicID int64
}

func (f *redisFallback) Load(ctx context.Context) (*wizard.CacheEntry, error) {
	raw, err := f.cache.Load(ctx, f.publicID)
	if err != nil || raw == nil {
		return nil, err
	}

	entry := &wizard.CacheEntry{
		Step: raw.Step,
		Data: make(map[wizard.StepID]wizard.StepData, len(raw.Data)),
	}
	for id, data := range raw.Data {
		entry.Data[wizard.StepID(id)] = wizard.StepData(data)
	}
	return entry, nil
}

func (f *redisFallback) Save(ctx context.Context, entry wizard.CacheEntry) error {
	raw := cache.WizardCacheEntry{
		Step: entry.Step,
		Data: make(map[string]map[string]interface{}, len(entry.Data)),
	}
	for id, data := range entry.Data {
		raw.Data[string(id)] = data
	}
	return f.cache.Save(ctx, f.publicID, raw)
}

func (f *redisFallback) Delete(ctx context.Context) error {
	return f.cache.Delete(ctx, f.publicID)
}

// ========== service 操作 ==========

// loadSession 解析员工身份并恢复其机构的向导会话
func (s *OnboardingService) loadSession(ctx context.Context, staffID string) (*wizard.Session, *model.Municipality, error) {
	staff, err := findStaffByPublicID(ctx, staffID)
	if err != nil {
		return nil, nil, err
	}

	var municipality model.Municipality
	err = database.DB().WithContext(ctx).
		Where("id = ?", staff.MunicipalityID).
		First(&municipality).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.OnboardingNotFound
		}
		return nil, nil, fmt.Errorf("failed to query municipality: %w", err)
	}

	store := &gormProgressStore{municipality: &municipality}
	fallback := &redisFallback{cache: s.wizardCache, publicID: municipality.PublicID}

	session := wizard.NewSession(store, fallback)
	if err := session.Load(ctx); err != nil {
		return nil, nil, err
	}

	if m := metrics.GetMetrics(); m != nil && session.Index() > 0 {
		m.WizardResumeTotal.Add(ctx, 1)
	}

	return session, &municipality, nil
}

// GetProgress 当前进度及渲染结果
func (s *OnboardingService) GetProgress(ctx context.Context, staffID string) (*dto.OnboardingProgressData, error) {
	session, _, err := s.loadSession(ctx, staffID)
	if err != nil {
		return nil, err
	}

	return renderProgressDTO(session), nil
}

// SaveStepDraft 保存单步表单草稿，幂等，最后写入者胜出
func (s *OnboardingService) SaveStepDraft(ctx context.Context, staffID, stepID string, data map[string]interface{}) (*dto.OnboardingProgressData, error) {
	id := wizard.StepID(stepID)
	if !id.Valid() || !id.CarriesData() {
		return nil, pkgerrors.OnboardingStepInvalid
	}

	session, municipality, err := s.loadSession(ctx, staffID)
	if err != nil {
		return nil, err
	}

	if err := session.SetStepData(ctx, id, wizard.StepData(data)); err != nil {
		return nil, err
	}

	store := &gormProgressStore{municipality: municipality}
	if err := store.saveDraft(ctx, id, wizard.StepData(data)); err != nil {
		return nil, err
	}

	return renderProgressDTO(session), nil
}

// Advance 校验通过后推进，携带数据的步骤先落库再移动游标
func (s *OnboardingService) Advance(ctx context.Context, staffID string) (*dto.OnboardingProgressData, error) {
	session, _, err := s.loadSession(ctx, staffID)
	if err != nil {
		return nil, err
	}

	completedStep := session.CurrentStep()
	if err := session.Advance(ctx); err != nil {
		return nil, err
	}

	if m := metrics.GetMetrics(); m != nil {
		m.RecordStepCompleted(ctx, string(completedStep))
	}

	return renderProgressDTO(session), nil
}

// Back 回退一步，纯游标移动
func (s *OnboardingService) Back(ctx context.Context, staffID string) (*dto.OnboardingProgressData, error) {
	session, _, err := s.loadSession(ctx, staffID)
	if err != nil {
		return nil, err
	}

	session.Back(ctx)
	return renderProgressDTO(session), nil
}

// Skip 跳过当前步骤，记录 is_completed=false
func (s *OnboardingService) Skip(ctx context.Context, staffID string) (*dto.OnboardingProgressData, error) {
	session, _, err := s.loadSession(ctx, staffID)
	if err != nil {
		return nil, err
	}

	skipped := session.CurrentStep()
	if err := session.Skip(ctx); err != nil {
		return nil, err
	}

	if m := metrics.GetMetrics(); m != nil {
		m.RecordStepSkipped(ctx, string(skipped))
	}

	return renderProgressDTO(session), nil
}

// Complete 完成引导：机构激活、SLA 策略与选区落库、兜底缓存删除
// 物化失败只记日志，不阻塞完成
func (s *OnboardingService) Complete(ctx context.Context, staffID string) (*dto.CompleteOnboardingResponse, error) {
	session, municipality, err := s.loadSession(ctx, staffID)
	if err != nil {
		return nil, err
	}

	if err := session.Complete(ctx); err != nil {
		return nil, err
	}

	if err := s.materializeSLAPolicies(ctx, municipality, session.StepData(wizard.StepSLA)); err != nil {
		logger.Logger.Warn("Failed to materialize SLA policies",
			zap.Int64("municipality_id", municipality.ID),
			zap.Error(err),
		)
	}

	if err := s.materializeWards(ctx, municipality, session.StepData(wizard.StepWards)); err != nil {
		logger.Logger.Warn("Failed to materialize wards",
			zap.Int64("municipality_id", municipality.ID),
			zap.Error(err),
		)
	}

	if m := metrics.GetMetrics(); m != nil {
		m.WizardCompletedTotal.Add(ctx, 1)
	}

	logger.Logger.Info("Municipality onboarding completed",
		zap.Int64("municipality_id", municipality.ID),
		zap.String("code", municipality.Code),
	)

	now := time.Now()
	return &dto.CompleteOnboardingResponse{
		MunicipalityID: fmt.Sprintf("%d", municipality.PublicID),
		Status:         string(model.MunicipalityStatusActive),
		CompletedAt:    now.Format(time.RFC3339),
	}, nil
}

// materializeSLAPolicies 把 sla 步骤的草稿转成 SLAPolicy 行
// 期望结构 {"policies": [{"category": ..., "responseHours": ..., "resolutionHours": ...}]}
func (s *OnboardingService) materializeSLAPolicies(ctx context.Context, municipality *model.Municipality, data wizard.StepData) error {
	if data == nil {
		return nil
	}

	rawPolicies, ok := data["policies"].([]interface{})
	if !ok {
		return nil
	}

	for _, raw := range rawPolicies {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		category, _ := entry["category"].(string)
		if !model.ValidReportCategory(category) {
			continue
		}

		policy := &model.SLAPolicy{
			MunicipalityID:  municipality.ID,
			Category:        model.ReportCategory(category),
			ResponseHours:   intFromJSON(entry["responseHours"], 24),
			ResolutionHours: intFromJSON(entry["resolutionHours"], 168),
		}

		err := database.DB().WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "municipality_id"}, {Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"response_hours", "resolution_hours", "updated_at"}),
		}).Create(policy).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// materializeWards 把 wards 步骤的草稿转成 Ward 行
// 按 municipality_id+ward_number 幂等覆盖，报障分派和透明度统计按选区关联
func (s *OnboardingService) materializeWards(ctx context.Context, municipality *model.Municipality, data wizard.StepData) error {
	for _, ward := range model.WardsFromStepData(municipality.ID, map[string]interface{}(data)) {
		w := ward
		err := database.DB().WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "municipality_id"}, {Name: "ward_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "councillor_name", "councillor_phone", "updated_at"}),
		}).Create(&w).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func renderProgressDTO(session *wizard.Session) *dto.OnboardingProgressData {
	steps := session.Steps()
	progress := wizard.RenderProgress(steps, session.Index())

	views := make([]dto.OnboardingStepView, 0, len(steps))
	for i, step := range steps {
		views = append(views, dto.OnboardingStepView{
			StepID:      string(step.ID),
			Title:       step.Title,
			State:       string(progress.Steps[i].State),
			IsCompleted: step.Completed,
			StepData:    session.StepData(step.ID),
		})
	}

	return &dto.OnboardingProgressData{
		CurrentStep: string(progress.CurrentStep),
		Percent:     progress.Percent,
		Steps:       views,
	}
}

// intFromJSON json 数字解出来是 float64
func intFromJSON(v interface{}, fallback int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return fallback
}

// findStaffByPublicID 按 public_id 查员工，跨 service 复用
func findStaffByPublicID(ctx context.Context, staffID string) (*model.StaffMember, error) {
	var staffIDInt int64
	if _, err := fmt.Sscanf(staffID, "%d", &staffIDInt); err != nil {
		return nil, pkgerrors.InvalidUserID
	}

	var staff model.StaffMember
	err := database.DB().WithContext(ctx).
		Where("public_id = ?", staffIDInt).
		First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Unauthorized
		}
		return nil, fmt.Errorf("failed to query staff member: %w", err)
	}

	return &staff, nil
}
