package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"CivicLink/config"
	"CivicLink/internal/cache"
	"CivicLink/internal/model"
	"CivicLink/internal/model/dto"
	pkgerrors "CivicLink/pkg/errors"
	"CivicLink/pkg/logger"
	"CivicLink/pkg/metrics"
	"CivicLink/pkg/slider"
	"CivicLink/pkg/snowflake"
	"CivicLink/storage/database"
	"CivicLink/storage/mq"
	"CivicLink/utils"
)

const (
	defaultReportPageSize = 20
	maxReportPageSize     = 100
)

var (
	reportService *ReportService
	reportOnce    sync.Once
)

func Report() *ReportService {
	reportOnce.Do(func() {
		reportService = &ReportService{}
	})
	return reportService
}

type ReportService struct{}

// Submit 市民匿名提交报障
// 同一 IP 超过阈值后必须带滑块验证参数；手机号可选，只存密文和哈希
func (s *ReportService) Submit(ctx context.Context, req *dto.SubmitReportRequest, remoteIP string) (*dto.ReportData, error) {
	if !model.ValidReportCategory(req.Category) {
		return nil, pkgerrors.ReportCategoryInvalid
	}

	if err := s.checkSlider(ctx, req, remoteIP); err != nil {
		return nil, err
	}

	var municipality model.Municipality
	err := database.DB().WithContext(ctx).
		Where("code = ?", req.MunicipalityCode).
		First(&municipality).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.OnboardingNotFound
		}
		return nil, fmt.Errorf("failed to query municipality: %w", err)
	}

	publicID, err := snowflake.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate report public id: %w", err)
	}

	report := &model.ServiceReport{
		PublicID:       publicID,
		MunicipalityID: municipality.ID,
		Category:       model.ReportCategory(req.Category),
		Description:    req.Description,
		Location:       req.Location,
		Status:         model.ReportStatusSubmitted,
	}

	if req.WardNumber != nil {
		if ward := s.findWard(ctx, municipality.ID, *req.WardNumber); ward != nil {
			report.WardID = &ward.ID
		}
	}

	if req.ReporterPhone != "" {
		if !utils.ValidatePhone(req.ReporterPhone) {
			return nil, pkgerrors.ReportPhoneInvalid
		}
		cipher, err := utils.EncryptPhone(req.ReporterPhone)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt reporter phone: %w", err)
		}
		hash := utils.HashPhone(req.ReporterPhone)
		report.ReporterPhoneCipher = cipher
		report.ReporterPhoneHash = &hash
	}

	// SLA 截止时间来自该机构该类别的策略，没有策略就不设截止
	if deadline := s.slaDeadline(ctx, municipality.ID, report.Category); deadline != nil {
		report.SLADeadline = deadline
	}

	if err := database.DB().WithContext(ctx).Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to create service report: %w", err)
	}

	if _, err := cache.IncrSubmitCount(ctx, remoteIP); err != nil {
		logger.Logger.Warn("Failed to increment submit count", zap.Error(err))
	}

	if m := metrics.GetMetrics(); m != nil {
		m.RecordReportSubmitted(ctx, req.Category)
	}

	logger.Logger.Info("Service report submitted",
		zap.Int64("public_id", report.PublicID),
		zap.String("category", req.Category),
		zap.String("municipality_code", req.MunicipalityCode),
	)

	return reportData(ctx, report), nil
}

// checkSlider 匿名接口防刷：超过阈值后要求滑块验证
func (s *ReportService) checkSlider(ctx context.Context, req *dto.SubmitReportRequest, remoteIP string) error {
	required, err := cache.SliderRequired(ctx, remoteIP)
	if err != nil {
		// 计数不可用时放行，不因为 Redis 故障拦截市民
		logger.Logger.Warn("Failed to check slider requirement", zap.Error(err))
		return nil
	}
	if !required {
		return nil
	}

	// 预验证签发的一次性 token 可以代替滑块参数
	if req.VerificationToken != "" && cache.ConsumeSliderVerification(ctx, remoteIP, req.VerificationToken) {
		return nil
	}

	if req.CaptchaVerifyParam == "" {
		return pkgerrors.SliderRequired
	}

	client := slider.GetClient()
	if client == nil {
		return nil
	}

	ok, err := client.Verify(ctx, req.CaptchaVerifyParam, remoteIP, config.Cfg.CaptchaSceneID)
	if err != nil || !ok {
		return pkgerrors.SliderFailed
	}
	return nil
}

// PreVerifySlider 滑块预验证
// 验证通过签发一次性通行 token，提交报障时携带 verification_token 免去重复验证
func (s *ReportService) PreVerifySlider(ctx context.Context, req *dto.SliderVerifyRequest, remoteIP string) (*dto.SliderVerifyData, error) {
	client := slider.GetClient()
	if client == nil {
		return nil, pkgerrors.SliderFailed
	}

	ok, err := client.Verify(ctx, req.CaptchaVerifyParam, remoteIP, config.Cfg.CaptchaSceneID)
	if err != nil || !ok {
		return nil, pkgerrors.SliderFailed
	}

	token, err := cache.SetSliderVerification(ctx, remoteIP)
	if err != nil {
		return nil, fmt.Errorf("failed to issue slider verification token: %w", err)
	}

	return &dto.SliderVerifyData{
		VerificationToken: token,
		ExpiresIn:         int(cache.SliderVerifyTTL.Seconds()),
	}, nil
}

// Get 按 public_id 查报障，市民跟踪页轮询走缓存
func (s *ReportService) Get(ctx context.Context, publicID string) (*dto.ReportData, error) {
	var cached dto.ReportData
	hit, err := cache.ReportProtectedCache.Get(ctx, publicID, &cached)
	if err == nil && hit && cached.PublicID != "" {
		return &cached, nil
	}

	report, err := s.findByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	data := reportData(ctx, report)
	if err := cache.ReportProtectedCache.Set(ctx, publicID, data); err != nil {
		logger.Logger.Warn("Failed to cache report detail", zap.Error(err))
	}
	return data, nil
}

// List 员工侧报障列表，游标分页按 id 倒序
func (s *ReportService) List(ctx context.Context, staffID string, query *dto.ReportListQuery) (*dto.ReportListData, error) {
	staff, err := findStaffByPublicID(ctx, staffID)
	if err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultReportPageSize
	}
	if limit > maxReportPageSize {
		limit = maxReportPageSize
	}

	db := database.DB().WithContext(ctx).
		Where("municipality_id = ?", staff.MunicipalityID)

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.Category != "" {
		db = db.Where("category = ?", query.Category)
	}
	if query.WardID != 0 {
		db = db.Where("ward_id = ?", query.WardID)
	}
	if query.Cursor != "" {
		cursorID, err := strconv.ParseInt(query.Cursor, 10, 64)
		if err == nil {
			db = db.Where("id < ?", cursorID)
		}
	}

	var reports []model.ServiceReport
	// 多取一条判断还有没有下一页
	if err := db.Order("id DESC").Limit(limit + 1).Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list service reports: %w", err)
	}

	hasMore := len(reports) > limit
	if hasMore {
		reports = reports[:limit]
	}

	items := make([]dto.ReportData, 0, len(reports))
	for i := range reports {
		items = append(items, *reportData(ctx, &reports[i]))
	}

	result := &dto.ReportListData{
		Reports: items,
		HasMore: hasMore,
	}
	if hasMore && len(reports) > 0 {
		result.NextCursor = strconv.FormatInt(reports[len(reports)-1].ID, 10)
	}
	return result, nil
}

// Update 员工分派：状态流转、优先级、选区
// 状态只能沿 submitted→triaged→in_progress→resolved|rejected 流转
func (s *ReportService) Update(ctx context.Context, staffID, publicID string, req *dto.UpdateReportRequest) (*dto.ReportData, error) {
	staff, err := findStaffByPublicID(ctx, staffID)
	if err != nil {
		return nil, err
	}

	report, err := s.findByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if report.MunicipalityID != staff.MunicipalityID {
		return nil, pkgerrors.ReportNotFound
	}

	updates := map[string]interface{}{}
	oldStatus := report.Status
	now := time.Now()

	if req.Status != nil {
		newStatus := model.ReportStatus(*req.Status)
		switch newStatus {
		case model.ReportStatusSubmitted, model.ReportStatusTriaged,
			model.ReportStatusInProgress, model.ReportStatusResolved, model.ReportStatusRejected:
		default:
			return nil, pkgerrors.ReportStatusInvalid
		}
		if !model.CanTransition(report.Status, newStatus) {
			return nil, pkgerrors.ReportTransitionDenied
		}

		updates["status"] = newStatus
		if newStatus == model.ReportStatusTriaged {
			updates["triaged_at"] = now
		}
		if newStatus == model.ReportStatusResolved {
			updates["resolved_at"] = now
		}
		report.Status = newStatus
	}

	if req.Priority != nil {
		if *req.Priority < 1 || *req.Priority > 5 {
			return nil, pkgerrors.ReportStatusInvalid
		}
		updates["priority"] = *req.Priority
		report.Priority = *req.Priority
	}

	if req.WardNumber != nil {
		if ward := s.findWard(ctx, staff.MunicipalityID, *req.WardNumber); ward != nil {
			updates["ward_id"] = ward.ID
			report.WardID = &ward.ID
		}
	}

	if req.AssigneeID != nil {
		assignee, err := findStaffByPublicID(ctx, *req.AssigneeID)
		if err != nil {
			return nil, err
		}
		updates["assignee_id"] = assignee.ID
		report.AssigneeID = &assignee.ID
	}

	if len(updates) == 0 {
		return reportData(ctx, report), nil
	}

	err = database.DB().WithContext(ctx).Model(&model.ServiceReport{}).
		Where("id = ?", report.ID).
		Updates(updates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update service report: %w", err)
	}

	// 缓存里的旧状态立即作废
	if err := cache.ReportProtectedCache.Delete(ctx, publicID); err != nil {
		logger.Logger.Warn("Failed to invalidate report cache", zap.Error(err))
	}

	if report.Status != oldStatus {
		s.afterStatusChange(ctx, report, oldStatus)
	}

	return reportData(ctx, report), nil
}

// Resolve 结案快捷路径，等价于 PATCH status=resolved
func (s *ReportService) Resolve(ctx context.Context, staffID, publicID string, req *dto.ResolveReportRequest) (*dto.ReportData, error) {
	resolved := string(model.ReportStatusResolved)
	return s.Update(ctx, staffID, publicID, &dto.UpdateReportRequest{Status: &resolved})
}

// afterStatusChange 状态变更后的副作用：指标 + 市民短信通知消息
func (s *ReportService) afterStatusChange(ctx context.Context, report *model.ServiceReport, oldStatus model.ReportStatus) {
	if report.Status == model.ReportStatusResolved {
		if m := metrics.GetMetrics(); m != nil {
			hours := time.Since(report.CreatedAt).Hours()
			m.RecordReportResolved(ctx, string(report.Category), hours)
		}
	}

	// 没留手机号的报障无从通知
	if report.ReporterPhoneHash == nil || *report.ReporterPhoneHash == "" {
		return
	}

	messageID, err := snowflake.NextID()
	if err != nil {
		logger.Logger.Error("Failed to generate message ID", zap.Error(err))
		return
	}

	msg := model.ReportStatusMessage{
		MessageID:      fmt.Sprintf("report_status_%d", messageID),
		ReportPublicID: report.PublicID,
		MunicipalityID: report.MunicipalityID,
		Category:       string(report.Category),
		OldStatus:      string(oldStatus),
		NewStatus:      string(report.Status),
		PhoneHash:      *report.ReporterPhoneHash,
		OccurredAt:     time.Now().Format(time.RFC3339),
	}

	routingKey := fmt.Sprintf("notification.sms.%s", report.Status)
	if err := mq.PublishMessage("notification.topic", routingKey, msg); err != nil {
		logger.Logger.Error("Failed to publish report status notification",
			zap.Int64("report_public_id", report.PublicID),
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}

func (s *ReportService) findByPublicID(ctx context.Context, publicID string) (*model.ServiceReport, error) {
	id, err := strconv.ParseInt(publicID, 10, 64)
	if err != nil {
		return nil, pkgerrors.ReportNotFound
	}

	var report model.ServiceReport
	err = database.DB().WithContext(ctx).
		Where("public_id = ?", id).
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ReportNotFound
		}
		return nil, fmt.Errorf("failed to query service report: %w", err)
	}
	return &report, nil
}

func (s *ReportService) findWard(ctx context.Context, municipalityID int64, wardNumber int) *model.Ward {
	var ward model.Ward
	err := database.DB().WithContext(ctx).
		Where("municipality_id = ? AND ward_number = ?", municipalityID, wardNumber).
		First(&ward).Error
	if err != nil {
		return nil
	}
	return &ward
}

func (s *ReportService) slaDeadline(ctx context.Context, municipalityID int64, category model.ReportCategory) *time.Time {
	var policy model.SLAPolicy
	err := database.DB().WithContext(ctx).
		Where("municipality_id = ? AND category = ?", municipalityID, category).
		First(&policy).Error
	if err != nil {
		return nil
	}

	deadline := time.Now().Add(time.Duration(policy.ResolutionHours) * time.Hour)
	return &deadline
}

func reportData(ctx context.Context, report *model.ServiceReport) *dto.ReportData {
	data := &dto.ReportData{
		PublicID:    strconv.FormatInt(report.PublicID, 10),
		Category:    string(report.Category),
		Description: report.Description,
		Location:    report.Location,
		Status:      string(report.Status),
		Priority:    report.Priority,
		SubmittedAt: report.CreatedAt,
		TriagedAt:   report.TriagedAt,
		ResolvedAt:  report.ResolvedAt,
		SLADeadline: report.SLADeadline,
		SLABreached: report.SLABreached,
	}

	if report.WardID != nil {
		var ward model.Ward
		if err := database.DB().WithContext(ctx).First(&ward, *report.WardID).Error; err == nil {
			data.WardNumber = &ward.WardNumber
		}
	}

	return data
}
