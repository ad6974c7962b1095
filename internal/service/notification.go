package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"CivicLink/config"
	"CivicLink/internal/cache"
	"CivicLink/internal/model"
	pkgerrors "CivicLink/pkg/errors"
	"CivicLink/pkg/logger"
	"CivicLink/pkg/metrics"
	"CivicLink/pkg/sms"
	"CivicLink/storage/database"
	"CivicLink/utils"
)

var (
	notificationService *NotificationService
	notificationOnce    sync.Once
)

func Notification() *NotificationService {
	notificationOnce.Do(func() {
		notificationService = &NotificationService{}
	})
	return notificationService
}

type NotificationService struct{}

// HandleInvitationDispatch 处理邀请投递消息
// 邮件投递由外部网关完成，这里负责回写状态；投递失败保留 pending 可重试
func (s *NotificationService) HandleInvitationDispatch(ctx context.Context, msg model.InvitationDispatchMessage) error {
	if err := Invitation().MarkDispatched(ctx, msg.InvitationID); err != nil {
		return fmt.Errorf("failed to mark invitation dispatched: %w", err)
	}

	logger.Logger.Info("Invitation dispatched",
		zap.Int64("invitation_id", msg.InvitationID),
		zap.Int64("municipality_id", msg.MunicipalityID),
		zap.String("role", msg.Role),
	)
	return nil
}

// HandleReportStatus 处理报障状态变更通知
// 解出报障人手机号并发送状态短信，短信网关走熔断器保护
func (s *NotificationService) HandleReportStatus(ctx context.Context, msg model.ReportStatusMessage) error {
	phone, err := s.reporterPhone(ctx, msg.ReportPublicID)
	if err != nil {
		return err
	}
	if phone == "" {
		// 市民没留手机号，消息直接完结
		return nil
	}

	templateParam := fmt.Sprintf(`{"report_id":"%d","status":"%s"}`, msg.ReportPublicID, msg.NewStatus)

	err = cache.SMSBreaker.Call(ctx, func() error {
		client := sms.GetClient()
		if client == nil {
			return errors.New("sms client not initialized")
		}
		return client.SendSingle(ctx, phone, config.Cfg.SMSSignName, config.Cfg.SMSTemplateCode, templateParam)
	})

	if m := metrics.GetMetrics(); m != nil {
		m.RecordSMS(ctx, msg.Category, err)
	}

	if err != nil {
		return fmt.Errorf("failed to send status SMS: %w", err)
	}

	logger.Logger.Info("Report status SMS sent",
		zap.Int64("report_public_id", msg.ReportPublicID),
		zap.String("new_status", msg.NewStatus),
	)
	return nil
}

// reporterPhone 从报障记录解密手机号，未留手机号返回空串
// 记录不存在和密文无法解密是永久性失败，返回 SkipMessageError 让消费者跳过而不是无限重试
func (s *NotificationService) reporterPhone(ctx context.Context, reportPublicID int64) (string, error) {
	var report model.ServiceReport
	err := database.DB().WithContext(ctx).
		Where("public_id = ?", reportPublicID).
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", &pkgerrors.SkipMessageError{Reason: fmt.Sprintf("report not found: public_id=%d", reportPublicID)}
		}
		return "", fmt.Errorf("failed to query report: %w", err)
	}

	if len(report.ReporterPhoneCipher) == 0 {
		return "", nil
	}

	phone, err := utils.DecryptPhone(report.ReporterPhoneCipher)
	if err != nil {
		// 密文损坏或密钥已轮换，重试不会恢复
		return "", &pkgerrors.SkipMessageError{Reason: fmt.Sprintf("failed to decrypt reporter phone: %v", err)}
	}
	return phone, nil
}
