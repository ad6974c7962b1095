package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"CivicLink/internal/model"
	"CivicLink/internal/model/dto"
	pkgerrors "CivicLink/pkg/errors"
	"CivicLink/pkg/logger"
	"CivicLink/pkg/snowflake"
	"CivicLink/storage/database"
	"CivicLink/storage/mq"
	"CivicLink/utils"
)

const invitationTTL = 7 * 24 * time.Hour

var (
	invitationService *InvitationService
	invitationOnce    sync.Once
)

func Invitation() *InvitationService {
	invitationOnce.Do(func() {
		invitationService = &InvitationService{}
	})
	return invitationService
}

type InvitationService struct{}

// BulkInvite 批量邀请员工
// 独立于向导状态，team 步骤未完成也可以提交；逐条入库后整体投递到 MQ
func (s *InvitationService) BulkInvite(ctx context.Context, staffID string, req *dto.BulkInvitationRequest) (*dto.BulkInvitationResponse, error) {
	if len(req.Invitations) == 0 {
		return nil, pkgerrors.InvitationListEmpty
	}

	staff, err := findStaffByPublicID(ctx, staffID)
	if err != nil {
		return nil, err
	}

	for _, entry := range req.Invitations {
		if !utils.ValidateEmail(entry.Email) {
			return nil, pkgerrors.InvitationEmailInvalid
		}
		if !model.ValidStaffRole(entry.Role) {
			return nil, pkgerrors.InvitationRoleInvalid
		}
	}

	expiresAt := time.Now().Add(invitationTTL)
	results := make([]dto.InvitationResult, 0, len(req.Invitations))
	queued := 0

	for _, entry := range req.Invitations {
		invitation := &model.StaffInvitation{
			MunicipalityID: staff.MunicipalityID,
			Email:          entry.Email,
			Role:           model.StaffRole(entry.Role),
			Token:          uuid.New().String(),
			Status:         model.InvitationStatusPending,
			ExpiresAt:      expiresAt,
		}

		if err := database.DB().WithContext(ctx).Create(invitation).Error; err != nil {
			logger.Logger.Error("Failed to create invitation",
				zap.String("email", entry.Email),
				zap.Error(err),
			)
			results = append(results, dto.InvitationResult{
				Email:  entry.Email,
				Role:   entry.Role,
				Status: "failed",
			})
			continue
		}

		if err := s.publishDispatch(invitation); err != nil {
			// 入库成功但投递失败：保留 pending，等人工或定时补发
			logger.Logger.Warn("Failed to publish invitation dispatch",
				zap.Int64("invitation_id", invitation.ID),
				zap.Error(err),
			)
		} else {
			// queued 只统计真正进了队列的
			queued++
		}

		results = append(results, dto.InvitationResult{
			Email:     entry.Email,
			Role:      entry.Role,
			Status:    string(invitation.Status),
			ExpiresAt: expiresAt,
		})
	}

	logger.Logger.Info("Bulk invitations queued",
		zap.Int64("municipality_id", staff.MunicipalityID),
		zap.Int("queued", queued),
		zap.Int("total", len(req.Invitations)),
	)

	return &dto.BulkInvitationResponse{
		Queued:  queued,
		Results: results,
	}, nil
}

func (s *InvitationService) publishDispatch(invitation *model.StaffInvitation) error {
	messageID, err := snowflake.NextID()
	if err != nil {
		return fmt.Errorf("failed to generate message ID: %w", err)
	}

	msg := model.InvitationDispatchMessage{
		MessageID:      fmt.Sprintf("invitation_%d", messageID),
		InvitationID:   invitation.ID,
		MunicipalityID: invitation.MunicipalityID,
		Email:          invitation.Email,
		Role:           string(invitation.Role),
		Token:          invitation.Token,
		ExpiresAt:      invitation.ExpiresAt.Format(time.RFC3339),
	}

	return mq.PublishMessage("invitation.topic", "invitation.dispatch", msg)
}

// MarkDispatched worker 投递成功后回写状态
func (s *InvitationService) MarkDispatched(ctx context.Context, invitationID int64) error {
	return database.DB().WithContext(ctx).Model(&model.StaffInvitation{}).
		Where("id = ? AND status = ?", invitationID, model.InvitationStatusPending).
		Update("status", model.InvitationStatusSent).Error
}
